package domain

// ProfileAnalysis is the per-card summary shown next to a found profile.
type ProfileAnalysis struct {
	EngagementScore int           `json:"engagement_score"`
	Followers       string        `json:"followers"`
	AudienceTier    AudienceTier  `json:"audience_tier,omitempty"`
	AudienceBar     int           `json:"audience_bar,omitempty"`
	ActivityLevel   ActivityLevel `json:"activity_level,omitempty"`
}

// Analyze builds the card summary for a result. Results without a profile
// get a zero score and no tiers.
func Analyze(r SearchResult) ProfileAnalysis {
	a := ProfileAnalysis{
		EngagementScore: EngagementScore(r.Profile, r.Platform),
		Followers:       UnknownCount,
	}
	if r.Profile == nil {
		return a
	}

	if r.Profile.Followers != nil {
		f := r.Profile.FollowerCount()
		a.Followers = FormatInt(f)
		a.AudienceTier = AudienceTierOf(f)
		a.AudienceBar = AudienceBarPercent(f)
	}
	if r.Platform.Name == GitHub {
		if repos, ok := r.Profile.PublicRepos(); ok && repos > 0 {
			a.ActivityLevel = ActivityLevelOf(repos)
		}
	}
	return a
}
