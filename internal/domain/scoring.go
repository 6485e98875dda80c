package domain

import "math"

const (
	// Follower brackets shared by the scoring functions.
	FollowersSmall  = 1000
	FollowersMedium = 10000
	FollowersLarge  = 100000

	MaxScore = 100
)

// Per-card engagement weights.
const (
	EngagementBaseSmall  = 10
	EngagementBaseMedium = 30
	EngagementBaseLarge  = 50
	EngagementBaseHuge   = 70

	EngagementNameBonus   = 5
	EngagementBioBonus    = 10
	EngagementAvatarBonus = 5

	EngagementRepoWeight = 2
	EngagementRepoCap    = 20
)

// Network overview weights.
const (
	NetworkBaseSmall  = 20
	NetworkBaseMedium = 40
	NetworkBaseLarge  = 60
	NetworkBaseHuge   = 80

	NetworkRepoThreshold  = 20
	NetworkRepoBonus      = 20
	NetworkTweetThreshold = 1000
	NetworkTweetBonus     = 15
	NetworkLikeThreshold  = 10000
	NetworkLikeBonus      = 25
)

// AudienceTier buckets an audience size.
type AudienceTier string

const (
	AudienceSmall     AudienceTier = "Small"
	AudienceMedium    AudienceTier = "Medium"
	AudienceLarge     AudienceTier = "Large"
	AudienceVeryLarge AudienceTier = "Very Large"
)

// ActivityLevel buckets a GitHub repository count.
type ActivityLevel string

const (
	ActivityLow        ActivityLevel = "Low"
	ActivityModerate   ActivityLevel = "Moderate"
	ActivityActive     ActivityLevel = "Active"
	ActivityVeryActive ActivityLevel = "Very Active"
)

// followerBracket picks one of four values by follower count, lower bounds
// inclusive. ok is false when no follower count is known.
func followerBracket(p *Profile, small, medium, large, huge int) (int, bool) {
	if !p.HasFollowers() {
		return 0, false
	}
	switch f := p.FollowerCount(); {
	case f < FollowersSmall:
		return small, true
	case f < FollowersMedium:
		return medium, true
	case f < FollowersLarge:
		return large, true
	default:
		return huge, true
	}
}

// EngagementScore is the per-card heuristic: follower bracket, profile
// completeness and, for GitHub, repository count. Always in [0, 100].
func EngagementScore(p *Profile, platform Platform) int {
	if p == nil {
		return 0
	}

	score, _ := followerBracket(p, EngagementBaseSmall, EngagementBaseMedium, EngagementBaseLarge, EngagementBaseHuge)

	if p.Name != "" {
		score += EngagementNameBonus
	}
	if p.Bio != "" {
		score += EngagementBioBonus
	}
	if p.AvatarURL != "" {
		score += EngagementAvatarBonus
	}

	if platform.Name == GitHub {
		if repos, ok := p.PublicRepos(); ok && repos > 0 {
			score += int(min(repos*EngagementRepoWeight, EngagementRepoCap))
		}
	}

	return clampScore(score)
}

// PlatformEngagementScore is the network overview heuristic. It differs
// from EngagementScore on purpose and is kept separate.
func PlatformEngagementScore(p *Profile, platform Platform) int {
	if p == nil {
		return 0
	}

	score, _ := followerBracket(p, NetworkBaseSmall, NetworkBaseMedium, NetworkBaseLarge, NetworkBaseHuge)

	switch platform.Name {
	case GitHub:
		if repos, ok := p.PublicRepos(); ok && repos > NetworkRepoThreshold {
			score += NetworkRepoBonus
		}
	case Twitter:
		if tweets, ok := p.Tweets(); ok && tweets > NetworkTweetThreshold {
			score += NetworkTweetBonus
		}
	case TikTok:
		if likes, ok := p.Likes(); ok && likes > NetworkLikeThreshold {
			score += NetworkLikeBonus
		}
	}

	return clampScore(score)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// AudienceTierOf buckets a follower count. Upper bounds are inclusive:
// exactly 1000 is still Small.
func AudienceTierOf(followers int64) AudienceTier {
	switch {
	case followers > FollowersLarge:
		return AudienceVeryLarge
	case followers > FollowersMedium:
		return AudienceLarge
	case followers > FollowersSmall:
		return AudienceMedium
	default:
		return AudienceSmall
	}
}

// AudienceBarPercent is the gauge width drawn for an audience tier.
func AudienceBarPercent(followers int64) int {
	switch AudienceTierOf(followers) {
	case AudienceVeryLarge:
		return 100
	case AudienceLarge:
		return 75
	case AudienceMedium:
		return 50
	default:
		return 25
	}
}

// ActivityLevelOf buckets a GitHub public repository count.
func ActivityLevelOf(publicRepos int64) ActivityLevel {
	switch {
	case publicRepos > 50:
		return ActivityVeryActive
	case publicRepos > 20:
		return ActivityActive
	case publicRepos > 5:
		return ActivityModerate
	default:
		return ActivityLow
	}
}

// Reach aggregates one search's results.
type Reach struct {
	TotalFollowers       int64 `json:"total_followers"`
	PlatformsFound       int   `json:"platforms_found"`
	TotalPlatforms       int   `json:"total_platforms"`
	PresenceScorePercent int   `json:"presence_score_percent"`
}

// AggregateReach sums followers over found results and rates presence
// against totalPlatforms, normally the registry size.
func AggregateReach(results []SearchResult, totalPlatforms int) Reach {
	r := Reach{TotalPlatforms: totalPlatforms}
	for _, res := range results {
		if !res.Exists {
			continue
		}
		r.PlatformsFound++
		if res.Profile.HasFollowers() {
			r.TotalFollowers += res.Profile.FollowerCount()
		}
	}
	if totalPlatforms > 0 {
		r.PresenceScorePercent = int(math.Round(float64(r.PlatformsFound) / float64(totalPlatforms) * 100))
	}
	return r
}

// AudienceShare is one bar of the audience distribution chart.
type AudienceShare struct {
	Platform  string `json:"platform"`
	Color     string `json:"color"`
	Followers int64  `json:"followers"`
	Percent   int    `json:"percent"`
}

// AudienceDistribution scales each found result's followers against the
// largest audience. Results without followers are skipped.
func AudienceDistribution(results []SearchResult) []AudienceShare {
	var maxFollowers int64
	for _, r := range results {
		if r.Exists && r.Profile.HasFollowers() {
			maxFollowers = max(maxFollowers, r.Profile.FollowerCount())
		}
	}
	if maxFollowers == 0 {
		return []AudienceShare{}
	}

	shares := make([]AudienceShare, 0, len(results))
	for _, r := range results {
		if !r.Exists || !r.Profile.HasFollowers() {
			continue
		}
		f := r.Profile.FollowerCount()
		shares = append(shares, AudienceShare{
			Platform:  r.Platform.Name,
			Color:     r.Platform.Color,
			Followers: f,
			Percent:   int(math.Round(float64(f) / float64(maxFollowers) * 100)),
		})
	}
	return shares
}

// PlatformEngagement is one row of the network overview chart.
type PlatformEngagement struct {
	Platform string `json:"platform"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
}

// NetworkOverview is the cross-platform summary of one search.
type NetworkOverview struct {
	Engagement []PlatformEngagement `json:"engagement"`
	Audience   []AudienceShare      `json:"audience"`
	Reach      Reach                `json:"reach"`
}

// BuildNetworkOverview computes the overview for found results.
func BuildNetworkOverview(results []SearchResult, totalPlatforms int) NetworkOverview {
	found := Found(results)
	engagement := make([]PlatformEngagement, 0, len(found))
	for _, r := range found {
		engagement = append(engagement, PlatformEngagement{
			Platform: r.Platform.Name,
			Color:    r.Platform.Color,
			Score:    PlatformEngagementScore(r.Profile, r.Platform),
		})
	}
	return NetworkOverview{
		Engagement: engagement,
		Audience:   AudienceDistribution(results),
		Reach:      AggregateReach(results, totalPlatforms),
	}
}
