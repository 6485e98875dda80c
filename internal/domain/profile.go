package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Profile is the public data the lookup backend returned for a found account.
//
// The backend sends a loosely shaped object whose fields vary per platform.
// Fields every platform may carry live in the embedded CommonProfile; the
// platform specific ones live in exactly one of the extension pointers,
// selected by the platform the profile belongs to.
type Profile struct {
	CommonProfile

	GitHub    *GitHubProfile    `json:"github,omitempty"`
	Twitter   *TwitterProfile   `json:"twitter,omitempty"`
	Reddit    *RedditProfile    `json:"reddit,omitempty"`
	TikTok    *TikTokProfile    `json:"tiktok,omitempty"`
	Spotify   *SpotifyProfile   `json:"spotify,omitempty"`
	LinkedIn  *LinkedInProfile  `json:"linkedin,omitempty"`
	Instagram *InstagramProfile `json:"instagram,omitempty"`
}

// CommonProfile holds the fields shared by all platforms. Nil or empty means
// the backend did not send the field.
type CommonProfile struct {
	Username        FlexString `json:"username,omitempty"`
	Name            FlexString `json:"name,omitempty"`
	Bio             FlexString `json:"bio,omitempty"`
	AvatarURL       FlexString `json:"avatar_url,omitempty"`
	ImageURL        FlexString `json:"image_url,omitempty"`
	URL             FlexString `json:"url,omitempty"`
	ExternalURL     FlexString `json:"external_url,omitempty"`
	Followers       *Count     `json:"followers,omitempty"`
	FollowersApprox FlexString `json:"followersApprox,omitempty"`
	CreatedAt       FlexString `json:"created_at,omitempty"`
	Type            FlexString `json:"type,omitempty"`
	Simulated       FlexBool   `json:"simulated,omitempty"`
	Scraped         FlexBool   `json:"scraped,omitempty"`
}

type GitHubProfile struct {
	PublicRepos *Count       `json:"public_repos,omitempty"`
	RecentRepos []GitHubRepo `json:"recent_repos,omitempty"`
}

type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Stars       Count  `json:"stars,omitempty"`
	Language    string `json:"language,omitempty"`
}

type TwitterProfile struct {
	Tweets       *Count  `json:"tweets,omitempty"`
	RecentTweets []Tweet `json:"recent_tweets,omitempty"`
}

// Tweet is one recent tweet. The backend sends its time as "date"; some
// payloads use "created_at" instead.
type Tweet struct {
	Text      string `json:"text"`
	Date      string `json:"date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Likes     Count  `json:"likes,omitempty"`
	Retweets  Count  `json:"retweets,omitempty"`
}

// PostedAt returns the tweet time under whichever key the backend used.
func (t Tweet) PostedAt() string {
	if t.Date != "" {
		return t.Date
	}
	return t.CreatedAt
}

type RedditProfile struct {
	Karma        *Count `json:"karma,omitempty"`
	LinkKarma    *Count `json:"link_karma,omitempty"`
	CommentKarma *Count `json:"comment_karma,omitempty"`
}

type TikTokProfile struct {
	Likes *Count `json:"likes,omitempty"`
}

type SpotifyProfile struct {
	MonthlyListeners *Count     `json:"monthly_listeners,omitempty"`
	Popularity       *Count     `json:"popularity,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	TopTracks        []Track    `json:"top_tracks,omitempty"`
	Albums           []Album    `json:"albums,omitempty"`
	Playlists        []Playlist `json:"playlists,omitempty"`
}

type Track struct {
	Name       string `json:"name"`
	Album      string `json:"album,omitempty"`
	DurationMS Count  `json:"duration_ms,omitempty"`
	Popularity Count  `json:"popularity,omitempty"`
}

type Album struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	TotalTracks Count  `json:"total_tracks,omitempty"`
}

type Playlist struct {
	Name        string `json:"name"`
	ImageURL    string `json:"image_url,omitempty"`
	TotalTracks Count  `json:"total_tracks,omitempty"`
	Followers   *Count `json:"followers,omitempty"`
}

type LinkedInProfile struct {
	Connections *Count `json:"connections,omitempty"`
}

type InstagramProfile struct {
	Posts *Count `json:"posts,omitempty"`
}

// ProfileError reports a found profile that could not be fully decoded.
// Profile is nil when the payload was not an object; otherwise it holds the
// common fields and the platform extension is left out.
type ProfileError struct {
	Endpoint string
	Err      error
}

func (e *ProfileError) Error() string {
	return fmt.Sprintf("decode %s profile: %v", e.Endpoint, e.Err)
}

func (e *ProfileError) Unwrap() error { return e.Err }

// DecodeProfile parses a raw backend profile object for the given platform.
// Common fields are always decoded; the extension matching the platform name
// is decoded from the same object. A non-nil profile is usable even when a
// *ProfileError is returned with it.
func DecodeProfile(platform Platform, raw json.RawMessage) (*Profile, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	p := &Profile{}
	if err := json.Unmarshal(raw, &p.CommonProfile); err != nil {
		return nil, &ProfileError{Endpoint: platform.Endpoint, Err: err}
	}

	var ext interface{}
	switch platform.Name {
	case GitHub:
		p.GitHub = &GitHubProfile{}
		ext = p.GitHub
	case Twitter:
		p.Twitter = &TwitterProfile{}
		ext = p.Twitter
	case Reddit:
		p.Reddit = &RedditProfile{}
		ext = p.Reddit
	case TikTok:
		p.TikTok = &TikTokProfile{}
		ext = p.TikTok
	case Spotify:
		p.Spotify = &SpotifyProfile{}
		ext = p.Spotify
	case LinkedIn:
		p.LinkedIn = &LinkedInProfile{}
		ext = p.LinkedIn
	case Instagram:
		p.Instagram = &InstagramProfile{}
		ext = p.Instagram
	default:
		return p, nil
	}

	if err := json.Unmarshal(raw, ext); err != nil {
		return &Profile{CommonProfile: p.CommonProfile}, &ProfileError{Endpoint: platform.Endpoint, Err: err}
	}
	return p, nil
}

// HasFollowers reports whether a non-zero follower count is known.
// A zero count is treated like a missing one.
func (p *Profile) HasFollowers() bool {
	return p != nil && p.Followers != nil && *p.Followers > 0
}

// FollowerCount returns the follower count or 0.
func (p *Profile) FollowerCount() int64 {
	if p == nil || p.Followers == nil {
		return 0
	}
	return int64(*p.Followers)
}

// PublicRepos returns the GitHub repository count, if known.
func (p *Profile) PublicRepos() (int64, bool) {
	if p == nil || p.GitHub == nil || p.GitHub.PublicRepos == nil {
		return 0, false
	}
	return int64(*p.GitHub.PublicRepos), true
}

// Tweets returns the Twitter tweet count, if known.
func (p *Profile) Tweets() (int64, bool) {
	if p == nil || p.Twitter == nil || p.Twitter.Tweets == nil {
		return 0, false
	}
	return int64(*p.Twitter.Tweets), true
}

// Likes returns the TikTok like count, if known.
func (p *Profile) Likes() (int64, bool) {
	if p == nil || p.TikTok == nil || p.TikTok.Likes == nil {
		return 0, false
	}
	return int64(*p.TikTok.Likes), true
}

// Count is a numeric profile metric. The backend is loosely typed, so JSON
// numbers (integral or not) and numeric strings are accepted; anything else
// decodes to zero.
type Count int64

// NewCount returns a pointer to a Count.
func NewCount(n int64) *Count {
	c := Count(n)
	return &c
}

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*c = 0
		return nil
	}
	*c = Count(int64(f))
	return nil
}

// FlexString is a text profile field. Numbers and booleans are kept as
// written; objects and arrays decode to empty.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		return nil
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
	case data[0] == '{' || data[0] == '[':
		*s = ""
	default:
		*s = FlexString(data)
	}
	return nil
}

// FlexBool is a flag profile field. It accepts JSON booleans, strings such as
// "true" or "1", and numbers (non-zero is true). Anything else is false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}
	if v, err := strconv.ParseBool(string(data)); err == nil {
		*b = FlexBool(v)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	*b = FlexBool(err == nil && f != 0)
	return nil
}
