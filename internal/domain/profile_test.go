package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestDecodeProfilePerPlatform(t *testing.T) {
	reg := DefaultRegistry()

	t.Run("spotify", func(t *testing.T) {
		p, _ := reg.FindByName(Spotify)
		raw := json.RawMessage(`{
			"name": "Band",
			"followers": 1200000,
			"monthly_listeners": "350000",
			"genres": ["rock"],
			"top_tracks": [{"name": "Song", "duration_ms": 201000, "popularity": 70}]
		}`)

		profile, err := DecodeProfile(p, raw)
		if err != nil {
			t.Fatalf("DecodeProfile() error = %v", err)
		}
		if profile.Spotify == nil {
			t.Fatal("Spotify extension not decoded")
		}
		if profile.GitHub != nil {
			t.Error("GitHub extension should stay nil for Spotify")
		}
		if got := FormatCount(profile.Spotify.MonthlyListeners); got != "350.0K" {
			t.Errorf("monthly listeners = %q, want 350.0K", got)
		}
		if len(profile.Spotify.TopTracks) != 1 || FormatDuration(int64(profile.Spotify.TopTracks[0].DurationMS)) != "3:21" {
			t.Errorf("top tracks = %+v", profile.Spotify.TopTracks)
		}
	})

	t.Run("reddit", func(t *testing.T) {
		p, _ := reg.FindByName(Reddit)
		profile, err := DecodeProfile(p, json.RawMessage(`{"karma": 4200.0, "link_karma": 200, "simulated": true}`))
		if err != nil {
			t.Fatalf("DecodeProfile() error = %v", err)
		}
		if profile.Reddit == nil || int64(*profile.Reddit.Karma) != 4200 {
			t.Errorf("reddit extension = %+v", profile.Reddit)
		}
		if !profile.Simulated {
			t.Error("Simulated flag not decoded")
		}
	})

	t.Run("twitter", func(t *testing.T) {
		p, _ := reg.FindByName(Twitter)
		profile, err := DecodeProfile(p, json.RawMessage(`{
			"tweets": 1500,
			"recent_tweets": [
				{"text": "hi", "date": "2024-01-01", "likes": "12"},
				{"text": "older", "created_at": "2023-12-31"}
			]
		}`))
		if err != nil {
			t.Fatalf("DecodeProfile() error = %v", err)
		}
		if n, ok := profile.Tweets(); !ok || n != 1500 {
			t.Errorf("Tweets() = %d, %v", n, ok)
		}
		tweets := profile.Twitter.RecentTweets
		if len(tweets) != 2 {
			t.Fatalf("recent tweets = %+v", tweets)
		}
		if tweets[0].PostedAt() != "2024-01-01" || tweets[0].Likes != 12 {
			t.Errorf("first tweet = %+v", tweets[0])
		}
		if tweets[1].PostedAt() != "2023-12-31" {
			t.Errorf("second tweet date = %q", tweets[1].PostedAt())
		}

		out, err := json.Marshal(profile.Twitter)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(out), `"date":"2024-01-01"`) {
			t.Errorf("date lost on encode: %s", out)
		}
	})

	t.Run("unreadable extension keeps common fields", func(t *testing.T) {
		p, _ := reg.FindByName(GitHub)
		profile, err := DecodeProfile(p, json.RawMessage(`{"name": "Octo", "followers": 10, "recent_repos": {"bad": true}}`))
		var pe *ProfileError
		if !errors.As(err, &pe) || pe.Endpoint != "github" {
			t.Fatalf("DecodeProfile() error = %v, want *ProfileError for github", err)
		}
		if profile == nil || profile.Name != "Octo" || profile.FollowerCount() != 10 || profile.GitHub != nil {
			t.Errorf("profile = %+v", profile)
		}
	})

	t.Run("not an object", func(t *testing.T) {
		p, _ := reg.FindByName(GitHub)
		profile, err := DecodeProfile(p, json.RawMessage(`"nope"`))
		if profile != nil || err == nil {
			t.Errorf("DecodeProfile(string) = %v, %v", profile, err)
		}
	})

	t.Run("null profile", func(t *testing.T) {
		p, _ := reg.FindByName(TikTok)
		profile, err := DecodeProfile(p, json.RawMessage(`null`))
		if err != nil || profile != nil {
			t.Errorf("DecodeProfile(null) = %v, %v", profile, err)
		}
	})
}

func TestCountUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{`42`, 42},
		{`42.9`, 42},
		{`"1500"`, 1500},
		{`"n/a"`, 0},
		{`true`, 0},
	}

	for _, tt := range tests {
		var c Count
		if err := json.Unmarshal([]byte(tt.input), &c); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.input, err)
			continue
		}
		if int64(c) != tt.expected {
			t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, c, tt.expected)
		}
	}
}

func TestFlexStringUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected FlexString
	}{
		{`"12K"`, "12K"},
		{`1200`, "1200"},
		{`1.5`, "1.5"},
		{`true`, "true"},
		{`{"a":1}`, ""},
		{`[1]`, ""},
	}

	for _, tt := range tests {
		var s FlexString
		if err := json.Unmarshal([]byte(tt.input), &s); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.input, err)
			continue
		}
		if s != tt.expected {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, s, tt.expected)
		}
	}
}

func TestFlexBoolUnmarshal(t *testing.T) {
	tests := []struct {
		input    string
		expected FlexBool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"1"`, true},
		{`1`, true},
		{`0`, false},
		{`"no"`, false},
		{`{}`, false},
	}

	for _, tt := range tests {
		var b FlexBool
		if err := json.Unmarshal([]byte(tt.input), &b); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.input, err)
			continue
		}
		if b != tt.expected {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, b, tt.expected)
		}
	}
}

func TestHasFollowersTreatsZeroAsMissing(t *testing.T) {
	var nilProfile *Profile
	if nilProfile.HasFollowers() {
		t.Error("nil profile has no followers")
	}
	p := &Profile{CommonProfile: CommonProfile{Followers: NewCount(0)}}
	if p.HasFollowers() {
		t.Error("zero followers should count as missing")
	}
}
