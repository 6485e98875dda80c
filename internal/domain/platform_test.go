package domain

import (
	"slices"
	"testing"
)

func TestDefaultRegistryOrder(t *testing.T) {
	want := []string{LinkedIn, Twitter, GitHub, Instagram, Reddit, TikTok, Spotify}

	got := Names(DefaultRegistry().List())
	if !slices.Equal(got, want) {
		t.Errorf("List() names = %v, want %v", got, want)
	}
}

func TestRegistryLookups(t *testing.T) {
	reg := DefaultRegistry()

	p, ok := reg.FindByEndpoint("github")
	if !ok || p.Name != GitHub {
		t.Errorf("FindByEndpoint(github) = %v, %v", p, ok)
	}

	p, ok = reg.FindByName(Spotify)
	if !ok || p.Endpoint != "spotify" {
		t.Errorf("FindByName(Spotify) = %v, %v", p, ok)
	}

	if _, ok := reg.FindByEndpoint("myspace"); ok {
		t.Error("FindByEndpoint(myspace) should not be found")
	}
	if _, ok := reg.FindByName("github"); ok {
		t.Error("FindByName is case-sensitive, github should not be found")
	}
}

func TestRegistryListIsCopy(t *testing.T) {
	reg := DefaultRegistry()
	list := reg.List()
	list[0].Name = "changed"

	if reg.List()[0].Name != LinkedIn {
		t.Error("mutating List() result changed the registry")
	}
}

func TestRegistrySelect(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "empty selects all",
			input:    nil,
			expected: Names(reg.List()),
		},
		{
			name:     "keeps registry order",
			input:    []string{Spotify, GitHub},
			expected: []string{GitHub, Spotify},
		},
		{
			name:     "drops unknown names",
			input:    []string{"MySpace", Reddit},
			expected: []string{Reddit},
		},
		{
			name:     "only unknown names",
			input:    []string{"MySpace"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Names(reg.Select(tt.input))
			if !slices.Equal(got, tt.expected) {
				t.Errorf("Select(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNewRegistryOverrides(t *testing.T) {
	reg := NewRegistry(map[string]Platform{
		"github": {Color: "#000", ProfileURLPrefix: "https://gh.example/"},
	})

	p, _ := reg.FindByName(GitHub)
	if p.Color != "#000" {
		t.Errorf("Color = %q, want #000", p.Color)
	}
	if got := p.ProfileURL("octocat"); got != "https://gh.example/octocat" {
		t.Errorf("ProfileURL() = %q", got)
	}

	tw, _ := reg.FindByName(Twitter)
	if tw.Color != "#1DA1F2" {
		t.Errorf("untouched platform color = %q, want default", tw.Color)
	}
	if reg.Len() != 7 {
		t.Errorf("Len() = %d, want 7", reg.Len())
	}
}

func TestEndpoints(t *testing.T) {
	got := Endpoints(DefaultRegistry().Select([]string{GitHub, TikTok}))
	if !slices.Equal(got, []string{"github", "tiktok"}) {
		t.Errorf("Endpoints() = %v", got)
	}
}
