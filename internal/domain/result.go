package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownPlatformKey marks a backend key that has no registry entry.
var ErrUnknownPlatformKey = errors.New("unknown platform key")

// RawResult is the per-platform object returned by the lookup backend.
type RawResult struct {
	Exists  bool            `json:"exists"`
	Profile json.RawMessage `json:"profile,omitempty"`
}

// RawResults maps platform endpoint keys to backend results.
type RawResults map[string]RawResult

// SearchResult is one platform's outcome for a queried username.
type SearchResult struct {
	Platform      Platform `json:"platform"`
	Exists        bool     `json:"exists"`
	Profile       *Profile `json:"profile,omitempty"`
	QueryUsername string   `json:"query_username"`
}

// ProfileURL links to the queried username on the result's platform.
func (r SearchResult) ProfileURL() string {
	return r.Platform.ProfileURL(r.QueryUsername)
}

// UnknownKeyError lists backend keys the registry could not resolve.
type UnknownKeyError struct {
	Keys []string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownPlatformKey, strings.Join(e.Keys, ","))
}

func (e *UnknownKeyError) Unwrap() error { return ErrUnknownPlatformKey }

// Normalize turns a raw backend payload into results ordered like the
// registry, one per known key. Profiles are only kept for results that exist.
//
// The results are always usable. A non-nil error only carries diagnostics,
// joined together: a *UnknownKeyError for backend keys with no registry entry
// (those are left out) and a *ProfileError for each profile that could not be
// fully decoded (the result keeps whatever did decode).
func Normalize(reg *Registry, raw RawResults, username string) ([]SearchResult, error) {
	results := make([]SearchResult, 0, len(raw))
	var problems []error

	for _, p := range reg.platforms {
		rr, ok := raw[p.Endpoint]
		if !ok {
			continue
		}

		res := SearchResult{
			Platform:      p,
			Exists:        rr.Exists,
			QueryUsername: username,
		}
		if rr.Exists {
			profile, err := DecodeProfile(p, rr.Profile)
			if err != nil {
				problems = append(problems, err)
			}
			res.Profile = profile
		}
		results = append(results, res)
	}

	var unknown []string
	for key := range raw {
		if _, ok := reg.FindByEndpoint(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		problems = append(problems, &UnknownKeyError{Keys: unknown})
	}
	return results, errors.Join(problems...)
}

// Found returns the results whose account exists.
func Found(results []SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(results))
	for _, r := range results {
		if r.Exists {
			out = append(out, r)
		}
	}
	return out
}
