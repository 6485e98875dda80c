package platforms

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/nexus/internal/domain"
)

// Overrides validates cfg against the built-in registry and returns the
// overrides keyed by endpoint, ready for domain.NewRegistry.
func Overrides(cfg Config) (map[string]domain.Platform, error) {
	base := domain.DefaultRegistry()
	out := make(map[string]domain.Platform, len(cfg.Platforms))

	var unknown []string
	for i, e := range cfg.Platforms {
		key := strings.ToLower(strings.TrimSpace(e.Endpoint))
		if key == "" {
			return nil, fmt.Errorf("platform entry %d has no endpoint", i)
		}
		p, ok := base.FindByEndpoint(key)
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("platform %q listed twice", key)
		}
		p.Color = strings.TrimSpace(e.Color)
		p.ProfileURLPrefix = strings.TrimSpace(e.ProfileURL)
		out[key] = p
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown platform endpoints: %s", strings.Join(unknown, ", "))
	}
	return out, nil
}

// LoadRegistry builds the platform registry, applying the overrides in path
// when it is set.
func LoadRegistry(path string) (*domain.Registry, error) {
	if path == "" {
		return domain.DefaultRegistry(), nil
	}
	cfg, err := NewLoader(path).Load()
	if err != nil {
		return nil, err
	}
	overrides, err := Overrides(cfg)
	if err != nil {
		return nil, err
	}
	return domain.NewRegistry(overrides), nil
}
