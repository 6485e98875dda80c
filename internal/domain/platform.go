package domain

// Platform describes one supported identity service.
//
// Endpoint is the key the lookup backend uses for the platform, Name is the
// human label shown to users. Both are unique across the registry.
type Platform struct {
	Name             string `json:"name" yaml:"name"`
	Endpoint         string `json:"api_endpoint" yaml:"endpoint"`
	Color            string `json:"color" yaml:"color"`
	ProfileURLPrefix string `json:"profile_url_prefix" yaml:"profile_url"`
}

// ProfileURL returns the public profile link for username on this platform.
func (p Platform) ProfileURL(username string) string {
	return p.ProfileURLPrefix + username
}

// Canonical platform names.
const (
	LinkedIn  = "LinkedIn"
	Twitter   = "Twitter"
	GitHub    = "GitHub"
	Instagram = "Instagram"
	Reddit    = "Reddit"
	TikTok    = "TikTok"
	Spotify   = "Spotify"
)

// defaultPlatforms is the canonical priority order.
var defaultPlatforms = []Platform{
	{Name: LinkedIn, Endpoint: "linkedin", Color: "#0077B5", ProfileURLPrefix: "https://www.linkedin.com/in/"},
	{Name: Twitter, Endpoint: "twitter", Color: "#1DA1F2", ProfileURLPrefix: "https://twitter.com/"},
	{Name: GitHub, Endpoint: "github", Color: "#333", ProfileURLPrefix: "https://github.com/"},
	{Name: Instagram, Endpoint: "instagram", Color: "#E1306C", ProfileURLPrefix: "https://www.instagram.com/"},
	{Name: Reddit, Endpoint: "reddit", Color: "#FF4500", ProfileURLPrefix: "https://www.reddit.com/user/"},
	{Name: TikTok, Endpoint: "tiktok", Color: "#000000", ProfileURLPrefix: "https://www.tiktok.com/@"},
	{Name: Spotify, Endpoint: "spotify", Color: "#1DB954", ProfileURLPrefix: "https://open.spotify.com/artist/"},
}

// Registry is an immutable, ordered set of platforms.
type Registry struct {
	platforms  []Platform
	byEndpoint map[string]int
	byName     map[string]int
}

// DefaultRegistry returns the built-in registry of the seven supported platforms.
func DefaultRegistry() *Registry {
	return newRegistry(defaultPlatforms)
}

// NewRegistry returns a registry whose presentation metadata (color, profile
// URL prefix) is taken from overrides keyed by endpoint. Names, endpoints and
// ordering always stay canonical.
func NewRegistry(overrides map[string]Platform) *Registry {
	platforms := make([]Platform, len(defaultPlatforms))
	copy(platforms, defaultPlatforms)
	for i, p := range platforms {
		o, ok := overrides[p.Endpoint]
		if !ok {
			continue
		}
		if o.Color != "" {
			platforms[i].Color = o.Color
		}
		if o.ProfileURLPrefix != "" {
			platforms[i].ProfileURLPrefix = o.ProfileURLPrefix
		}
	}
	return newRegistry(platforms)
}

func newRegistry(platforms []Platform) *Registry {
	r := &Registry{
		platforms:  platforms,
		byEndpoint: make(map[string]int, len(platforms)),
		byName:     make(map[string]int, len(platforms)),
	}
	for i, p := range platforms {
		r.byEndpoint[p.Endpoint] = i
		r.byName[p.Name] = i
	}
	return r
}

// List returns the platforms in canonical order. The slice is a copy.
func (r *Registry) List() []Platform {
	out := make([]Platform, len(r.platforms))
	copy(out, r.platforms)
	return out
}

// Len returns the number of registered platforms.
func (r *Registry) Len() int { return len(r.platforms) }

// FindByEndpoint looks a platform up by its backend key.
func (r *Registry) FindByEndpoint(key string) (Platform, bool) {
	i, ok := r.byEndpoint[key]
	if !ok {
		return Platform{}, false
	}
	return r.platforms[i], true
}

// FindByName looks a platform up by its display name.
func (r *Registry) FindByName(name string) (Platform, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Platform{}, false
	}
	return r.platforms[i], true
}

// Select resolves names into platforms. An empty selection yields every
// platform. Unknown names are ignored and the result keeps registry order.
func (r *Registry) Select(names []string) []Platform {
	if len(names) == 0 {
		return r.List()
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	out := make([]Platform, 0, len(names))
	for _, p := range r.platforms {
		if wanted[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the display names of platforms, in the given order.
func Names(platforms []Platform) []string {
	names := make([]string, len(platforms))
	for i, p := range platforms {
		names[i] = p.Name
	}
	return names
}

// Endpoints returns the backend keys of platforms, in the given order.
func Endpoints(platforms []Platform) []string {
	keys := make([]string, len(platforms))
	for i, p := range platforms {
		keys[i] = p.Endpoint
	}
	return keys
}
