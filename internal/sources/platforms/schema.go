package platforms

// Entry overrides the presentation metadata of one platform.
type Entry struct {
	Endpoint   string `yaml:"endpoint"`
	Color      string `yaml:"color"`
	ProfileURL string `yaml:"profile_url"`
}

// Config is the root of the platforms file:
//
//	platforms:
//	  - endpoint: github
//	    color: "#24292e"
type Config struct {
	Platforms []Entry `yaml:"platforms"`
}
