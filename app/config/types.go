package config

// Config is the data-shaped configuration for a run: which sources to poll
// and the classifier/normalizer tables. Lists left empty in the YAML file
// fall back to the built-in defaults.
type Config struct {
	Sources []Source `yaml:"sources"`
	Tables  Tables   `yaml:"tables"`
}

// Source is one upstream forum collection polled for recent posts.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Tables holds the denylist tables injected into the normalizer, classifier
// and resolver. They are configuration, not code, so the core stays testable
// independent of the specific list contents.
type Tables struct {
	TrackingParams    []string `yaml:"tracking_params"`
	OwnHosts          []string `yaml:"own_hosts"`
	OwnSuffixes       []string `yaml:"own_suffixes"`
	BlockedSuffixes   []string `yaml:"blocked_suffixes"`
	BlockedExtensions []string `yaml:"blocked_extensions"`
	JunkTitles        []string `yaml:"junk_titles"`
}
