package cfg

type Cfg struct {
	// Input configuration
	SourcesFile string
	PostLimit   int

	// Output configuration
	OutputFile string
	MaxItems   int

	// Fetch behavior
	SourceTimeout  int
	ResolveTimeout int
	PacingDelay    int
	WorkerCount    int

	// Optional persistent dedup store
	StorePath string

	// Optional article excerpt extraction
	ExtractExcerpts bool

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
