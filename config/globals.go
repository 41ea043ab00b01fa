package config

// GlobalFlags contains common flags used across commands
type GlobalFlags struct {
	Verbose bool
	NoColor bool
	LogDir  string

	// Connection sources shared by the repository commands
	ConfigPath  string
	ProfilePath string

	Repository RepositoryConfig
}

// RepositoryConfig holds repository command specific configurations
type RepositoryConfig struct {
	// For migrate command
	Migrate MigrateConfig

	// For list and get commands
	Destination bool
}

// MigrateConfig holds migrate command specific configurations. Zero values
// leave the configuration file untouched.
type MigrateConfig struct {
	Source      string
	Target      string
	Concurrency int
	Settings    string
	FailureMode string
}

// Global is the shared instance of GlobalFlags
var Global = GlobalFlags{}
