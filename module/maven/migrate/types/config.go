package types

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harness/nexus-migrate/util/common/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type RegistryType string

var (
	NEXUS RegistryType = "NEXUS"
)

const (
	DefaultConcurrency = 10
	DefaultMavenBinary = "mvn"
	FailureModeStop    = "stop"
	FailureModeCont    = "continue"
)

// Config represents the top-level configuration structure
type Config struct {
	Version     string         `yaml:"version" toml:"version"`
	Concurrency int            `yaml:"concurrency" toml:"concurrency"`
	FailureMode string         `yaml:"failureMode" toml:"failureMode"`
	Retries     int            `yaml:"retries" toml:"retries"`
	Source      RegistryConfig `yaml:"source" toml:"source"`
	Dest        RegistryConfig `yaml:"destination" toml:"destination"`
	Mappings    []Mapping      `yaml:"mappings" toml:"mappings"`
	Maven       MavenConfig    `yaml:"maven" toml:"maven"`
}

// RegistryConfig defines a nexus instance
type RegistryConfig struct {
	Endpoint    string            `yaml:"endpoint" toml:"endpoint"`
	Type        RegistryType      `yaml:"type" toml:"type"`
	Credentials CredentialsConfig `yaml:"credentials" toml:"credentials"`
	Insecure    bool              `yaml:"insecure" toml:"insecure"`
	Retries     int               `yaml:"-" toml:"-"`
}

// Mapping defines a source repository and the repository it is migrated into.
// Component name patterns are matched against "group/name".
type Mapping struct {
	SourceRepository      string `yaml:"sourceRepository" toml:"sourceRepository"`
	DestinationRepository string `yaml:"destinationRepository" toml:"destinationRepository"`
	ComponentNamePatterns struct {
		Include []string `yaml:"include" toml:"include"`
		Exclude []string `yaml:"exclude" toml:"exclude"`
	} `yaml:"componentNamePatterns" toml:"componentNamePatterns"`
}

// MavenConfig holds the maven2 specific migration settings
type MavenConfig struct {
	Excludes      []string          `yaml:"excludes" toml:"excludes"`
	TmpDir        string            `yaml:"tmp_dir" toml:"tmp_dir"`
	PomURLMapping map[string]string `yaml:"pom_url_mapping" toml:"pom_url_mapping"`
	Settings      string            `yaml:"settings" toml:"settings"`
	SnapshotID    string            `yaml:"snapshot_id" toml:"snapshot_id"`
	Binary        string            `yaml:"binary" toml:"binary"`
}

// CredentialsConfig defines the credential configuration
type CredentialsConfig struct {
	Username string `yaml:"username" toml:"username"`
	Password string `yaml:"password,omitempty" toml:"password"`
	Token    string `yaml:"token,omitempty" toml:"token"`
}

// ExcludeSet returns the excluded extensions as a set.
func (m MavenConfig) ExcludeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(m.Excludes))
	for _, ext := range m.Excludes {
		set[strings.TrimPrefix(ext, ".")] = struct{}{}
	}
	return set
}

// Overlay mutates a freshly decoded configuration before defaults and
// validation run. Connection profiles and command line flags are overlays.
type Overlay func(*Config)

// LoadConfig loads the configuration from a file. Files ending in .toml are
// decoded as TOML, everything else as YAML.
func LoadConfig(path string, overlays ...Overlay) (*Config, error) {
	config, err := decodeConfig(path)
	if err != nil {
		return nil, err
	}

	for _, overlay := range overlays {
		overlay(config)
	}

	applyDefaults(config, filepath.Dir(path))

	// Validate the configuration
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func decodeConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Expand environment variables in the file
	expandedData := expandEnv(string(data))

	var config Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, &config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
		return &config, nil
	}
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	return &config, nil
}

// expandEnv expands ${VAR} style environment variables
func expandEnv(content string) string {
	return os.Expand(content, func(key string) string {
		return os.Getenv(key)
	})
}

// applyDefaults fills unset values. The maven settings file is resolved
// relative to the directory holding the config file.
func applyDefaults(config *Config, baseDir string) {
	if config.Concurrency == 0 {
		config.Concurrency = DefaultConcurrency
	}
	if config.FailureMode == "" {
		config.FailureMode = FailureModeCont
	}
	if config.Source.Type == "" {
		config.Source.Type = NEXUS
	}
	if config.Dest.Type == "" {
		config.Dest.Type = NEXUS
	}
	config.Source.Retries = config.Retries
	config.Dest.Retries = config.Retries
	if config.Maven.Binary == "" {
		config.Maven.Binary = DefaultMavenBinary
	}
	if config.Maven.Settings != "" && !filepath.IsAbs(config.Maven.Settings) {
		config.Maven.Settings = filepath.Join(baseDir, config.Maven.Settings)
	}
}

// Validate re-runs validation after command line overrides were applied.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// validateConfig performs basic validation on the configuration
func validateConfig(config *Config) error {
	if config.Concurrency <= 0 {
		return errors.NewValidationError("concurrency", "concurrency must be greater than 0")
	}

	if config.Retries < 0 {
		return errors.NewValidationError("retries", "retries cannot be negative")
	}

	switch strings.ToLower(config.FailureMode) {
	case FailureModeCont, FailureModeStop:
		// Valid values
	default:
		return errors.NewValidationError("failureMode",
			fmt.Sprintf("invalid failure mode: %s, must be 'continue' or 'stop'", config.FailureMode))
	}

	if err := validateCredentials(config.Source); err != nil {
		return fmt.Errorf("invalid source credentials block provided in config: %w", err)
	}

	if err := validateCredentials(config.Dest); err != nil {
		return fmt.Errorf("invalid destination credentials block provided in config: %w", err)
	}

	if len(config.Mappings) == 0 {
		return errors.NewValidationError("mappings", "at least one repository mapping must be defined")
	}

	for i, mapping := range config.Mappings {
		field := fmt.Sprintf("mappings[%d]", i)
		if mapping.SourceRepository == "" {
			return errors.NewValidationError(field, "source repository cannot be empty")
		}
		if mapping.DestinationRepository == "" {
			return errors.NewValidationError(field, "destination repository cannot be empty")
		}
	}

	return nil
}

// Validate checks a single connection, defaulting its type to NEXUS.
func (r *RegistryConfig) Validate() error {
	if r.Type == "" {
		r.Type = NEXUS
	}
	return validateCredentials(*r)
}

func validateCredentials(registry RegistryConfig) error {
	if registry.Endpoint == "" {
		return fmt.Errorf("registry endpoint cannot be empty")
	}

	switch registry.Type {
	case NEXUS:
	default:
		return fmt.Errorf("unsupported registry type: %s", registry.Type)
	}

	// Authentication must be provided via either token or username
	hasToken := registry.Credentials.Token != ""
	hasUsername := registry.Credentials.Username != ""

	if !hasToken && !hasUsername {
		return fmt.Errorf("either token or username must be provided for authentication")
	}

	if hasUsername && registry.Credentials.Password == "" {
		return fmt.Errorf("password must be provided when using username authentication")
	}

	return nil
}
