package cmdutils

import (
	"context"
	"fmt"

	"github.com/harness/nexus-migrate/config"
	"github.com/harness/nexus-migrate/module/maven/migrate/adapter"
	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	_ "github.com/harness/nexus-migrate/module/maven/migrate/adapter/nexus"

	"github.com/rs/zerolog"
)

// Factory hands commands what the root command prepared.
type Factory struct {
	Logger func() zerolog.Logger
}

func NewFactory() *Factory {
	return &Factory{Logger: zerolog.Nop}
}

// MigrationConfig loads the migration file named by --config, or by the
// [Maven] section of --profile, and applies profile connections and
// command line overrides.
func (f *Factory) MigrationConfig() (*types.Config, error) {
	path := config.Global.ConfigPath
	var overlays []types.Overlay

	if config.Global.ProfilePath != "" {
		profile, err := types.LoadProfile(config.Global.ProfilePath)
		if err != nil {
			return nil, err
		}
		if path == "" {
			path = profile.MavenConfig
		}
		overlays = append(overlays, profile.Overlay())
	}
	if path == "" {
		return nil, fmt.Errorf("a configuration file is required, use --config or a profile with a [Maven] section")
	}

	overlays = append(overlays, flagOverlay(config.Global.Repository.Migrate))
	return types.LoadConfig(path, overlays...)
}

func flagOverlay(flags config.MigrateConfig) types.Overlay {
	return func(cfg *types.Config) {
		if flags.Source != "" {
			cfg.Source.Endpoint = flags.Source
		}
		if flags.Target != "" {
			cfg.Dest.Endpoint = flags.Target
		}
		if flags.Concurrency > 0 {
			cfg.Concurrency = flags.Concurrency
		}
		if flags.Settings != "" {
			cfg.Maven.Settings = flags.Settings
		}
		if flags.FailureMode != "" {
			cfg.FailureMode = flags.FailureMode
		}
	}
}

// Registry resolves one nexus connection for the read-only commands: the
// source side unless --destination was given. A profile wins over a
// configuration file.
func (f *Factory) Registry() (types.RegistryConfig, error) {
	destination := config.Global.Repository.Destination

	if config.Global.ProfilePath != "" {
		profile, err := types.LoadProfile(config.Global.ProfilePath)
		if err != nil {
			return types.RegistryConfig{}, err
		}
		server := profile.Source
		if destination {
			server = profile.Target
		}
		if server != nil {
			reg := server.Registry()
			return reg, reg.Validate()
		}
	}

	if config.Global.ConfigPath == "" {
		return types.RegistryConfig{}, fmt.Errorf("no connection configured, use --config or --profile")
	}
	cfg, err := f.MigrationConfig()
	if err != nil {
		return types.RegistryConfig{}, err
	}
	if destination {
		return cfg.Dest, nil
	}
	return cfg.Source, nil
}

// Remote opens the nexus instance picked by Registry.
func (f *Factory) Remote(ctx context.Context) (*remote.Remote, error) {
	reg, err := f.Registry()
	if err != nil {
		return nil, err
	}
	logger := f.Logger()
	a, err := adapter.GetAdapter(ctx, reg, logger)
	if err != nil {
		return nil, err
	}
	return remote.New(a, logger), nil
}
