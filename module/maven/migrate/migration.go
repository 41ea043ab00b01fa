package migrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/harness/nexus-migrate/module/maven/migrate/adapter"
	"github.com/harness/nexus-migrate/module/maven/migrate/engine"
	"github.com/harness/nexus-migrate/module/maven/migrate/maven"
	"github.com/harness/nexus-migrate/module/maven/migrate/migratable"
	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/module/maven/migrate/staging"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"
	"github.com/harness/nexus-migrate/module/maven/migrate/util"

	_ "github.com/harness/nexus-migrate/module/maven/migrate/adapter/nexus"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// MigrationService handles the migration process
type MigrationService struct {
	config      *types.Config
	logger      zerolog.Logger
	source      *remote.Remote
	destination *remote.Remote

	runner maven.CommandRunner
	fs     afero.Fs
	out    io.Writer
	stats  types.TransferStats
}

type Option func(*MigrationService)

// WithCommandRunner replaces the os/exec runner used for mvn.
func WithCommandRunner(r maven.CommandRunner) Option {
	return func(m *MigrationService) { m.runner = r }
}

// WithFs sets the filesystem holding the staging area and settings file.
func WithFs(fs afero.Fs) Option {
	return func(m *MigrationService) { m.fs = fs }
}

// WithOutput sets where the report table is printed.
func WithOutput(w io.Writer) Option {
	return func(m *MigrationService) { m.out = w }
}

// MappingResult is the engine report of one repository mapping.
type MappingResult struct {
	Mapping types.Mapping
	Policy  types.VersionPolicy
	Report  *engine.Report
}

// plan is a mapping whose repositories have been resolved and checked.
type plan struct {
	mapping     types.Mapping
	source      *remote.Repository
	destination *remote.Repository
	policy      types.VersionPolicy
}

// NewMigrationService creates a new migration service
func NewMigrationService(ctx context.Context, cfg *types.Config, logger zerolog.Logger, opts ...Option) (*MigrationService, error) {
	sourceAdapter, err := adapter.GetAdapter(ctx, cfg.Source, logger.With().Str("side", "source").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to get source adapter: %w", err)
	}
	destAdapter, err := adapter.GetAdapter(ctx, cfg.Dest, logger.With().Str("side", "destination").Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to get destination adapter: %w", err)
	}

	m := &MigrationService{
		config:      cfg,
		logger:      logger,
		source:      remote.New(sourceAdapter, logger),
		destination: remote.New(destAdapter, logger),
		runner:      maven.NewOSRunner(),
		fs:          afero.NewOsFs(),
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Stats returns the per component outcome of everything run so far.
func (m *MigrationService) Stats() []types.ComponentStat {
	return m.stats.Snapshot()
}

// Run checks every mapping, then migrates them one after another. Mapping
// problems are reported before any component is touched. The returned
// error joins listing errors and component failures.
func (m *MigrationService) Run(ctx context.Context) ([]MappingResult, error) {
	logger := m.logger.With().
		Str("source", m.config.Source.Endpoint).
		Str("destination", m.config.Dest.Endpoint).
		Logger()

	logger.Info().Msg("Starting migration process")

	for side, r := range map[string]*remote.Remote{"source": m.source, "destination": m.destination} {
		if _, err := r.Adapter().ValidateCredentials(ctx); err != nil {
			return nil, fmt.Errorf("%s nexus: %w", side, err)
		}
	}

	plans := make([]plan, 0, len(m.config.Mappings))
	for _, mapping := range m.config.Mappings {
		p, err := m.prepare(ctx, mapping)
		if err != nil {
			logger.Error().Err(err).
				Str("source_repository", mapping.SourceRepository).
				Msg("Repository mapping rejected")
			return nil, err
		}
		plans = append(plans, p)
	}

	area, err := staging.NewArea(m.fs, m.config.Maven.TmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare staging area: %w", err)
	}

	failFast := strings.EqualFold(m.config.FailureMode, types.FailureModeStop)
	eng := engine.NewEngine(m.config.Concurrency, failFast, logger)

	var results []MappingResult
	var errs []error
	for _, p := range plans {
		mappingLogger := logger.With().
			Str("source_repository", p.mapping.SourceRepository).
			Str("destination_repository", p.mapping.DestinationRepository).
			Str("version_policy", string(p.policy)).
			Logger()
		mappingLogger.Info().Msg("Processing repository migration")

		report, err := eng.Execute(ctx, m.jobs(ctx, p, area, mappingLogger))
		results = append(results, MappingResult{Mapping: p.mapping, Policy: p.policy, Report: report})
		if err != nil {
			mappingLogger.Error().Err(err).Msg("Repository migration aborted")
			errs = append(errs, fmt.Errorf("%s: %w", p.mapping.SourceRepository, err))
		}
		if jobErr := report.Err(); jobErr != nil {
			errs = append(errs, jobErr)
		}
		if ctx.Err() != nil || (failFast && len(errs) > 0) {
			break
		}
	}

	stats := m.stats.Snapshot()
	if err := PrintStats(m.out, stats); err != nil {
		logger.Warn().Err(err).Msg("Failed to print migration report")
	}

	if len(errs) > 0 {
		logger.Error().Int("failed", countFailed(results)).Msg("Migration finished with errors")
		return results, fmt.Errorf("migration finished with errors: %w", errors.Join(errs...))
	}
	logger.Info().Msg("Migration process completed")
	return results, nil
}

// prepare resolves both repositories of a mapping and checks that the
// source can be migrated.
func (m *MigrationService) prepare(ctx context.Context, mapping types.Mapping) (plan, error) {
	src, err := m.source.Repository(ctx, mapping.SourceRepository)
	if err != nil {
		return plan{}, fmt.Errorf("source repository: %w", err)
	}
	if src.Type() != types.TypeHosted {
		return plan{}, &types.RepositoryTypeNotSupportedError{Repository: src.Name(), Type: src.Type()}
	}
	if src.Format() != types.FormatMaven2 {
		return plan{}, &types.RepositoryFormatNotSupportedError{Repository: src.Name(), Format: src.Format()}
	}

	dst, err := m.destination.Repository(ctx, mapping.DestinationRepository)
	if err != nil {
		return plan{}, fmt.Errorf("destination repository: %w", err)
	}

	policy, err := src.VersionPolicy(ctx)
	if err != nil {
		return plan{}, err
	}

	switch policy {
	case types.PolicyRelease:
	case types.PolicySnapshot:
		settings := m.config.Maven.Settings
		if settings == "" {
			return plan{}, &types.MissingMavenSettingError{Path: settings}
		}
		if ok, _ := afero.Exists(m.fs, settings); !ok {
			return plan{}, &types.MissingMavenSettingError{Path: settings}
		}
		if m.config.Maven.SnapshotID == "" {
			return plan{}, &types.MissingSnapshotIdError{}
		}
	default:
		return plan{}, &types.UnsupportedPolicyError{Repository: src.Name(), Policy: policy}
	}

	return plan{mapping: mapping, source: src, destination: dst, policy: policy}, nil
}

// jobs lists the source lazily and turns every component passing the name
// patterns into a job.
func (m *MigrationService) jobs(ctx context.Context, p plan, area *staging.Area, logger zerolog.Logger) iter.Seq2[engine.Job, error] {
	matcher := util.NewMatcher(p.mapping.ComponentNamePatterns.Include, p.mapping.ComponentNamePatterns.Exclude, logger)
	opts := migratable.Options{
		Destination: p.destination,
		URLMapping:  m.config.Maven.PomURLMapping,
		Excludes:    m.config.Maven.ExcludeSet(),
		Area:        area,
		Stats:       &m.stats,
		Logger:      logger,
	}

	var client *maven.Client
	if p.policy == types.PolicySnapshot {
		client = maven.NewClient(m.config.Maven.Binary, m.config.Maven.Settings, m.runner, logger)
	}

	return func(yield func(engine.Job, error) bool) {
		for c, err := range p.source.Components().Components(ctx) {
			if err != nil {
				yield(nil, fmt.Errorf("failed to list components: %w", err))
				return
			}
			if !matcher.Match(c.Summary.Group, c.Summary.Name) {
				logger.Debug().Str("component", c.String()).Msg("Component filtered by name patterns")
				m.stats.Add(types.ComponentStat{
					Name:       c.String(),
					Repository: p.destination.Name(),
					Version:    c.Summary.Version,
					Status:     types.StatusSkip,
				})
				continue
			}

			var job engine.Job
			if client != nil {
				job = migratable.NewSnapshotComponent(c, opts, client, m.config.Maven.SnapshotID)
			} else {
				job = migratable.NewReleaseComponent(c, opts)
			}
			if !yield(job, nil) {
				return
			}
		}
	}
}

func countFailed(results []MappingResult) int {
	n := 0
	for _, r := range results {
		if r.Report != nil {
			n += len(r.Report.Failed)
		}
	}
	return n
}
