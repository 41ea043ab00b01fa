package migratable

import (
	"context"
	"strings"

	"github.com/harness/nexus-migrate/module/maven/migrate/engine"
	"github.com/harness/nexus-migrate/module/maven/migrate/pom"
	"github.com/harness/nexus-migrate/module/maven/migrate/remote"
	"github.com/harness/nexus-migrate/module/maven/migrate/staging"
	"github.com/harness/nexus-migrate/module/maven/migrate/types"

	"github.com/rs/zerolog"
)

type Job = engine.Job

// Options are shared by every component job of one repository mapping.
// Jobs only read them.
type Options struct {
	Destination *remote.Repository
	URLMapping  map[string]string
	Excludes    map[string]struct{}
	Area        *staging.Area
	Stats       *types.TransferStats
	Logger      zerolog.Logger
}

// componentJob holds what both pipelines track for one component.
type componentJob struct {
	component *remote.Component
	opts      Options
	logger    zerolog.Logger

	coords  types.Coordinates
	dir     string
	assets  int
	size    int64
	skipped bool
	err     error
}

func newComponentJob(c *remote.Component, opts Options, kind string) componentJob {
	return componentJob{
		component: c,
		opts:      opts,
		logger: opts.Logger.With().
			Str("job_type", kind).
			Str("component", c.String()).
			Str("component_id", c.ID()).
			Logger(),
	}
}

func (j *componentJob) ID() string {
	return j.component.ID()
}

func (j *componentJob) fail(err error) error {
	if err != nil && j.err == nil {
		j.err = err
	}
	return err
}

func (j *componentJob) resolve(ctx context.Context) error {
	coords, err := j.component.Coordinates(ctx)
	if err != nil {
		return j.fail(err)
	}
	j.coords = coords
	return nil
}

// cleanup removes the staging directory and records the outcome.
func (j *componentJob) cleanup() error {
	removeErr := j.opts.Area.Remove(j.dir)

	stat := types.ComponentStat{
		Name:       j.component.String(),
		Repository: j.opts.Destination.Name(),
		Version:    j.component.Summary.Version,
		Assets:     j.assets,
		Size:       j.size,
		Status:     types.StatusSuccess,
	}
	switch {
	case j.err != nil:
		stat.Status = types.StatusFail
		stat.Error = j.err.Error()
	case j.skipped:
		stat.Status = types.StatusSkip
	}
	if j.opts.Stats != nil {
		j.opts.Stats.Add(stat)
	}
	return removeErr
}

// rewritePom swaps mapped url values inside a staged POM.
func (j *componentJob) rewritePom(path string) error {
	if len(j.opts.URLMapping) == 0 {
		return nil
	}
	n, err := pom.Open(j.opts.Area.Fs(), path).Replace(pom.URLTag, j.opts.URLMapping)
	if err != nil {
		return err
	}
	j.logger.Debug().Str("pom", path).Int("replaced", n).Msg("Rewrote POM urls")
	return nil
}

func isSources(name string) bool {
	return strings.Contains(name, "sources")
}
