package engine

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Job is one unit of work. Post runs even when Pre or Migrate failed.
type Job interface {
	ID() string
	Info() string
	Pre(ctx context.Context) error
	Migrate(ctx context.Context) error
	Post(ctx context.Context) error
}

type traceKey struct{}

// TraceID returns the id of the engine run ctx belongs to.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceKey{}).(string)
	return id
}

// JobFailure is a job that ended with an error.
type JobFailure struct {
	ID   string
	Info string
	Err  error
}

// Report is the outcome of every job the engine started.
type Report struct {
	mu        sync.Mutex
	Succeeded []string
	Failed    []JobFailure
}

func (r *Report) succeed(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Succeeded = append(r.Succeeded, id)
}

func (r *Report) fail(f JobFailure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, f)
}

func (r *Report) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Succeeded) + len(r.Failed)
}

// Err joins every job failure, nil when all jobs succeeded.
func (r *Report) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("%s: %w", f.Info, f.Err))
	}
	return errors.Join(errs...)
}

type Engine struct {
	concurrency int
	failFast    bool
	logger      zerolog.Logger
}

// NewEngine returns an engine running at most concurrency jobs at once.
// With failFast the first failing job cancels the others and stops
// scheduling, otherwise failures are collected and every job runs.
func NewEngine(concurrency int, failFast bool, logger zerolog.Logger) *Engine {
	return &Engine{
		concurrency: concurrency,
		failFast:    failFast,
		logger:      logger,
	}
}

// Execute pulls jobs from the sequence and runs them. Jobs are pulled only
// when a worker slot is free. An error yielded by the sequence stops
// scheduling and is returned once running jobs finish.
func (e *Engine) Execute(ctx context.Context, jobs iter.Seq2[Job, error]) (*Report, error) {
	traceID := uuid.New().String()
	ctx = context.WithValue(ctx, traceKey{}, traceID)

	mainLogger := e.logger.With().
		Str("trace_id", traceID).
		Bool("fail_fast", e.failFast).
		Logger()

	if e.concurrency <= 0 {
		e.concurrency = runtime.NumCPU()
		mainLogger.Debug().Int("adjusted_concurrency", e.concurrency).Msg("Adjusted concurrency")
	}
	mainLogger = mainLogger.With().Int("concurrency", e.concurrency).Logger()
	mainLogger.Info().Msg("Starting engine execution")

	report := &Report{}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	var scheduleErr error
	i := 0
	for jb, err := range jobs {
		if err != nil {
			scheduleErr = err
			mainLogger.Error().Err(err).Msg("Failed to list jobs, stopping")
			break
		}
		if gctx.Err() != nil {
			break
		}
		index, jb := i, jb
		i++
		g.Go(func() error {
			err := e.run(gctx, mainLogger, index, jb)
			if err != nil {
				report.fail(JobFailure{ID: jb.ID(), Info: jb.Info(), Err: err})
				if e.failFast {
					return err
				}
				return nil
			}
			report.succeed(jb.ID())
			return nil
		})
	}
	_ = g.Wait()

	mainLogger.Info().
		Int("total_jobs", report.Total()).
		Int("failed_jobs", len(report.Failed)).
		Msg("Engine execution finished")

	if scheduleErr == nil && ctx.Err() != nil {
		scheduleErr = ctx.Err()
	}
	return report, scheduleErr
}

func (e *Engine) run(ctx context.Context, mainLogger zerolog.Logger, i int, jb Job) error {
	info := jb.Info()
	jobLogger := mainLogger.With().
		Int("job_index", i).
		Str("job_id", jb.ID()).
		Str("job_info", info).
		Logger()

	jobLogger.Debug().Msg("Starting job execution")
	jobStartTime := time.Now()

	step := func(ctx context.Context, name string, fn func(context.Context) error) error {
		stepLogger := jobLogger.With().Str("step", name).Logger()
		stepLogger.Debug().Msg("Starting step")
		stepStartTime := time.Now()

		if err := fn(ctx); err != nil {
			stepLogger.Error().
				Err(err).
				Dur("duration", time.Since(stepStartTime)).
				Msg("Step failed")
			return fmt.Errorf("%s-step: %w", name, err)
		}
		stepLogger.Debug().
			Dur("duration", time.Since(stepStartTime)).
			Msg("Step completed successfully")
		return nil
	}

	err := step(ctx, "pre", jb.Pre)
	if err == nil {
		err = step(ctx, "migrate", jb.Migrate)
	}
	// cleanup must not be skipped because a sibling failed
	if postErr := step(context.WithoutCancel(ctx), "post", jb.Post); err == nil {
		err = postErr
	}

	if err != nil {
		jobLogger.Warn().
			Dur("duration", time.Since(jobStartTime)).
			Msg("Job execution terminated with errors")
		return err
	}

	jobLogger.Info().
		Dur("duration", time.Since(jobStartTime)).
		Msg("Job completed successfully")
	return nil
}
