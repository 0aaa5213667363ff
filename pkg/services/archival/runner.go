package archival

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/emotion-atlas/pkg/metrics"
	"github.com/de-tools/emotion-atlas/pkg/store/archive"
)

var ErrQueueFull = errors.New("archive queue is full")

type job struct {
	key  string
	body []byte
}

type RunnerConfig struct {
	QueueSize     int
	RetryAttempts int
	SleepInterval time.Duration
}

func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		QueueSize:     256,
		RetryAttempts: 3,
		SleepInterval: 2 * time.Second,
	}
}

type RunnerProgress struct {
	Uploaded int64
	Failed   int64
	Dropped  int64
}

// Runner uploads analysis reports in the background. It satisfies
// archive.Archiver, so callers only pay for a channel send.
type Runner struct {
	archiver archive.Archiver
	jobs     chan job
	done     chan struct{}
	config   RunnerConfig

	uploaded atomic.Int64
	failed   atomic.Int64
	dropped  atomic.Int64
}

func NewRunner(archiver archive.Archiver, config RunnerConfig) *Runner {
	defaults := DefaultRunnerConfig()
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = defaults.RetryAttempts
	}
	if config.SleepInterval < 0 {
		config.SleepInterval = defaults.SleepInterval
	}

	return &Runner{
		archiver: archiver,
		jobs:     make(chan job, config.QueueSize),
		done:     make(chan struct{}),
		config:   config,
	}
}

// Archive queues the upload and returns immediately.
func (r *Runner) Archive(_ context.Context, key string, body []byte) error {
	select {
	case r.jobs <- job{key: key, body: body}:
		return nil
	default:
		r.dropped.Add(1)
		metrics.RecordArchiveUpload("dropped")
		return ErrQueueFull
	}
}

func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) Progress() RunnerProgress {
	return RunnerProgress{
		Uploaded: r.uploaded.Load(),
		Failed:   r.failed.Load(),
		Dropped:  r.dropped.Load(),
	}
}

// Run processes the queue until ctx is cancelled. Jobs still queued at that
// point get one upload attempt each with a fresh context.
func (r *Runner) Run(ctx context.Context) {
	logger := zerolog.Ctx(ctx).With().Str("component", "archival").Logger()
	defer close(r.done)

	for {
		select {
		case <-ctx.Done():
			r.drain(logger.WithContext(context.WithoutCancel(ctx)))
			logger.Info().Msg("archive runner stopped")
			return
		case j := <-r.jobs:
			r.upload(logger.WithContext(ctx), j, r.config.RetryAttempts)
		}
	}
}

func (r *Runner) drain(ctx context.Context) {
	for {
		select {
		case j := <-r.jobs:
			r.upload(ctx, j, 1)
		default:
			return
		}
	}
}

func (r *Runner) upload(ctx context.Context, j job, attempts int) {
	logger := zerolog.Ctx(ctx)

	var err error
retry:
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = r.archiver.Archive(ctx, j.key, j.body); err == nil {
			r.uploaded.Add(1)
			return
		}
		logger.Warn().Err(err).Str("key", j.key).Int("attempt", attempt).Msg("failed to archive report")

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			break retry
		case <-time.After(r.config.SleepInterval):
		}
	}

	r.failed.Add(1)
	logger.Error().Err(err).Str("key", j.key).Msg("giving up on report archive")
}
