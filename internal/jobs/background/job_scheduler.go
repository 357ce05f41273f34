package background

import (
	"context"
	"sync"
	"time"

	"foodgo/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const ArchivalJobName = "order-archival"

// Archiver demotes DELIVERED orders that have not changed for dwell.
type Archiver interface {
	ArchiveDelivered(ctx context.Context, dwell time.Duration) ([]*models.Order, error)
}

type SchedulerConfig struct {
	ArchiveInterval time.Duration
	ArchiveDwell    time.Duration
	SweepTimeout    time.Duration
}

// JobScheduler runs the periodic background jobs of one instance.
type JobScheduler struct {
	scheduler gocron.Scheduler
	archiver  Archiver
	cfg       SchedulerConfig
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(archiver Archiver, cfg SchedulerConfig) (*JobScheduler, error) {
	if cfg.ArchiveInterval <= 0 {
		cfg.ArchiveInterval = time.Minute
	}
	if cfg.ArchiveDwell <= 0 {
		cfg.ArchiveDwell = 15 * time.Minute
	}
	if cfg.SweepTimeout <= 0 {
		cfg.SweepTimeout = 30 * time.Second
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.Wrap(err, "create scheduler")
	}

	js := &JobScheduler{
		scheduler: scheduler,
		archiver:  archiver,
		cfg:       cfg,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs.
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return names
}

func (js *JobScheduler) registerJobs() error {
	archivalJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.ArchiveInterval),
		gocron.NewTask(js.runSweep),
		gocron.WithName(ArchivalJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.Wrap(err, "register archival job")
	}

	js.mu.Lock()
	js.jobs[ArchivalJobName] = archivalJob
	js.mu.Unlock()
	return nil
}

// runSweep is the scheduled task. Failures are logged and retried on the next tick.
func (js *JobScheduler) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), js.cfg.SweepTimeout)
	defer cancel()

	if _, err := js.Sweep(ctx); err != nil {
		log.Error().Err(err).Str("job", ArchivalJobName).Msg("archival sweep failed")
	}
}

// Sweep archives every DELIVERED order idle for longer than the dwell time.
func (js *JobScheduler) Sweep(ctx context.Context) (int, error) {
	archived, err := js.archiver.ArchiveDelivered(ctx, js.cfg.ArchiveDwell)
	if err != nil {
		return 0, errors.Wrap(err, "archive delivered orders")
	}
	if len(archived) > 0 {
		log.Info().Int("count", len(archived)).Dur("dwell", js.cfg.ArchiveDwell).Msg("archived delivered orders")
	}
	return len(archived), nil
}
