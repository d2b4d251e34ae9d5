package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"rentguy/internal/jobs"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	overdueInvoicesJob = "overdue-invoices"
	leaseExpiryJob     = "lease-expiry"
)

// JobScheduler runs the sweeps on a fixed interval inside the worker process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	sweeper   *jobs.Sweeper
	log       logrus.FieldLogger
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers every sweep.
func NewJobScheduler(sweeper *jobs.Sweeper, interval time.Duration, log logrus.FieldLogger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		sweeper:   sweeper,
		log:       log,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(interval); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) registerJobs(interval time.Duration) error {
	tasks := map[string]func(context.Context) error{
		overdueInvoicesJob: js.sweeper.MarkOverdueInvoices,
		leaseExpiryJob:     js.sweeper.ExpireLeases,
	}
	for name, task := range tasks {
		if err := js.addJob(name, interval, task); err != nil {
			return err
		}
	}
	js.log.WithField("jobs", len(js.jobs)).Info("Registered background jobs")
	return nil
}

func (js *JobScheduler) addJob(name string, interval time.Duration, task func(context.Context) error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func(ctx context.Context) error { return task(ctx) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}
	js.jobs[name] = job
	return nil
}

func (js *JobScheduler) Start() {
	js.log.Info("Starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
