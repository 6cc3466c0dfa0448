package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"DailyKnowledge/internal/ports"
)

// parser accepts 6-field (with seconds) and 5-field expressions plus descriptors.
var parser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CronScheduler owns its (expression, job) registrations on a robfig/cron runner.
// Runs are not serialized: a slow run may overlap the next tick.
type CronScheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	loc     *time.Location
	entries []registration
	done    chan struct{}
	logger  *slog.Logger
}

type registration struct {
	spec string
	id   cron.EntryID
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler evaluating expressions in loc.
func NewCronScheduler(loc *time.Location, log *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	cl := cronLogger{logger: log}
	return &CronScheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		loc:    loc,
		logger: log,
	}
}

// Schedule registers job under spec; job receives the tick time in the scheduler location.
func (c *CronScheduler) Schedule(spec string, job func(time.Time)) error {
	if job == nil {
		return fmt.Errorf("nil job for %q", spec)
	}

	id, err := c.cron.AddFunc(spec, func() {
		job(time.Now().In(c.loc))
	})
	if err != nil {
		return fmt.Errorf("parse cron expression %q: %w", spec, err)
	}

	c.mu.Lock()
	c.entries = append(c.entries, registration{spec: spec, id: id})
	c.mu.Unlock()

	c.logger.Debug("job scheduled", "spec", spec, "entry", id)
	return nil
}

// Specs lists registered expressions in registration order.
func (c *CronScheduler) Specs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	specs := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		specs = append(specs, e.spec)
	}
	return specs
}

// Start begins evaluating schedules; cancelling ctx stops the scheduler.
func (c *CronScheduler) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done != nil {
		return nil
	}

	c.done = make(chan struct{})
	c.cron.Start()
	for _, e := range c.entries {
		c.logger.Info("scheduler started", "spec", e.spec, "next", c.cron.Entry(e.id).Next)
	}

	done := c.done
	go func() {
		select {
		case <-ctx.Done():
			c.cron.Stop()
		case <-done:
		}
	}()

	return nil
}

// Stop halts the scheduler and waits for running jobs until ctx expires.
func (c *CronScheduler) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.done == nil {
		c.mu.Unlock()
		return nil
	}
	close(c.done)
	c.done = nil
	c.mu.Unlock()

	stopped := c.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger routes robfig/cron logging into slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
