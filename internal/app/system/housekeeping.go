package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/conecteai/sales_layer/pkg/logger"
)

var _ Service = (*Housekeeper)(nil)

// Job is a periodic maintenance task.
type Job func(ctx context.Context) error

// Housekeeper runs maintenance jobs on cron schedules.
type Housekeeper struct {
	log  *logger.Logger
	cron *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	running bool
	jobs    []string
}

// NewHousekeeper returns a housekeeper with no jobs. Schedules accept the
// standard five-field syntax and descriptors such as "@every 5m".
func NewHousekeeper(log *logger.Logger) *Housekeeper {
	if log == nil {
		log = logger.NewDefault("housekeeping")
	}
	return &Housekeeper{
		log:  log,
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  context.Background(),
	}
}

func (h *Housekeeper) Name() string { return "housekeeping" }

// Schedule registers job under name.
func (h *Housekeeper) Schedule(name, spec string, job Job) error {
	_, err := h.cron.AddFunc(spec, func() {
		h.run(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	h.mu.Lock()
	h.jobs = append(h.jobs, name)
	h.mu.Unlock()
	return nil
}

// Jobs lists scheduled job names.
func (h *Housekeeper) Jobs() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.jobs...)
}

func (h *Housekeeper) run(name string, job Job) {
	h.mu.Lock()
	ctx := h.ctx
	h.mu.Unlock()

	start := time.Now()
	entry := h.log.WithField("job", name)
	if err := job(ctx); err != nil {
		entry.WithError(err).Warn("housekeeping job failed")
		return
	}
	entry.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("housekeeping job completed")
}

func (h *Housekeeper) Start(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.running {
		return nil
	}
	h.ctx, h.cancel = context.WithCancel(context.WithoutCancel(ctx))
	h.running = true
	h.cron.Start()

	h.log.WithField("jobs", len(h.jobs)).Info("housekeeping started")
	return nil
}

func (h *Housekeeper) Stop(ctx context.Context) error {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	h.running = false
	cancel := h.cancel
	h.mu.Unlock()

	cancel()
	done := h.cron.Stop().Done()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	h.log.Info("housekeeping stopped")
	return nil
}
