package lifecycle

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"jobmatch/internal/config"
	"jobmatch/internal/logging"
)

// Scheduler wraps robfig/cron and fires the status sweep on the configured
// spec, every six hours by default.
type Scheduler struct {
	cron      *cron.Cron
	simulator *Simulator
	spec      string
}

// NewScheduler creates a scheduler bound to the simulator
func NewScheduler(sim *Simulator, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		simulator: sim,
		spec:      cfg.Lifecycle.CronSpec,
	}
}

// Start registers the sweep and starts the cron loop. The first sweep waits
// for the first tick; applications created at startup should age before
// rolling.
func (s *Scheduler) Start(ctx context.Context) error {
	logger := logging.GetGlobalLogger()

	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.simulator.RunSweep(ctx); err != nil {
			logger.Error("lifecycle sweep failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	})
	if err != nil {
		return fmt.Errorf("registering sweep: %w", err)
	}

	s.cron.Start()
	logger.Info("lifecycle scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// Stop halts the cron loop and waits for an in-flight sweep to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	logging.GetGlobalLogger().Info("lifecycle scheduler stopped")
}
