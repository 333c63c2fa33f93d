package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/tenantcore/tenantcore/internal/config"
	"github.com/tenantcore/tenantcore/internal/logger"
	"github.com/tenantcore/tenantcore/internal/service"
)

// BillingScheduler runs recurring billing ticks on a cron schedule. Each
// tick delegates to the billing service, which already rejects overlapping
// runs, so a slow tick never stacks up behind the next one.
type BillingScheduler struct {
	cron    *cron.Cron
	billing service.BillingService
	cfg     *config.Configuration
	log     *logger.Logger
}

func NewBillingScheduler(billing service.BillingService, cfg *config.Configuration, log *logger.Logger) *BillingScheduler {
	return &BillingScheduler{
		cron:    cron.New(),
		billing: billing,
		cfg:     cfg,
		log:     log,
	}
}

// Start registers the billing job and launches the cron loop. An empty
// schedule disables the background scheduler entirely.
func (s *BillingScheduler) Start() error {
	schedule := s.cfg.Billing.CronSchedule
	if schedule == "" {
		s.log.Infow("billing scheduler disabled, no cron schedule configured")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, s.tick)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Infow("billing scheduler started", "schedule", schedule)
	return nil
}

// Stop halts the cron loop and waits for any in-flight tick to finish.
func (s *BillingScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Infow("billing scheduler stopped")
}

func (s *BillingScheduler) tick() {
	resp, err := s.billing.TriggerBillingRun(context.Background())
	if err != nil {
		s.log.Errorw("scheduled billing run failed", "error", err)
		return
	}

	s.log.Infow("scheduled billing run completed",
		"period_key", resp.PeriodKey,
		"attempted", resp.Attempted,
		"created", resp.Created,
		"failed", resp.Failed)
}
