package worker

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
)

// EscalationWorker runs the escalation scan on a cron schedule. The scan
// itself is idempotent, so an overlapping or missed tick is harmless.
type EscalationWorker struct {
	escalations *service.EscalationService
	metrics     *observability.Metrics
	logger      *zap.Logger
	schedule    string
	cron        *cron.Cron
}

// NewEscalationWorker constructs the worker. An empty schedule disables it.
func NewEscalationWorker(escalations *service.EscalationService, metrics *observability.Metrics, logger *zap.Logger, schedule string) *EscalationWorker {
	return &EscalationWorker{
		escalations: escalations,
		metrics:     metrics,
		logger:      logger,
		schedule:    schedule,
	}
}

// Start registers the cron entry and begins scheduling.
func (w *EscalationWorker) Start() error {
	if w.schedule == "" {
		w.logger.Info("escalation worker disabled; no schedule configured")
		return nil
	}

	w.cron = cron.New()
	if _, err := w.cron.AddFunc(w.schedule, w.runOnce); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Info("escalation worker started", zap.String("schedule", w.schedule))
	return nil
}

// Stop halts scheduling and waits for a running scan to finish.
func (w *EscalationWorker) Stop() {
	if w.cron == nil {
		return
	}
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("escalation worker stopped")
}

func (w *EscalationWorker) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	escalated, err := w.escalations.CheckEscalations(ctx)
	if err != nil {
		w.logger.Error("escalation scan failed", zap.Error(err))
		return
	}
	w.metrics.RecordEscalations(len(escalated))
	if len(escalated) > 0 {
		w.logger.Info("escalation scan complete", zap.Int("escalated", len(escalated)))
	}
}
