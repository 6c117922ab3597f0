package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"luxbyte/internal/config"
	"luxbyte/internal/port"
	"luxbyte/pkg/logger"
)

// SlotWatchdog periodically sweeps upload slots that have been claimed but
// never settled. A crashed client or a hung transfer would otherwise pin its
// slot in an in-flight status forever; the sweep forces such slots to failed
// so the owner can retry.
type SlotWatchdog struct {
	slotRepo port.SlotRepository
	cfg      config.WatchdogConfig
}

// NewSlotWatchdog creates a SlotWatchdog.
func NewSlotWatchdog(slotRepo port.SlotRepository, cfg config.WatchdogConfig) *SlotWatchdog {
	return &SlotWatchdog{slotRepo: slotRepo, cfg: cfg}
}

// Start runs the sweep loop until ctx is canceled.
func (w *SlotWatchdog) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	logger.Info("slot watchdog started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Duration("stuck_after", w.cfg.StuckAfter))

	for {
		select {
		case <-ctx.Done():
			logger.Info("slot watchdog stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *SlotWatchdog) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-w.cfg.StuckAfter)
	n, err := w.slotRepo.FailStuck(ctx, cutoff)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Error("slot watchdog sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Warn("forced stuck upload slots to failed",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff))
	}
}
