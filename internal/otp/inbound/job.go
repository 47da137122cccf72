package inbound

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/mediflow/internal/pkg/config"
	"github.com/shandysiswandi/mediflow/internal/pkg/goroutine"
	"github.com/shandysiswandi/mediflow/internal/pkg/instrument"
	"github.com/shandysiswandi/mediflow/internal/pkg/uid"
	"go.uber.org/atomic"
)

// Janitor runs PurgeExpired on a ticker. A tick that arrives while the
// previous run is still going is skipped.
type Janitor struct {
	uc       ucJanitor
	uuid     uid.StringID
	interval time.Duration
	running  atomic.Bool
}

func NewJanitor(uc ucJanitor, uuid uid.StringID, interval time.Duration) *Janitor {
	return &Janitor{uc: uc, uuid: uuid, interval: interval}
}

// RegisterJanitor starts the janitor on the goroutine manager. A zero
// interval disables it.
func RegisterJanitor(ctx context.Context, cfg config.Config, routine *goroutine.Manager, uuid uid.StringID, uc ucJanitor) {
	interval := cfg.GetMinute("otp.janitor.interval_minutes")
	if interval <= 0 {
		slog.InfoContext(ctx, "otp janitor disabled")
		return
	}

	j := NewJanitor(uc, uuid, interval)
	routine.Go(ctx, "otp-janitor", j.Run)
}

func (j *Janitor) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Running job for otp janitor", "interval", j.interval.String())

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.Tick(ctx)
		}
	}
}

// Tick runs one purge unless another is in progress. It reports whether it
// ran.
func (j *Janitor) Tick(ctx context.Context) bool {
	if !j.running.CompareAndSwap(false, true) {
		slog.WarnContext(ctx, "otp janitor still running, skipping tick")
		return false
	}
	defer j.running.Store(false)

	ctx = instrument.SetCorrelationID(ctx, j.uuid.Generate())
	if _, err := j.uc.PurgeExpired(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to purge expired otp records", "error", err)
	}

	return true
}
