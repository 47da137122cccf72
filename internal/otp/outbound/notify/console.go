package notify

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/mediflow/internal/pkg/otp"
)

// Console writes the masked code to the log. It is the development driver.
type Console struct {
	logger *slog.Logger
}

// NewConsole logs through logger, or slog.Default when logger is nil.
func NewConsole(logger *slog.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) Send(ctx context.Context, identifier, code string) error {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "otp delivered", "channel", DriverConsole, "identifier", identifier, "masked_code", otp.Mask(code))
	return nil
}
