package notifier

import (
	"context"

	"MarketLens/internal/logger"
)

// Notifier delivers a finished report.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// LogNotifier writes reports to the log when no chat is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, text string) error {
	logger.Info(ctx, "report", "text", text)
	return nil
}
