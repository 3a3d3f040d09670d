package dispatch

import (
	"context"
	"log/slog"
)

// Log is the development backend: records are logged, never shipped, and
// dispatch always succeeds.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (d *Log) Dispatch(ctx context.Context, table string, record map[string]any) error {
	d.logger.InfoContext(ctx, "dispatch (log backend)",
		"table", table,
		"record", record,
	)
	return nil
}
