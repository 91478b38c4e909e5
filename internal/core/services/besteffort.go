package services

import (
	"context"
	"fmt"
	"log/slog"
)

// bestEffort runs post-commit phases. A phase failure, whether an error
// or a panic, is captured into a structured log record and absorbed, so
// no phase can turn an already-committed creation into a request failure.
type bestEffort struct {
	logger *slog.Logger
}

// run executes fn and logs any failure alongside the given attributes.
func (b bestEffort) run(ctx context.Context, phase string, fn func(context.Context) error, attrs ...any) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("phase panicked",
				append([]any{"phase", phase, "error", fmt.Sprint(r)}, attrs...)...)
		}
	}()

	if err := fn(ctx); err != nil {
		b.logger.Error("phase failed",
			append([]any{"phase", phase, "error", err}, attrs...)...)
	}
}
