//go:build !windows

package service

import (
	"context"

	"github.com/aatumaykin/kioskclean/internal/logger"
)

// Run hosts h in the foreground. There are no session notifications outside
// Windows; events come from the CLI or the scheduled triggers.
func Run(ctx context.Context, _ string, h Handler, log *logger.Logger) error {
	return runForeground(ctx, h, log)
}

// IsService reports whether the process was started by a service manager.
func IsService() bool {
	return false
}
