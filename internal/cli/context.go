package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// commandContext is cancelled on SIGINT/SIGTERM
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
