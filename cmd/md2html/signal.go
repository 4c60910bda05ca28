package main

import (
	"context"
	"os/signal"
)

// notifyContext cancels on the first shutdown signal so a running batch
// or preview server stops cleanly.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}
