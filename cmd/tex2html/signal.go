package main

import (
	"context"
	"os/signal"
)

// notifyContext returns a context canceled on the first of cancelSignals.
// Render commands run under that context, so their process groups die with
// it. Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, cancelSignals...)
}
