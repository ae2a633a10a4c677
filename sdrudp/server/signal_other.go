//go:build !unix

package server

import (
	"context"
	"os"
	"os/signal"
)

func NotifyShutdown(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}
