// File: cmd/hotspot-cli/main.go
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/hotspot-cli/cmd"
	"github.com/xkilldash9x/hotspot-cli/internal/observability"
)

func main() {
	// Listen for interrupt signals so Ctrl-C cancels the fetch loop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Aborted by signal; the run failed and produced nothing.
			os.Exit(130)
		}
		os.Exit(1)
	}
}
