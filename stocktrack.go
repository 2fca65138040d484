package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stocktrack/pkg/app"
)

// main exposes a root-level entry point so operators can simply run `go run stocktrack.go`.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args[1:], nil)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
