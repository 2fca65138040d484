package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stocktrack/pkg/app"
)

// main acts as a thin adapter so `go install stocktrack/cmd/stocktrack` yields a binary.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := app.Run(ctx, os.Args[1:], nil)
	stop()
	if err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}
