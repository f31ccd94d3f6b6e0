package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/webroot/app"
	"github.com/dmitrymomot/webroot/core/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "webroot: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New()
	if err != nil {
		return err
	}

	if err := a.Run(ctx); err != nil {
		a.Logger().Error("server stopped with error", logger.Error(err))
		return err
	}
	return nil
}
