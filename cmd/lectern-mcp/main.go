package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"

	"lectern/internal/services/content"
	mcpsvc "lectern/internal/services/mcp/service"
)

func main() {
	root := config.New()

	// stdout carries the protocol
	opts := logger.FromEnv()
	opts.Writer = os.Stderr
	opts.Component = "mcp"
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := content.Open(ctx, content.Options{Service: "mcp", Root: root})
	if err != nil {
		l.Fatal().Err(err).Msg("content.Open failed")
	}

	serveErr := mcpsvc.New(stack.Deps()).Serve(ctx)

	if err := stack.Close(context.Background()); err != nil {
		l.Error().Err(err).Msg("failed to close content stack")
	}
	if serveErr != nil {
		l.Error().Err(serveErr).Msg("mcp server stopped")
		os.Exit(1)
	}
}
