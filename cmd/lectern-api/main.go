package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	phttp "lectern/internal/platform/net/http"

	"lectern/internal/services/api"
	"lectern/internal/services/content"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("LECTERN_API_")

	logger.Init(logger.FromEnv())
	l := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := content.Open(ctx, content.Options{Service: "api", Root: root})
	if err != nil {
		l.Fatal().Err(err).Msg("content.Open failed")
	}

	// LECTERN_API_PORT and friends
	srv := phttp.NewServer(root.Prefix("LECTERN_"))
	api.Mount(srv.Router(), api.Options{
		Deps:           stack.Deps(),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	runErr := srv.Run(ctx)
	if err := stack.Close(context.Background()); err != nil {
		l.Error().Err(err).Msg("failed to close content stack")
	}
	if runErr != nil {
		l.Error().Err(runErr).Msg("http server stopped")
		os.Exit(1)
	}
}
