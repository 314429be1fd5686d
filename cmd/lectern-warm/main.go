package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lectern/internal/adapters/scripture"
	"lectern/internal/core/langs"
	"lectern/internal/modkit/module"
	"lectern/internal/platform/config"
	"lectern/internal/platform/logger"
	pstrings "lectern/internal/platform/strings"
	ptime "lectern/internal/platform/time"

	"lectern/internal/services/content"
	"lectern/internal/services/warm/domain"
	warmmod "lectern/internal/services/warm/module"
)

func main() {
	root := config.New()

	logger.Init(logger.FromEnv())
	l := logger.Get()

	today := ptime.Date(time.Now())
	var (
		fStart        = flag.String("start", today, "first gregorian date YYYY-MM-DD")
		fEnd          = flag.String("end", today, "last gregorian date YYYY-MM-DD inclusive")
		fTranslations = flag.String("translations", "", "comma separated bible ids; empty uses the default per language")
		fLang         = flag.String("lang", langs.Base, "language for month names and book lists")
		fWorkers      = flag.Int("workers", 0, "worker concurrency (0 uses LECTERN_WARM_WORKERS)")
	)
	flag.Parse()

	start, err := ptime.ParseDate(*fStart)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -start")
	}
	end, err := ptime.ParseDate(*fEnd)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -end")
	}

	translations := pstrings.SplitCSV(*fTranslations)
	if len(translations) == 0 {
		translations = []string{scripture.ResolveTranslation("", *fLang)}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stack, err := content.Open(ctx, content.Options{Service: "warm", Root: root})
	if err != nil {
		l.Fatal().Err(err).Msg("content.Open failed")
	}

	opts := warmmod.FromConfig(root)
	if *fWorkers > 0 {
		opts.Workers = *fWorkers
	}
	wm := warmmod.New(stack.Deps(), opts)
	module.Register(wm.Name(), wm.Ports())

	rep, runErr := module.MustPortsOf[warmmod.Ports](wm).Runner.Run(ctx, domain.Plan{
		Start:        start,
		End:          end,
		Translations: translations,
		Lang:         *fLang,
	})

	ev := l.Info().Int("items", rep.Items).Int("failed", len(rep.Failures))
	for src, n := range rep.BySource {
		ev = ev.Int(string(src), n)
	}
	ev.Msg("warm finished")
	for _, f := range rep.Failures {
		l.Error().Str("item", f.Item.String()).Err(f.Err).Msg("warm failure")
	}

	if err := stack.Close(context.Background()); err != nil {
		l.Error().Err(err).Msg("failed to close content stack")
	}
	if runErr != nil {
		l.Error().Err(runErr).Msg("warm failed")
		os.Exit(1)
	}
}
