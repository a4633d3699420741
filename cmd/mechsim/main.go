package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/mechsim/internal/core/events/bus"
	"github.com/zeusync/mechsim/internal/core/observability/log"
	"github.com/zeusync/mechsim/internal/core/scenario"
	phys "github.com/zeusync/mechsim/internal/core/systems/physics"
	"github.com/zeusync/mechsim/internal/injector"
	"github.com/zeusync/mechsim/pkg/concurrent"
)

func main() {
	ticks := flag.Uint64("ticks", 0, "ticks to run per scenario, 0 uses the scenario's own count")
	parallel := flag.Int("parallel", 4, "scenarios run at the same time, 0 for no limit")
	level := flag.String("log-level", "info", "debug, info, warn or error")
	check := flag.Bool("check", false, "load and build every scenario, then exit without running")
	flag.Usage = func() {
		_, _ = fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] scenario.yaml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	lvl, err := log.ParseLevel(*level)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	app := injector.InitializeApp(lvl)
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configs, err := scenario.LoadAll(ctx, flag.Args(), *parallel)
	if err != nil {
		app.Logger.Error("loading scenarios failed", log.Error(err))
		_ = app.Logger.Sync()
		os.Exit(1)
	}
	if *check {
		if err = scenario.CheckAll(ctx, configs, *parallel, app.Logger); err != nil {
			app.Logger.Error("scenario check failed", log.Error(err))
			_ = app.Logger.Sync()
			os.Exit(1)
		}
		return
	}

	errs := concurrent.Collect(ctx, configs, *parallel, func(ctx context.Context, cfg *scenario.Config) error {
		return run(ctx, app, cfg, *ticks)
	})

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		failed++
		if errors.Is(err, context.Canceled) {
			app.Logger.Warn("scenario interrupted", log.String("file", flag.Arg(i)))
			continue
		}
		app.Logger.Error("scenario failed", log.String("file", flag.Arg(i)), log.Error(err))
	}
	if failed > 0 {
		_ = app.Logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, app *injector.App, cfg *scenario.Config, ticks uint64) error {
	if ticks == 0 {
		ticks = cfg.Sim.Ticks
	}
	if ticks == 0 {
		return fmt.Errorf("scenario %s: no tick count given", cfg.Name)
	}

	base := app.Logger
	if cfg.Logging.Level != "" {
		// a scenario may only quieten itself
		lvl, _ := log.ParseLevel(cfg.Logging.Level)
		base = base.WithMinLevel(lvl)
	}
	logger := base.With(log.String("scenario", cfg.Name))

	eb := app.NewBus()
	_, err := eb.Subscribe(phys.EventContact, func(e bus.Event) error {
		c := e.Data().(phys.Contact)
		logger.Debug("contact",
			log.String("alpha", c.Alpha.Name()),
			log.String("beta", c.Beta.Name()),
			log.Bool("responded", c.Responded))
		return nil
	})
	if err != nil {
		return err
	}

	runner, err := cfg.Build(logger, eb)
	if err != nil {
		return fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}
	if err = runner.Run(ctx, ticks); err != nil {
		return fmt.Errorf("scenario %s: %w", cfg.Name, err)
	}

	s := runner.Summary()
	logger.Info("summary",
		log.Uint64("ticks", s.Ticks),
		log.Float64("elapsed", s.Elapsed),
		log.Int("bodies", s.Bodies),
		log.Int("robots", s.Robots),
		log.Uint64("passes", s.Stats.Passes),
		log.Uint64("contacts", s.Stats.Contacts),
		log.Uint64("responses", s.Stats.Responses),
		log.Hex("digest", s.Digest))
	for _, rb := range runner.Robots() {
		b := rb.Body()
		logger.Info("robot",
			log.String("name", rb.Name()),
			log.Float64("x", b.Position().X),
			log.Float64("y", b.Position().Y),
			log.Float64("heading", rb.Heading()),
			log.Any("readings", rb.Blackboard().Snapshot()))
	}
	return nil
}
