package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/OCharnyshevich/fakeentity/internal/config"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/internal/observer"
	"github.com/OCharnyshevich/fakeentity/internal/scenario"
	"github.com/OCharnyshevich/fakeentity/internal/tracker"
	"github.com/OCharnyshevich/fakeentity/internal/wire"
)

func main() {
	cfg := config.DefaultConfig()

	configPath := flag.String("config", "simulate.yaml", "config file (optional)")
	ticks := flag.Int64("ticks", 0, "stop after this many ticks (0 = run until interrupted)")
	flag.Float64Var(&cfg.ViewRadius, "view-radius", cfg.ViewRadius, "default entity view radius in blocks (-1 = unbounded)")
	flag.StringVar(&cfg.Protocol, "protocol", cfg.Protocol, "protocol of viewers that do not name one")
	flag.IntVar(&cfg.RerenderInterval, "rerender-interval", cfg.RerenderInterval, "ticks between visibility sweeps")
	flag.IntVar(&cfg.ResyncInterval, "resync-interval", cfg.ResyncInterval, "ticks between absolute position resyncs (0 = never)")
	flag.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "ticks per second")
	flag.IntVar(&cfg.CompressionThreshold, "compression-threshold", cfg.CompressionThreshold, "compress packets at least this large (-1 = never)")
	flag.StringVar(&cfg.ObserverAddr, "observer", cfg.ObserverAddr, "listen address for the websocket intent stream")
	flag.StringVar(&cfg.KindsFile, "kinds", cfg.KindsFile, "extra kind table file or directory")
	flag.StringVar(&cfg.Scenario, "scenario", cfg.Scenario, "scenario file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fromFile, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.Merge(cfg, fromFile, explicit)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cancel, cfg, *ticks, log); err != nil {
		log.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stop context.CancelFunc, cfg *config.Config, maxTicks int64, log *slog.Logger) error {
	version, _ := cfg.Version()

	kinds, err := loadKinds(cfg.KindsFile)
	if err != nil {
		return err
	}

	var hub *observer.Hub
	var pub observer.Publisher
	if cfg.ObserverAddr != "" {
		hub = observer.NewHub(log)
		pub = hub
	}
	transport := observer.NewTap(wire.NewTransport(version, log), pub, log)

	manager := tracker.NewManager(transport, tracker.Intervals{
		Rerender: int64(cfg.RerenderInterval),
		Resync:   int64(cfg.ResyncInterval),
	}, log)

	f, err := scenario.LoadFile(cfg.Scenario)
	if err != nil {
		return err
	}
	sim, err := scenario.New(f, manager, scenario.Options{
		Version:              version,
		ViewRadius:           cfg.ViewRadius,
		CompressionThreshold: cfg.CompressionThreshold,
		Kinds:                kinds,
		Log:                  log,
	})
	if err != nil {
		return err
	}

	log.Info("simulation started",
		"scenario", cfg.Scenario,
		"protocol", version,
		"entities", manager.EntityCount(),
		"viewers", manager.ViewerCount(),
		"tickRate", cfg.TickRate,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				sim.Step(manager.CurrentTick() + 1)
				manager.Tick()
				if maxTicks > 0 && manager.CurrentTick() >= maxTicks {
					stop()
					return nil
				}
			}
		}
	})

	if hub != nil {
		mux := http.NewServeMux()
		mux.Handle("/intents", hub)
		srv := &http.Server{Addr: cfg.ObserverAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			log.Info("observer listening", "addr", cfg.ObserverAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("observer: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			hub.Close()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()

	for _, v := range sim.Viewers() {
		packets, n := v.Stats()
		log.Info("viewer traffic", "viewer", v.Name(), "protocol", v.ProtocolVersion(), "packets", packets, "bytes", n)
	}
	if hub != nil && hub.Dropped() > 0 {
		log.Warn("observer dropped events", "count", hub.Dropped())
	}
	log.Info("simulation stopped", "ticks", manager.CurrentTick())
	return err
}

func loadKinds(path string) (*metadata.Registry, error) {
	if path == "" {
		return metadata.Default(), nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("kinds: %w", err)
	}
	if fi.IsDir() {
		return metadata.LoadDir(path)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kinds: %w", err)
	}
	defer fh.Close()
	return metadata.Load(fh)
}
