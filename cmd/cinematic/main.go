// Cinematic - camera movement queue for the world viewer
//
// Serves the shot API, ticks the movement engine at the configured frame
// rate and pushes camera poses to the viewer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-cinematic/internal/config"
	"github.com/teslashibe/go-cinematic/internal/log"
	"github.com/teslashibe/go-cinematic/pkg/api"
	"github.com/teslashibe/go-cinematic/pkg/movement"
	"github.com/teslashibe/go-cinematic/pkg/shotlist"
	"github.com/teslashibe/go-cinematic/pkg/viewer"
)

type options struct {
	configPath string
	shotsPath  string
	debug      bool
	dryRun     bool
}

func main() {
	opts := parseFlags(os.Args[1:])

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts.shotsPath); err != nil {
		log.Error("cinematic stopped", "error", err)
		os.Exit(1)
	}
	log.Info("cinematic stopped")
}

// parseFlags parses command line flags.
func parseFlags(args []string) options {
	var opts options
	fs := flag.NewFlagSet("cinematic", flag.ExitOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.StringVar(&opts.shotsPath, "shots", "", "YAML shot list to enqueue at startup")
	fs.BoolVar(&opts.debug, "debug", false, "Enable verbose debug logging")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "Log poses instead of sending them to the viewer")
	_ = fs.Parse(args)
	return opts
}

// loadConfig applies flags over the file and environment, then validates.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	if opts.dryRun {
		cfg.DryRun = true
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, errors.New(strings.Join(errs, "; "))
	}
	return cfg, nil
}

// poseOutput picks where poses go: the log in dry-run mode, the WebSocket
// stream when configured, the viewer HTTP API otherwise. The returned closer
// is never nil.
func poseOutput(ctx context.Context, cfg config.Config) (movement.PoseSink, func() error, error) {
	noop := func() error { return nil }

	switch {
	case cfg.DryRun:
		log.Info("dry run, poses are logged only")
		return viewer.NewLogSink(log.With("component", "poses")), noop, nil
	case cfg.StreamURL != "":
		stream, err := viewer.DialStream(ctx, cfg.StreamURL)
		if err != nil {
			return nil, noop, err
		}
		log.Info("streaming poses", "url", cfg.StreamURL)
		return viewer.NewDeadZone(stream, 0), stream.Close, nil
	default:
		log.Info("sending poses over http", "url", cfg.ViewerURL)
		return viewer.NewDeadZone(viewer.NewHTTPClient(cfg.ViewerURL), 0), noop, nil
	}
}

// run wires the engine, frame loop and API, and blocks until ctx is done or
// one of them fails.
func run(ctx context.Context, cfg config.Config, shotsPath string) error {
	sink, closeSink, err := poseOutput(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSink(); err != nil {
			log.Warn("pose output close failed", "error", err)
		}
	}()

	engineCfg := cfg.Engine()
	engineCfg.Logger = log.With("component", "movement")
	m := movement.NewManager(engineCfg, movement.SystemClock{}, sink)
	if cfg.ViewerURL != "" {
		m.SetBoundsProvider(viewer.NewHTTPClient(cfg.ViewerURL))
	}

	if shotsPath != "" {
		if err := enqueueShots(m, shotsPath); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return viewer.RunFrames(ctx, cfg.FrameInterval(), nil, m.Tick)
	})
	g.Go(func() error {
		return api.NewServer(cfg.ListenAddr, m, cfg.StatusRate).Run(ctx)
	})

	log.Info("cinematic running",
		"listen", cfg.ListenAddr,
		"frame_rate", cfg.FrameRate,
		"max_queue_size", cfg.MaxQueueSize)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// enqueueShots loads a shot list and enqueues it in order.
func enqueueShots(m *movement.Manager, path string) error {
	list, err := shotlist.Read(path)
	if err != nil {
		return fmt.Errorf("shot list %s: %w", path, err)
	}
	reqs, err := list.Requests()
	if err != nil {
		return fmt.Errorf("shot list %s: %w", path, err)
	}
	for i, req := range reqs {
		res, err := m.Enqueue(req)
		if err != nil {
			return fmt.Errorf("shot list %s: shot %d: %w", path, i+1, err)
		}
		log.Debug("shot enqueued", "shot", i+1, "movement_id", res.MovementID, "operation", req.ShotType)
	}
	log.Info("shot list loaded", "name", list.Name, "shots", len(reqs))
	return nil
}
