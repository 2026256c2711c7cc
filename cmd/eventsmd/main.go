package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"eventsmd/internal/config"
	"eventsmd/internal/convert"
	"eventsmd/internal/ics"
	appLog "eventsmd/internal/log"
	"eventsmd/internal/pipeline"
	"eventsmd/internal/schedule"
	"eventsmd/internal/web"
)

var version = "0.1.0-dev"

type flagConfig struct {
	configPath string
	outPath    string
	daemon     bool
}

func main() {
	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.outPath != "" {
		conf.OutputPath = flags.outPath
	}
	if err := conf.Validate(); err != nil {
		appLog.Error("invalid config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	level, err := appLog.ParseLevel(conf.LogLevel)
	if err != nil {
		appLog.Error("invalid log level; using INFO", err)
	}
	appLog.SetLevel(level)

	loc, _ := conf.Location()

	appLog.Info("eventsmd starting",
		"version", version,
		"output", conf.OutputPath,
		"timezone", loc.String(),
		"daemon", flags.daemon,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := &pipeline.Runner{
		Fetcher:    ics.NewFetcher(nil),
		Clock:      pipeline.RealClock{Location: loc},
		FeedURL:    conf.FeedURL,
		OutputPath: conf.OutputPath,
		Header: convert.Header{
			Title: conf.Header.Title,
			URL:   conf.Header.URL,
		},
	}

	if !flags.daemon {
		if _, err := runner.Run(ctx); err != nil {
			appLog.Error("run failed", err)
			os.Exit(1)
		}
		return
	}

	if err := runDaemon(ctx, conf, runner); err != nil {
		appLog.Error("daemon failed", err)
		os.Exit(1)
	}
	appLog.Info("eventsmd exiting")
}

// runDaemon re-runs the pipeline on conf.Refresh and, when conf.Listen is
// set, serves the latest result over HTTP.
func runDaemon(ctx context.Context, conf *config.Config, runner *pipeline.Runner) error {
	loc, err := conf.Location()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var srv *web.Server
	var wg sync.WaitGroup
	errCh := make(chan error, 1)

	if conf.Listen != "" {
		srv = web.NewServer(conf)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.ListenAndServe(ctx); err != nil {
				errCh <- err
				cancel()
			}
		}()
	}

	err = schedule.Run(ctx, conf.Refresh, loc, func(ctx context.Context) error {
		res, err := runner.Run(ctx)
		if err != nil {
			return err
		}
		if srv != nil {
			srv.Update(res)
		}
		return nil
	})

	cancel()
	wg.Wait()

	if err != nil {
		return err
	}
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to YAML config file (built-in defaults when empty)")
	flag.StringVar(&cfg.outPath, "out", "", "Output markdown path (overrides config if set)")
	flag.BoolVar(&cfg.daemon, "daemon", false, "Keep running: refresh on the configured cron schedule and serve HTTP")

	flag.Parse()

	return cfg
}
