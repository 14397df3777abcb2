package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/adapters/session"
	app "github.com/spencer-hanson/SaccadePopulationAnalysis/internal/app"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/internal/config"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/logger"
	"github.com/spencer-hanson/SaccadePopulationAnalysis/pkg/metrics"
)

var errUsage = errors.New("usage: saccmod -session <file> [-name <id>] [-report <file>]")

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run analyzes one session file and writes the JSON report to out, or to the
// -report file when given. Logs go to logOut.
func run(ctx context.Context, args []string, out, logOut io.Writer) error {
	fs := flag.NewFlagSet("saccmod", flag.ContinueOnError)
	fs.SetOutput(logOut)
	sessionPath := fs.String("session", "", "session document to analyze")
	name := fs.String("name", "", "session id override, used as the cache key")
	reportPath := fs.String("report", "", "write the report here instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *sessionPath == "" {
		return errUsage
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.InitWith(logOut, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	log := logger.Get()

	sess, err := session.Load(ctx, *sessionPath)
	if err != nil {
		return err
	}
	if *name != "" {
		sess.ID = *name
	}

	svc := app.New(app.WithConfig(cfg), app.WithLogger(log.Named("service")))
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			log.Warn(ctx, "closing result cache failed", logger.Error(err))
		}
	}()

	report, err := svc.Analyze(ctx, sess)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", sess.ID, err)
	}

	for _, mr := range report.Motions {
		log.Info(ctx, "motion summary",
			logger.Int("motion", mr.Motion),
			logger.Int("significant_timepoints", mr.Significant()),
			logger.Int("timepoints", len(mr.Timepoints)),
		)
	}

	if err := writeReport(report, *reportPath, out); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "metrics dump failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
		}
	}
	return nil
}

func writeReport(report *app.Report, path string, out io.Writer) error {
	if path == "" {
		return encodeReport(report, out)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := encodeReport(report, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	return nil
}

func encodeReport(report *app.Report, out io.Writer) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
