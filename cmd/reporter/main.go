package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/and161185/metrics-summary/cmd/reporter/collector"
	"github.com/and161185/metrics-summary/flatten"
	"github.com/and161185/metrics-summary/internal/buildinfo"
	"github.com/and161185/metrics-summary/internal/client"
	"github.com/and161185/metrics-summary/internal/config"
	"github.com/and161185/metrics-summary/metric"
	"github.com/and161185/metrics-summary/summary"
	"github.com/and161185/metrics-summary/summary/jsonfile"
)

func main() {
	buildinfo.PrintBuildInfo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.NewReporterConfig()

	var (
		writer summary.Writer
		err    error
	)
	if cfg.ServerAddr != "" {
		writer = client.NewClient(cfg)
	} else {
		writer, err = jsonfile.Open(cfg.EventLogPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	defer writer.Close()

	if err := run(ctx, cfg, writer); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

// run polls runtime metrics and writes a flattened summary pass every
// report interval, stamping an increasing step.
func run(ctx context.Context, cfg *config.ReporterConfig, writer summary.Writer) error {
	pollTicker := time.NewTicker(time.Duration(cfg.PollInterval) * time.Second)
	defer pollTicker.Stop()
	reportTicker := time.NewTicker(time.Duration(cfg.ReportInterval) * time.Second)
	defer reportTicker.Stop()

	var step int64
	metrics := collector.CollectRuntimeMetrics()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-pollTicker.C:
			metrics = collector.CollectRuntimeMetrics()
		case <-reportTicker.C:
			if err := report(ctx, writer, metrics, step); err != nil {
				return err
			}
			step++
		}
	}
}

func report(ctx context.Context, writer summary.Writer, metrics map[string]metric.Metric, step int64) error {
	flat, err := flatten.Flatten(metrics)
	if err != nil {
		return err
	}
	return summary.Write(ctx, writer, flat, step)
}
