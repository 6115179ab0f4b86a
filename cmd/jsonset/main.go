package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abk7777/aws-json-dataset/internal/config"
	"github.com/abk7777/aws-json-dataset/internal/metrics"
	"github.com/abk7777/aws-json-dataset/internal/server"
	"github.com/abk7777/aws-json-dataset/pkg/batch"
	"github.com/abk7777/aws-json-dataset/pkg/dataset"
	"github.com/abk7777/aws-json-dataset/pkg/service"
	"github.com/abk7777/aws-json-dataset/pkg/transport"
)

const defaultMetricsAddr = ":9097"

func main() {
	var configPath string
	var inputPath string
	var serviceName string
	var savePath string
	var dryRun bool
	flag.StringVar(&configPath, "config", "config/config.yaml", "Path to jsonset config")
	flag.StringVar(&inputPath, "input", "", "Path to the dataset JSON file")
	flag.StringVar(&serviceName, "service", "", "Target service (overrides config)")
	flag.StringVar(&savePath, "save", "", "Optional path to re-export the dataset")
	flag.BoolVar(&dryRun, "dry-run", false, "Batch and account for records without sending to AWS")
	flag.Parse()

	logger := newLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if serviceName == "" {
		serviceName = cfg.Service
	}
	if inputPath == "" {
		logger.Error("missing -input dataset file")
		os.Exit(1)
	}

	ds, err := dataset.Open(inputPath)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "path", inputPath)
		os.Exit(1)
	}
	if savePath != "" {
		if err := ds.Save(savePath); err != nil {
			logger.Error("failed to re-export dataset", "error", err, "path", savePath)
			os.Exit(1)
		}
		logger.Info("dataset re-exported", "path", savePath)
	}
	if ds.NumRecords() == 0 {
		logger.Info("dataset is empty; nothing to dispatch")
		return
	}

	maxSize, err := ds.MaxRecordSize()
	if err != nil {
		logger.Error("failed to size dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("dataset loaded",
		"path", inputPath,
		"records", ds.NumRecords(),
		"max_record_bytes", maxSize,
		"available_services", strings.Join(service.AvailableFor(maxSize), ","))

	desc, err := service.Validate(serviceName, maxSize)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("validate").Inc()
		logger.Error("service validation failed", "error", err, "service", serviceName)
		os.Exit(1)
	}

	metricsAddr := envOrDefault("JSONSET_METRICS_ADDR", cfg.Metrics.Addr)
	if metricsAddr == "" {
		metricsAddr = defaultMetricsAddr
	}
	server.Start(ctx, metricsAddr, logger)

	tcfg := transport.Config{
		Region:          cfg.AWS.Region,
		Endpoint:        cfg.AWS.Endpoint,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		SessionToken:    cfg.AWS.SessionToken,
		QueueURL:        cfg.AWS.QueueURL,
		TopicARN:        cfg.AWS.TopicARN,
		StreamName:      cfg.AWS.StreamName,
	}

	if !dryRun {
		logger = withAccount(ctx, logger, tcfg)
	}

	sender, err := buildSender(ctx, desc.Name, tcfg, dryRun)
	if err != nil {
		logger.Error("failed to build sender", "error", err, "service", desc.Name)
		os.Exit(1)
	}

	dispatcher := &batch.Dispatcher{
		Sender: &timedSender{inner: sender, service: desc.Name},
		OnBatch: func(b batch.Batch, res batch.Result, err error) {
			metrics.BatchesTotal.WithLabelValues(desc.Name).Inc()
			metrics.BatchBytes.WithLabelValues(desc.Name).Observe(float64(b.Bytes))
			if err != nil {
				metrics.ErrorsTotal.WithLabelValues("send").Inc()
				metrics.RecordsTotal.WithLabelValues(desc.Name, "failed").Add(float64(len(b.Entries)))
				return
			}
			metrics.RecordsTotal.WithLabelValues(desc.Name, "sent").Add(float64(len(res.Successful)))
			metrics.RecordsTotal.WithLabelValues(desc.Name, "failed").Add(float64(len(res.Failed)))
		},
	}

	report, err := dispatcher.Dispatch(ctx, ds, desc)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("dispatch").Inc()
		logger.Error("dispatch failed", "error", err, "service", desc.Name)
		os.Exit(1)
	}

	for _, failure := range report.Failures {
		if failure.Err != nil {
			logger.Warn("batch send failed", "batch", failure.Batch, "error", failure.Err)
			continue
		}
		for _, f := range failure.Failed {
			logger.Warn("entry rejected", "batch", failure.Batch, "id", f.ID, "reason", f.Reason)
		}
	}

	logger.Info("dispatch complete",
		"service", desc.Name,
		"batches", report.Batches,
		"records", report.Records,
		"confirmed", report.Confirmed,
		"failed_batches", len(report.Failures))

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}

func buildSender(ctx context.Context, name string, cfg transport.Config, dryRun bool) (batch.Sender, error) {
	if dryRun {
		return transport.NewMemorySender(), nil
	}
	switch name {
	case service.SQS:
		return transport.NewSQSSender(ctx, cfg)
	case service.SNS:
		return transport.NewSNSSender(ctx, cfg)
	case service.Firehose:
		return transport.NewFirehoseSender(ctx, cfg)
	default:
		return nil, fmt.Errorf("no transport for service %q", name)
	}
}

// withAccount annotates the logger with the caller's AWS account id. The
// lookup is best-effort: dispatch proceeds without the annotation if STS is
// unreachable.
func withAccount(ctx context.Context, logger *slog.Logger, cfg transport.Config) *slog.Logger {
	ident, err := transport.NewCallerIdentity(ctx, cfg)
	if err != nil {
		logger.Warn("caller identity unavailable", "error", err)
		return logger
	}
	account, err := ident.AccountID(ctx)
	if err != nil {
		logger.Warn("caller identity lookup failed", "error", err)
		return logger
	}
	return logger.With("account", account)
}

type timedSender struct {
	inner   batch.Sender
	service string
}

func (t *timedSender) Send(ctx context.Context, entries []batch.Entry) (batch.Result, error) {
	start := time.Now()
	res, err := t.inner.Send(ctx, entries)
	metrics.DispatchLatency.WithLabelValues(t.service).Observe(float64(time.Since(start)) / float64(time.Millisecond))
	return res, err
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("JSONSET_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler).With("component", "jsonset")
}

func envOrDefault(name, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(name)); val != "" {
		return val
	}
	return fallback
}
