package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"supermarket-dashboard/internal/config"
	"supermarket-dashboard/internal/dataset"
	"supermarket-dashboard/internal/observability"
)

func main() {
	in := flag.String("in", "supermarket_sales.csv", "source dataset (.csv or .snap)")
	out := flag.String("out", "data_sales_dash.snap", "snapshot file to write")
	timeout := flag.Duration("timeout", 30*time.Second, "load timeout")
	logLevel := flag.String("log-level", "info", "log level: debug|info|warn|error")

	flag.Parse()

	logger := observability.NewLoggerTo(os.Stderr, config.LoggerConfig{Level: *logLevel, Format: "text"})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := convert(ctx, *in, *out)
	if err != nil {
		logger.Error("snapshot failed", "in", *in, "out", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot written", "in", *in, "out", *out, "records", n)
	fmt.Println("created snapshot:", *out)
}

// convert loads in and writes its records as a snapshot to out. The file is
// written next to out and renamed into place once complete.
func convert(ctx context.Context, in, out string) (int, error) {
	store, err := dataset.Load(ctx, in)
	if err != nil {
		return 0, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(out), ".snapshot-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := dataset.WriteSnapshot(tmp, store); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return 0, fmt.Errorf("rename snapshot: %w", err)
	}

	return store.Len(), nil
}
