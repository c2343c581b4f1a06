// Command elt converts the configured local CSV datasets to Parquet and
// publishes them to the object store. Exits 0 only when every dataset
// uploads; any skip or failure yields a non-zero exit so schedulers can see
// partial failure.
//
// Usage:
//
//	elt [-manifest datasets.yaml] [-env .env]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"

	"github.com/Nmudassar/-ETL-Projects/config"
	"github.com/Nmudassar/-ETL-Projects/store"
	"github.com/Nmudassar/-ETL-Projects/uploader"
)

func main() {
	var manifestPath string
	var envPath string
	var verbose bool
	flag.StringVar(&manifestPath, "manifest", "datasets.yaml", "path to the dataset manifest")
	flag.StringVar(&envPath, "env", ".env", "path to an optional .env file")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	if err := run(manifestPath, envPath, verbose); err != nil {
		fmt.Fprintf(os.Stderr, "elt: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, envPath string, verbose bool) error {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	fsys := osfs.New(".")
	datasets, err := config.LoadManifest(fsys, manifestPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	st, err := store.New(ctx,
		store.WithRegion(cfg.Region),
		store.WithStaticCredentials(cfg.AccessKey, cfg.SecretKey),
	)
	if err != nil {
		return err
	}

	summary := uploader.New(st, fsys, cfg, logger).Run(ctx, datasets)
	if !summary.Ok() {
		return fmt.Errorf("%d of %d datasets did not upload",
			len(summary.Results)-summary.Uploaded(), len(summary.Results))
	}
	return nil
}
