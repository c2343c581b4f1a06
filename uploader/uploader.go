// Package uploader implements the dataset upload pipeline: locate a local
// delimited file, detect its text encoding, parse it into a tabular buffer,
// serialize the buffer to Parquet, and publish the result to the object
// store under a dataset-specific prefix with full-overwrite semantics.
//
// Datasets are processed sequentially in configured order. Each dataset is
// independent: a missing file or failed upload is reported and the run
// continues with the next dataset. No retries are performed; a single
// failed attempt is terminal for that dataset within the run.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/Nmudassar/-ETL-Projects/config"
	"github.com/Nmudassar/-ETL-Projects/parquet"
	"github.com/Nmudassar/-ETL-Projects/store"
	"github.com/Nmudassar/-ETL-Projects/tabular"
)

// objectName is the object each dataset's prefix holds after an upload.
const objectName = "data.parquet"

// ObjectStore is the destination surface the uploader needs. *store.Client
// satisfies it; tests substitute in-memory implementations.
type ObjectStore interface {
	ReplacePrefix(
		ctx context.Context,
		bucket, prefix, key string,
		data []byte,
		opts ...store.PutOption,
	) (*store.PutResult, error)
}

// Uploader converts and publishes configured datasets. All fields are fixed
// at construction; the only state shared between dataset iterations is the
// read-only store handle and configuration.
type Uploader struct {
	store  ObjectStore
	fs     billy.Filesystem
	cfg    *config.Config
	logger *slog.Logger
}

// New creates an Uploader reading source files from fs and writing to st.
// A nil logger disables logging.
func New(st ObjectStore, fs billy.Filesystem, cfg *config.Config, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{
		store:  st,
		fs:     fs,
		cfg:    cfg,
		logger: logger,
	}
}

// ProcessDataset runs the five-step pipeline for one dataset and reports
// the outcome. It never panics and never aborts the caller's loop: every
// failure mode is folded into the returned Result.
func (u *Uploader) ProcessDataset(ctx context.Context, ds config.Dataset) Result {
	log := u.logger.With("dataset", ds.Name)
	log.Info("processing dataset", "source", ds.Source)

	// Step 1: existence check. Missing files are a skip, not an abort, and
	// short-circuit before any network I/O.
	if _, err := u.fs.Stat(ds.Source); err != nil {
		if os.IsNotExist(err) {
			log.Warn("source file missing, skipping dataset", "source", ds.Source)
			return Result{
				Dataset: ds.Name,
				Outcome: OutcomeMissing,
				Err:     fmt.Errorf("%w: %s", ErrMissingSourceFile, ds.Source),
			}
		}
		return u.failed(log, ds, fmt.Errorf("stat %s: %w", ds.Source, err))
	}

	raw, err := util.ReadFile(u.fs, ds.Source)
	if err != nil {
		return u.failed(log, ds, fmt.Errorf("read %s: %w", ds.Source, err))
	}

	// Step 2: encoding detection with configured fallback.
	decoded, det, err := tabular.DecodeFile(raw, u.cfg.FallbackEncoding)
	if err != nil {
		return u.failed(log, ds, err)
	}
	if det.Fallback {
		log.Info("charset detection inconclusive, using fallback",
			"charset", det.Charset)
	} else {
		log.Debug("charset detected",
			"charset", det.Charset, "confidence", det.Confidence)
	}

	// Step 3: parse into the tabular buffer.
	table, err := tabular.ReadCSV(bytes.NewReader(decoded), ds.Source)
	if err != nil {
		return u.failed(log, ds, err)
	}

	// Step 4: columnar conversion.
	payload, err := parquet.Marshal(table)
	if err != nil {
		return u.failed(log, ds, err)
	}

	// Step 5: full-overwrite upload.
	prefix := u.destinationPrefix(ds)
	key := path.Join(prefix, objectName)
	if _, err := u.store.ReplacePrefix(ctx, u.cfg.Bucket, prefix+"/", key, payload); err != nil {
		return u.failed(log, ds, err)
	}

	dest := fmt.Sprintf("s3://%s/%s", u.cfg.Bucket, key)
	log.Info("dataset uploaded",
		"destination", dest, "rows", table.NumRows(), "bytes", len(payload))

	return Result{
		Dataset:     ds.Name,
		Outcome:     OutcomeUploaded,
		Destination: dest,
		Rows:        table.NumRows(),
		Charset:     det.Charset,
	}
}

// Run processes every dataset in configured order and aggregates the
// outcomes. Errors on one dataset never prevent attempting the rest.
func (u *Uploader) Run(ctx context.Context, datasets []config.Dataset) Summary {
	summary := Summary{Results: make([]Result, 0, len(datasets))}
	for _, ds := range datasets {
		summary.Results = append(summary.Results, u.ProcessDataset(ctx, ds))
	}

	u.logger.Info("run complete",
		"uploaded", summary.Uploaded(),
		"missing", summary.Missing(),
		"failed", summary.Failed())
	return summary
}

// destinationPrefix derives the object key prefix for a dataset. The layout
// is <prefix>/<suffix> with the configured global prefix; the suffix
// defaults to the dataset name at manifest load time.
func (u *Uploader) destinationPrefix(ds config.Dataset) string {
	if u.cfg.Prefix == "" {
		return ds.Suffix
	}
	return path.Join(u.cfg.Prefix, ds.Suffix)
}

// failed logs and wraps a per-dataset failure.
func (u *Uploader) failed(log *slog.Logger, ds config.Dataset, err error) Result {
	log.Error("dataset failed", "error", err)
	return Result{
		Dataset: ds.Name,
		Outcome: OutcomeFailed,
		Err:     fmt.Errorf("dataset %s: %w", ds.Name, err),
	}
}
