// Package parquet serializes a tabular buffer into a compressed,
// self-describing Parquet payload. The schema is built at runtime from the
// table's inferred columns, so no struct definitions are required. Output is
// produced on in-memory buffer files; nothing touches the local filesystem.
package parquet

import (
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/Nmudassar/-ETL-Projects/tabular"
)

// writerParallelism is the number of goroutines the parquet writer uses to
// marshal row groups. Dataset files here are small; one is plenty.
const writerParallelism = 1

// Marshal converts a table into Parquet bytes with SNAPPY compression.
// Column names and inferred logical types are preserved: dates become DATE,
// timestamps TIMESTAMP_MILLIS, whole numbers INT64, decimals DOUBLE,
// booleans BOOLEAN, and text UTF8. Every field is optional so null cells
// survive the round trip.
func Marshal(t *tabular.Table) ([]byte, error) {
	md, err := schemaOf(t)
	if err != nil {
		return nil, err
	}

	fw := buffer.NewBufferFile()
	pw, err := writer.NewCSVWriter(md, fw, writerParallelism)
	if err != nil {
		return nil, fmt.Errorf("parquet: create writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for row := 0; row < t.NumRows(); row++ {
		rec, err := physicalRow(t, row)
		if err != nil {
			return nil, err
		}
		if err := pw.Write(rec); err != nil {
			return nil, fmt.Errorf("parquet: write row %d: %w", row, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet: finalize: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("parquet: close buffer: %w", err)
	}

	return fw.Bytes(), nil
}

// schemaOf builds the parquet-go metadata schema for a table.
func schemaOf(t *tabular.Table) ([]string, error) {
	columns := t.Columns()
	if len(columns) == 0 {
		return nil, fmt.Errorf("parquet: table has no columns")
	}

	md := make([]string, len(columns))
	for i, col := range columns {
		switch col.Kind {
		case tabular.KindInt64:
			md[i] = fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", col.Name)
		case tabular.KindFloat64:
			md[i] = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", col.Name)
		case tabular.KindBool:
			md[i] = fmt.Sprintf("name=%s, type=BOOLEAN, repetitiontype=OPTIONAL", col.Name)
		case tabular.KindDate:
			md[i] = fmt.Sprintf("name=%s, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL", col.Name)
		case tabular.KindTimestamp:
			md[i] = fmt.Sprintf(
				"name=%s, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=OPTIONAL", col.Name)
		default:
			md[i] = fmt.Sprintf(
				"name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL", col.Name)
		}
	}
	return md, nil
}

// physicalRow converts one table row into the physical parquet values the
// writer expects: int64, float64, bool, int32 (days) for dates, int64
// (millis) for timestamps, string for text, nil for nulls.
func physicalRow(t *tabular.Table, row int) ([]interface{}, error) {
	typed, err := t.TypedRow(row)
	if err != nil {
		return nil, fmt.Errorf("parquet: %w", err)
	}

	rec := make([]interface{}, len(typed))
	columns := t.Columns()
	for col, v := range typed {
		if v == nil {
			continue
		}
		switch columns[col].Kind {
		case tabular.KindDate:
			rec[col] = tabular.DaysSinceEpoch(v.(time.Time))
		case tabular.KindTimestamp:
			rec[col] = v.(time.Time).UnixMilli()
		default:
			rec[col] = v
		}
	}
	return rec, nil
}
