package parquet

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/common"
	"github.com/xitongsys/parquet-go/reader"
)

// NumRows returns the row count recorded in a Parquet payload's footer.
func NumRows(data []byte) (int64, error) {
	fr := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetColumnReader(fr, writerParallelism)
	if err != nil {
		return 0, fmt.Errorf("parquet: open reader: %w", err)
	}
	defer pr.ReadStop()

	return pr.GetNumRows(), nil
}

// ReadColumn reads every value of the named column from a Parquet payload.
// It returns the physical values in row order plus the definition levels
// (0 marks a null row). Used for round-trip verification.
func ReadColumn(data []byte, name string) ([]interface{}, []int32, error) {
	fr := buffer.NewBufferFileFromBytes(data)
	pr, err := reader.NewParquetColumnReader(fr, writerParallelism)
	if err != nil {
		return nil, nil, fmt.Errorf("parquet: open reader: %w", err)
	}
	defer pr.ReadStop()

	values, _, dls, err := pr.ReadColumnByPath(
		common.ReformPathStr("parquet_go_root."+name),
		pr.GetNumRows(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("parquet: read column %q: %w", name, err)
	}
	return values, dls, nil
}
