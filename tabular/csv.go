package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// MalformedInputError reports a parse failure in a delimited text file,
// with the row position when the CSV layer provides one.
type MalformedInputError struct {
	// Path is the source file path, when known
	Path string

	// Line is the 1-based line number of the failure, 0 if unknown
	Line int

	// Err is the underlying parse error
	Err error
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("tabular: malformed input %s:%d: %v", e.Path, e.Line, e.Err)
	case e.Path != "":
		return fmt.Sprintf("tabular: malformed input %s: %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("tabular: malformed input: %v", e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// ReadCSV parses delimited text into a Table. The first record is the
// header row; column types are inferred from the remaining records. Empty
// cells become nulls. Records with a column count different from the header
// fail with a MalformedInputError carrying the line number.
//
// The reader must yield already-decoded UTF-8 text; combine with DecodeBytes
// when the source encoding is unknown.
func ReadCSV(r io.Reader, path string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MalformedInputError{Path: path, Err: errors.New("file has no header row")}
		}
		return nil, wrapCSVError(path, err)
	}

	names := make([]string, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
		if names[i] == "" {
			return nil, &MalformedInputError{
				Path: path,
				Line: 1,
				Err:  fmt.Errorf("header column %d is empty", i+1),
			}
		}
	}

	var rows [][]*string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, wrapCSVError(path, err)
		}

		row := make([]*string, len(record))
		for i, cell := range record {
			if cell == "" {
				continue
			}
			v := cell
			row[i] = &v
		}
		rows = append(rows, row)
	}

	return &Table{
		columns: inferKinds(names, rows),
		rows:    rows,
	}, nil
}

// wrapCSVError lifts position information out of csv.ParseError.
func wrapCSVError(path string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &MalformedInputError{Path: path, Line: parseErr.Line, Err: parseErr.Err}
	}
	return &MalformedInputError{Path: path, Err: err}
}
