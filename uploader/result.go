package uploader

import "errors"

// ErrMissingSourceFile indicates a dataset's source file does not exist.
// The dataset is skipped; the run continues.
var ErrMissingSourceFile = errors.New("uploader: source file missing")

// Outcome classifies how processing ended for one dataset.
type Outcome int

const (
	// OutcomeUploaded means the dataset was converted and published
	OutcomeUploaded Outcome = iota

	// OutcomeMissing means the source file did not exist and the dataset
	// was skipped without any network I/O
	OutcomeMissing

	// OutcomeFailed means parsing, conversion, or upload failed
	OutcomeFailed
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeMissing:
		return "missing"
	default:
		return "failed"
	}
}

// Result reports the outcome of processing one dataset.
type Result struct {
	// Dataset is the dataset name
	Dataset string

	// Outcome classifies the result
	Outcome Outcome

	// Destination is the fully-qualified destination path on success
	Destination string

	// Rows is the number of data rows uploaded on success
	Rows int

	// Charset is the encoding the source file was decoded with
	Charset string

	// Err carries the failure or skip reason for non-uploaded outcomes
	Err error
}

// Summary aggregates the results of one run.
type Summary struct {
	// Results holds one entry per configured dataset, in configured order
	Results []Result
}

// Uploaded returns the number of datasets uploaded successfully.
func (s Summary) Uploaded() int { return s.count(OutcomeUploaded) }

// Missing returns the number of datasets skipped for missing source files.
func (s Summary) Missing() int { return s.count(OutcomeMissing) }

// Failed returns the number of datasets that failed.
func (s Summary) Failed() int { return s.count(OutcomeFailed) }

// Ok reports whether every dataset uploaded. Missing source files count
// against Ok so the process exit code reflects partial failure.
func (s Summary) Ok() bool {
	return s.Uploaded() == len(s.Results)
}

func (s Summary) count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}
