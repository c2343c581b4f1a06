package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the calendar-date forms the inferrer recognizes.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
}

// timestampLayouts are the date-with-time forms the inferrer recognizes.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// candidate tracks which kinds remain possible for a column while scanning
// its cells. Null cells do not vote.
type candidate struct {
	intOK   bool
	floatOK bool
	boolOK  bool
	dateOK  bool
	tsOK    bool
	voted   bool
}

func newCandidate() candidate {
	return candidate{intOK: true, floatOK: true, boolOK: true, dateOK: true, tsOK: true}
}

// observe narrows the candidate set with one non-null cell.
func (c *candidate) observe(cell string) {
	c.voted = true
	if c.intOK {
		if _, err := parseInt(cell); err != nil {
			c.intOK = false
		}
	}
	if c.floatOK {
		if _, err := parseFloat(cell); err != nil {
			c.floatOK = false
		}
	}
	if c.boolOK {
		if _, err := parseBool(cell); err != nil {
			c.boolOK = false
		}
	}
	if c.dateOK {
		if _, err := parseDate(cell); err != nil {
			c.dateOK = false
		}
	}
	if c.tsOK {
		if _, err := parseTimestamp(cell); err != nil {
			c.tsOK = false
		}
	}
}

// kind resolves the final column kind. Whole-number columns stay Int64;
// mixed int/float columns promote to Float64; columns that never voted
// (all nulls) default to String.
func (c *candidate) kind() Kind {
	if !c.voted {
		return KindString
	}
	switch {
	case c.intOK:
		return KindInt64
	case c.floatOK:
		return KindFloat64
	case c.boolOK:
		return KindBool
	case c.dateOK:
		return KindDate
	case c.tsOK:
		return KindTimestamp
	default:
		return KindString
	}
}

// inferKinds scans every cell once and assigns a kind to each column.
func inferKinds(names []string, rows [][]*string) []Column {
	cands := make([]candidate, len(names))
	for i := range cands {
		cands[i] = newCandidate()
	}

	for _, row := range rows {
		for col, cell := range row {
			if cell == nil {
				continue
			}
			cands[col].observe(*cell)
		}
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Kind: cands[i].kind()}
	}
	return columns
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q", s)
	}
}

func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not a date: %q", s)
}

func parseTimestamp(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not a timestamp: %q", s)
}
