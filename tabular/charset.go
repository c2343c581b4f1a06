package tabular

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// minDetectionConfidence is the chardet confidence (0-100) below which
// detection is treated as inconclusive.
const minDetectionConfidence = 40

// Detection describes the outcome of charset detection for a file.
type Detection struct {
	// Charset is the IANA name of the charset that will be used for decoding
	Charset string

	// Confidence is the detector's confidence (0-100), 0 when the fallback
	// was used
	Confidence int

	// Fallback reports whether detection was inconclusive and the configured
	// fallback charset was selected instead
	Fallback bool
}

// DetectCharset statistically infers the most likely text encoding of raw.
// Inconclusive detection is not an error: the configured fallback charset is
// selected and the Detection reports it so callers can log a notice.
func DetectCharset(raw []byte, fallback string) Detection {
	// Valid UTF-8 input is taken at face value; the statistical detector
	// can misreport short ASCII-heavy files.
	if utf8.Valid(raw) {
		return Detection{Charset: "UTF-8", Confidence: 100}
	}

	result, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil || result.Confidence < minDetectionConfidence {
		return Detection{Charset: fallback, Fallback: true}
	}

	// The detected charset must be one we can actually decode; otherwise
	// fall back as if detection had failed.
	if _, lookupErr := lookupEncoding(result.Charset); lookupErr != nil {
		return Detection{Charset: fallback, Fallback: true}
	}

	return Detection{Charset: result.Charset, Confidence: result.Confidence}
}

// DecodeBytes decodes raw from the named charset into UTF-8.
func DecodeBytes(raw []byte, charset string) ([]byte, error) {
	if isUTF8Name(charset) {
		return raw, nil
	}

	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}

	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("tabular: decode %s: %w", charset, err)
	}
	return decoded, nil
}

// DecodeFile runs detection and decoding in one step, returning the UTF-8
// text and the detection outcome.
func DecodeFile(raw []byte, fallback string) ([]byte, Detection, error) {
	// Strip a UTF-8 BOM if present so the header row parses cleanly.
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	det := DetectCharset(raw, fallback)
	decoded, err := DecodeBytes(raw, det.Charset)
	if err != nil {
		return nil, det, err
	}
	return decoded, det, nil
}

// lookupEncoding resolves an IANA charset name to a decoder.
func lookupEncoding(charset string) (encoding.Encoding, error) {
	if isUTF8Name(charset) {
		return encoding.Nop, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("tabular: unsupported charset %q", charset)
	}
	return enc, nil
}

// isUTF8Name reports whether the charset name means UTF-8.
func isUTF8Name(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8":
		return true
	default:
		return false
	}
}
