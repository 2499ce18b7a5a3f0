package ingestion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

const (
	// HeaderSentinel is the identifier cell text of the sheet's header row
	HeaderSentinel = "ID"

	// DefaultWeight replaces absent or unparseable weights
	DefaultWeight = "0"

	dateMarker = "Date"
)

var digitRuns = regexp.MustCompile(`\d+`)

// Result is the outcome of normalizing one payload
type Result struct {
	Rows []domain.NormalizedRow
	// Dropped counts physical rows excluded for lacking a usable identifier
	Dropped int
}

// Normalizer turns RawRecords into NormalizedRows
type Normalizer struct {
	extractor CellExtractor
}

// NewNormalizer creates a normalizer for a column layout
func NewNormalizer(columns ColumnMap) *Normalizer {
	return &Normalizer{extractor: NewCellExtractor(columns)}
}

// Normalize converts records in order, dropping header and identifier-less rows
func (n *Normalizer) Normalize(records []RawRecord) Result {
	res := Result{Rows: make([]domain.NormalizedRow, 0, len(records))}

	for _, rec := range records {
		row := n.extractor.Extract(rec)
		if !HasUsableID(row.ID) {
			res.Dropped++
			continue
		}

		row.Timestamp = NormalizeTimestamp(row.Timestamp)
		row.Weight = NormalizeWeight(row.Weight)
		res.Rows = append(res.Rows, row)
	}

	return res
}

// HasUsableID reports whether id is non-blank and not the header sentinel
func HasUsableID(id string) bool {
	trimmed := strings.TrimSpace(id)
	return trimmed != "" && trimmed != HeaderSentinel
}

// NormalizeTimestamp rewrites a constructor-style date such as
// "Date(2025,9,4,17,31,47)" into "04/10/2025 17:31". The month in the encoded
// form is zero-based. Plain strings and encodings with fewer than three
// numbers are returned unchanged.
func NormalizeTimestamp(raw string) string {
	if !strings.Contains(raw, dateMarker) {
		return raw
	}

	parts := digitRuns.FindAllString(raw, -1)
	if len(parts) < 3 {
		return raw
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return raw
	}

	hour, minute := "00", "00"
	if len(parts) > 3 {
		hour = parts[3]
	}
	if len(parts) > 4 {
		minute = parts[4]
	}

	return fmt.Sprintf("%s/%02d/%s %s:%s",
		padTwo(parts[2]), month+1, parts[0], padTwo(hour), padTwo(minute))
}

func padTwo(s string) string {
	if len(s) >= 2 {
		return s
	}
	return strings.Repeat("0", 2-len(s)) + s
}

// NormalizeWeight keeps a parseable weight as written and replaces anything
// else with DefaultWeight
func NormalizeWeight(raw string) string {
	if _, ok := domain.LookupWeight(raw); !ok {
		return DefaultWeight
	}
	return raw
}
