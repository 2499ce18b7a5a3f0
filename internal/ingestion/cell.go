package ingestion

import (
	"fmt"
	"strconv"

	"safetypulse/pkg/contracts/domain"
)

// Cell is one source value. V is the raw value (string, float64, bool or nil);
// F is the source's own display formatting, when it provides one.
type Cell struct {
	V any     `json:"v"`
	F *string `json:"f,omitempty"`
}

// Display returns the formatted value when present and non-empty, else V as text
func (c *Cell) Display() string {
	if c == nil {
		return ""
	}
	if c.F != nil && *c.F != "" {
		return *c.F
	}

	switch v := c.V.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// RawRecord is one physical row. A nil entry or a short row means the cell is absent.
type RawRecord []*Cell

// CellExtractor reads logical fields out of RawRecords using a ColumnMap
type CellExtractor struct {
	columns ColumnMap
}

// NewCellExtractor creates an extractor for a column layout
func NewCellExtractor(columns ColumnMap) CellExtractor {
	return CellExtractor{columns: columns}
}

// Field returns the display text of field in rec. ok is false when the field is
// not mapped or its cell is absent; the returned text is then empty.
func (e CellExtractor) Field(rec RawRecord, field domain.Field) (value string, ok bool) {
	index, mapped := e.columns.IndexOf(field)
	if !mapped || index >= len(rec) || rec[index] == nil {
		return "", false
	}
	return rec[index].Display(), true
}

// Extract copies every mapped field of rec into a row without normalizing it
func (e CellExtractor) Extract(rec RawRecord) domain.NormalizedRow {
	var row domain.NormalizedRow
	for _, b := range e.columns {
		value, _ := e.Field(rec, b.Field)
		row.Set(b.Field, value)
	}
	return row
}
