package domain

import "strings"

// Field identifies one logical column of an inspection row
type Field string

const (
	FieldID        Field = "id"
	FieldTimestamp Field = "timestamp"
	FieldSector    Field = "sector"
	FieldRole      Field = "role"
	FieldShift     Field = "shift"
	FieldPhase     Field = "phase"
	FieldDomain    Field = "domain"
	FieldItem      Field = "item"
	FieldResponse  Field = "response"
	FieldWeight    Field = "weight"
)

// AllFields returns every logical field in row order
func AllFields() []Field {
	return []Field{
		FieldID, FieldTimestamp, FieldSector, FieldRole, FieldShift,
		FieldPhase, FieldDomain, FieldItem, FieldResponse, FieldWeight,
	}
}

// ParseField resolves a field name, accepting the long JSON names as aliases
func ParseField(name string) (Field, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id":
		return FieldID, true
	case "timestamp":
		return FieldTimestamp, true
	case "sector":
		return FieldSector, true
	case "role":
		return FieldRole, true
	case "shift":
		return FieldShift, true
	case "phase":
		return FieldPhase, true
	case "domain":
		return FieldDomain, true
	case "item", "item_description", "itemdescription":
		return FieldItem, true
	case "response", "response_value", "responsevalue":
		return FieldResponse, true
	case "weight":
		return FieldWeight, true
	}
	return "", false
}

// IsCategorical reports whether the field is a dimension usable for breakdowns and segments
func (f Field) IsCategorical() bool {
	switch f {
	case FieldSector, FieldRole, FieldShift, FieldPhase, FieldDomain, FieldResponse:
		return true
	}
	return false
}

// NormalizedRow is one checklist detail line after ingestion.
// All values stay strings so that display formatting survives untouched.
type NormalizedRow struct {
	ID              string `json:"id"`
	Timestamp       string `json:"timestamp"`
	Sector          string `json:"sector"`
	Role            string `json:"role"`
	Shift           string `json:"shift"`
	Phase           string `json:"phase"`
	Domain          string `json:"domain"`
	ItemDescription string `json:"item_description"`
	ResponseValue   string `json:"response_value"`
	Weight          string `json:"weight"`
}

// Value returns the row's value for a field
func (r NormalizedRow) Value(f Field) string {
	switch f {
	case FieldID:
		return r.ID
	case FieldTimestamp:
		return r.Timestamp
	case FieldSector:
		return r.Sector
	case FieldRole:
		return r.Role
	case FieldShift:
		return r.Shift
	case FieldPhase:
		return r.Phase
	case FieldDomain:
		return r.Domain
	case FieldItem:
		return r.ItemDescription
	case FieldResponse:
		return r.ResponseValue
	case FieldWeight:
		return r.Weight
	}
	return ""
}

// Set assigns a value to a field. Unknown fields are ignored.
func (r *NormalizedRow) Set(f Field, value string) {
	switch f {
	case FieldID:
		r.ID = value
	case FieldTimestamp:
		r.Timestamp = value
	case FieldSector:
		r.Sector = value
	case FieldRole:
		r.Role = value
	case FieldShift:
		r.Shift = value
	case FieldPhase:
		r.Phase = value
	case FieldDomain:
		r.Domain = value
	case FieldItem:
		r.ItemDescription = value
	case FieldResponse:
		r.ResponseValue = value
	case FieldWeight:
		r.Weight = value
	}
}

// GroupedTransaction combines every detail row of one inspection event
type GroupedTransaction struct {
	ID            string  `json:"id"`
	Timestamp     string  `json:"timestamp"`
	Sector        string  `json:"sector"`
	Role          string  `json:"role"`
	Shift         string  `json:"shift"`
	Phase         string  `json:"phase"`
	Count         int     `json:"count"`
	AverageWeight float64 `json:"average_weight"`
	Conformance   float64 `json:"conformance"`

	// Rows references the constituent detail rows in source order. Read only.
	Rows []NormalizedRow `json:"-"`
}

// CategoryBreakdown is one entry of a frequency table
type CategoryBreakdown struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// SegmentTotal is the summed weight of one segment
type SegmentTotal struct {
	Label string  `json:"label"`
	Total float64 `json:"total"`
}

// SegmentAverage is the average weight of one segment, scaled against the largest average
type SegmentAverage struct {
	Label           string  `json:"label"`
	Average         float64 `json:"average"`
	PercentageOfMax float64 `json:"percentage_of_max"`
}

// Conformance summarizes affirmative versus negative responses
type Conformance struct {
	Rate             float64 `json:"rate"`
	AffirmativeCount int     `json:"affirmative_count"`
	NegativeCount    int     `json:"negative_count"`
}
