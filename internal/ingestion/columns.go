package ingestion

import (
	"fmt"
	"strconv"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// ColumnBinding ties one source column position to a row field
type ColumnBinding struct {
	Index int
	Field domain.Field
}

// ColumnMap is the ordered list of bindings used to read a RawRecord
type ColumnMap []ColumnBinding

// DefaultColumnMap is the layout of the inspection sheet relative to range I:T
func DefaultColumnMap() ColumnMap {
	return ColumnMap{
		{0, domain.FieldID},
		{1, domain.FieldTimestamp},
		{2, domain.FieldSector},
		{3, domain.FieldRole},
		{4, domain.FieldShift},
		{5, domain.FieldPhase},
		{7, domain.FieldDomain},
		{8, domain.FieldItem},
		{9, domain.FieldResponse},
		{11, domain.FieldWeight},
	}
}

// ParseColumnMap parses "index=field" pairs such as "0=id" or "11=weight".
// Every field and index may appear once and an id binding is required.
func ParseColumnMap(pairs []string) (ColumnMap, error) {
	var (
		out     ColumnMap
		fields  = make(map[domain.Field]bool)
		indexes = make(map[int]bool)
	)

	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		rawIndex, rawField, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("column binding %q: expected index=field", pair)
		}

		index, err := strconv.Atoi(strings.TrimSpace(rawIndex))
		if err != nil || index < 0 {
			return nil, fmt.Errorf("column binding %q: invalid index", pair)
		}

		field, ok := domain.ParseField(rawField)
		if !ok {
			return nil, fmt.Errorf("column binding %q: unknown field %q", pair, strings.TrimSpace(rawField))
		}

		if fields[field] {
			return nil, fmt.Errorf("column binding %q: field %s bound twice", pair, field)
		}
		if indexes[index] {
			return nil, fmt.Errorf("column binding %q: index %d bound twice", pair, index)
		}
		fields[field] = true
		indexes[index] = true

		out = append(out, ColumnBinding{Index: index, Field: field})
	}

	if !fields[domain.FieldID] {
		return nil, fmt.Errorf("column map must bind the id field")
	}

	return out, nil
}

// IndexOf returns the source position bound to field
func (m ColumnMap) IndexOf(field domain.Field) (int, bool) {
	for _, b := range m {
		if b.Field == field {
			return b.Index, true
		}
	}
	return 0, false
}

// String renders the map back into its configuration form
func (m ColumnMap) String() string {
	parts := make([]string, len(m))
	for i, b := range m {
		parts[i] = fmt.Sprintf("%d=%s", b.Index, b.Field)
	}
	return strings.Join(parts, ",")
}
