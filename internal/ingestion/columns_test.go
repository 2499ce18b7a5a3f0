package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/config"
	"safetypulse/pkg/contracts/domain"
)

func TestParseColumnMapDefault(t *testing.T) {
	m, err := ParseColumnMap(config.DefaultColumns())
	require.NoError(t, err)

	assert.Equal(t, DefaultColumnMap(), m)
	assert.Equal(t, "0=id,1=timestamp,2=sector,3=role,4=shift,5=phase,7=domain,8=item,9=response,11=weight", m.String())
}

func TestParseColumnMap(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		wantErr string
	}{
		{"reordered layout", []string{"3=id", " 0 = weight ", "1=response_value"}, ""},
		{"skips blanks", []string{"0=id", ""}, ""},
		{"missing separator", []string{"0:id"}, "expected index=field"},
		{"bad index", []string{"x=id"}, "invalid index"},
		{"negative index", []string{"-1=id"}, "invalid index"},
		{"unknown field", []string{"0=id", "1=operator"}, "unknown field"},
		{"duplicate field", []string{"0=id", "1=id"}, "bound twice"},
		{"duplicate index", []string{"0=id", "0=sector"}, "bound twice"},
		{"no id", []string{"0=sector"}, "must bind the id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseColumnMap(tt.pairs)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestColumnMapIndexOf(t *testing.T) {
	m, err := ParseColumnMap([]string{"3=id", "0=weight"})
	require.NoError(t, err)

	idx, ok := m.IndexOf(domain.FieldWeight)
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = m.IndexOf(domain.FieldSector)
	assert.False(t, ok)
}

func TestCellDisplay(t *testing.T) {
	tests := []struct {
		name string
		cell *Cell
		want string
	}{
		{"nil cell", nil, ""},
		{"null value", &Cell{}, ""},
		{"formatted preferred", &Cell{V: 3.5, F: strPtr("3,5")}, "3,5"},
		{"empty formatted falls back", &Cell{V: "Sim", F: strPtr("")}, "Sim"},
		{"integer number", &Cell{V: float64(2)}, "2"},
		{"fractional number", &Cell{V: 0.25}, "0.25"},
		{"bool", &Cell{V: true}, "true"},
		{"string", &Cell{V: "Date(2025,9,4)"}, "Date(2025,9,4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Display())
		})
	}
}

func TestCellExtractorField(t *testing.T) {
	e := NewCellExtractor(DefaultColumnMap())
	rec := RawRecord{&Cell{V: "A1"}, nil}

	v, ok := e.Field(rec, domain.FieldID)
	assert.True(t, ok)
	assert.Equal(t, "A1", v)

	_, ok = e.Field(rec, domain.FieldTimestamp)
	assert.False(t, ok, "nil cell")

	_, ok = e.Field(rec, domain.FieldWeight)
	assert.False(t, ok, "beyond row length")

	_, ok = NewCellExtractor(ColumnMap{{0, domain.FieldID}}).Field(rec, domain.FieldSector)
	assert.False(t, ok, "unmapped field")
}

func strPtr(s string) *string { return &s }
