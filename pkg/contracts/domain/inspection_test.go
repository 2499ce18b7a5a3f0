package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Field
		ok    bool
	}{
		{"canonical", "sector", FieldSector, true},
		{"upper case", "SHIFT", FieldShift, true},
		{"padded", "  domain ", FieldDomain, true},
		{"item alias", "item_description", FieldItem, true},
		{"response alias", "responseValue", FieldResponse, true},
		{"unknown", "operator", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseField(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizedRowSetAndValue(t *testing.T) {
	var row NormalizedRow
	for _, f := range AllFields() {
		row.Set(f, "v-"+string(f))
	}

	for _, f := range AllFields() {
		assert.Equal(t, "v-"+string(f), row.Value(f), "field %s", f)
	}

	row.Set(Field("unknown"), "ignored")
	assert.Equal(t, "", row.Value(Field("unknown")))
}

func TestFieldIsCategorical(t *testing.T) {
	assert.True(t, FieldSector.IsCategorical())
	assert.True(t, FieldResponse.IsCategorical())
	assert.False(t, FieldID.IsCategorical())
	assert.False(t, FieldWeight.IsCategorical())
	assert.False(t, FieldItem.IsCategorical())
}

func TestFieldFiltersIsEmpty(t *testing.T) {
	assert.True(t, FieldFilters{}.IsEmpty())
	assert.False(t, FieldFilters{Shift: "Noite"}.IsEmpty())
}
