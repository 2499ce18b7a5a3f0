package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"safetypulse/internal/shared/testutil"
	"safetypulse/pkg/contracts/domain"
)

func ids(rows []domain.NormalizedRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID + ":" + r.Domain
	}
	return out
}

func TestApplyTextSearch(t *testing.T) {
	rows := testutil.SampleRows()

	tests := []struct {
		name string
		term string
		want int
	}{
		{"domain case-insensitive", "epi", 3},
		{"sector prefix", "MANUT", 4},
		{"id", "b2", 2},
		{"item description", "item sinal", 1},
		{"role", "operador", 6},
		{"shift is not searched", "noite", 0},
		{"response is not searched", "não", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ApplyTextSearch(rows, tt.term), tt.want)
		})
	}
}

func TestApplyTextSearchEmptyTerm(t *testing.T) {
	rows := testutil.SampleRows()

	got := ApplyTextSearch(rows, "")
	assert.Equal(t, rows, got)
	assert.Equal(t, ids(rows), ids(got))

	assert.Equal(t, rows, ApplyTextSearch(rows, "   "))
}

func TestApplyFieldFilters(t *testing.T) {
	rows := testutil.SampleRows()

	tests := []struct {
		name    string
		filters domain.FieldFilters
		want    []string
	}{
		{"no filters", domain.FieldFilters{}, ids(rows)},
		{"shift containment ignores case", domain.FieldFilters{Shift: "turno b"}, []string{"B2:EPI", "B2:Ergonomia", "C3:EPI"}},
		{"shift fragment", domain.FieldFilters{Shift: "MANHÃ"}, []string{"A1:EPI", "A1:Ferramentas", "A1:Sinalização"}},
		{"filters combine with and", domain.FieldFilters{Sector: "Manutenção", Shift: "noite"}, []string{"C3:EPI"}},
		{"sector requires equality", domain.FieldFilters{Sector: "manutenção"}, []string{}},
		{"response exact", domain.FieldFilters{Response: "sim"}, []string{"B2:EPI"}},
		{"domain", domain.FieldFilters{Domain: "EPI", Phase: "Inspeção", Role: "Operador"}, []string{"A1:EPI", "B2:EPI", "C3:EPI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ApplyFieldFilters(rows, tt.filters)))
		})
	}
}

func TestApplyQuery(t *testing.T) {
	rows := testutil.SampleRows()
	before := append([]domain.NormalizedRow(nil), rows...)

	got := ApplyQuery(rows, domain.RowQuery{
		Search:  "epi",
		Filters: domain.FieldFilters{Shift: "noite"},
	})

	assert.Equal(t, []string{"B2:EPI", "C3:EPI"}, ids(got))
	assert.Equal(t, before, rows)
}
