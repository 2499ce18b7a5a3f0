package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safetypulse/internal/shared/testutil"
	"safetypulse/pkg/contracts/domain"
)

func TestGroupByTransaction(t *testing.T) {
	groups := GroupByTransaction(testutil.SampleRows())

	require.Len(t, groups, 3)

	a1 := groups[0]
	assert.Equal(t, "A1", a1.ID)
	assert.Equal(t, "Manutenção", a1.Sector)
	assert.Equal(t, "Operador", a1.Role)
	assert.Equal(t, "Turno A (Manhã)", a1.Shift)
	assert.Equal(t, 3, a1.Count)
	assert.InDelta(t, 3.0, a1.AverageWeight, 1e-9)
	assert.InDelta(t, 66.667, a1.Conformance, 0.001)

	b2 := groups[1]
	assert.Equal(t, "B2", b2.ID)
	assert.Equal(t, 2, b2.Count)
	assert.InDelta(t, 0.75, b2.AverageWeight, 1e-9)
	assert.InDelta(t, 50.0, b2.Conformance, 1e-9)

	c3 := groups[2]
	assert.Equal(t, 1, c3.Count)
	assert.Zero(t, c3.AverageWeight, "unparseable weight counts as zero")
	assert.Zero(t, c3.Conformance)
}

func TestGroupByTransactionConformanceMatchesContainment(t *testing.T) {
	rows := []domain.NormalizedRow{
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Sim ", "1"),
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Sim, parcial", "1"),
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Não", "1"),
	}

	groups := GroupByTransaction(rows)
	require.Len(t, groups, 1)
	assert.InDelta(t, 66.667, groups[0].Conformance, 0.001)

	// the dashboard-wide rate keeps exact matching
	c := ConformanceRate(rows)
	assert.Equal(t, 0, c.AffirmativeCount)
	assert.Equal(t, 1, c.NegativeCount)
}

func TestGroupByTransactionScenario(t *testing.T) {
	rows := []domain.NormalizedRow{
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Sim", "2,0"),
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Sim", "3,0"),
		testutil.Row("A1", "Manutenção", "Turno A", "EPI", "Sim", "4,0"),
	}

	groups := GroupByTransaction(rows)

	require.Len(t, groups, 1)
	assert.Equal(t, 3, groups[0].Count)
	assert.InDelta(t, 3.0, groups[0].AverageWeight, 1e-9)
}

func TestGroupByTransactionIsPartition(t *testing.T) {
	rows := append(testutil.SampleRows(),
		testutil.Row("A1", "Manutenção", "Turno A (Manhã)", "EPI", "Sim", "1"),
		testutil.Row("D4", "Logística", "Turno C", "EPI", "Não", "1"),
	)

	groups := GroupByTransaction(rows)

	seen := make(map[domain.NormalizedRow]int)
	total := 0
	for _, g := range groups {
		assert.Equal(t, g.Count, len(g.Rows))
		for _, r := range g.Rows {
			assert.Equal(t, g.ID, r.ID)
			seen[r]++
			total++
		}
	}
	assert.Equal(t, len(rows), total)
	for _, r := range rows {
		assert.Positive(t, seen[r])
	}
}

func TestGroupByTransactionDoesNotMutateInput(t *testing.T) {
	rows := testutil.SampleRows()
	before := append([]domain.NormalizedRow(nil), rows...)

	groups := GroupByTransaction(rows)
	groups[0].Rows[0].Sector = "changed"

	assert.Equal(t, before, rows)
}

func TestGroupByTransactionEmpty(t *testing.T) {
	groups := GroupByTransaction(nil)
	assert.NotNil(t, groups)
	assert.Empty(t, groups)
}

func TestTransactionDetail(t *testing.T) {
	rows := testutil.SampleRows()

	detail := TransactionDetail(rows, "A1")
	require.Len(t, detail, 3)
	assert.Equal(t, []string{"EPI", "Ferramentas", "Sinalização"},
		[]string{detail[0].Domain, detail[1].Domain, detail[2].Domain})

	assert.Empty(t, TransactionDetail(rows, "Z9"))
}

func TestInconsistentTransactions(t *testing.T) {
	rows := testutil.SampleRows()
	assert.Empty(t, InconsistentTransactions(rows))

	odd := testutil.Row("B2", "Produção", "Turno A (Manhã)", "EPI", "Sim", "1")
	rows = append(rows, odd, odd)
	wrongRole := testutil.Row("C3", "Manutenção", "Turno B (Noite)", "EPI", "Sim", "1")
	wrongRole.Role = "Supervisor"
	rows = append(rows, wrongRole)

	assert.Equal(t, []string{"B2", "C3"}, InconsistentTransactions(rows))
}

func TestSortTransactions(t *testing.T) {
	base := GroupByTransaction(append(testutil.SampleRows(),
		testutil.Row("0Z", "Almoxarifado", "Turno C", "EPI", "Sim", "9"),
	))

	ids := func(groups []domain.GroupedTransaction) []string {
		out := make([]string, len(groups))
		for i, g := range groups {
			out[i] = g.ID
		}
		return out
	}

	tests := []struct {
		name string
		by   domain.TransactionSort
		want []string
	}{
		{"default is id ascending", domain.TransactionSort{}, []string{"0Z", "A1", "B2", "C3"}},
		{"id descending", domain.TransactionSort{Key: domain.SortByID, Direction: domain.SortDescending}, []string{"C3", "B2", "A1", "0Z"}},
		{"count descending", domain.TransactionSort{Key: domain.SortByCount, Direction: domain.SortDescending}, []string{"A1", "B2", "C3", "0Z"}},
		{"average weight ascending", domain.TransactionSort{Key: domain.SortByAverageWeight}, []string{"C3", "B2", "A1", "0Z"}},
		{"conformance descending", domain.TransactionSort{Key: domain.SortByConformance, Direction: domain.SortDescending}, []string{"0Z", "A1", "B2", "C3"}},
		{"sector keeps order on ties", domain.TransactionSort{Key: domain.SortBySector}, []string{"0Z", "A1", "C3", "B2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := append([]domain.GroupedTransaction(nil), base...)
			SortTransactions(groups, tt.by)
			assert.Equal(t, tt.want, ids(groups))
		})
	}
}
