package exporter

import (
	"strconv"

	"safetypulse/internal/dataprocessing"
	"safetypulse/pkg/contracts/domain"
)

var rowHeaders = []string{
	"ID", "Data/Hora", "Setor", "Função", "Turno", "Fase",
	"Domínio", "Item", "Resposta", "Peso",
}

var transactionHeaders = []string{
	"ID", "Data/Hora", "Setor", "Função", "Turno", "Fase",
	"Itens", "Peso Médio", "Conformidade (%)",
}

// table is a rendered sheet; numeric marks columns written as numbers in XLSX
type table struct {
	name    string
	headers []string
	records [][]string
	numeric map[int]bool
}

func buildTable(kind Kind, rows []domain.NormalizedRow) table {
	if kind == KindTransactions {
		return transactionTable(dataprocessing.GroupByTransaction(rows))
	}
	return rowTable(rows)
}

func rowTable(rows []domain.NormalizedRow) table {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.ID, r.Timestamp, r.Sector, r.Role, r.Shift, r.Phase,
			r.Domain, r.ItemDescription, r.ResponseValue, r.Weight,
		})
	}
	return table{
		name:    "Inspeções",
		headers: rowHeaders,
		records: records,
		numeric: map[int]bool{9: true},
	}
}

func transactionTable(groups []domain.GroupedTransaction) table {
	records := make([][]string, 0, len(groups))
	for _, g := range groups {
		records = append(records, []string{
			g.ID, g.Timestamp, g.Sector, g.Role, g.Shift, g.Phase,
			strconv.Itoa(g.Count), formatFloat(g.AverageWeight), formatFloat(g.Conformance),
		})
	}
	return table{
		name:    "Transações",
		headers: transactionHeaders,
		records: records,
		numeric: map[int]bool{6: true, 7: true, 8: true},
	}
}
