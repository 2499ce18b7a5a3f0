package testutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"safetypulse/pkg/contracts/domain"
)

// Row builds a detail row with the given identity and response fields
func Row(id, sector, shift, domainName, response, weight string) domain.NormalizedRow {
	return domain.NormalizedRow{
		ID:              id,
		Timestamp:       "04/10/2025 17:31",
		Sector:          sector,
		Role:            "Operador",
		Shift:           shift,
		Phase:           "Inspeção",
		Domain:          domainName,
		ItemDescription: "Item " + domainName,
		ResponseValue:   response,
		Weight:          weight,
	}
}

// SampleRows returns a small, mixed data set covering two sectors and three transactions
func SampleRows() []domain.NormalizedRow {
	return []domain.NormalizedRow{
		Row("A1", "Manutenção", "Turno A (Manhã)", "EPI", "Sim", "2,0"),
		Row("A1", "Manutenção", "Turno A (Manhã)", "Ferramentas", "Sim", "3,0"),
		Row("A1", "Manutenção", "Turno A (Manhã)", "Sinalização", "Não", "4,0"),
		Row("B2", "Produção", "Turno B (Noite)", "EPI", "sim", "1,5"),
		Row("B2", "Produção", "Turno B (Noite)", "Ergonomia", "N/A", ""),
		Row("C3", "Manutenção", "Turno B (Noite)", "EPI", "não", "abc"),
	}
}

// GvizCell is one cell of a gviz fixture; nil V and F produce a null cell
type GvizCell struct {
	V any
	F *string
}

// Formatted returns a pointer for GvizCell.F
func Formatted(s string) *string {
	return &s
}

// GvizTable renders rows of cells into the JSON body returned by the gviz endpoint
func GvizTable(rows [][]GvizCell) string {
	type cell struct {
		V any     `json:"v"`
		F *string `json:"f,omitempty"`
	}
	type row struct {
		C []*cell `json:"c"`
	}

	payload := struct {
		Version string `json:"version"`
		Status  string `json:"status"`
		Table   struct {
			Rows []row `json:"rows"`
		} `json:"table"`
	}{Version: "0.6", Status: "ok"}

	for _, r := range rows {
		var out row
		for _, c := range r {
			if c.V == nil && c.F == nil {
				out.C = append(out.C, nil)
				continue
			}
			out.C = append(out.C, &cell{V: c.V, F: c.F})
		}
		payload.Table.Rows = append(payload.Table.Rows, out)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	return string(body)
}

// WrapGviz wraps a JSON document in the callback envelope used by the endpoint
func WrapGviz(body string) string {
	return fmt.Sprintf("/*O_o*/\ngoogle.visualization.Query.setResponse(%s);", body)
}

// GvizRow builds a twelve-column physical row in the default sheet layout
func GvizRow(id, timestamp, sector, role, shift, phase, domainName, item, response string, weight any) []GvizCell {
	cells := make([]GvizCell, 12)
	set := func(i int, v string) {
		if v != "" {
			cells[i] = GvizCell{V: v}
		}
	}
	set(0, id)
	set(1, timestamp)
	set(2, sector)
	set(3, role)
	set(4, shift)
	set(5, phase)
	set(6, strings.ToUpper(phase))
	set(7, domainName)
	set(8, item)
	set(9, response)
	set(10, "ignored")
	if weight != nil {
		cells[11] = GvizCell{V: weight}
	}
	return cells
}
