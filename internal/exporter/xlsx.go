package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"safetypulse/pkg/contracts/domain"
)

// WriteXLSX renders t as a single-sheet workbook with a bold frozen header and autofilter
func WriteXLSX(w io.Writer, t table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", t.name); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]interface{}, len(t.headers))
	for i, h := range t.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(t.name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(t.name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, record := range t.records {
		cells := make([]interface{}, len(record))
		for j, v := range record {
			cells[j] = cellValue(v, t.numeric[j])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(t.name, cell, &cells); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(t.name, "A", lastCol, 18); err != nil {
		return err
	}
	if err := f.SetPanes(t.name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	if len(t.records) > 0 {
		ref := fmt.Sprintf("A1:%s%d", lastCol, len(t.records)+1)
		if err := f.AutoFilter(t.name, ref, nil); err != nil {
			return fmt.Errorf("failed to add autofilter: %w", err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

// cellValue writes numeric columns as numbers, reading "1,5" as 1.5; anything else stays text
func cellValue(v string, numeric bool) interface{} {
	if !numeric {
		return v
	}
	if n, ok := domain.LookupWeight(v); ok {
		return n
	}
	return v
}
