package exporter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format is the output file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Kind selects which table is exported
type Kind string

const (
	KindRows         Kind = "rows"
	KindTransactions Kind = "transactions"
)

// ParseFormat resolves a format name, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ParseKind resolves a table kind; empty means rows
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindRows, "":
		return KindRows, nil
	case KindTransactions:
		return KindTransactions, nil
	}
	return "", fmt.Errorf("unsupported export kind %q", s)
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a download name such as inspecoes_transacoes_20251004_1731.xlsx
func FileName(format Format, kind Kind, at time.Time) string {
	base := "inspecoes"
	if kind == KindTransactions {
		base = "inspecoes_transacoes"
	}
	return fmt.Sprintf("%s_%s.%s", base, at.Format("20060102_1504"), format)
}

// formatFloat formats a float64 value with exactly 2 decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
