// Package exporter writes inspection data to files people open in spreadsheet tools.
//
// Two kinds of table are supported: the filtered detail rows exactly as ingested,
// and the grouped transactions with their derived count, average weight and
// conformance. Each can be rendered as CSV (UTF-8 with BOM so Excel picks the
// right encoding) or as an XLSX workbook.
//
// Example usage:
//
//	exp := exporter.New(paths, logger)
//
//	// stream into an HTTP response
//	err := exp.Export(ctx, w, exporter.FormatXLSX, exporter.KindTransactions, rows)
//
//	// or write into the exports directory
//	path, err := exp.ExportFile(ctx, "", exporter.FormatCSV, exporter.KindRows, rows)
package exporter
