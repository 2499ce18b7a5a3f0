// Package ingestion fetches inspection rows from a spreadsheet source and
// normalizes them into domain.NormalizedRow values.
//
// A Source returns RawRecords: positional cells exactly as delivered. The
// Normalizer maps positions to fields through a ColumnMap, rewrites encoded
// timestamps to DD/MM/YYYY HH:MM, defaults missing weights to "0" and drops
// rows without a usable identifier. Two sources exist: GvizSource reads the
// public visualization endpoint and SheetsAPISource reads the Sheets API v4.
//
// Fetch failures are returned as *errors.AppError with one of the types
// TRANSPORT, TIMEOUT, PAYLOAD or SOURCE and a message suitable for display.
// Nothing in this package retries.
package ingestion
