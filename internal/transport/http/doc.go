// Package http implements the JSON API of the inspection dashboard.
//
// Handlers stay thin: they decode and validate query parameters, call the
// services layer, and render either a success envelope
//
//	{"status": "success", "data": ..., "count": N}
//
// or an RFC 7807 problem document through errors.ErrorHandler. Service
// sentinel errors are mapped here: no snapshot yet is 503, an unknown
// transaction is 404, a non-categorical field is 400, and ingestion
// failures from a manual refresh become 502 or 504.
package http
