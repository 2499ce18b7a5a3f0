// Package services owns the current inspection snapshot and answers every
// query against it.
//
// # Snapshot lifecycle
//
// SnapshotService holds the single current row sequence. A foreground Load
// retries a bounded number of times and records a viewer-facing error when
// every attempt fails. A background Refresh makes one attempt and leaves the
// snapshot, loading flag and error untouched on failure. Whichever fetch
// completes last replaces the rows.
//
//	svc := services.NewSnapshotService(ingester, services.RetryPolicyFrom(cfg.Refresh), metrics, logger)
//	if err := svc.Load(ctx); err != nil {
//	    // err carries the message shown to the viewer
//	}
//
// Refresher schedules Refresh with robfig/cron at the configured interval.
//
// # Queries
//
// DataService narrows the snapshot with the viewer's filters and search term
// and delegates to the dataprocessing package. It never mutates the snapshot.
//
// # Errors
//
// Query methods return ErrNoSnapshot before the first successful load,
// ErrTransactionNotFound for an unknown id and ErrUnknownField for a field
// that cannot be aggregated. Fetch failures are *errors.AppError values.
package services
