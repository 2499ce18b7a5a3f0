// Package app wires the dashboard server together and manages its lifecycle.
//
// # Initialization Flow
//
//  1. Load configuration from defaults, the YAML file and SAFETY_* variables
//  2. Initialize logging and OpenTelemetry
//  3. Build the ingester for the configured spreadsheet source
//  4. Create the snapshot service, the live-update hub and the background refresher
//  5. Mount the HTTP handlers behind the middleware chain
//
// # Usage
//
//	a, err := app.New()
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// Run returns after ctx is cancelled and every component has shut down.
// A failed startup load is logged and surfaced through the snapshot status;
// it never stops the server.
package app
