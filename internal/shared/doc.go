// Package shared holds helpers used by more than one internal package.
//
// The testutil subpackage provides an in-memory slog handler for asserting on
// log output and fixture builders for inspection rows and gviz payloads.
package shared
