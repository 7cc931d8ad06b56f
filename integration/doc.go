//go:build integration

// Package integration provides integration tests for the dwdradar library.
//
// These tests require Docker and spin up a real nginx file server with
// directory listings enabled, seeded with archives in the open-data
// server's layout. Run with: go test -tags=integration ./integration/...
package integration
