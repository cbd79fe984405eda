// Package client contains the remote resource client of BhojanBox.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     auth, menu, cart and order resources of the backend.
//  2. A concrete REST implementation (see HTTPClient) that reads the bearer
//     token from a credentials.Provider before every request, retries
//     idempotent reads with exponential backoff and guards all calls with a
//     circuit breaker.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations)
//     for the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Non-2xx responses are returned as *APIError. It matches the taxonomy in
// package common with errors.Is: common.ErrValidation (400, 422),
// common.ErrNotFound (404), common.ErrUnauthorized (401, 403) and
// common.ErrServer (5xx). Transport failures and an open circuit also match
// common.ErrServer.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and timeouts.
package client
