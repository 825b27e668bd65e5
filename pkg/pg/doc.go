// Package pg wires the application to PostgreSQL through pgx: pool
// construction with startup retries, a healthcheck adapter, goose schema
// migrations (up, down, status) routed through structured logging, and
// helpers for classifying common constraint errors.
package pg
