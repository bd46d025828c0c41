// Package capture saves the raw HTML of every fetched page to a dump
// directory, one file per operation and query. Captured pages can be copied
// into testdata/ as fixtures when the site's markup changes.
package capture
