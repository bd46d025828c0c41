// Package cli implements the po10 command: one subcommand per site query,
// output as go-pretty tables or indented JSON, and an exit code per failure
// kind (2 validation, 3 not found, 4 too many results).
package cli
