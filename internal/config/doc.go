// Package config resolves po10 settings from, in increasing priority, built-in
// defaults, po10.json5, po10.local.json5 and PO10_* environment variables. A
// .env file in the working directory is loaded into the environment first.
package config
