// Package version carries the build version of the ledger binaries.
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=...".
var Version = "dev"
