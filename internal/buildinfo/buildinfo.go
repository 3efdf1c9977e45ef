// Package buildinfo holds the build-time version string both CLIs print
// for -V/--version. Overridable via -ldflags "-X ...Version=..." at
// build time; left at its default for ordinary `go build`/`go run`.
package buildinfo

var Version = "dev"
