// Package version exposes the build version, set at link time with
// -ldflags "-X aiproxy/internal/version.Version=...".
package version

var Version = "dev"
