// Package version reports whisperd build information.
//
// Release builds stamp the variables with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/whisperd/version.Version=v0.3.0" ./cmd/whisperd
//
// Unstamped builds fall back to the VCS settings embedded by the Go toolchain.
package version
