// Package version reports build information for shellcmd binaries.
//
// Version, git commit, branch and build time are set at compile time
// via -ldflags, and fall back to the VCS stamp embedded by the Go toolchain:
//
//	go build -ldflags "-X github.com/kbukum/shellcmd/version.Version=1.2.0" ./cmd/shellcmd
package version
