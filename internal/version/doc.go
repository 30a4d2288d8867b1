// Package version exposes build metadata for the alarm binaries.
//
// Version, Commit and BuildTime are injected with -ldflags. When they are
// left at their defaults, Commit and BuildTime fall back to the VCS data the
// Go toolchain embeds in the binary.
package version
