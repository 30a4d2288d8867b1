// Package config defines the settings shared by the alarm binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Config holds the gRPC server address, the scheduler capacity, the number
// of consumer workers, the per-call timeout and the log level.
package config
