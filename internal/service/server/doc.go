// Package server runs the alarm gRPC server.
//
// Run loads settings, builds a scheduler sized by the configured capacity,
// starts the consumer workers, and serves the AlarmScheduler API until the
// context is cancelled.
package server
