// Package common connects the alarm CLIs to alarm-server.
//
// Client wraps the AlarmScheduler gRPC API in domain types, and DetectActor
// names the submitting user for the server's logs.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
