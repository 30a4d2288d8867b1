// Package demo drives a local scheduler the way a small alarm clock app would.
//
// Producers are spawned one per interval, each submitting a single alarm.
// Consumers start after a delay and fire alarms until every submitted alarm
// has either rung or been rejected.
package demo
