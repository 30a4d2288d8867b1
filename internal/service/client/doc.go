// Package client implements alarm-submit.
//
// The command connects to the alarm server, submits one alarm, and retries
// while the server is unreachable.
package client
