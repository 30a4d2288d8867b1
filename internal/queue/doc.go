// Package queue provides a fixed-capacity FIFO hand-off between goroutines.
//
// Insert blocks while the queue is full and Remove blocks while it is empty.
// Both observe context cancellation, so a producer or consumer waiting on the
// queue can always be unwound during shutdown.
package queue
