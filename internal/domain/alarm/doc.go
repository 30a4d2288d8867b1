// Package alarm contains the core domain value of the alarm clock.
//
// An Alarm is an immutable pair of a due time and a label. It is passed by
// value and compared by value; the scheduler treats it as an opaque payload
// apart from reading its due time.
package alarm
