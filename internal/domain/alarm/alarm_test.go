package alarm

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestValidate checks that both the due time and the label are required.
func TestValidate(t *testing.T) {
	t.Parallel()

	now := time.Now()

	require.NoError(t, New(now, "wake up").Validate())
	require.ErrorIs(t, New(time.Time{}, "wake up").Validate(), ErrDueTimeRequired)
	require.ErrorIs(t, New(now, "").Validate(), ErrLabelRequired)
	require.ErrorIs(t, New(now, "   ").Validate(), ErrLabelRequired)
}

// TestEqual verifies value equality ignores location and monotonic readings.
func TestEqual(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.October, 18, 7, 30, 0, 0, time.UTC)
	moscow := time.FixedZone("MSK", 3*60*60)

	a := New(ts, "standup")
	b := New(ts.In(moscow), "standup")

	require.True(t, a.Equal(b))
	require.False(t, a.Equal(New(ts, "retro")))
	require.False(t, a.Equal(New(ts.Add(time.Nanosecond), "standup")))

	// New strips the monotonic reading, so == works for values built from time.Now.
	now := time.Now()
	require.Equal(t, New(now, "x"), New(now, "x"))
}

// TestCompare ensures alarms sort by due time first and label second.
func TestCompare(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, time.October, 18, 7, 0, 0, 0, time.UTC)
	alarms := []Alarm{
		New(base.Add(2*time.Minute), "b"),
		New(base.Add(time.Minute), "z"),
		New(base.Add(2*time.Minute), "a"),
	}

	slices.SortFunc(alarms, Alarm.Compare)

	require.Equal(t, "z", alarms[0].Label)
	require.Equal(t, "a", alarms[1].Label)
	require.Equal(t, "b", alarms[2].Label)
	require.Zero(t, alarms[0].Compare(alarms[0]))
}

// TestUntil checks the remaining duration sign on both sides of the due time.
func TestUntil(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, time.October, 18, 7, 0, 0, 0, time.UTC)
	a := New(due, "coffee")

	require.Equal(t, time.Minute, a.Until(due.Add(-time.Minute)))
	require.Zero(t, a.Until(due))
	require.Equal(t, -time.Second, a.Until(due.Add(time.Second)))
	require.Contains(t, a.String(), `"coffee"`)
}
