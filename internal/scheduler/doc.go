// Package scheduler admits alarms into a bounded queue and fires them once
// they are due.
//
// Producers call Submit. An alarm whose due time is not strictly in the
// future is rejected with ErrAlreadyPastDue; anything else is queued, waiting
// for a free slot if the queue is full. Consumers call RunOnce (or Run in a
// loop): each call takes the oldest queued alarm, sleeps until its due time
// and reports it as ringing. An alarm that became due while it sat in the
// queue rings immediately.
//
// Two gates, one per side, bound how many producers and consumers may be in
// flight at once. Both are sized to the queue capacity:
//
//	s, err := scheduler.New(5, scheduler.WithObserver(func(e scheduler.Event) {
//	    fmt.Println(e.Kind, e.Alarm.Label)
//	}))
//	go s.Run(ctx)
//	_, err = s.Submit(ctx, alarm.New(time.Now().Add(time.Minute), "tea"))
//
// Every blocking call observes its context and returns an error matching
// ErrCancelled when interrupted. Permits are always given back.
package scheduler
