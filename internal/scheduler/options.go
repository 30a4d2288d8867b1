package scheduler

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver registers an observer for admitted, rejected and ringing events.
// Observers run in registration order.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}
