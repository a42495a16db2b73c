package narrative

import "time"

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithClock overrides the session's time source. Tests use it to make
// reaction times deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}
