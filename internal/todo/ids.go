package todo

import "time"

// IDSource issues task IDs. IDs follow the wall clock in milliseconds so they
// read like creation timestamps, but a source never issues the same value
// twice: two tasks added within one millisecond get consecutive IDs.
type IDSource struct {
	now  func() time.Time
	last int64
}

// NewIDSource returns a source driven by time.Now.
func NewIDSource() *IDSource {
	return NewIDSourceWithClock(time.Now)
}

// NewIDSourceWithClock returns a source driven by the given clock.
func NewIDSourceWithClock(now func() time.Time) *IDSource {
	return &IDSource{now: now}
}

// Next returns a new ID greater than every ID issued or observed so far.
func (s *IDSource) Next() int64 {
	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}

// Observe records existing IDs so Next never collides with them.
func (s *IDSource) Observe(ids ...int64) {
	for _, id := range ids {
		if id > s.last {
			s.last = id
		}
	}
}
