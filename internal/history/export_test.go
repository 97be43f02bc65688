package history

import "time"

// SetClock replaces the store clock for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}
