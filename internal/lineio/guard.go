// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package lineio

// Guard is the scoped pause/resume ownership token for the terminal.
// Acquisition pauses the source, release resumes it. At most one Guard may
// be held on a given source at any instant; nesting is a programming error.
type Guard struct {
	s        *Source
	released bool
}

// Hold pauses the source and returns the guard. It panics if a guard is
// already held on this source.
func Hold(s *Source) *Guard {
	s.mu.Lock()
	if s.held {
		s.mu.Unlock()
		panic("lineio: guard is already held on this source")
	}
	s.held = true
	s.mu.Unlock()
	s.Pause()
	return &Guard{s: s}
}

// Release resumes the source. Releasing twice is a no-op, so it is safe
// to defer a Release and also release early.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.s.mu.Lock()
	g.s.held = false
	g.s.mu.Unlock()
	g.s.Resume()
}
