// Copyright (c) 2026 Lockbox Team
// Lockbox - interactive secrets vault
// This source code is licensed under the MIT license found in the LICENSE file.

package lineio

import (
	"errors"
	"sync"
)

// ErrClosed is returned when input has been exhausted. Callers must treat
// it as a cancellation of the surrounding interaction, never as a crash.
var ErrClosed = errors.New("lineio: input closed")

// State describes the delivery state of a Source.
type State int

const (
	// Idle is the state before Start.
	Idle State = iota
	// Armed delivers completed lines on the Lines channel.
	Armed
	// Paused suspends delivery while a nested prompt owns the terminal.
	Paused
	// Finished is entered when input is exhausted; it is terminal.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// backend is the seam between the Source state machine and the concrete
// input device. ReadLine renders the prompt (if any) and blocks until one
// full line is available or the input is exhausted.
type backend interface {
	ReadLine(prompt string) (string, error)
	// Render repaints the prompt without initiating a read, used when the
	// source resumes while a read is already pending on the device.
	Render(prompt string)
	// Suspend terminates an in-progress line edit visually before the
	// terminal is handed to a nested prompt.
	Suspend()
	Close() error
}

// Source turns a blocking line-oriented backend into armed/paused line
// delivery. The prompt callback is consulted on every render, so updating
// the prompt text takes effect on the next redraw.
type Source struct {
	b      backend
	prompt func() string

	mu      sync.Mutex
	cond    *sync.Cond
	state   State
	held    bool
	reading bool
	waiter  chan string
	armGate chan struct{}
	lines   chan string
}

func newSource(b backend, prompt func() string) *Source {
	s := &Source{
		b:      b,
		prompt: prompt,
		state:  Idle,
		lines:  make(chan string),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.run()
	return s
}

// Lines is the delivery channel for completed input lines. It carries one
// value per line while the source is armed and is closed exactly once when
// input is exhausted.
func (s *Source) Lines() <-chan string {
	return s.lines
}

// State reports the current delivery state.
func (s *Source) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start arms the source and renders the prompt once. It is a no-op after
// the first call.
func (s *Source) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Idle {
		return
	}
	s.state = Armed
	s.armGate = make(chan struct{})
	s.cond.Signal()
}

// Pause detaches the source from line delivery. A completed line that has
// not been consumed yet is discarded. Idempotent while already paused.
func (s *Source) Pause() {
	s.mu.Lock()
	if s.state != Armed {
		s.mu.Unlock()
		return
	}
	s.state = Paused
	close(s.armGate)
	s.mu.Unlock()
	s.b.Suspend()
}

// Resume re-renders the current prompt and re-arms delivery. A finished
// source stays finished.
func (s *Source) Resume() {
	s.mu.Lock()
	if s.state != Paused {
		s.mu.Unlock()
		return
	}
	s.state = Armed
	s.armGate = make(chan struct{})
	rerender := s.reading
	s.cond.Signal()
	s.mu.Unlock()
	if rerender {
		// A read was already pending across the pause; the next ReadLine
		// will not repaint, so do it here.
		s.b.Render(s.prompt())
	}
}

// ReadLine reads one line on behalf of a nested prompt. It must only be
// called while the source is paused (the caller holds the Guard); calling
// it while the session loop owns the terminal is a programming error.
func (s *Source) ReadLine() (string, error) {
	s.mu.Lock()
	if s.state == Finished {
		s.mu.Unlock()
		return "", ErrClosed
	}
	if s.state != Paused {
		s.mu.Unlock()
		panic("lineio: ReadLine without a held guard")
	}
	if s.waiter != nil {
		s.mu.Unlock()
		panic("lineio: concurrent ReadLine on one source")
	}
	w := make(chan string, 1)
	s.waiter = w
	s.cond.Signal()
	s.mu.Unlock()

	text, ok := <-w
	if !ok {
		return "", ErrClosed
	}
	return text, nil
}

// Close finishes the source and releases the backend. Safe to call after
// the source finished on its own.
func (s *Source) Close() error {
	s.mu.Lock()
	s.finishLocked()
	s.mu.Unlock()
	return s.b.Close()
}

// run is the single reader goroutine. It performs one backend read at a
// time and routes each completed line by the state at completion: a
// waiting nested prompt wins, an armed source delivers, a paused source
// discards.
func (s *Source) run() {
	defer close(s.lines)
	for {
		p, ok := s.next()
		if !ok {
			return
		}
		text, err := s.b.ReadLine(p)
		if !s.dispatch(text, err) {
			return
		}
	}
}

// next blocks until a line is wanted: the source is armed, or a nested
// reader is waiting. Returns the prompt to render and false once finished.
func (s *Source) next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		switch {
		case s.state == Finished:
			return "", false
		case s.waiter != nil:
			// Nested prompts print their own message; no prompt here.
			s.reading = true
			return "", true
		case s.state == Armed:
			s.reading = true
			return s.prompt(), true
		}
		s.cond.Wait()
	}
}

func (s *Source) dispatch(text string, err error) bool {
	s.mu.Lock()
	s.reading = false
	if err != nil {
		s.finishLocked()
		s.mu.Unlock()
		return false
	}
	if w := s.waiter; w != nil {
		s.waiter = nil
		s.mu.Unlock()
		w <- text
		return true
	}
	if s.state == Armed {
		gate := s.armGate
		s.mu.Unlock()
		select {
		case s.lines <- text:
		case <-gate:
			// Paused before the line was consumed: discard it.
		}
		return true
	}
	// Paused with no pending reader: discard.
	s.mu.Unlock()
	return true
}

// finishLocked moves the source to Finished, aborting any pending delivery
// and waking a pending nested reader with ErrClosed. The lines channel is
// closed by the reader goroutine on exit, keeping it single-writer.
func (s *Source) finishLocked() {
	if s.state == Finished {
		return
	}
	if s.state == Armed {
		close(s.armGate)
	}
	s.state = Finished
	if w := s.waiter; w != nil {
		s.waiter = nil
		close(w)
	}
	s.cond.Broadcast()
}
