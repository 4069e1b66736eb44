package scheduler

import (
	"encoding"
	"fmt"
)

// State is the lifecycle stage of a drill session.
type State int

const (
	StateReady     State = iota // Built, Run not called yet.
	StateRunning                // Asking items.
	StateSuspended              // Checkpoint saved on request; this process is done.
	StateFinished               // Queue exhausted.
)

var stateNames = [...]string{
	StateReady:     "ready",
	StateRunning:   "running",
	StateSuspended: "suspended",
	StateFinished:  "finished",
}

var (
	_ fmt.Stringer             = State(0)
	_ encoding.TextMarshaler   = State(0)
	_ encoding.TextUnmarshaler = (*State)(nil)
)

func (s State) isValid() bool {
	return s >= StateReady && s <= StateFinished
}

// String returns the lower-case name of the state.
func (s State) String() string {
	if s.isValid() {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	if !s.isValid() {
		return nil, fmt.Errorf("scheduler: invalid state: %d", int(s))
	}
	return []byte(stateNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("scheduler: invalid state: %q", text)
}

// Terminal reports whether Run can no longer be called.
func (s State) Terminal() bool {
	return s == StateSuspended || s == StateFinished
}
