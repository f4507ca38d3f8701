package purchase

import (
	"errors"
	"fmt"
	"sync"
)

// State is the purchase flow state of one event view.
type State int

const (
	StateIdle State = iota
	StateRequiresWallet
	StateProcessing
	StateSuccess
	StateFailed
)

var ErrInvalidTransition = errors.New("invalid purchase state transition")

var transitions = map[State][]State{
	StateIdle:           {StateRequiresWallet, StateProcessing},
	StateRequiresWallet: {StateIdle, StateProcessing},
	StateProcessing:     {StateSuccess, StateFailed},
	StateFailed:         {StateIdle},
}

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequiresWallet:
		return "requires_wallet"
	case StateProcessing:
		return "processing"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	for candidate := StateIdle; candidate <= StateFailed; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown purchase state %q", text)
}

// CanTransition reports whether the flow may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends an attempt.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Attempt tracks one pass through the purchase flow.
type Attempt struct {
	EventID string

	mu      sync.Mutex
	state   State
	history []State
}

func NewAttempt(eventID string) *Attempt {
	return &Attempt{EventID: eventID, state: StateIdle, history: []State{StateIdle}}
}

func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// History returns every state the attempt has been in, oldest first.
func (a *Attempt) History() []State {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]State, len(a.history))
	copy(out, a.history)
	return out
}

func (a *Attempt) Transition(next State) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.state.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.state, next)
	}
	a.state = next
	a.history = append(a.history, next)
	return nil
}
