package session

import (
	"errors"
	"sync/atomic"
)

// State represents the lifecycle state of a session.
type State string

const (
	StateStarting State = "starting"
	StateRunning  State = "running"
	StateClosed   State = "closed"
)

var (
	// ErrStartup wraps every failure that prevents the window from opening.
	ErrStartup = errors.New("session startup failed")
	// ErrSessionActive is returned when a second session is started while
	// one is still running in this process.
	ErrSessionActive = errors.New("a session is already running")
)

// active guards the single window a process may show at a time.
var active atomic.Bool

func acquire() bool { return active.CompareAndSwap(false, true) }

func release() { active.Store(false) }
