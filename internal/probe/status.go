package probe

import (
	"fmt"
	"syscall"
)

// Kind is the outcome of an initialization query.
type Kind int

// Unknown is the zero Kind: a Status nobody filled in is not a success.
const (
	Unknown Kind = iota
	Initialized
	NotInitialized
	QueryFailed
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case Initialized:
		return "initialized"
	case NotInitialized:
		return "not initialized"
	case QueryFailed:
		return "query failed"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Status keeps "udev has not processed the device" apart from "the state
// could not be read".
type Status struct {
	Kind Kind
	// Reason is udev.ErrNoDevice for a missing device, the query error
	// for QueryFailed, and nil otherwise.
	Reason error
	// Errno is the system error behind a QueryFailed status, when known.
	Errno syscall.Errno
}

func (s Status) Initialized() bool { return s.Kind == Initialized }

// Verdict is the line printed for a probed device.
func Verdict(name string, s Status) string {
	if s.Initialized() {
		return fmt.Sprintf("device = %s is initialized by udev", name)
	}
	if s.Kind == QueryFailed && s.Errno != 0 {
		return fmt.Sprintf("device = %s is not initialized by udev (errno %d: %v)", name, int(s.Errno), s.Errno)
	}
	return fmt.Sprintf("device = %s is not initialized by udev", name)
}
