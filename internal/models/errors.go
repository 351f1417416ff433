package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName            = errors.New("participant name must not be empty")
	ErrDuplicateParticipant = errors.New("participant already exists")
	ErrUnknownParticipant   = errors.New("participant not found")
	ErrShareMismatch        = errors.New("custom shares do not match the total amount")
	ErrDuplicateShare       = errors.New("participant listed more than once in shares")
	ErrInvalidSplitType     = errors.New("invalid split type")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrNoParticipants       = errors.New("no participants to split among")
)

// UnknownParticipantError reports a custom share naming a participant that
// is not in the ledger.
type UnknownParticipantError struct {
	Participant string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("participant %q not found", e.Participant)
}

// Is makes errors.Is(err, ErrUnknownParticipant) match.
func (e *UnknownParticipantError) Is(target error) bool {
	return target == ErrUnknownParticipant
}

// UnknownParticipants extracts the names from every UnknownParticipantError
// contained in err, which may be a joined error.
func UnknownParticipants(err error) []string {
	if err == nil {
		return nil
	}
	var names []string
	var walk func(error)
	walk = func(e error) {
		if u, ok := e.(*UnknownParticipantError); ok {
			names = append(names, u.Participant)
			return
		}
		switch x := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range x.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			if inner := x.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return names
}
