package txaware

import (
	"fmt"

	"github.com/pingcap/errors"
)

var (
	// ErrInvalidConflictLevel is returned when a change key is requested under ConflictDetectionNone.
	ErrInvalidConflictLevel = errors.New("NONE conflict detection does not support change keys")
	// ErrNoActiveTransaction is returned when a mutation is recorded while no transaction is attached.
	ErrNoActiveTransaction = errors.New("transaction not started")
	// ErrInvalidTransition is returned when a lifecycle operation is not allowed in the current state.
	ErrInvalidTransition = errors.New("invalid transaction lifecycle transition")
	// ErrInvalidTableKey is returned for an empty table key or one containing the 0x00 separator.
	ErrInvalidTableKey = errors.New("table key must be non-empty and must not contain a zero byte")
)

// CommitFailure wraps the error returned by the delegate's Flush. The tracked changes are kept so the commit can be
// retried or rolled back.
type CommitFailure struct {
	Table string
	Err   error
}

func (e *CommitFailure) Error() string {
	return fmt.Sprintf("commit of table %q failed: %v", e.Table, e.Err)
}

func (e *CommitFailure) Cause() error { return e.Err }

func (e *CommitFailure) Unwrap() error { return e.Err }

// RollbackFailure wraps the first error returned by the delegate's DeleteFamily. Deletes issued before it are not
// compensated; the rollback targets stay valid until Reset.
type RollbackFailure struct {
	Table  string
	Target RollbackTarget
	Err    error
}

func (e *RollbackFailure) Error() string {
	return fmt.Sprintf("rollback of table %q failed at row %q family %q: %v", e.Table, e.Target.Row, e.Target.Family, e.Err)
}

func (e *RollbackFailure) Cause() error { return e.Err }

func (e *RollbackFailure) Unwrap() error { return e.Err }
