package txaware

import (
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// State is the lifecycle state of a table's current transaction.
type State int

const (
	StateDetached State = iota
	StateActive
	StateCommitting
	StateRollingBack
)

func (s State) String() string {
	switch s {
	case StateDetached:
		return "detached"
	case StateActive:
		return "active"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling-back"
	}
	return "unknown"
}

// Lifecycle drives attach, commit, rollback and reset of one transaction at a time:
//   Detached -> Active -> {Committing, RollingBack} -> Detached
// Commit and rollback only call the delegate. Nothing is retried internally, and tracked changes survive a failed
// attempt until Reset so the caller can retry with the same information.
//
// A Lifecycle is not safe for concurrent use.
type Lifecycle struct {
	name     string
	delegate Delegate
	tracker  *ChangeSetTracker
	state    State
	tx       Transaction
}

func NewLifecycle(delegate Delegate, tracker *ChangeSetTracker) *Lifecycle {
	return &Lifecycle{
		name:     string(delegate.TableKey()),
		delegate: delegate,
		tracker:  tracker,
	}
}

func (l *Lifecycle) State() State { return l.state }

// Transaction returns the attached transaction, or nil.
func (l *Lifecycle) Transaction() Transaction { return l.tx }

// Attach makes tx the current transaction. Changes tracked so far are kept, so a logical operation set can be
// replayed against a transaction reissued by the coordinator.
func (l *Lifecycle) Attach(tx Transaction) error {
	if tx == nil {
		return errors.Annotate(ErrNoActiveTransaction, "attach nil transaction")
	}
	if l.state != StateDetached && l.state != StateActive {
		return l.invalid("attach")
	}
	l.tx = tx
	l.state = StateActive
	return nil
}

// Refresh replaces the reference of the active transaction without touching tracked changes.
func (l *Lifecycle) Refresh(tx Transaction) error {
	if tx == nil {
		return errors.Annotate(ErrNoActiveTransaction, "refresh with nil transaction")
	}
	if l.state != StateActive {
		return l.invalid("refresh")
	}
	l.tx = tx
	return nil
}

// Commit flushes outstanding writes through the delegate. A failure is returned as *CommitFailure and leaves the
// lifecycle in StateCommitting; Commit may be called again from there. On success the caller finishes with
// FinalizeCommit.
func (l *Lifecycle) Commit() error {
	if l.state != StateActive && l.state != StateCommitting {
		return l.invalid("commit")
	}
	l.state = StateCommitting
	if err := l.delegate.Flush(); err != nil {
		lifecycleCounter.WithLabelValues("commit_failure").Inc()
		log.Warn("transaction commit failed",
			zap.String("table", l.name),
			zap.Uint64("write-pointer", l.writePointer()),
			zap.Error(err))
		return &CommitFailure{Table: l.name, Err: err}
	}
	lifecycleCounter.WithLabelValues("commit").Inc()
	return nil
}

// FinalizeCommit ends a committed transaction.
func (l *Lifecycle) FinalizeCommit() {
	l.Reset()
}

// Rollback issues a compensating DeleteFamily for every rollback target, stopping at the first failure, which is
// returned as *RollbackFailure. Deletes already issued are not undone. Rollback never resets: the caller calls Reset
// once it is done, and until then Rollback can be retried against the same targets.
func (l *Lifecycle) Rollback() error {
	switch l.state {
	case StateActive, StateCommitting, StateRollingBack:
	default:
		return l.invalid("rollback")
	}
	l.state = StateRollingBack
	targets := l.tracker.RollbackTargets()
	for _, target := range targets {
		if err := l.delegate.DeleteFamily(target.Row, target.Family); err != nil {
			lifecycleCounter.WithLabelValues("rollback_failure").Inc()
			log.Warn("transaction rollback failed",
				zap.String("table", l.name),
				zap.Uint64("write-pointer", l.writePointer()),
				zap.Binary("row", target.Row),
				zap.Binary("family", target.Family),
				zap.Error(err))
			return &RollbackFailure{Table: l.name, Target: target, Err: err}
		}
	}
	lifecycleCounter.WithLabelValues("rollback").Inc()
	log.Debug("transaction rolled back", zap.String("table", l.name), zap.Int("targets", len(targets)))
	return nil
}

// Reset clears all tracked changes and releases the transaction. It is allowed in any state.
func (l *Lifecycle) Reset() {
	log.Debug("reset transaction state",
		zap.String("table", l.name),
		zap.Stringer("state", l.state),
		zap.Int("changes", l.tracker.Len()))
	l.tracker.Reset()
	if r, ok := l.delegate.(TxResetter); ok {
		r.ResetTx()
	}
	l.tx = nil
	l.state = StateDetached
	lifecycleCounter.WithLabelValues("reset").Inc()
}

func (l *Lifecycle) writePointer() uint64 {
	if l.tx == nil {
		return 0
	}
	return l.tx.WritePointer()
}

func (l *Lifecycle) invalid(op string) error {
	return errors.Annotatef(ErrInvalidTransition, "%s in state %s", op, l.state)
}
