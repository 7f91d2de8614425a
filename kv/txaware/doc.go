// Package txaware tracks the mutations a transaction makes to a column-family table and encodes them as the change
// keys an optimistic transaction coordinator uses to detect write-write conflicts.
//
// A TransactionAwareTable records every Put, Delete and DeleteFamily into a ChangeSetTracker keyed by the
// transaction's write pointer, at the granularity of its ConflictDetection level. At commit time TxChanges returns
// the sorted, duplicate-free change keys built by the ChangeKeyEncoder. Rollback issues compensating family deletes
// for every recorded (row, family) pair.
package txaware
