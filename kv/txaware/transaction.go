package txaware

// Transaction is the part of a coordinator-issued transaction the table needs. The write pointer identifies the
// transaction's snapshot version and is only used to group changes.
type Transaction interface {
	WritePointer() uint64
}

// Delegate is the store capability the lifecycle drives. Flush commits buffered writes; DeleteFamily issues the
// compensating delete of one rollback target, undoing whatever the current transaction wrote to that (row, family).
type Delegate interface {
	TableKey() []byte
	Flush() error
	DeleteFamily(row, family []byte) error
}

// TxResetter is implemented by delegates that keep state of their own for the current transaction. ResetTx is
// called whenever the lifecycle resets.
type TxResetter interface {
	ResetTx()
}
