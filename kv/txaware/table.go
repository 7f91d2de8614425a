package txaware

// Store is a table store that can be wrapped into a TransactionAwareTable. Put, Delete and ClearFamily are the
// mutations of the current transaction and become visible to other readers on Flush. DeleteFamily, inherited from
// Delegate, is only used by rollback.
type Store interface {
	Delegate
	Put(row, family, qualifier, value []byte) error
	Delete(row, family, qualifier []byte) error
	// ClearFamily deletes every column of family in row as part of the current transaction.
	ClearFamily(row, family []byte) error
	Get(row, family, qualifier []byte) ([]byte, error)
}

// TransactionAware is what a transaction coordinator calls on every participant of a transaction.
type TransactionAware interface {
	// StartTx attaches a new transaction.
	StartTx(tx Transaction) error
	// UpdateTx replaces the reference of the current transaction, e.g. after a checkpoint.
	UpdateTx(tx Transaction) error
	// TxChanges returns the change keys checked for write-write conflicts.
	TxChanges() ([][]byte, error)
	// CommitTx persists the changes of the current transaction.
	CommitTx() error
	// PostTxCommit is called once the coordinator has committed the transaction.
	PostTxCommit()
	// RollbackTx undoes the persisted changes of the current transaction.
	RollbackTx() error
	// TransactionAwareName identifies the participant.
	TransactionAwareName() string
}

type Options struct {
	ConflictDetection     ConflictDetection
	LegacyChangeKeyFormat bool
	AllowNonTransactional bool
}

// TransactionAwareTable wraps a Store so that every mutation is recorded against the current transaction before it
// is forwarded. One instance serves one transaction at a time and must not be used concurrently; instances for
// different tables may share a Transaction.
type TransactionAwareTable struct {
	store     Store
	encoder   *ChangeKeyEncoder
	tracker   *ChangeSetTracker
	lifecycle *Lifecycle

	allowNonTransactional bool
}

var _ TransactionAware = (*TransactionAwareTable)(nil)

func NewTransactionAwareTable(store Store, opts Options) (*TransactionAwareTable, error) {
	encoder, err := NewChangeKeyEncoder(store.TableKey(), opts.ConflictDetection, opts.LegacyChangeKeyFormat)
	if err != nil {
		return nil, err
	}
	tracker := NewChangeSetTracker(opts.ConflictDetection)
	return &TransactionAwareTable{
		store:                 store,
		encoder:               encoder,
		tracker:               tracker,
		lifecycle:             NewLifecycle(store, tracker),
		allowNonTransactional: opts.AllowNonTransactional,
	}, nil
}

func (t *TransactionAwareTable) AllowNonTransactional() bool {
	return t.allowNonTransactional
}

func (t *TransactionAwareTable) SetAllowNonTransactional(allow bool) {
	t.allowNonTransactional = allow
}

func (t *TransactionAwareTable) Encoder() *ChangeKeyEncoder { return t.encoder }

func (t *TransactionAwareTable) State() State { return t.lifecycle.State() }

func (t *TransactionAwareTable) StartTx(tx Transaction) error {
	return t.lifecycle.Attach(tx)
}

func (t *TransactionAwareTable) UpdateTx(tx Transaction) error {
	return t.lifecycle.Refresh(tx)
}

func (t *TransactionAwareTable) TxChanges() ([][]byte, error) {
	keys, err := t.encoder.AllChangeKeys(t.tracker.AllChanges())
	if err != nil {
		return nil, err
	}
	changeKeysHistogram.Observe(float64(len(keys)))
	return keys, nil
}

func (t *TransactionAwareTable) CommitTx() error {
	return t.lifecycle.Commit()
}

func (t *TransactionAwareTable) PostTxCommit() {
	t.lifecycle.FinalizeCommit()
}

func (t *TransactionAwareTable) RollbackTx() error {
	return t.lifecycle.Rollback()
}

// Reset drops tracked changes and detaches the transaction, e.g. after a rollback completed.
func (t *TransactionAwareTable) Reset() {
	t.lifecycle.Reset()
}

// RollbackTargets returns the (row, family) pairs a rollback would delete.
func (t *TransactionAwareTable) RollbackTargets() []RollbackTarget {
	return t.tracker.RollbackTargets()
}

func (t *TransactionAwareTable) TransactionAwareName() string {
	return string(t.encoder.tableKey)
}

func (t *TransactionAwareTable) Put(row, family, qualifier, value []byte) error {
	if err := t.record(row, family, qualifier); err != nil {
		return err
	}
	return t.store.Put(row, family, qualifier, value)
}

func (t *TransactionAwareTable) Delete(row, family, qualifier []byte) error {
	if err := t.record(row, family, qualifier); err != nil {
		return err
	}
	return t.store.Delete(row, family, qualifier)
}

// DeleteFamily deletes every column of family in row. It is recorded without a qualifier.
func (t *TransactionAwareTable) DeleteFamily(row, family []byte) error {
	if err := t.record(row, family, nil); err != nil {
		return err
	}
	return t.store.ClearFamily(row, family)
}

func (t *TransactionAwareTable) Get(row, family, qualifier []byte) ([]byte, error) {
	return t.store.Get(row, family, qualifier)
}

func (t *TransactionAwareTable) record(row, family, qualifier []byte) error {
	tx := t.lifecycle.Transaction()
	if tx == nil && t.allowNonTransactional {
		return nil
	}
	return t.tracker.Record(tx, row, family, qualifier)
}
