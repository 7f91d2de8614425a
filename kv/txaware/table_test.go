package txaware

import (
	"testing"

	"github.com/pingcap/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, store *fakeStore, opts Options) *TransactionAwareTable {
	table, err := NewTransactionAwareTable(store, opts)
	require.Nil(t, err)
	return table
}

func TestTableRowLevel(t *testing.T) {
	store := newFakeStore("t1")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionRow})
	assert.Equal(t, "t1", table.TransactionAwareName())

	require.Nil(t, table.StartTx(testTx(10)))
	require.Nil(t, table.Put([]byte("r1"), []byte("f"), []byte("q1"), []byte("v")))
	require.Nil(t, table.Put([]byte("r1"), []byte("f"), []byte("q2"), []byte("v")))
	require.Nil(t, table.Delete([]byte("r2"), []byte("f"), []byte("q1")))
	assert.Len(t, store.puts, 2)
	assert.Len(t, store.deletes, 1)

	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("t1\x00r1"), []byte("t1\x00r2")}, keys)

	require.Nil(t, table.CommitTx())
	table.PostTxCommit()
	assert.Equal(t, StateDetached, table.State())
	keys, err = table.TxChanges()
	require.Nil(t, err)
	assert.Empty(t, keys)

	// A new transaction starts from a clean change set.
	require.Nil(t, table.StartTx(testTx(11)))
	require.Nil(t, table.Put([]byte("r3"), []byte("f"), nil, []byte("v")))
	keys, err = table.TxChanges()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("t1\x00r3")}, keys)
}

func TestTableColumnLevelLegacy(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionColumn, LegacyChangeKeyFormat: true})
	require.Nil(t, table.StartTx(testTx(1)))
	require.Nil(t, table.Put([]byte("r"), []byte("f"), []byte("q"), []byte("v")))
	require.Nil(t, table.Put([]byte("r"), []byte("f"), []byte("q"), []byte("v2")))

	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{
		{'t', 0x00, 0x01, 'f', 0x01, 'q', 'r'},
		[]byte("tfqr"),
	}, keys)
}

func TestTableDeleteFamily(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionColumn})
	require.Nil(t, table.StartTx(testTx(1)))
	require.Nil(t, table.DeleteFamily([]byte("r"), []byte("f")))
	assert.Equal(t, []RollbackTarget{{Row: []byte("r"), Family: []byte("f")}}, store.clears)
	// The rollback hook is not involved in a transactional family delete.
	assert.Empty(t, store.familyDels)

	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{{'t', 0x00, 0x01, 'f', 0x00, 'r'}}, keys)
}

func TestTableRollback(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionColumn})
	require.Nil(t, table.StartTx(testTx(1)))
	require.Nil(t, table.Put([]byte("r"), []byte("f"), []byte("q1"), []byte("v")))
	require.Nil(t, table.Put([]byte("r"), []byte("f"), []byte("q2"), []byte("v")))
	assert.Len(t, table.RollbackTargets(), 1)

	require.Nil(t, table.RollbackTx())
	assert.Len(t, store.familyDels, 1)
	assert.Equal(t, 0, store.resets)
	table.Reset()
	assert.Equal(t, 1, store.resets)

	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Empty(t, keys)
	assert.Empty(t, table.RollbackTargets())
}

func TestTableNonTransactional(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionRow})
	assert.False(t, table.AllowNonTransactional())

	err := table.Put([]byte("r"), []byte("f"), nil, []byte("v"))
	assert.Equal(t, ErrNoActiveTransaction, errors.Cause(err))
	assert.Empty(t, store.puts)

	table.SetAllowNonTransactional(true)
	require.Nil(t, table.Put([]byte("r"), []byte("f"), nil, []byte("v")))
	require.Nil(t, table.Delete([]byte("r"), []byte("f"), nil))
	assert.Len(t, store.puts, 1)
	assert.Len(t, store.deletes, 1)
	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Empty(t, keys)
}

func TestTableUpdateTx(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionRow})
	require.Nil(t, table.StartTx(testTx(1)))
	require.Nil(t, table.Put([]byte("a"), []byte("f"), nil, nil))
	require.Nil(t, table.UpdateTx(testTx(2)))
	require.Nil(t, table.Put([]byte("b"), []byte("f"), nil, nil))

	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("t\x00a"), []byte("t\x00b")}, keys)
}

func TestTableNoneLevel(t *testing.T) {
	store := newFakeStore("t")
	table := newTestTable(t, store, Options{ConflictDetection: ConflictDetectionNone, LegacyChangeKeyFormat: true})
	require.Nil(t, table.StartTx(testTx(1)))
	require.Nil(t, table.Put([]byte("a"), []byte("f"), []byte("q"), nil))
	keys, err := table.TxChanges()
	require.Nil(t, err)
	assert.Empty(t, keys)
	assert.Len(t, table.RollbackTargets(), 1)
}

func TestTableSharedTransaction(t *testing.T) {
	tx := testTx(4)
	orders := newTestTable(t, newFakeStore("orders"), Options{ConflictDetection: ConflictDetectionRow})
	users := newTestTable(t, newFakeStore("users"), Options{ConflictDetection: ConflictDetectionRow})
	require.Nil(t, orders.StartTx(tx))
	require.Nil(t, users.StartTx(tx))
	require.Nil(t, orders.Put([]byte("1"), []byte("f"), nil, nil))
	require.Nil(t, users.Put([]byte("1"), []byte("f"), nil, nil))

	orderKeys, _ := orders.TxChanges()
	userKeys, _ := users.TxChanges()
	assert.Equal(t, [][]byte{[]byte("orders\x001")}, orderKeys)
	assert.Equal(t, [][]byte{[]byte("users\x001")}, userKeys)
}

func TestNewTransactionAwareTableRejectsSeparator(t *testing.T) {
	_, err := NewTransactionAwareTable(newFakeStore("bad\x00"), Options{ConflictDetection: ConflictDetectionRow})
	assert.Equal(t, ErrInvalidTableKey, errors.Cause(err))
}

func TestParseConflictDetection(t *testing.T) {
	for s, expected := range map[string]ConflictDetection{
		"none": ConflictDetectionNone, "ROW": ConflictDetectionRow, "Column": ConflictDetectionColumn,
	} {
		level, err := ParseConflictDetection(s)
		require.Nil(t, err)
		assert.Equal(t, expected, level)
	}
	_, err := ParseConflictDetection("cell")
	assert.NotNil(t, err)
	assert.Equal(t, "column", ConflictDetectionColumn.String())
	assert.Equal(t, "unknown", ConflictDetection(9).String())
}
