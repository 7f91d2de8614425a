package engine_util

import (
	"github.com/Connor1996/badger"
	"github.com/pingcap/errors"
)

type batchEntry struct {
	key    []byte
	value  []byte
	delete bool
}

// WriteBatch collects puts and deletes and applies them to badger in a single update transaction.
type WriteBatch struct {
	entries       []batchEntry
	size          int
	safePoint     int
	safePointSize int
}

func (wb *WriteBatch) Len() int {
	return len(wb.entries)
}

func (wb *WriteBatch) Size() int {
	return wb.size
}

func (wb *WriteBatch) SetCF(cf string, key, val []byte) {
	wb.entries = append(wb.entries, batchEntry{
		key:   KeyWithCF(cf, key),
		value: val,
	})
	wb.size += len(key) + len(val)
}

func (wb *WriteBatch) DeleteCF(cf string, key []byte) {
	wb.entries = append(wb.entries, batchEntry{
		key:    KeyWithCF(cf, key),
		delete: true,
	})
	wb.size += len(key)
}

func (wb *WriteBatch) SetSafePoint() {
	wb.safePoint = len(wb.entries)
	wb.safePointSize = wb.size
}

func (wb *WriteBatch) RollbackToSafePoint() {
	wb.entries = wb.entries[:wb.safePoint]
	wb.size = wb.safePointSize
}

func (wb *WriteBatch) WriteToDB(db *badger.DB) error {
	if len(wb.entries) == 0 {
		return nil
	}
	err := db.Update(func(txn *badger.Txn) error {
		for _, entry := range wb.entries {
			var err1 error
			if entry.delete {
				err1 = txn.Delete(entry.key)
			} else {
				err1 = txn.Set(entry.key, entry.value)
			}
			if err1 != nil {
				return err1
			}
		}
		return nil
	})
	return errors.WithStack(err)
}

func (wb *WriteBatch) Reset() {
	wb.entries = wb.entries[:0]
	wb.size = 0
	wb.safePoint = 0
	wb.safePointSize = 0
}
