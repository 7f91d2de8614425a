package engine_util

import (
	"bytes"

	"github.com/Connor1996/badger"
	"github.com/pingcap-incubator/txaware/kv/util/codec"
)

// KeyWithCF prefixes key with its column family. Families are arbitrary bytes, so the family is length-prefixed
// rather than separated by a delimiter.
func KeyWithCF(cf string, key []byte) []byte {
	prefix := CFPrefix(cf)
	return append(prefix, key...)
}

// CFPrefix is the prefix shared by every key of cf.
func CFPrefix(cf string) []byte {
	prefix := codec.EncodeVInt(int64(len(cf)))
	return append(prefix, cf...)
}

func GetCF(db *badger.DB, cf string, key []byte) (val []byte, err error) {
	err = db.View(func(txn *badger.Txn) error {
		val, err = GetCFFromTxn(txn, cf, key)
		return err
	})
	return
}

// GetCFFromTxn returns the value of key in cf, or badger.ErrKeyNotFound. An empty value is returned as a non-nil
// empty slice.
func GetCFFromTxn(txn *badger.Txn, cf string, key []byte) (val []byte, err error) {
	item, err := txn.Get(KeyWithCF(cf, key))
	if err != nil {
		return nil, err
	}
	val, err = item.ValueCopy(val)
	if err == nil && val == nil {
		val = []byte{}
	}
	return
}

func PutCF(engine *badger.DB, cf string, key []byte, val []byte) error {
	return engine.Update(func(txn *badger.Txn) error {
		return txn.Set(KeyWithCF(cf, key), val)
	})
}

func DeleteCF(engine *badger.DB, cf string, key []byte) error {
	return engine.Update(func(txn *badger.Txn) error {
		return txn.Delete(KeyWithCF(cf, key))
	})
}

// DeletePrefixCF deletes every key of cf starting with prefix.
func DeletePrefixCF(db *badger.DB, cf string, prefix []byte) error {
	batch := new(WriteBatch)
	txn := db.NewTransaction(false)
	defer txn.Discard()
	CollectPrefixDeletes(txn, batch, cf, prefix)
	return batch.WriteToDB(db)
}

// CollectPrefixDeletes adds a delete to batch for every key of cf starting with prefix, as seen by txn.
func CollectPrefixDeletes(txn *badger.Txn, batch *WriteBatch, cf string, prefix []byte) {
	it := NewCFIterator(cf, txn)
	defer it.Close()
	for it.Seek(prefix); it.Valid(); it.Next() {
		key := it.Item().KeyCopy(nil)
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		batch.DeleteCF(cf, key)
	}
}
