package storage

import (
	"github.com/pingcap-incubator/txaware/kv/util/engine_util"
)

// Storage represents the column-family engine a table is stored in. Writes are applied atomically per batch.
type Storage interface {
	Start() error
	Stop() error
	Write(batch []Modify) error
	Reader() (StorageReader, error)
}

type StorageReader interface {
	// When the key doesn't exist, return nil for the value
	GetCF(cf string, key []byte) ([]byte, error)
	IterCF(cf string) engine_util.DBIterator
	Close()
}
