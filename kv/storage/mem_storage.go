package storage

import (
	"bytes"

	"github.com/Connor1996/badger/y"
	"github.com/petar/GoLLRB/llrb"
	"github.com/pingcap-incubator/txaware/kv/util/engine_util"
)

// MemStorage is a Storage backed by memory, one llrb tree per column family. Column families are created on first
// write. Data is not written to disk; it is intended for testing and for the memory engine of txaware-ctl.
type MemStorage struct {
	families map[string]*llrb.LLRB
}

func NewMemStorage() *MemStorage {
	return &MemStorage{
		families: make(map[string]*llrb.LLRB),
	}
}

func (s *MemStorage) Start() error {
	return nil
}

func (s *MemStorage) Stop() error {
	return nil
}

func (s *MemStorage) Reader() (StorageReader, error) {
	return &memReader{s}, nil
}

func (s *MemStorage) Write(batch []Modify) error {
	for _, m := range batch {
		switch data := m.Data.(type) {
		case Put:
			s.family(data.Cf).ReplaceOrInsert(memItem{y.SafeCopy(nil, data.Key), append([]byte{}, data.Value...)})
		case Delete:
			if tree, ok := s.families[data.Cf]; ok {
				tree.Delete(memItem{key: data.Key})
			}
		case DeletePrefix:
			if tree, ok := s.families[data.Cf]; ok {
				deletePrefix(tree, data.Prefix)
			}
		}
	}
	return nil
}

// Len returns the number of keys in cf.
func (s *MemStorage) Len(cf string) int {
	if tree, ok := s.families[cf]; ok {
		return tree.Len()
	}
	return 0
}

func (s *MemStorage) family(cf string) *llrb.LLRB {
	tree, ok := s.families[cf]
	if !ok {
		tree = llrb.New()
		s.families[cf] = tree
	}
	return tree
}

func deletePrefix(tree *llrb.LLRB, prefix []byte) {
	var doomed []llrb.Item
	tree.AscendGreaterOrEqual(memItem{key: prefix}, func(item llrb.Item) bool {
		if !bytes.HasPrefix(item.(memItem).key, prefix) {
			return false
		}
		doomed = append(doomed, item)
		return true
	})
	for _, item := range doomed {
		tree.Delete(item)
	}
}

// memReader is a StorageReader which reads from a MemStorage.
type memReader struct {
	inner *MemStorage
}

func (mr *memReader) GetCF(cf string, key []byte) ([]byte, error) {
	tree, ok := mr.inner.families[cf]
	if !ok {
		return nil, nil
	}
	result := tree.Get(memItem{key: key})
	if result == nil {
		return nil, nil
	}
	return result.(memItem).value, nil
}

func (mr *memReader) IterCF(cf string) engine_util.DBIterator {
	tree, ok := mr.inner.families[cf]
	if !ok {
		tree = llrb.New()
	}
	it := &memIter{data: tree}
	if min := tree.Min(); min != nil {
		it.item = min.(memItem)
	}
	return it
}

func (mr *memReader) Close() {}

type memIter struct {
	data *llrb.LLRB
	item memItem
}

func (it *memIter) Item() engine_util.DBItem {
	return it.item
}

func (it *memIter) Valid() bool {
	return it.item.key != nil
}

func (it *memIter) Next() {
	first := true
	oldItem := it.item
	it.item = memItem{}
	it.data.AscendGreaterOrEqual(oldItem, func(item llrb.Item) bool {
		// Skip the first item, which will be it.item
		if first {
			first = false
			return true
		}

		it.item = item.(memItem)
		return false
	})
}

func (it *memIter) Seek(key []byte) {
	it.item = memItem{}
	it.data.AscendGreaterOrEqual(memItem{key: key}, func(item llrb.Item) bool {
		it.item = item.(memItem)
		return false
	})
}

func (it *memIter) Close() {}

type memItem struct {
	key   []byte
	value []byte
}

func (it memItem) Key() []byte {
	return it.key
}

func (it memItem) KeyCopy(dst []byte) []byte {
	return y.SafeCopy(dst, it.key)
}

func (it memItem) Value() ([]byte, error) {
	return it.value, nil
}

func (it memItem) ValueSize() int {
	return len(it.value)
}

func (it memItem) ValueCopy(dst []byte) ([]byte, error) {
	return y.SafeCopy(dst, it.value), nil
}

func (it memItem) Less(than llrb.Item) bool {
	other := than.(memItem)
	return bytes.Compare(it.key, other.key) < 0
}
