package table

import (
	"bytes"

	"github.com/pingcap-incubator/txaware/kv/storage"
	"github.com/pingcap-incubator/txaware/kv/txaware"
	"github.com/pingcap-incubator/txaware/kv/util/engine_util"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Table is a named table over a Storage. Puts and deletes are buffered until Flush, which writes them as one batch.
// Each column family of the storage holds one family; inside it a cell lives at engine_util.ColumnKey.
//
// The (row, family) pairs flushed since the last ResetTx are remembered, so that a rollback only deletes what the
// current transaction actually persisted.
type Table struct {
	name    []byte
	storage storage.Storage
	pending []write
	flushed map[rowFamily]struct{}
}

type rowFamily struct {
	row, family string
}

type write struct {
	target rowFamily
	modify storage.Modify
}

var (
	_ txaware.Store      = (*Table)(nil)
	_ txaware.TxResetter = (*Table)(nil)
)

func NewTable(name []byte, s storage.Storage) (*Table, error) {
	if err := txaware.ValidateTableKey(name); err != nil {
		return nil, err
	}
	return &Table{
		name:    append([]byte{}, name...),
		storage: s,
		flushed: make(map[rowFamily]struct{}),
	}, nil
}

func (t *Table) TableKey() []byte {
	return t.name
}

// Pending returns the number of buffered modifications.
func (t *Table) Pending() int {
	return len(t.pending)
}

func (t *Table) Put(row, family, qualifier, value []byte) error {
	t.buffer(row, family, storage.Put{
		Key:   engine_util.ColumnKey(t.name, row, qualifier),
		Value: value,
		Cf:    string(family),
	})
	return nil
}

func (t *Table) Delete(row, family, qualifier []byte) error {
	t.buffer(row, family, storage.Delete{
		Key: engine_util.ColumnKey(t.name, row, qualifier),
		Cf:  string(family),
	})
	return nil
}

// ClearFamily buffers the removal of every cell of family in row.
func (t *Table) ClearFamily(row, family []byte) error {
	t.buffer(row, family, storage.DeletePrefix{
		Prefix: engine_util.RowPrefix(t.name, row),
		Cf:     string(family),
	})
	return nil
}

func (t *Table) buffer(row, family []byte, data interface{}) {
	t.pending = append(t.pending, write{
		target: rowFamily{string(row), string(family)},
		modify: storage.Modify{Data: data},
	})
}

// Get returns the value of a cell, seeing buffered writes first. It returns nil if the cell doesn't exist.
func (t *Table) Get(row, family, qualifier []byte) ([]byte, error) {
	key := engine_util.ColumnKey(t.name, row, qualifier)
	cf := string(family)
	for i := len(t.pending) - 1; i >= 0; i-- {
		m := t.pending[i].modify
		if m.Cf() != cf {
			continue
		}
		switch data := m.Data.(type) {
		case storage.Put:
			if bytes.Equal(data.Key, key) {
				return data.Value, nil
			}
		case storage.Delete:
			if bytes.Equal(data.Key, key) {
				return nil, nil
			}
		case storage.DeletePrefix:
			if bytes.HasPrefix(key, data.Prefix) {
				return nil, nil
			}
		}
	}

	reader, err := t.storage.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return reader.GetCF(cf, key)
}

// Scan returns every cell of family in row, keyed by qualifier. Only flushed data is visible.
func (t *Table) Scan(row, family []byte) (map[string][]byte, error) {
	reader, err := t.storage.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	prefix := engine_util.RowPrefix(t.name, row)
	cells := make(map[string][]byte)
	iter := reader.IterCF(string(family))
	defer iter.Close()
	for iter.Seek(prefix); iter.Valid(); iter.Next() {
		item := iter.Item()
		key := item.KeyCopy(nil)
		if !bytes.HasPrefix(key, prefix) {
			break
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		cells[string(key[len(prefix):])] = value
	}
	return cells, nil
}

// Flush writes the buffered modifications. The buffer is kept if the write fails.
func (t *Table) Flush() error {
	if len(t.pending) == 0 {
		return nil
	}
	batch := make([]storage.Modify, 0, len(t.pending))
	for _, w := range t.pending {
		batch = append(batch, w.modify)
	}
	if err := t.storage.Write(batch); err != nil {
		return errors.Annotatef(err, "flush %d modifications of table %q", len(batch), t.name)
	}
	for _, w := range t.pending {
		t.flushed[w.target] = struct{}{}
	}
	log.Debug("flushed table", zap.ByteString("table", t.name), zap.Int("modifications", len(batch)))
	t.pending = nil
	return nil
}

// DeleteFamily undoes the writes of the current transaction to family in row. Buffered writes are dropped; the
// stored cells are only deleted if a Flush since the last ResetTx wrote to them.
func (t *Table) DeleteFamily(row, family []byte) error {
	target := rowFamily{string(row), string(family)}
	kept := t.pending[:0]
	for _, w := range t.pending {
		if w.target != target {
			kept = append(kept, w)
		}
	}
	t.pending = kept

	if _, ok := t.flushed[target]; !ok {
		return nil
	}
	err := t.storage.Write([]storage.Modify{{
		Data: storage.DeletePrefix{Prefix: engine_util.RowPrefix(t.name, row), Cf: target.family},
	}})
	if err != nil {
		return errors.Annotatef(err, "delete family %q of row %q", family, row)
	}
	delete(t.flushed, target)
	return nil
}

// ResetTx forgets which cells the current transaction flushed.
func (t *Table) ResetTx() {
	t.flushed = make(map[rowFamily]struct{})
}
