package txaware

import (
	"bytes"

	"github.com/google/btree"
	"github.com/pingcap-incubator/txaware/kv/util/codec"
	"github.com/pingcap/errors"
)

// separator follows the table key in canonical change keys. Table keys never contain it.
const separator byte = 0x00

const changeKeyDegree = 8

// ChangeKeyEncoder builds the change keys a transaction coordinator compares across clients. Keys are derived only
// from the table key, the conflict detection level and the mutated coordinate, so independent implementations agree
// byte for byte:
//   ROW:    <table> 0x00 <row>
//   COLUMN: <table> 0x00 <vint len(family)> <family> <vint len(qualifier)> <qualifier> <row>
// The row comes last and needs no length since nothing follows it.
type ChangeKeyEncoder struct {
	tableKey []byte
	level    ConflictDetection
	legacy   bool
}

// ValidateTableKey checks that key can identify a table in change keys.
func ValidateTableKey(key []byte) error {
	if len(key) == 0 || bytes.IndexByte(key, separator) >= 0 {
		return errors.Annotatef(ErrInvalidTableKey, "table key %q", key)
	}
	return nil
}

// NewChangeKeyEncoder creates an encoder for tableKey. With legacy set, AllChangeKeys also reports the
// separator-free keys of older clients.
func NewChangeKeyEncoder(tableKey []byte, level ConflictDetection, legacy bool) (*ChangeKeyEncoder, error) {
	if err := ValidateTableKey(tableKey); err != nil {
		return nil, err
	}
	if !level.valid() {
		return nil, errors.Errorf("unknown conflict detection level: %d", level)
	}
	return &ChangeKeyEncoder{
		tableKey: append([]byte{}, tableKey...),
		level:    level,
		legacy:   legacy,
	}, nil
}

func (e *ChangeKeyEncoder) Level() ConflictDetection { return e.level }

func (e *ChangeKeyEncoder) Legacy() bool { return e.legacy }

// TableKey returns a copy of the table identity.
func (e *ChangeKeyEncoder) TableKey() []byte { return append([]byte{}, e.tableKey...) }

// ChangeKey returns the canonical change key of a coordinate. Under COLUMN an absent qualifier is encoded as an
// empty one.
func (e *ChangeKeyEncoder) ChangeKey(row, family, qualifier []byte) ([]byte, error) {
	switch e.level {
	case ConflictDetectionRow:
		key := make([]byte, 0, len(e.tableKey)+1+len(row))
		key = append(key, e.tableKey...)
		key = append(key, separator)
		return append(key, row...), nil
	case ConflictDetectionColumn:
		famLen := int64(len(family))
		qualLen := int64(len(qualifier))
		size := len(e.tableKey) + 1 + codec.VIntSize(famLen) + len(family) + codec.VIntSize(qualLen) + len(qualifier) + len(row)
		key := make([]byte, 0, size)
		key = append(key, e.tableKey...)
		key = append(key, separator)
		key = append(key, codec.EncodeVInt(famLen)...)
		key = append(key, family...)
		key = append(key, codec.EncodeVInt(qualLen)...)
		key = append(key, qualifier...)
		return append(key, row...), nil
	case ConflictDetectionNone:
		return nil, ErrInvalidConflictLevel
	}
	return nil, errors.Errorf("unknown conflict detection level: %d", e.level)
}

// LegacyChangeKey returns the change key written by clients that predate the separator:
//   ROW:    <table> <row>
//   COLUMN: <table> <family> <qualifier> <row>
// These keys are ambiguous and are only reported next to the canonical ones.
func (e *ChangeKeyEncoder) LegacyChangeKey(row, family, qualifier []byte) ([]byte, error) {
	switch e.level {
	case ConflictDetectionRow:
		key := make([]byte, 0, len(e.tableKey)+len(row))
		key = append(key, e.tableKey...)
		return append(key, row...), nil
	case ConflictDetectionColumn:
		key := make([]byte, 0, len(e.tableKey)+len(family)+len(qualifier)+len(row))
		key = append(key, e.tableKey...)
		key = append(key, family...)
		key = append(key, qualifier...)
		return append(key, row...), nil
	case ConflictDetectionNone:
		return nil, ErrInvalidConflictLevel
	}
	return nil, errors.Errorf("unknown conflict detection level: %d", e.level)
}

// AllChangeKeys returns the change keys of changes in unsigned lexicographic order without duplicates. In legacy
// mode the legacy key of every change is reported as well. Under NONE the result is always empty.
func (e *ChangeKeyEncoder) AllChangeKeys(changes []ActionChange) ([][]byte, error) {
	if e.level == ConflictDetectionNone {
		return [][]byte{}, nil
	}

	set := btree.New(changeKeyDegree)
	for _, change := range changes {
		row, family, qualifier := change.Row(), change.Family(), change.Qualifier()
		key, err := e.ChangeKey(row, family, qualifier)
		if err != nil {
			return nil, err
		}
		set.ReplaceOrInsert(changeKeyItem(key))
		if e.legacy {
			key, err = e.LegacyChangeKey(row, family, qualifier)
			if err != nil {
				return nil, err
			}
			set.ReplaceOrInsert(changeKeyItem(key))
		}
	}

	keys := make([][]byte, 0, set.Len())
	set.Ascend(func(item btree.Item) bool {
		keys = append(keys, []byte(item.(changeKeyItem)))
		return true
	})
	return keys, nil
}

type changeKeyItem []byte

func (k changeKeyItem) Less(than btree.Item) bool {
	return bytes.Compare(k, than.(changeKeyItem)) < 0
}
