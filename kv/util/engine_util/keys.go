package engine_util

import (
	"github.com/pingcap-incubator/txaware/kv/util/codec"
	"github.com/pingcap/errors"
)

// ColumnKey is the key of one cell inside its family's column family:
//   EncodeBytes(table) EncodeBytes(row) qualifier
// Table and row are memcomparable encoded, so RowPrefix(table, row) matches exactly the cells of that row.
func ColumnKey(table, row, qualifier []byte) []byte {
	key := RowPrefix(table, row)
	return append(key, qualifier...)
}

// RowPrefix is the prefix of every ColumnKey of row in table.
func RowPrefix(table, row []byte) []byte {
	buf := make([]byte, 0, codec.EncodedBytesLen(len(table))+codec.EncodedBytesLen(len(row)))
	buf = codec.AppendBytes(buf, table)
	return codec.AppendBytes(buf, row)
}

// DecodeColumnKey splits a ColumnKey into its table, row and qualifier.
func DecodeColumnKey(key []byte) (table, row, qualifier []byte, err error) {
	left, table, err := codec.DecodeBytes(key)
	if err != nil {
		return nil, nil, nil, errors.Annotate(err, "decode table")
	}
	qualifier, row, err = codec.DecodeBytes(left)
	if err != nil {
		return nil, nil, nil, errors.Annotate(err, "decode row")
	}
	return table, row, qualifier, nil
}
