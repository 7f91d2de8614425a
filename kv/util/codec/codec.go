package codec

import (
	"github.com/pingcap/errors"
)

const (
	encGroupSize = 8
	encMarker    = byte(0xFF)
	encPad       = byte(0x0)
)

var pads = make([]byte, encGroupSize)

// EncodeBytes writes data in memcomparable form: every 8 byte group is followed by a marker byte
// `0xFF - number of padding bytes`, and the last group is zero padded. Encoded values sort in the same order as the
// raw values, and no encoded value is a prefix of another, so an encoded row can be followed by arbitrary bytes.
//   []        -> [0, 0, 0, 0, 0, 0, 0, 0, 247]
//   [1, 2, 3] -> [1, 2, 3, 0, 0, 0, 0, 0, 250]
// See https://github.com/facebook/mysql-5.6/wiki/MyRocks-record-format#memcomparable-format.
func EncodeBytes(data []byte) []byte {
	return AppendBytes(make([]byte, 0, EncodedBytesLen(len(data))), data)
}

// AppendBytes appends the memcomparable form of data to buf.
func AppendBytes(buf, data []byte) []byte {
	for idx := 0; idx <= len(data); idx += encGroupSize {
		remain := len(data) - idx
		if remain >= encGroupSize {
			buf = append(buf, data[idx:idx+encGroupSize]...)
			buf = append(buf, encMarker)
			continue
		}
		padCount := encGroupSize - remain
		buf = append(buf, data[idx:]...)
		buf = append(buf, pads[:padCount]...)
		buf = append(buf, encMarker-byte(padCount))
	}
	return buf
}

// EncodedBytesLen is the length of EncodeBytes for an input of n bytes.
func EncodedBytesLen(n int) int {
	return (n/encGroupSize + 1) * (encGroupSize + 1)
}

// DecodeBytes reverses EncodeBytes, returning the bytes left over after the encoded value and the decoded value.
func DecodeBytes(b []byte) ([]byte, []byte, error) {
	data := make([]byte, 0, len(b))
	for {
		if len(b) < encGroupSize+1 {
			return nil, nil, errors.New("insufficient bytes to decode value")
		}
		group := b[:encGroupSize]
		marker := b[encGroupSize]
		padCount := encMarker - marker
		if padCount > encGroupSize {
			return nil, nil, errors.Errorf("invalid marker byte, group bytes %q", b[:encGroupSize+1])
		}
		realGroupSize := encGroupSize - int(padCount)
		data = append(data, group[:realGroupSize]...)
		for _, v := range group[realGroupSize:] {
			if v != encPad {
				return nil, nil, errors.Errorf("invalid padding byte, group bytes %q", b[:encGroupSize+1])
			}
		}
		b = b[encGroupSize+1:]
		if padCount != 0 {
			return b, data, nil
		}
	}
}
