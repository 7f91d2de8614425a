package codec

import "math/bits"

// Length markers of the variable-length integer format. A single-byte value covers [vintMinSingle, vintMaxSingle];
// anything outside that range is written as a marker byte followed by the big-endian magnitude.
const (
	vintMinSingle      int64 = -112
	vintMaxSingle      int64 = 127
	vintPositiveMarker int64 = -112
	vintNegativeMarker int64 = -120
)

// EncodeVInt encodes v in the zero-compressed, self-delimiting layout used by Hadoop's WritableUtils.writeVLong.
// The layout is a wire contract shared with other clients and must not change:
//   [-112, 127]        -> one byte holding v
//   otherwise, v >= 0  -> marker (-112 - n), then n big-endian bytes of v
//   otherwise, v < 0   -> marker (-120 - n), then n big-endian bytes of ^v
// where n in [1, 8] is the number of significant bytes of the magnitude.
func EncodeVInt(v int64) []byte {
	if v >= vintMinSingle && v <= vintMaxSingle {
		return []byte{byte(v)}
	}

	marker := vintPositiveMarker
	if v < 0 {
		v = ^v
		marker = vintNegativeMarker
	}
	for tmp := v; tmp != 0; tmp >>= 8 {
		marker--
	}

	n := vintMagnitudeLen(marker)
	buf := make([]byte, n+1)
	buf[0] = byte(marker)
	for i := 1; i <= n; i++ {
		shift := uint(n-i) * 8
		buf[i] = byte(uint64(v) >> shift)
	}
	return buf
}

// VIntSize returns the number of bytes EncodeVInt(v) produces.
func VIntSize(v int64) int {
	if v >= vintMinSingle && v <= vintMaxSingle {
		return 1
	}
	if v < 0 {
		v = ^v
	}
	dataBits := 64 - bits.LeadingZeros64(uint64(v))
	return (dataBits+7)/8 + 1
}

func vintMagnitudeLen(marker int64) int {
	if marker < vintNegativeMarker {
		return int(-(marker - vintNegativeMarker))
	}
	return int(-(marker - vintPositiveMarker))
}
