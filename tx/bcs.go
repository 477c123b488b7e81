package tx

import (
	"github.com/iov-one/mkeyring/errors"
)

// maxULEB128 is the largest value accepted for length prefixes and enum
// variant tags.
const maxULEB128 = 1<<32 - 1

// maxULEB128Len is the number of bytes needed to encode maxULEB128.
const maxULEB128Len = 5

func appendULEB128(b []byte, v uint32) []byte {
	for v >= 0x80 {
		b = append(b, byte(v)|0x80)
		v >>= 7
	}
	return append(b, byte(v))
}

// readULEB128 decodes a canonical, shortest form ULEB128 value and returns
// the number of bytes read.
func readULEB128(b []byte) (uint32, int, error) {
	var (
		v     uint64
		shift uint
	)
	for i := 0; i < len(b) && i < maxULEB128Len; i++ {
		c := b[i]
		v |= uint64(c&0x7f) << shift
		if v > maxULEB128 {
			return 0, 0, errors.Wrap(errors.ErrOverflow, "uleb128")
		}
		if c&0x80 == 0 {
			if c == 0 && i > 0 {
				return 0, 0, errors.Wrap(errors.ErrInvalidInput, "uleb128: non canonical encoding")
			}
			return uint32(v), i + 1, nil
		}
		shift += 7
	}
	if len(b) >= maxULEB128Len {
		return 0, 0, errors.Wrapf(errors.ErrOverflow, "uleb128: longer than %d bytes", maxULEB128Len)
	}
	return 0, 0, errors.Wrap(errors.ErrInvalidInput, "uleb128: unexpected end of input")
}

func appendBytes(b []byte, data []byte) []byte {
	b = appendULEB128(b, uint32(len(data)))
	return append(b, data...)
}

func readBytes(b []byte) ([]byte, int, error) {
	n, read, err := readULEB128(b)
	if err != nil {
		return nil, 0, err
	}
	end := read + int(n)
	if end > len(b) || end < read {
		return nil, 0, errors.Wrapf(errors.ErrInvalidInput, "want %d bytes, %d available", n, len(b)-read)
	}
	data := make([]byte, n)
	copy(data, b[read:end])
	return data, end, nil
}
