package encoding

import (
	"encoding/binary"

	"github.com/hexbee-net/errors"
)

// HybridEncoder produces RLE/bit-packing hybrid streams the decoder
// accepts. The scan core itself never writes pages; the encoder exists for
// callers that fabricate level or index streams, and it keeps the decoder
// honest in round-trip tests.
type HybridEncoder struct {
	bitWidth int
	data     []byte
	pending  []uint32
}

func NewHybridEncoder(bitWidth int) (*HybridEncoder, error) {
	if bitWidth < 0 || bitWidth > 32 {
		return nil, errors.WithFields(
			errors.WithStack(ErrUnsupportedBitWidth),
			errors.Fields{
				"bit-width": bitWidth,
			})
	}

	return &HybridEncoder{bitWidth: bitWidth}, nil
}

// Encode buffers values for the next literal run.
func (e *HybridEncoder) Encode(values []uint32) {
	e.pending = append(e.pending, values...)
}

// AppendRLERun emits any pending literals, then a repeated run.
func (e *HybridEncoder) AppendRLERun(value uint32, count int) {
	e.flushPending()

	header := uint64(count) << 1
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], header)
	e.data = append(e.data, buf[:n]...)

	for i := 0; i < (e.bitWidth+7)/8; i++ {
		e.data = append(e.data, byte(value>>uint(8*i)))
	}
}

// Bytes closes the stream and returns it.
func (e *HybridEncoder) Bytes() []byte {
	e.flushPending()

	return e.data
}

// SizedBytes closes the stream and returns it behind the 4-byte little
// endian length prefix definition level streams carry.
func (e *HybridEncoder) SizedBytes() []byte {
	e.flushPending()

	out := make([]byte, 4, 4+len(e.data))
	binary.LittleEndian.PutUint32(out, uint32(len(e.data)))

	return append(out, e.data...)
}

// flushPending writes the buffered values as one bit-packed run, padded
// with zeros to the multiple of 8 the format requires.
func (e *HybridEncoder) flushPending() {
	if len(e.pending) == 0 {
		return
	}

	groups := (len(e.pending) + 7) / 8

	header := uint64(groups)<<1 | 1
	var buf [binary.MaxVarintLen32]byte
	n := binary.PutUvarint(buf[:], header)
	e.data = append(e.data, buf[:n]...)

	if e.bitWidth > 0 {
		start := len(e.data)
		e.data = append(e.data, make([]byte, e.bitWidth*groups)...)

		bit := uint(0)
		for _, v := range e.pending {
			for j := 0; j < e.bitWidth; j++ {
				if v>>uint(j)&1 == 1 {
					e.data[start+int(bit>>3)] |= 1 << (bit & 7)
				}
				bit++
			}
		}
	}

	e.pending = e.pending[:0]
}
