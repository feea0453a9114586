package encoding

import (
	"github.com/hexbee-net/errors"
)

// literalScratchSize bounds the number of literals unpacked per round in the
// spaced path. The dense path unpacks straight into the caller's slice and
// needs no scratch.
const literalScratchSize = 1024

// HybridDecoder decodes the Parquet RLE/bit-packing hybrid format from an
// in-memory byte slice into unsigned integers of a fixed bit width.
//
// The input slice must extend at least ReadPadding bytes past size; the
// bit-packed fast path reads whole 32-value blocks and relies on that
// trailer instead of per-block bounds checks.
type HybridDecoder struct {
	data []byte
	size int
	pos  int

	bitWidth       int
	byteEncodedLen int
	maxVal         uint64

	repeatCount  int
	literalCount int
	currentValue uint64
}

func NewHybridDecoder(data []byte, size, bitWidth int) (*HybridDecoder, error) {
	if bitWidth < 0 || bitWidth >= 64 {
		return nil, errors.WithFields(
			errors.WithStack(ErrUnsupportedBitWidth),
			errors.Fields{
				"bit-width": bitWidth,
			})
	}

	if size < 0 || size > len(data) || len(data)-size < ReadPadding {
		return nil, errors.WithFields(
			errors.WithStack(errShortPadding),
			errors.Fields{
				"size":   size,
				"buffer": len(data),
			})
	}

	return &HybridDecoder{
		data:           data,
		size:           size,
		bitWidth:       bitWidth,
		byteEncodedLen: (bitWidth + 7) / 8,
		maxVal:         uint64(1)<<uint(bitWidth) - 1,
	}, nil
}

// DecodeBatch fills out with the next values of the stream and returns the
// number of values decoded. A short count without error means the input ran
// out at a run boundary.
func (d *HybridDecoder) DecodeBatch(out []uint32) (int, error) {
	read := 0

	for read < len(out) {
		switch {
		case d.repeatCount > 0:
			n := min(len(out)-read, d.repeatCount)
			v := uint32(d.currentValue)

			for i := read; i < read+n; i++ {
				out[i] = v
			}

			d.repeatCount -= n
			read += n

		case d.literalCount > 0:
			n := min(len(out)-read, d.literalCount)

			if err := d.unpackBatch32(out[read : read+n]); err != nil {
				return read, err
			}

			d.literalCount -= n
			read += n

		default:
			ok, err := d.readRunHeader()
			if err != nil {
				return read, err
			}

			if !ok {
				return read, nil
			}
		}
	}

	return read, nil
}

// DecodeLevels is the one-byte-per-value variant used for definition level
// streams. It takes the scalar unpacking path; level widths never justify
// the 32-wide kernels.
func (d *HybridDecoder) DecodeLevels(out []byte) (int, error) {
	read := 0

	for read < len(out) {
		switch {
		case d.repeatCount > 0:
			n := min(len(out)-read, d.repeatCount)
			v := byte(d.currentValue)

			for i := read; i < read+n; i++ {
				out[i] = v
			}

			d.repeatCount -= n
			read += n

		case d.literalCount > 0:
			n := min(len(out)-read, d.literalCount)

			if err := d.unpackLevels(out[read : read+n]); err != nil {
				return read, err
			}

			d.literalCount -= n
			read += n

		default:
			ok, err := d.readRunHeader()
			if err != nil {
				return read, err
			}

			if !ok {
				return read, nil
			}
		}
	}

	return read, nil
}

// DecodeBatchSpaced decodes values for the defined positions of a batch:
// nulls consume no run budget, but the output index still advances across
// them. Null slots inside a bit-packed run are left untouched; null slots
// inside a repeated run receive the repeated value.
func (d *HybridDecoder) DecodeBatchSpaced(batchSize, nullCount int, defined []byte, out []uint32) (int, error) {
	var indices [literalScratchSize]uint32

	read := 0
	remainingNulls := nullCount
	dOff := 0

	for read < batchSize {
		isValid := defined[dOff] != 0
		dOff++

		if !isValid {
			read++
			remainingNulls--

			continue
		}

		if d.repeatCount == 0 && d.literalCount == 0 {
			ok, err := d.readRunHeader()
			if err != nil {
				return read, err
			}

			if !ok {
				return read, nil
			}
		}

		switch {
		case d.repeatCount > 0:
			// The slot at hand is known valid and consumes the first count;
			// the rest of the window consumes one count per defined slot.
			repeatBatch := 1
			d.repeatCount--

			for d.repeatCount > 0 && read+repeatBatch < batchSize {
				if defined[dOff] != 0 {
					d.repeatCount--
				} else {
					remainingNulls--
				}

				repeatBatch++
				dOff++
			}

			v := uint32(d.currentValue)
			for i := 0; i < repeatBatch; i++ {
				out[read+i] = v
			}

			read += repeatBatch

		case d.literalCount > 0:
			literalBatch := min(batchSize-read-remainingNulls, d.literalCount, literalScratchSize)

			if err := d.unpackBatch32(indices[:literalBatch]); err != nil {
				return read, err
			}

			out[read] = indices[0]

			skipped := 0
			literalsRead := 1
			pos := read + 1

			for literalsRead < literalBatch {
				if defined[dOff] != 0 {
					out[pos] = indices[literalsRead]
					literalsRead++
				} else {
					skipped++
				}

				pos++
				dOff++
			}

			d.literalCount -= literalBatch
			read += literalBatch + skipped
			remainingNulls -= skipped
		}
	}

	return read, nil
}

// readRunHeader advances to the next run. It returns false without error
// when the stream is exhausted at a run boundary.
func (d *HybridDecoder) readRunHeader() (bool, error) {
	if d.pos >= d.size {
		return false, nil
	}

	var (
		indicator uint32
		shift     uint
	)

	for {
		if d.pos >= d.size {
			return false, errors.Wrap(ErrShortRun, "run header cut off")
		}

		b := d.data[d.pos]
		d.pos++

		indicator |= uint32(b&0x7f) << shift

		if b&0x80 == 0 {
			break
		}

		shift += 7
		if shift > 32 {
			return false, errors.WithStack(ErrVarintOverflow)
		}
	}

	// The low bit picks the run kind, the rest is the count.
	if indicator&1 == 1 {
		d.literalCount = int(indicator>>1) * 8

		return true, nil
	}

	d.repeatCount = int(indicator >> 1)

	if d.pos+d.byteEncodedLen > d.size {
		return false, errors.Wrap(ErrShortRun, "repeated value cut off")
	}

	v := uint64(0)
	for i := 0; i < d.byteEncodedLen; i++ {
		v |= uint64(d.data[d.pos]) << uint(8*i)
		d.pos++
	}

	if v > d.maxVal {
		return false, errors.WithFields(
			errors.WithStack(ErrValueTooLarge),
			errors.Fields{
				"value":     v,
				"bit-width": d.bitWidth,
			})
	}

	d.currentValue = v

	return true, nil
}

// unpackBatch32 decodes len(out) bit-packed literals through the 32-wide
// kernels. The cursor advances by the whole bytes the literals occupy;
// literal counts are multiples of 8, so batches stay byte aligned.
func (d *HybridDecoder) unpackBatch32(out []uint32) error {
	// the kernel family stops at 32 bits; wider streams only ever reach
	// the scalar level path
	if d.bitWidth > 32 {
		return errors.WithFields(
			errors.WithStack(ErrUnsupportedBitWidth),
			errors.Fields{
				"bit-width": d.bitWidth,
			})
	}

	n := len(out)

	advance := d.bitWidth * n / 8
	if d.pos+advance > d.size {
		return errors.Wrap(ErrShortRun, "bit-packed run cut off")
	}

	fn := unpack32FuncByWidth[d.bitWidth]
	src := d.data[d.pos:]
	off := 0

	i := 0
	for ; i+32 <= n; i += 32 {
		blk := fn(src[off:])
		copy(out[i:i+32], blk[:])
		off += 4 * d.bitWidth
	}

	if i < n {
		blk := fn(src[off:])
		copy(out[i:], blk[:n-i])
	}

	d.pos += advance

	return nil
}

// unpackLevels is the scalar fallback for non-4-byte targets: an LSB-first
// extractor with a monotonically advancing bit cursor.
func (d *HybridDecoder) unpackLevels(out []byte) error {
	n := len(out)
	w := uint(d.bitWidth)

	advance := d.bitWidth * n / 8
	if d.pos+advance > d.size {
		return errors.Wrap(ErrShortRun, "bit-packed run cut off")
	}

	src := d.data[d.pos:]
	bit := uint(0)

	for i := range out {
		v := byte(0)

		for j := uint(0); j < w; j++ {
			v |= src[bit>>3] >> (bit & 7) & 1 << j
			bit++
		}

		out[i] = v
	}

	d.pos += advance

	return nil
}
