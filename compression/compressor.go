// Package compression wraps the block codecs page payloads may be stored
// with. Decompressors hand back buffers that already carry the trailing
// read padding the decoding kernels rely on.
package compression

import (
	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/encoding"
)

type BlockCompressor interface {
	CompressBlock(block []byte) ([]byte, error)

	// DecompressBlock expands block into a fresh buffer of
	// uncompressedSize plus encoding.ReadPadding trailing bytes.
	DecompressBlock(block []byte, uncompressedSize int) ([]byte, error)
}

const errDecompressedSize = errors.Error("unexpected decompressed size")

type Uncompressed struct {
}

func (c Uncompressed) CompressBlock(block []byte) ([]byte, error) {
	return block, nil
}

func (c Uncompressed) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	if len(block) != uncompressedSize {
		return nil, errors.WithFields(
			errors.WithStack(errDecompressedSize),
			errors.Fields{
				"expected": uncompressedSize,
				"actual":   len(block),
			})
	}

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)
	copy(buf, block)

	return buf, nil
}
