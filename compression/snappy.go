package compression

import (
	"github.com/golang/snappy"
	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/encoding"
)

type Snappy struct {
}

func (c Snappy) CompressBlock(block []byte) ([]byte, error) {
	return snappy.Encode(nil, block), nil
}

func (c Snappy) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	n, err := snappy.DecodedLen(block)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read SNAPPY block length")
	}

	if n != uncompressedSize {
		return nil, errors.WithFields(
			errors.WithStack(errDecompressedSize),
			errors.Fields{
				"expected": uncompressedSize,
				"actual":   n,
			})
	}

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)

	if _, err := snappy.Decode(buf, block); err != nil {
		return nil, errors.Wrap(err, "failed to decompress SNAPPY data")
	}

	return buf, nil
}
