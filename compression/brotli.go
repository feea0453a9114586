package compression //nolint:dupl // it's easier to duplicate the algorithm wrappers

import (
	"bytes"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/encoding"
)

type Brotli struct {
}

func (c Brotli) CompressBlock(block []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := brotli.NewWriter(buf)

	if _, err := w.Write(block); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c Brotli) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	r := brotli.NewReader(bytes.NewReader(block))

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)

	if _, err := io.ReadFull(r, buf[:uncompressedSize]); err != nil {
		return nil, errors.Wrap(err, "failed to decompress Brotli data")
	}

	return buf, nil
}
