package compression //nolint:dupl // it's easier to duplicate the algorithm wrappers

import (
	"bytes"
	"io"

	"github.com/hexbee-net/errors"
	"github.com/pierrec/lz4"

	"github.com/quarrydata/parquet/encoding"
)

type LZ4 struct {
}

func (c LZ4) CompressBlock(block []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := lz4.NewWriter(buf)

	if _, err := w.Write(block); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c LZ4) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(block))

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)

	if _, err := io.ReadFull(r, buf[:uncompressedSize]); err != nil {
		return nil, errors.Wrap(err, "failed to decompress LZ4 data")
	}

	return buf, nil
}
