package compression

import (
	"bytes"
	"compress/gzip"
	"io"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/encoding"
)

type GZip struct {
}

func (c GZip) CompressBlock(block []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)

	if _, err := w.Write(block); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c GZip) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(block))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open GZIP block")
	}

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)

	if _, err := io.ReadFull(r, buf[:uncompressedSize]); err != nil {
		return nil, errors.Wrap(err, "failed to decompress GZIP data")
	}

	return buf, r.Close()
}
