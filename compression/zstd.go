package compression

import (
	"bytes"
	"io"

	"github.com/hexbee-net/errors"
	"github.com/klauspost/compress/zstd"

	"github.com/quarrydata/parquet/encoding"
)

type ZStd struct {
}

func (c ZStd) CompressBlock(block []byte) ([]byte, error) {
	buf := &bytes.Buffer{}

	w, err := zstd.NewWriter(buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(block); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c ZStd) DecompressBlock(block []byte, uncompressedSize int) ([]byte, error) {
	r, err := zstd.NewReader(bytes.NewReader(block))
	if err != nil {
		return nil, errors.Wrap(err, "failed to open ZSTD block")
	}
	defer r.Close()

	buf := make([]byte, uncompressedSize+encoding.ReadPadding)

	if _, err := io.ReadFull(r, buf[:uncompressedSize]); err != nil {
		return nil, errors.Wrap(err, "failed to decompress ZSTD data")
	}

	return buf, nil
}
