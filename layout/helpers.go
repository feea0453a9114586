package layout

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/parquet"
)

type thriftReader interface {
	Read(thrift.TProtocol) error
}

func readThrift(tr thriftReader, r io.Reader) error {
	// Make sure we are not using any kind of buffered reader here.
	// bufio.Reader "can" reads more data ahead of time, which is a problem on this library
	transport := &thrift.StreamTransport{Reader: r}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Read(proto)
}

// countingReader reports how many bytes the thrift parser actually pulled,
// which is the only way to learn a page header's length.
type countingReader struct {
	r     *bytes.Reader
	count int
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.count += n

	return n, err
}

// readPageHeader parses one page header from the head of buf and returns it
// together with the number of bytes it occupied.
func readPageHeader(buf []byte) (*parquet.PageHeader, int, error) {
	cr := &countingReader{r: bytes.NewReader(buf)}
	pageHeader := &parquet.PageHeader{}

	if err := readThrift(pageHeader, cr); err != nil {
		return nil, 0, errors.Wrap(err, "failed to read page header")
	}

	return pageHeader, cr.count, nil
}

func leInt32(b []byte) int32 {
	return int32(binary.LittleEndian.Uint32(b))
}

func leInt64(b []byte) int64 {
	return int64(binary.LittleEndian.Uint64(b))
}

func leFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func leFloat64(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
