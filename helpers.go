package parquet

import (
	"io"

	"github.com/apache/thrift/lib/go/thrift"
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

type thriftWriter interface {
	Write(thrift.TProtocol) error
}

func writeThrift(tr thriftWriter, w io.Writer) error {
	transport := &thrift.StreamTransport{Writer: w}
	proto := thrift.NewTCompactProtocol(transport)

	return tr.Write(proto)
}
