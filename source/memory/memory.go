// Package memory backs a source.Reader with an in-memory byte slice.
package memory

import (
	"bytes"
)

type Reader struct {
	*bytes.Reader
}

func NewReader(buf []byte) *Reader {
	return &Reader{
		Reader: bytes.NewReader(buf),
	}
}

func (r *Reader) Close() error {
	return nil
}

// Writer collects file bytes for a Reader to serve back; it exists for
// callers that assemble files in memory.
type Writer struct {
	bytes.Buffer
}

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Close() error {
	return nil
}

// Reader hands the collected bytes to a fresh Reader.
func (w *Writer) Reader() *Reader {
	return NewReader(w.Bytes())
}
