// Package local reads files from the local file system.
package local

import (
	"os"

	"github.com/hexbee-net/errors"
)

type File struct {
	FilePath string
	file     *os.File
}

// NewReader creates a local file Reader.
func NewReader(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open source file")
	}

	return &File{
		FilePath: path,
		file:     f,
	}, nil
}

func (f *File) Read(b []byte) (int, error) {
	return f.file.Read(b)
}

func (f *File) Seek(offset int64, whence int) (int64, error) {
	return f.file.Seek(offset, whence)
}

func (f *File) Close() error {
	return f.file.Close()
}
