// Package parquet reads flat (non-nested, all-OPTIONAL) Parquet files into
// column-major result buffers, one row group at a time.
package parquet

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/compression"
	"github.com/quarrydata/parquet/datastore"
	"github.com/quarrydata/parquet/layout"
	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/schema"
	"github.com/quarrydata/parquet/source"
	"github.com/quarrydata/parquet/source/local"
)

const (
	magic         = "PAR1"
	magicLen      = len(magic)
	footerLenSize = 4
	footerLen     = int64(footerLenSize + magicLen)
)

const (
	ErrInvalidHeader  = errors.Error("invalid parquet file header")
	ErrInvalidFooter  = errors.Error("invalid parquet file footer")
	ErrFooterLength   = errors.Error("invalid footer length")
	ErrEncrypted      = errors.Error("encrypted parquet files are not supported")
	ErrRowGroupLayout = errors.Error("row group column count differs from schema")
)

// FileReader reads data from a parquet file.
// Always use NewFileReader or OpenFile to create one.
type FileReader struct {
	meta    *parquet.FileMetaData
	columns []*schema.Column
	reader  source.Reader

	chunkReader *layout.ChunkReader
}

// ScanState is the row group cursor of a scan. Its zero value starts at the
// first row group.
type ScanState struct {
	rowGroupIdx int
}

// OpenFile opens a parquet file from the local file system.
func OpenFile(path string) (*FileReader, error) {
	r, err := local.NewReader(path)
	if err != nil {
		return nil, err
	}

	f, err := NewFileReader(r)
	if err != nil {
		_ = r.Close()

		return nil, err
	}

	return f, nil
}

// NewFileReader creates a new FileReader on an open source. The reader
// takes ownership of the source and closes it on Close.
func NewFileReader(r source.Reader) (*FileReader, error) {
	return NewFileReaderWithCompressors(r, defaultCompressors())
}

// NewFileReaderWithCompressors creates a FileReader with a caller-provided
// codec registry for chunks stored with codecs outside the default set.
func NewFileReaderWithCompressors(r source.Reader, compressors map[parquet.CompressionCodec]compression.BlockCompressor) (*FileReader, error) {
	meta, err := readFileMetaData(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file meta data")
	}

	if meta.EncryptionAlgorithm != nil {
		return nil, errors.WithStack(ErrEncrypted)
	}

	columns, err := schema.LoadColumns(meta)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file schema from meta data")
	}

	return &FileReader{
		meta:        meta,
		columns:     columns,
		reader:      r,
		chunkReader: layout.NewChunkReader(compressors),
	}, nil
}

// Columns returns the leaf column descriptors in schema order.
func (f *FileReader) Columns() []*schema.Column {
	return f.columns
}

// NumRows returns the number of rows in the parquet file. This information
// is directly taken from the file's meta data.
func (f *FileReader) NumRows() int64 {
	return f.meta.NumRows
}

// RowGroupCount returns the number of row groups in the parquet file.
func (f *FileReader) RowGroupCount() int {
	return len(f.meta.RowGroups)
}

// MetaData returns a map of metadata key-value pairs stored in the parquet
// file footer.
func (f *FileReader) MetaData() map[string]string {
	return metaDataToMap(f.meta.KeyValueMetadata)
}

// InitializeResult allocates a result chunk with one column slot per leaf
// column. The chunk is reused across Scan calls.
func (f *FileReader) InitializeResult() *datastore.ResultChunk {
	return datastore.NewResultChunk(f.columns)
}

// Scan decodes the next row group into the result chunk. It returns false
// once every row group has been read; the chunk then holds zero rows.
// After an error the scan state and the chunk contents are undefined and
// should be discarded; the reader itself stays usable.
func (f *FileReader) Scan(state *ScanState, result *datastore.ResultChunk) (bool, error) {
	if state.rowGroupIdx >= len(f.meta.RowGroups) {
		result.NumRows = 0

		return false, nil
	}

	rowGroup := f.meta.RowGroups[state.rowGroupIdx]

	if len(rowGroup.Columns) != len(f.columns) {
		return false, errors.WithFields(
			errors.WithStack(ErrRowGroupLayout),
			errors.Fields{
				"row-group": state.rowGroupIdx,
				"expected":  len(f.columns),
				"actual":    len(rowGroup.Columns),
			})
	}

	if err := result.Reset(rowGroup.NumRows); err != nil {
		return false, err
	}

	for _, col := range f.columns {
		chunk := rowGroup.Columns[col.Index()]

		if err := f.chunkReader.ReadChunk(f.reader, col, chunk, result.Columns[col.Index()]); err != nil {
			return false, errors.WithFields(
				errors.Wrap(err, "failed to read data chunk"),
				errors.Fields{
					"column": col.Name(),
				})
		}
	}

	state.rowGroupIdx++

	return true, nil
}

// Close releases the underlying source.
func (f *FileReader) Close() error {
	return f.reader.Close()
}

func readFileMetaData(r io.ReadSeeker) (*parquet.FileMetaData, error) {
	buf := make([]byte, magicLen)

	// read and validate magic header
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "failed to seek to file magic header")
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read file magic header")
	}

	if !bytes.Equal(buf, []byte(magic)) {
		return nil, errors.WithStack(ErrInvalidHeader)
	}

	// read and validate magic footer
	if _, err := r.Seek(int64(-magicLen), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to file magic footer")
	}

	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrap(err, "failed to read file magic footer")
	}

	if !bytes.Equal(buf, []byte(magic)) {
		return nil, errors.WithStack(ErrInvalidFooter)
	}

	// read footer length
	var fl int32

	if _, err := r.Seek(-footerLen, io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to footer length")
	}

	if err := binary.Read(r, binary.LittleEndian, &fl); err != nil {
		return nil, errors.Wrap(err, "failed to read footer length")
	}

	if fl <= 0 {
		return nil, errors.WithFields(
			errors.WithStack(ErrFooterLength),
			errors.Fields{
				"length": fl,
			})
	}

	// read file metadata
	meta := &parquet.FileMetaData{}

	if _, err := r.Seek(-footerLen-int64(fl), io.SeekEnd); err != nil {
		return nil, errors.Wrap(err, "failed to seek to file meta data")
	}

	if err := readThrift(meta, io.LimitReader(r, int64(fl))); err != nil {
		return nil, errors.Wrap(err, "failed to read file meta data")
	}

	return meta, nil
}

func metaDataToMap(kvMetaData []*parquet.KeyValue) map[string]string {
	data := make(map[string]string)

	for _, kv := range kvMetaData {
		if kv.Value != nil {
			data[kv.Key] = *kv.Value
		}
	}

	return data
}

// defaultCompressors holds the codecs the scan core accepts. The
// compression package ships more of them; callers wanting another codec
// pass their own registry to NewFileReaderWithCompressors.
func defaultCompressors() map[parquet.CompressionCodec]compression.BlockCompressor {
	return map[parquet.CompressionCodec]compression.BlockCompressor{
		parquet.CompressionCodec_UNCOMPRESSED: compression.Uncompressed{},
		parquet.CompressionCodec_SNAPPY:       compression.Snappy{},
	}
}
