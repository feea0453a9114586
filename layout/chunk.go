// Package layout walks the pages of a column chunk and decodes them into
// result buffers.
package layout

import (
	"io"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/compression"
	"github.com/quarrydata/parquet/datastore"
	"github.com/quarrydata/parquet/encoding"
	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/schema"
	"github.com/quarrydata/parquet/source"
)

const (
	ErrExternalData       = errors.Error("layout: column data is in another file")
	ErrNestedChunk        = errors.Error("layout: column chunk path is not flat")
	ErrMissingMetaData    = errors.Error("layout: column chunk carries no meta data")
	ErrChunkTypeMismatch  = errors.Error("layout: column chunk type differs from schema")
	ErrUnknownCodec       = errors.Error("layout: compression codec not supported")
	ErrDataPageV2         = errors.Error("layout: v2 data pages are not supported")
	ErrShortPage          = errors.Error("layout: page payload is too short")
	ErrPageHeaderMismatch = errors.Error("layout: page header does not match page type")
	ErrInvalidDictIndex   = errors.Error("layout: dictionary index out of range")
	ErrPageDecompression  = errors.Error("layout: failed to decompress page")
)

type compressorMap map[parquet.CompressionCodec]compression.BlockCompressor

// ChunkReader decodes whole column chunks, one page at a time.
type ChunkReader struct {
	compressors compressorMap
}

func NewChunkReader(compressors map[parquet.CompressionCodec]compression.BlockCompressor) *ChunkReader {
	return &ChunkReader{compressors: compressors}
}

// ReadChunk reads the chunk of one column from src and decodes every page
// into the result column, which must already be sized for the row group.
func (r *ChunkReader) ReadChunk(src source.Reader, col *schema.Column, chunk *parquet.ColumnChunk, result *datastore.ResultColumn) error {
	if err := checkColumnChunk(chunk, col); err != nil {
		return err
	}

	meta := chunk.MetaData

	// Dictionary pages precede data pages, so the dictionary offset is the
	// chunk start when present. Some writers record a bogus dictionary
	// offset; anything below the first possible page position means "not
	// set" and the data page offset is the one to trust.
	chunkStart := meta.DataPageOffset
	if meta.DictionaryPageOffset != nil && *meta.DictionaryPageOffset >= 4 {
		chunkStart = *meta.DictionaryPageOffset
	}

	chunkLen := int(meta.TotalCompressedSize)
	if chunkLen <= 0 {
		return errors.WithFields(
			errors.New("invalid column chunk size"),
			errors.Fields{
				"size": meta.TotalCompressedSize,
			})
	}

	if _, err := src.Seek(chunkStart, io.SeekStart); err != nil {
		return errors.WithFields(
			errors.Wrap(err, "failed to seek to the column chunk start"),
			errors.Fields{
				"offset": chunkStart,
			})
	}

	// The whole chunk is read at once, with the trailing padding the
	// bit-unpacking kernels may read into.
	buf := make([]byte, chunkLen+encoding.ReadPadding)

	if _, err := io.ReadFull(src, buf[:chunkLen]); err != nil {
		return errors.Wrap(err, "failed to read the column chunk")
	}

	cs := &columnScan{
		col:     col,
		result:  result,
		typeLen: col.TypeLength(),
	}

	pos := 0

	for chunkLen-pos > 0 {
		pageHeader, headerLen, err := readPageHeader(buf[pos:chunkLen])
		if err != nil {
			return err
		}

		pos += headerLen

		payloadLen := int(pageHeader.CompressedPageSize)
		if payloadLen < 0 || pos+payloadLen > chunkLen {
			return errors.WithFields(
				errors.WithStack(ErrShortPage),
				errors.Fields{
					"payload-size": payloadLen,
					"remaining":    chunkLen - pos,
				})
		}

		pageData, pageSize, err := r.pageBlock(buf[pos:], payloadLen, pageHeader, meta.Codec)
		if err != nil {
			return err
		}

		switch pageHeader.Type {
		case parquet.PageType_DICTIONARY_PAGE:
			err = cs.scanDictPage(pageHeader, pageData, pageSize)

		case parquet.PageType_DATA_PAGE:
			err = cs.scanDataPage(pageHeader, pageData, pageSize)

		case parquet.PageType_DATA_PAGE_V2:
			err = errors.WithStack(ErrDataPageV2)

		default:
			// INDEX pages and custom extensions are skipped.
		}

		if err != nil {
			return err
		}

		pos += payloadLen
	}

	return nil
}

// pageBlock hands back the page payload as a padded buffer of its
// uncompressed size: the chunk buffer itself for uncompressed chunks, a
// fresh buffer otherwise.
func (r *ChunkReader) pageBlock(data []byte, payloadLen int, pageHeader *parquet.PageHeader, codec parquet.CompressionCodec) ([]byte, int, error) {
	compressor, ok := r.compressors[codec]
	if !ok {
		return nil, 0, errors.WithFields(
			errors.WithStack(ErrUnknownCodec),
			errors.Fields{
				"codec": codec.String(),
			})
	}

	if codec == parquet.CompressionCodec_UNCOMPRESSED {
		return data, payloadLen, nil
	}

	uncompressedSize := int(pageHeader.UncompressedPageSize)
	if uncompressedSize < 0 {
		return nil, 0, errors.WithFields(
			errors.New("invalid page data size"),
			errors.Fields{
				"uncompressed-size": uncompressedSize,
			})
	}

	block, err := compressor.DecompressBlock(data[:payloadLen], uncompressedSize)
	if err != nil {
		return nil, 0, errors.WithFields(
			errors.WithStack(ErrPageDecompression),
			errors.Fields{
				"codec": codec.String(),
				"cause": err.Error(),
			})
	}

	return block, uncompressedSize, nil
}

func checkColumnChunk(chunk *parquet.ColumnChunk, col *schema.Column) error {
	if chunk.FilePath != nil {
		return errors.WithFields(
			errors.WithStack(ErrExternalData),
			errors.Fields{
				"filepath": *chunk.FilePath,
			})
	}

	if chunk.MetaData == nil {
		return errors.WithFields(
			errors.WithStack(ErrMissingMetaData),
			errors.Fields{
				"column-index": col.Index(),
			})
	}

	if len(chunk.MetaData.PathInSchema) != 1 {
		return errors.WithFields(
			errors.WithStack(ErrNestedChunk),
			errors.Fields{
				"path-length": len(chunk.MetaData.PathInSchema),
			})
	}

	if chunk.MetaData.Type != col.Type() {
		return errors.WithFields(
			errors.WithStack(ErrChunkTypeMismatch),
			errors.Fields{
				"expected": col.Type().String(),
				"actual":   chunk.MetaData.Type.String(),
			})
	}

	return nil
}
