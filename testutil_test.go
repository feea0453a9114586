package parquet

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quarrydata/parquet/compression"
	"github.com/quarrydata/parquet/encoding"
	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/source/memory"
)

// The tests below assemble real parquet files in memory: thrift page
// headers and footer, hybrid-encoded level and index streams, optionally
// compressed payloads.

type testPage struct {
	bytes  []byte
	isDict bool
}

type testColumn struct {
	name    string
	typ     parquet.Type
	typeLen int32
	codec   parquet.CompressionCodec

	// one page list per row group
	pages [][]testPage
}

func thriftBytes(t *testing.T, tw thriftWriter) []byte {
	t.Helper()

	buf := &bytes.Buffer{}
	require.NoError(t, writeThrift(tw, buf))

	return buf.Bytes()
}

func compressPayload(t *testing.T, codec parquet.CompressionCodec, payload []byte) []byte {
	t.Helper()

	var c compression.BlockCompressor

	switch codec {
	case parquet.CompressionCodec_UNCOMPRESSED:
		return payload
	case parquet.CompressionCodec_SNAPPY:
		c = compression.Snappy{}
	case parquet.CompressionCodec_GZIP:
		c = compression.GZip{}
	case parquet.CompressionCodec_ZSTD:
		c = compression.ZStd{}
	default:
		t.Fatalf("no compressor for codec %s", codec)
	}

	out, err := c.CompressBlock(payload)
	require.NoError(t, err)

	return out
}

func makeDataPage(t *testing.T, codec parquet.CompressionCodec, numValues int, enc parquet.Encoding, payload []byte) testPage {
	t.Helper()

	comp := compressPayload(t, codec, payload)

	header := &parquet.PageHeader{
		Type:                 parquet.PageType_DATA_PAGE,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(comp)),
		DataPageHeader: &parquet.DataPageHeader{
			NumValues:               int32(numValues),
			Encoding:                enc,
			DefinitionLevelEncoding: parquet.Encoding_RLE,
			RepetitionLevelEncoding: parquet.Encoding_RLE,
		},
	}

	return testPage{bytes: append(thriftBytes(t, header), comp...)}
}

func makeDictPage(t *testing.T, codec parquet.CompressionCodec, numValues int, payload []byte) testPage {
	t.Helper()

	comp := compressPayload(t, codec, payload)

	header := &parquet.PageHeader{
		Type:                 parquet.PageType_DICTIONARY_PAGE,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(comp)),
		DictionaryPageHeader: &parquet.DictionaryPageHeader{
			NumValues: int32(numValues),
			Encoding:  parquet.Encoding_PLAIN_DICTIONARY,
		},
	}

	return testPage{bytes: append(thriftBytes(t, header), comp...), isDict: true}
}

// defLevelBytes encodes a definition mask as the length-prefixed RLE
// stream of a data page.
func defLevelBytes(t *testing.T, mask []byte) []byte {
	t.Helper()

	enc, err := encoding.NewHybridEncoder(1)
	require.NoError(t, err)

	levels := make([]uint32, len(mask))
	for i, m := range mask {
		levels[i] = uint32(m)
	}

	enc.Encode(levels)

	return enc.SizedBytes()
}

// dictIndexBytes encodes dictionary indices as a data page value stream:
// the leading bit width byte and the hybrid run payload.
func dictIndexBytes(t *testing.T, bitWidth int, indices []uint32) []byte {
	t.Helper()

	if bitWidth == 0 {
		return []byte{0}
	}

	enc, err := encoding.NewHybridEncoder(bitWidth)
	require.NoError(t, err)

	enc.Encode(indices)

	return append([]byte{byte(bitWidth)}, enc.Bytes()...)
}

func int32Bytes(values ...int32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(v))
	}

	return buf
}

func doubleBits(bits ...uint64) []byte {
	buf := make([]byte, 8*len(bits))
	for i, v := range bits {
		binary.LittleEndian.PutUint64(buf[i*8:], v)
	}

	return buf
}

func byteArrayBytes(values ...[]byte) []byte {
	buf := &bytes.Buffer{}

	for _, v := range values {
		var l [4]byte
		binary.LittleEndian.PutUint32(l[:], uint32(len(v)))
		buf.Write(l[:])
		buf.Write(v)
	}

	return buf.Bytes()
}

func schemaElements(cols []testColumn) []*parquet.SchemaElement {
	children := int32(len(cols))

	elements := []*parquet.SchemaElement{{
		Name:        "schema",
		NumChildren: &children,
	}}

	for i := range cols {
		col := cols[i]
		e := &parquet.SchemaElement{
			Name:           col.name,
			Type:           parquet.TypePtr(col.typ),
			RepetitionType: parquet.FieldRepetitionTypePtr(parquet.FieldRepetitionType_OPTIONAL),
		}

		if col.typeLen > 0 {
			e.TypeLength = &col.typeLen
		}

		elements = append(elements, e)
	}

	return elements
}

// buildTestFile lays out a complete parquet file: header magic, the chunk
// bytes of every column of every row group, the thrift footer, its length,
// and the trailing magic. mutate, when set, rewrites the footer before
// serialization.
func buildTestFile(t *testing.T, cols []testColumn, rowCounts []int64, mutate func(*parquet.FileMetaData)) []byte {
	t.Helper()

	buf := memory.NewWriter()
	buf.WriteString("PAR1")

	total := int64(0)
	for _, n := range rowCounts {
		total += n
	}

	meta := &parquet.FileMetaData{
		Version: 1,
		NumRows: total,
		Schema:  schemaElements(cols),
	}

	for gi, rows := range rowCounts {
		rowGroup := &parquet.RowGroup{NumRows: rows}

		for _, col := range cols {
			var (
				dictOffset *int64
				dataOffset int64
			)

			chunkStart := int64(buf.Len())
			chunkSize := 0

			for _, page := range col.pages[gi] {
				offset := int64(buf.Len())

				if page.isDict {
					if dictOffset == nil {
						dictOffset = &offset
					}
				} else if dataOffset == 0 {
					dataOffset = offset
				}

				buf.Write(page.bytes)
				chunkSize += len(page.bytes)
			}

			if dataOffset == 0 {
				dataOffset = chunkStart
			}

			rowGroup.TotalByteSize += int64(chunkSize)
			rowGroup.Columns = append(rowGroup.Columns, &parquet.ColumnChunk{
				FileOffset: chunkStart,
				MetaData: &parquet.ColumnMetaData{
					Type:                  col.typ,
					Encodings:             []parquet.Encoding{parquet.Encoding_PLAIN, parquet.Encoding_RLE},
					PathInSchema:          []string{col.name},
					Codec:                 col.codec,
					NumValues:             rows,
					TotalUncompressedSize: int64(chunkSize),
					TotalCompressedSize:   int64(chunkSize),
					DataPageOffset:        dataOffset,
					DictionaryPageOffset:  dictOffset,
				},
			})
		}

		meta.RowGroups = append(meta.RowGroups, rowGroup)
	}

	if mutate != nil {
		mutate(meta)
	}

	footerStart := buf.Len()
	require.NoError(t, writeThrift(meta, buf))

	var footerLenBytes [4]byte
	binary.LittleEndian.PutUint32(footerLenBytes[:], uint32(buf.Len()-footerStart))
	buf.Write(footerLenBytes[:])
	buf.WriteString("PAR1")

	return buf.Bytes()
}
