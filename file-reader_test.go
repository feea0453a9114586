package parquet

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tj/assert"

	"github.com/quarrydata/parquet/compression"
	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/source/memory"
)

func allOnes(n int) []byte {
	mask := make([]byte, n)
	for i := range mask {
		mask[i] = 1
	}

	return mask
}

func openTestFile(t *testing.T, file []byte) *FileReader {
	t.Helper()

	r, err := NewFileReader(memory.NewReader(file))
	require.NoError(t, err)

	return r
}

func singleColumnFile(t *testing.T, col testColumn, rowCounts []int64, mutate func(*parquet.FileMetaData)) []byte {
	t.Helper()

	return buildTestFile(t, []testColumn{col}, rowCounts, mutate)
}

func TestScan_PlainTypes(t *testing.T) {
	t.Parallel()

	int96Payload := make([]byte, 0, 4*12)
	for i := 0; i < 4; i++ {
		v := [12]byte{byte(i + 1)}
		v[11] = 0x80
		int96Payload = append(int96Payload, v[:]...)
	}

	floatPayload := make([]byte, 4*4)
	for i, f := range []float32{0.5, -1, 3.25, 100} {
		binary.LittleEndian.PutUint32(floatPayload[i*4:], math.Float32bits(f))
	}

	int64Payload := make([]byte, 4*8)
	for i, v := range []int64{1, -2, 3, math.MaxInt64} {
		binary.LittleEndian.PutUint64(int64Payload[i*8:], uint64(v))
	}

	doublePayload := doubleBits(
		math.Float64bits(1.25),
		math.Float64bits(-2.5),
		math.Float64bits(0),
		math.Float64bits(12.75),
	)

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	cols := []testColumn{
		{
			name: "flag", typ: parquet.Type_BOOLEAN, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), 1, 0, 1, 0))}},
		},
		{
			name: "id", typ: parquet.Type_INT32, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, []byte{1, 0, 1, 1}), int32Bytes(7, 8, 9)...))}},
		},
		{
			name: "big", typ: parquet.Type_INT64, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), int64Payload...))}},
		},
		{
			name: "ts", typ: parquet.Type_INT96, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), int96Payload...))}},
		},
		{
			name: "ratio", typ: parquet.Type_FLOAT, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), floatPayload...))}},
		},
		{
			name: "score", typ: parquet.Type_DOUBLE, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), doublePayload...))}},
		},
		{
			name: "tag", typ: parquet.Type_BYTE_ARRAY, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), byteArrayBytes([]byte(""), []byte("a"), []byte("bb"), []byte("ccc"))...))}},
		},
		{
			name: "code", typ: parquet.Type_FIXED_LEN_BYTE_ARRAY, typeLen: 3, codec: uncompressed,
			pages: [][]testPage{{makeDataPage(t, uncompressed, 4, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(4)), []byte("abcdefghijkl")...))}},
		},
	}

	r := openTestFile(t, buildTestFile(t, cols, []int64{4}, nil))
	defer r.Close()

	require.Equal(t, int64(4), r.NumRows())
	require.Len(t, r.Columns(), 8)

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(4), result.NumRows)

	flag := result.Columns[0]
	assert.True(t, flag.Bool(0))
	assert.False(t, flag.Bool(1))
	assert.True(t, flag.Bool(2))

	id := result.Columns[1]
	assert.Equal(t, []byte{1, 0, 1, 1}, id.Defined)
	assert.Equal(t, int32(7), id.Int32(0))
	assert.Equal(t, int32(8), id.Int32(2))
	assert.Equal(t, int32(9), id.Int32(3))

	big := result.Columns[2]
	assert.Equal(t, int64(-2), big.Int64(1))
	assert.Equal(t, int64(math.MaxInt64), big.Int64(3))

	ts := result.Columns[3]
	assert.Equal(t, byte(3), ts.Int96(2)[0])
	assert.Equal(t, byte(0x80), ts.Int96(2)[11])

	ratio := result.Columns[4]
	assert.Equal(t, float32(3.25), ratio.Float(2))

	score := result.Columns[5]
	assert.Equal(t, float64(-2.5), score.Double(1))

	tag := result.Columns[6]
	for i, want := range []string{"", "a", "bb", "ccc"} {
		v, err := tag.ByteArray(i)
		require.NoError(t, err)
		assert.Equal(t, want, string(v))
	}

	code := result.Columns[7]
	assert.Equal(t, []byte("def"), code.FixedBytes(1))

	// the file has a single row group
	ok, err = r.Scan(state, result)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), result.NumRows)
}

func TestScan_AllNullColumn(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 8, parquet.Encoding_PLAIN,
			defLevelBytes(t, make([]byte, 8)))}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{8}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, make([]byte, 8), result.Columns[0].Defined)
	assert.Len(t, result.Columns[0].StringHeap, 0)

	ok, err = r.Scan(state, result)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScan_DictionaryByteArray(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "s", typ: parquet.Type_BYTE_ARRAY, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 3, byteArrayBytes([]byte(""), []byte("a"), []byte("bb"))),
			makeDataPage(t, uncompressed, 4, parquet.Encoding_RLE_DICTIONARY,
				append(defLevelBytes(t, allOnes(4)), dictIndexBytes(t, 2, []uint32{2, 0, 1, 2})...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{4}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	s := result.Columns[0]
	for i, want := range []string{"bb", "", "a", "bb"} {
		v, err := s.ByteArray(i)
		require.NoError(t, err)
		assert.Equal(t, want, string(v), "row %d", i)
	}
}

func TestScan_SnappyDouble(t *testing.T) {
	t.Parallel()

	nanBits := uint64(0x7FF8000000000001)
	negZeroBits := math.Float64bits(math.Copysign(0, -1))

	payload := append(
		defLevelBytes(t, []byte{1, 0, 1, 1}),
		doubleBits(math.Float64bits(1.5), nanBits, negZeroBits)...)

	col := testColumn{
		name: "d", typ: parquet.Type_DOUBLE, codec: parquet.CompressionCodec_SNAPPY,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_SNAPPY, 4, parquet.Encoding_PLAIN, payload)}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{4}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	d := result.Columns[0]
	assert.Equal(t, []byte{1, 0, 1, 1}, d.Defined)
	assert.Equal(t, math.Float64bits(1.5), math.Float64bits(d.Double(0)))
	assert.Equal(t, nanBits, math.Float64bits(d.Double(2)))
	assert.Equal(t, negZeroBits, math.Float64bits(d.Double(3)))
}

func TestScan_DictionaryInt32(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 3, int32Bytes(10, 20, 30)),
			makeDataPage(t, uncompressed, 6, parquet.Encoding_RLE_DICTIONARY,
				append(defLevelBytes(t, allOnes(6)), dictIndexBytes(t, 2, []uint32{0, 0, 0, 1, 2, 2})...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{6}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	v := result.Columns[0]
	for i, want := range []int32{10, 10, 10, 20, 30, 30} {
		assert.Equal(t, want, v.Int32(i), "row %d", i)
	}
}

func TestScan_DictionaryWithNulls(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED
	mask := []byte{1, 0, 0, 1, 1, 0}

	col := testColumn{
		name: "v", typ: parquet.Type_INT64, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 2, func() []byte {
				buf := make([]byte, 16)
				binary.LittleEndian.PutUint64(buf, uint64(100))
				binary.LittleEndian.PutUint64(buf[8:], uint64(200))
				return buf
			}()),
			makeDataPage(t, uncompressed, 6, parquet.Encoding_PLAIN_DICTIONARY,
				append(defLevelBytes(t, mask), dictIndexBytes(t, 1, []uint32{1, 0, 1})...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{6}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	v := result.Columns[0]
	assert.Equal(t, mask, v.Defined)
	assert.Equal(t, int64(200), v.Int64(0))
	assert.Equal(t, int64(100), v.Int64(3))
	assert.Equal(t, int64(200), v.Int64(4))
}

func TestScan_DictZeroBitWidth(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 1, int32Bytes(42)),
			makeDataPage(t, uncompressed, 4, parquet.Encoding_RLE_DICTIONARY,
				append(defLevelBytes(t, allOnes(4)), dictIndexBytes(t, 0, nil)...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{4}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	for i := 0; i < 4; i++ {
		assert.Equal(t, int32(42), result.Columns[0].Int32(i))
	}
}

func TestScan_MultipleRowGroups(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: uncompressed,
		pages: [][]testPage{
			{makeDataPage(t, uncompressed, 3, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(3)), int32Bytes(1, 2, 3)...))},
			{makeDataPage(t, uncompressed, 2, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(2)), int32Bytes(4, 5)...))},
		},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{3, 2}, nil))
	defer r.Close()

	require.Equal(t, 2, r.RowGroupCount())

	result := r.InitializeResult()
	state := &ScanState{}

	var got []int32
	for {
		ok, err := r.Scan(state, result)
		require.NoError(t, err)

		if !ok {
			break
		}

		for i := 0; i < int(result.NumRows); i++ {
			got = append(got, result.Columns[0].Int32(i))
		}
	}

	assert.Equal(t, []int32{1, 2, 3, 4, 5}, got)
	assert.Equal(t, int64(len(got)), r.NumRows())
}

func TestScan_EmptyPage(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 0, parquet.Encoding_PLAIN,
			defLevelBytes(t, nil))}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{0}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), result.NumRows)
}

func TestScan_UnknownPageTypeSkipped(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	indexPayload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	indexHeader := &parquet.PageHeader{
		Type:                 parquet.PageType_INDEX_PAGE,
		UncompressedPageSize: int32(len(indexPayload)),
		CompressedPageSize:   int32(len(indexPayload)),
	}

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: uncompressed,
		pages: [][]testPage{{
			{bytes: append(thriftBytes(t, indexHeader), indexPayload...)},
			makeDataPage(t, uncompressed, 2, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(2)), int32Bytes(6, 7)...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{2}, nil))
	defer r.Close()

	result := r.InitializeResult()
	state := &ScanState{}

	ok, err := r.Scan(state, result)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int32(6), result.Columns[0].Int32(0))
	assert.Equal(t, int32(7), result.Columns[0].Int32(1))
}

func TestScan_DataPageV2Rejected(t *testing.T) {
	t.Parallel()

	payload := []byte{0, 0, 0, 0}
	header := &parquet.PageHeader{
		Type:                 parquet.PageType_DATA_PAGE_V2,
		UncompressedPageSize: int32(len(payload)),
		CompressedPageSize:   int32(len(payload)),
		DataPageHeaderV2: &parquet.DataPageHeaderV2{
			NumValues: 2,
			NumRows:   2,
			Encoding:  parquet.Encoding_PLAIN,
		},
	}

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{{bytes: append(thriftBytes(t, header), payload...)}}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{2}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, UnsupportedFeature, KindOf(err))
}

func TestScan_MissingDictionary(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 2, parquet.Encoding_RLE_DICTIONARY,
			append(defLevelBytes(t, allOnes(2)), dictIndexBytes(t, 1, []uint32{0, 1})...))}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{2}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, CorruptData, KindOf(err))
}

func TestScan_DuplicateDictionary(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 1, int32Bytes(1)),
			makeDictPage(t, uncompressed, 1, int32Bytes(2)),
			makeDataPage(t, uncompressed, 1, parquet.Encoding_RLE_DICTIONARY,
				append(defLevelBytes(t, allOnes(1)), dictIndexBytes(t, 1, []uint32{0})...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{1}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, CorruptData, KindOf(err))
}

func TestScan_PlainAfterDictionary(t *testing.T) {
	t.Parallel()

	uncompressed := parquet.CompressionCodec_UNCOMPRESSED

	col := testColumn{
		name: "s", typ: parquet.Type_BYTE_ARRAY, codec: uncompressed,
		pages: [][]testPage{{
			makeDictPage(t, uncompressed, 1, byteArrayBytes([]byte("x"))),
			makeDataPage(t, uncompressed, 1, parquet.Encoding_PLAIN,
				append(defLevelBytes(t, allOnes(1)), byteArrayBytes([]byte("y"))...)),
		}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{1}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, CorruptData, KindOf(err))
}

func TestScan_StringLengthOverrun(t *testing.T) {
	t.Parallel()

	payload := append(defLevelBytes(t, allOnes(1)), 100, 0, 0, 0, 'x')

	col := testColumn{
		name: "s", typ: parquet.Type_BYTE_ARRAY, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN, payload)}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{1}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	assert.Error(t, err)
}

func TestScan_UnknownCodec(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_ZSTD,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_ZSTD, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	r := openTestFile(t, singleColumnFile(t, col, []int64{1}, nil))
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, UnsupportedFeature, KindOf(err))
}

func TestScan_CustomCompressor(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_GZIP,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_GZIP, 2, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(2)), int32Bytes(11, 12)...))}},
	}

	file := singleColumnFile(t, col, []int64{2}, nil)

	compressors := map[parquet.CompressionCodec]compression.BlockCompressor{
		parquet.CompressionCodec_UNCOMPRESSED: compression.Uncompressed{},
		parquet.CompressionCodec_SNAPPY:       compression.Snappy{},
		parquet.CompressionCodec_GZIP:         compression.GZip{},
	}

	r, err := NewFileReaderWithCompressors(memory.NewReader(file), compressors)
	require.NoError(t, err)
	defer r.Close()

	result := r.InitializeResult()

	ok, err := r.Scan(&ScanState{}, result)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int32(11), result.Columns[0].Int32(0))
	assert.Equal(t, int32(12), result.Columns[0].Int32(1))
}

func TestScan_BogusDictionaryOffset(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(5)...))}},
	}

	// some writers store a dictionary offset that points nowhere; below 4
	// it cannot be a real page position and is ignored
	bogus := int64(0)
	file := singleColumnFile(t, col, []int64{1}, func(meta *parquet.FileMetaData) {
		meta.RowGroups[0].Columns[0].MetaData.DictionaryPageOffset = &bogus
	})

	r := openTestFile(t, file)
	defer r.Close()

	result := r.InitializeResult()

	ok, err := r.Scan(&ScanState{}, result)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int32(5), result.Columns[0].Int32(0))
}

func TestScan_ExternalFilePath(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	path := "elsewhere.parquet"
	file := singleColumnFile(t, col, []int64{1}, func(meta *parquet.FileMetaData) {
		meta.RowGroups[0].Columns[0].FilePath = &path
	})

	r := openTestFile(t, file)
	defer r.Close()

	_, err := r.Scan(&ScanState{}, r.InitializeResult())
	require.Error(t, err)
	assert.Equal(t, UnsupportedFeature, KindOf(err))
}

func TestOpen_NonFlatSchema(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	// the root announces two children but only one leaf follows
	two := int32(2)
	file := singleColumnFile(t, col, []int64{1}, func(meta *parquet.FileMetaData) {
		meta.Schema[0].NumChildren = &two
	})

	_, err := NewFileReader(memory.NewReader(file))
	require.Error(t, err)
	assert.Equal(t, UnsupportedFeature, KindOf(err))
}

func TestOpen_Encrypted(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	file := singleColumnFile(t, col, []int64{1}, func(meta *parquet.FileMetaData) {
		meta.EncryptionAlgorithm = &parquet.EncryptionAlgorithm{}
	})

	_, err := NewFileReader(memory.NewReader(file))
	require.Error(t, err)
	assert.Equal(t, UnsupportedFeature, KindOf(err))
}

func TestOpen_BadMagic(t *testing.T) {
	t.Parallel()

	_, err := NewFileReader(memory.NewReader([]byte("XXXXnot a parquet file")))
	require.Error(t, err)
	assert.Equal(t, FormatError, KindOf(err))
}

func TestOpen_BadFooterLength(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	file := singleColumnFile(t, col, []int64{1}, nil)

	// zero out the footer length right before the trailing magic
	copy(file[len(file)-8:len(file)-4], []byte{0, 0, 0, 0})

	_, err := NewFileReader(memory.NewReader(file))
	require.Error(t, err)
	assert.Equal(t, FormatError, KindOf(err))
}

func TestMetaData_KeyValues(t *testing.T) {
	t.Parallel()

	col := testColumn{
		name: "v", typ: parquet.Type_INT32, codec: parquet.CompressionCodec_UNCOMPRESSED,
		pages: [][]testPage{{makeDataPage(t, parquet.CompressionCodec_UNCOMPRESSED, 1, parquet.Encoding_PLAIN,
			append(defLevelBytes(t, allOnes(1)), int32Bytes(1)...))}},
	}

	value := "bar"
	file := singleColumnFile(t, col, []int64{1}, func(meta *parquet.FileMetaData) {
		meta.KeyValueMetadata = []*parquet.KeyValue{{Key: "foo", Value: &value}}
	})

	r := openTestFile(t, file)
	defer r.Close()

	assert.Equal(t, "bar", r.MetaData()["foo"])
}
