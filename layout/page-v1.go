package layout

import (
	"encoding/binary"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/datastore"
	"github.com/quarrydata/parquet/encoding"
	"github.com/quarrydata/parquet/parquet"
)

const (
	ErrLevelEncoding   = errors.Error("layout: definition levels have unsupported encoding")
	ErrValueEncoding   = errors.Error("layout: data page has unsupported encoding")
	ErrTooManyValues   = errors.Error("layout: page values exceed the row group size")
	ErrIndexBitWidth   = errors.Error("layout: dictionary index bit width out of range")
	ErrShortIndexRun   = errors.Error("layout: dictionary index stream ended early")
	ErrPlainAfterDict  = errors.Error("layout: PLAIN byte array page after a dictionary page")
	ErrDictUnsupported = errors.Error("layout: type does not support dictionary encoded pages")
)

func (cs *columnScan) scanDataPage(pageHeader *parquet.PageHeader, data []byte, size int) error {
	if pageHeader.DataPageHeader == nil || pageHeader.DictionaryPageHeader != nil {
		return errors.Wrap(ErrPageHeaderMismatch, "data page")
	}

	if pageHeader.DataPageHeaderV2 != nil {
		return errors.WithStack(ErrDataPageV2)
	}

	header := pageHeader.DataPageHeader

	numValues := int(header.NumValues)
	if numValues < 0 {
		return errors.WithFields(
			errors.New("negative NumValues in DATA_PAGE"),
			errors.Fields{
				"num-values": header.NumValues,
			})
	}

	if cs.pageStartRow+numValues > cs.result.NumRows() {
		return errors.WithFields(
			errors.WithStack(ErrTooManyValues),
			errors.Fields{
				"page-start": cs.pageStartRow,
				"num-values": numValues,
				"num-rows":   cs.result.NumRows(),
			})
	}

	// The definition levels come first. The repetition level stream of a
	// flat schema has width zero and no bytes on the wire.
	if header.DefinitionLevelEncoding != parquet.Encoding_RLE {
		return errors.WithFields(
			errors.WithStack(ErrLevelEncoding),
			errors.Fields{
				"encoding": header.DefinitionLevelEncoding.String(),
			})
	}

	if size < 4 {
		return errors.Wrap(ErrShortPage, "definition level length cut off")
	}

	defLength := int(binary.LittleEndian.Uint32(data))
	pos := 4

	if defLength < 0 || pos+defLength > size {
		return errors.WithFields(
			errors.Wrap(ErrShortPage, "definition levels cut off"),
			errors.Fields{
				"def-length": defLength,
				"remaining":  size - pos,
			})
	}

	dec, err := encoding.NewHybridDecoder(data[pos:], defLength, 1)
	if err != nil {
		return err
	}

	defined := cs.result.Defined[cs.pageStartRow : cs.pageStartRow+numValues]

	if _, err := dec.DecodeLevels(defined); err != nil {
		return errors.Wrap(err, "failed to decode definition levels")
	}

	pos += defLength

	switch header.Encoding {
	case parquet.Encoding_RLE_DICTIONARY, parquet.Encoding_PLAIN_DICTIONARY: // deprecated alias
		err = cs.scanDataPageDict(numValues, data, pos, size)

	case parquet.Encoding_PLAIN:
		err = cs.scanDataPagePlain(numValues, data, pos, size)

	default:
		err = errors.WithFields(
			errors.WithStack(ErrValueEncoding),
			errors.Fields{
				"encoding": header.Encoding.String(),
			})
	}

	if err != nil {
		return err
	}

	cs.pageStartRow += numValues

	return nil
}

func (cs *columnScan) scanDataPagePlain(numValues int, data []byte, pos, size int) error {
	if cs.col.Type() == parquet.Type_BYTE_ARRAY {
		return cs.fillPlainByteArray(numValues, data, pos, size)
	}

	// every remaining type occupies its slot width verbatim, including
	// FIXED_LEN_BYTE_ARRAY whose slot is the type length
	width := cs.result.SlotSize()
	defined := cs.result.Defined[cs.pageStartRow:]

	for i := 0; i < numValues; i++ {
		if defined[i] == 0 {
			continue
		}

		if pos+width > size {
			return errors.Wrap(ErrShortPage, "PLAIN value cut off")
		}

		row := cs.pageStartRow + i
		copy(cs.result.Data[row*width:(row+1)*width], data[pos:pos+width])

		pos += width
	}

	return nil
}

func (cs *columnScan) fillPlainByteArray(numValues int, data []byte, pos, size int) error {
	// A PLAIN page would append behind the dictionary entries and produce
	// heap indices that collide with the dictionary index space.
	if cs.seenDict {
		return errors.WithStack(ErrPlainAfterDict)
	}

	defined := cs.result.Defined[cs.pageStartRow:]

	for i := 0; i < numValues; i++ {
		if defined[i] == 0 {
			continue
		}

		if pos+4 > size {
			return errors.Wrap(ErrShortPage, "PLAIN string length cut off")
		}

		strLen := int(binary.LittleEndian.Uint32(data[pos:]))
		pos += 4

		if strLen < 0 || pos+strLen > size {
			return errors.WithFields(
				errors.New("declared string length exceeds payload size"),
				errors.Fields{
					"length":    strLen,
					"remaining": size - pos,
				})
		}

		value := make([]byte, strLen)
		copy(value, data[pos:pos+strLen])

		cs.result.SetHeapIndex(cs.pageStartRow+i, cs.result.AppendString(value))

		pos += strLen
	}

	return nil
}

// scanDataPageDict resolves a page of dictionary indices against the
// dictionary seen earlier in the chunk.
func (cs *columnScan) scanDataPageDict(numValues int, data []byte, pos, size int) error {
	if !cs.seenDict {
		return errors.WithStack(ErrMissingDict)
	}

	if numValues == 0 {
		return nil
	}

	if pos >= size {
		return errors.Wrap(ErrShortPage, "dictionary index bit width cut off")
	}

	// one leading byte holds the bit width of the index stream
	bitWidth := int(data[pos])
	pos++

	if bitWidth > 32 {
		return errors.WithFields(
			errors.WithStack(ErrIndexBitWidth),
			errors.Fields{
				"bit-width": bitWidth,
			})
	}

	defined := cs.result.Defined[cs.pageStartRow : cs.pageStartRow+numValues]
	offsets := make([]uint32, numValues)

	if bitWidth > 0 {
		dec, err := encoding.NewHybridDecoder(data[pos:], size-pos, bitWidth)
		if err != nil {
			return err
		}

		nullCount := 0
		for _, d := range defined {
			if d == 0 {
				nullCount++
			}
		}

		var n int
		if nullCount > 0 {
			n, err = dec.DecodeBatchSpaced(numValues, nullCount, defined, offsets)
		} else {
			n, err = dec.DecodeBatch(offsets)
		}

		if err != nil {
			return err
		}

		if n != numValues {
			return errors.WithFields(
				errors.WithStack(ErrShortIndexRun),
				errors.Fields{
					"expected": numValues,
					"actual":   n,
				})
		}
	}

	switch cs.col.Type() {
	case parquet.Type_BOOLEAN:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[bool]), cs.result.SetBool)

	case parquet.Type_INT32:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[int32]), cs.result.SetInt32)

	case parquet.Type_INT64:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[int64]), cs.result.SetInt64)

	case parquet.Type_INT96:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[datastore.Int96]), cs.result.SetInt96)

	case parquet.Type_FLOAT:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[float32]), cs.result.SetFloat)

	case parquet.Type_DOUBLE:
		return fillDictValues(cs, offsets, cs.dict.(*Dictionary[float64]), cs.result.SetDouble)

	case parquet.Type_BYTE_ARRAY:
		return cs.fillDictByteArray(offsets)

	default:
		return errors.WithFields(
			errors.WithStack(ErrDictUnsupported),
			errors.Fields{
				"type": cs.col.Type().String(),
			})
	}
}

// fillDictValues resolves every defined position of the page through the
// dictionary; null slots stay untouched.
func fillDictValues[T any](cs *columnScan, offsets []uint32, dict *Dictionary[T], set func(int, T)) error {
	defined := cs.result.Defined[cs.pageStartRow:]

	for i := range offsets {
		if defined[i] == 0 {
			continue
		}

		v, err := dict.Get(offsets[i])
		if err != nil {
			return err
		}

		set(cs.pageStartRow+i, v)
	}

	return nil
}

// fillDictByteArray stores the raw offsets; the dictionary entries occupy
// the head of the string heap, so an offset is already a heap index.
// Offsets at undefined positions carry no meaning and are stored as-is.
func (cs *columnScan) fillDictByteArray(offsets []uint32) error {
	defined := cs.result.Defined[cs.pageStartRow:]

	for i, offset := range offsets {
		if defined[i] != 0 && int(offset) >= cs.dictSize {
			return errors.WithFields(
				errors.WithStack(ErrInvalidDictIndex),
				errors.Fields{
					"index":     offset,
					"dict-size": cs.dictSize,
				})
		}

		cs.result.SetHeapIndex(cs.pageStartRow+i, uint64(offset))
	}

	return nil
}
