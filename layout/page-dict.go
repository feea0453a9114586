package layout

import (
	"encoding/binary"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/datastore"
	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/schema"
)

const (
	ErrDuplicateDict       = errors.Error("layout: multiple dictionary pages for column chunk")
	ErrMissingDict         = errors.Error("layout: missing dictionary page")
	ErrDictEncoding        = errors.Error("layout: dictionary page has unsupported encoding")
	ErrDictTypeUnsupported = errors.Error("layout: type does not support dictionaries")
)

// columnScan carries the page decoding state of one column chunk: the
// dictionary, if any, and the row the next data page starts at.
type columnScan struct {
	col     *schema.Column
	result  *datastore.ResultColumn
	typeLen int

	seenDict bool
	dict     any
	dictSize int

	pageStartRow int
}

func (cs *columnScan) scanDictPage(pageHeader *parquet.PageHeader, data []byte, size int) error {
	if pageHeader.DataPageHeader != nil || pageHeader.DictionaryPageHeader == nil {
		return errors.Wrap(ErrPageHeaderMismatch, "dictionary page")
	}

	header := pageHeader.DictionaryPageHeader

	switch header.Encoding {
	case parquet.Encoding_PLAIN, parquet.Encoding_PLAIN_DICTIONARY: // deprecated alias
	default:
		return errors.WithFields(
			errors.WithStack(ErrDictEncoding),
			errors.Fields{
				"encoding": header.Encoding.String(),
			})
	}

	if cs.seenDict {
		return errors.WithStack(ErrDuplicateDict)
	}

	cs.seenDict = true

	count := int(header.NumValues)
	if count < 0 {
		return errors.WithFields(
			errors.New("negative NumValues in DICTIONARY_PAGE"),
			errors.Fields{
				"num-values": header.NumValues,
			})
	}

	cs.dictSize = count

	var err error

	switch cs.col.Type() {
	case parquet.Type_BOOLEAN:
		cs.dict, err = buildDict(data, size, count, 1, func(b []byte) bool { return b[0] != 0 })

	case parquet.Type_INT32:
		cs.dict, err = buildDict(data, size, count, 4, leInt32)

	case parquet.Type_INT64:
		cs.dict, err = buildDict(data, size, count, 8, leInt64)

	case parquet.Type_INT96:
		cs.dict, err = buildDict(data, size, count, 12, func(b []byte) (v datastore.Int96) {
			copy(v[:], b)
			return v
		})

	case parquet.Type_FLOAT:
		cs.dict, err = buildDict(data, size, count, 4, leFloat32)

	case parquet.Type_DOUBLE:
		cs.dict, err = buildDict(data, size, count, 8, leFloat64)

	case parquet.Type_BYTE_ARRAY:
		// no dictionary table; the entries go straight onto the result
		// string heap and index streams address it directly
		err = cs.fillByteArrayDict(data, size, count)

	default:
		return errors.WithFields(
			errors.WithStack(ErrDictTypeUnsupported),
			errors.Fields{
				"type": cs.col.Type().String(),
			})
	}

	return err
}

func (cs *columnScan) fillByteArrayDict(data []byte, size, count int) error {
	pos := 0

	for i := 0; i < count; i++ {
		if pos+4 > size {
			return errors.Wrap(ErrShortPage, "dictionary entry length cut off")
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
		cs.result.AppendString(value)

		pos += strLen
	}

	return nil
}
