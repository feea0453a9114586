// Package datastore holds the buffers a scan decodes into: one raw slot
// buffer and one definition mask per column, plus the string heap that owns
// variable length values.
package datastore

import (
	"encoding/binary"
	"math"

	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/parquet"
	"github.com/quarrydata/parquet/schema"
)

const (
	ErrUnsupportedType = errors.Error("datastore: unsupported physical type")
	ErrOutOfRange      = errors.Error("datastore: row index out of range")
)

// Int96 is the legacy 12-byte integer, treated as opaque bytes.
type Int96 [12]byte

// SlotSize returns the width in bytes of one value slot of the column.
// BYTE_ARRAY slots hold a uint64 index into the string heap, not bytes.
func SlotSize(col *schema.Column) (int, error) {
	switch col.Type() {
	case parquet.Type_BOOLEAN:
		return 1, nil
	case parquet.Type_INT32, parquet.Type_FLOAT:
		return 4, nil
	case parquet.Type_INT64, parquet.Type_DOUBLE, parquet.Type_BYTE_ARRAY:
		return 8, nil
	case parquet.Type_INT96:
		return 12, nil
	case parquet.Type_FIXED_LEN_BYTE_ARRAY:
		return col.TypeLength(), nil
	default:
		return 0, errors.WithFields(
			errors.WithStack(ErrUnsupportedType),
			errors.Fields{
				"type": col.Type().String(),
			})
	}
}

// ResultColumn receives the decoded values of one column for one row group.
//
// Data is a contiguous slot buffer of NumRows slots; Defined marks per row
// whether the slot holds a value. Slots of undefined rows carry no meaning;
// decoding leaves them untouched, except that dictionary encoded BYTE_ARRAY
// pages store the raw index stream value there as well. StringHeap owns
// every variable length value; dictionary entries occupy its head.
type ResultColumn struct {
	Data       []byte
	Defined    []byte
	StringHeap [][]byte

	col      *schema.Column
	slotSize int
}

func NewResultColumn(col *schema.Column) *ResultColumn {
	return &ResultColumn{col: col}
}

// Column returns the descriptor of the column.
func (c *ResultColumn) Column() *schema.Column {
	return c.col
}

// SlotSize returns the slot width the buffer was sized with.
func (c *ResultColumn) SlotSize() int {
	return c.slotSize
}

// Reset sizes the buffers for a row group of numRows rows, clears the
// definition mask, and drops the string heap.
func (c *ResultColumn) Reset(numRows int) error {
	slot, err := SlotSize(c.col)
	if err != nil {
		return err
	}

	c.slotSize = slot
	c.Data = resize(c.Data, numRows*slot)
	c.Defined = resize(c.Defined, numRows)

	for i := range c.Defined {
		c.Defined[i] = 0
	}

	c.StringHeap = c.StringHeap[:0]

	return nil
}

// NumRows returns the row count the column is currently sized for.
func (c *ResultColumn) NumRows() int {
	return len(c.Defined)
}

// IsDefined reports whether row i holds a value.
func (c *ResultColumn) IsDefined(i int) bool {
	return c.Defined[i] != 0
}

// AppendString hands a value to the heap and returns its index.
func (c *ResultColumn) AppendString(v []byte) uint64 {
	c.StringHeap = append(c.StringHeap, v)

	return uint64(len(c.StringHeap) - 1)
}

func (c *ResultColumn) slot(i int) []byte {
	return c.Data[i*c.slotSize : (i+1)*c.slotSize]
}

// Bool returns the BOOLEAN value of row i.
func (c *ResultColumn) Bool(i int) bool {
	return c.slot(i)[0] != 0
}

func (c *ResultColumn) SetBool(i int, v bool) {
	if v {
		c.slot(i)[0] = 1
	} else {
		c.slot(i)[0] = 0
	}
}

// Int32 returns the INT32 value of row i.
func (c *ResultColumn) Int32(i int) int32 {
	return int32(binary.LittleEndian.Uint32(c.slot(i)))
}

func (c *ResultColumn) SetInt32(i int, v int32) {
	binary.LittleEndian.PutUint32(c.slot(i), uint32(v))
}

// Int64 returns the INT64 value of row i.
func (c *ResultColumn) Int64(i int) int64 {
	return int64(binary.LittleEndian.Uint64(c.slot(i)))
}

func (c *ResultColumn) SetInt64(i int, v int64) {
	binary.LittleEndian.PutUint64(c.slot(i), uint64(v))
}

// Int96 returns the INT96 value of row i.
func (c *ResultColumn) Int96(i int) (v Int96) {
	copy(v[:], c.slot(i))

	return v
}

func (c *ResultColumn) SetInt96(i int, v Int96) {
	copy(c.slot(i), v[:])
}

// Float returns the FLOAT value of row i, bit exact.
func (c *ResultColumn) Float(i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(c.slot(i)))
}

func (c *ResultColumn) SetFloat(i int, v float32) {
	binary.LittleEndian.PutUint32(c.slot(i), math.Float32bits(v))
}

// Double returns the DOUBLE value of row i, bit exact.
func (c *ResultColumn) Double(i int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(c.slot(i)))
}

func (c *ResultColumn) SetDouble(i int, v float64) {
	binary.LittleEndian.PutUint64(c.slot(i), math.Float64bits(v))
}

// HeapIndex returns the string heap index stored in row i of a BYTE_ARRAY
// column.
func (c *ResultColumn) HeapIndex(i int) uint64 {
	return binary.LittleEndian.Uint64(c.slot(i))
}

func (c *ResultColumn) SetHeapIndex(i int, v uint64) {
	binary.LittleEndian.PutUint64(c.slot(i), v)
}

// ByteArray resolves the heap value of row i of a BYTE_ARRAY column.
func (c *ResultColumn) ByteArray(i int) ([]byte, error) {
	idx := c.HeapIndex(i)
	if idx >= uint64(len(c.StringHeap)) {
		return nil, errors.WithFields(
			errors.WithStack(ErrOutOfRange),
			errors.Fields{
				"index":     idx,
				"heap-size": len(c.StringHeap),
			})
	}

	return c.StringHeap[idx], nil
}

// FixedBytes returns the raw slot of row i of a FIXED_LEN_BYTE_ARRAY
// column.
func (c *ResultColumn) FixedBytes(i int) []byte {
	return c.slot(i)
}

// ResultChunk carries one ResultColumn per leaf column. A chunk is reused
// across row groups; Reset re-sizes it for the group at hand.
type ResultChunk struct {
	NumRows int64
	Columns []*ResultColumn
}

func NewResultChunk(cols []*schema.Column) *ResultChunk {
	chunk := &ResultChunk{
		Columns: make([]*ResultColumn, len(cols)),
	}

	for i, col := range cols {
		chunk.Columns[i] = NewResultColumn(col)
	}

	return chunk
}

// Reset prepares every column for a row group of numRows rows.
func (c *ResultChunk) Reset(numRows int64) error {
	c.NumRows = numRows

	for _, col := range c.Columns {
		if err := col.Reset(int(numRows)); err != nil {
			return err
		}
	}

	return nil
}

func resize(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}

	return b[:n]
}
