// Package schema validates the footer schema of a flat Parquet file and
// exposes its leaf columns.
package schema

import (
	"github.com/hexbee-net/errors"

	"github.com/quarrydata/parquet/parquet"
)

const (
	ErrNoColumns    = errors.Error("schema: need at least one column")
	ErrNotFlat      = errors.Error("schema: only flat tables are supported (no nesting)")
	ErrNotOptional  = errors.Error("schema: only OPTIONAL fields are supported")
	ErrNoTypeLength = errors.Error("schema: fixed length byte array without type length")
)

// Column describes one leaf column of a flat schema.
type Column struct {
	index   int
	name    string
	typ     parquet.Type
	element *parquet.SchemaElement
}

// Index returns the zero-based position of the column among the leaves.
func (c *Column) Index() int {
	return c.index
}

// Name returns the column name.
func (c *Column) Name() string {
	return c.name
}

// Type returns the physical type of the column.
func (c *Column) Type() parquet.Type {
	return c.typ
}

// Element returns the schema element the column was loaded from.
func (c *Column) Element() *parquet.SchemaElement {
	return c.element
}

// TypeLength returns the value size of a FIXED_LEN_BYTE_ARRAY column.
func (c *Column) TypeLength() int {
	if c.element.TypeLength == nil {
		return 0
	}

	return int(*c.element.TypeLength)
}

// LoadColumns builds the leaf descriptors from the footer schema. The
// schema must describe a flat table: a root element fanning out to leaves
// that are all OPTIONAL and carry an explicit physical type.
func LoadColumns(meta *parquet.FileMetaData) ([]*Column, error) {
	if len(meta.Schema) < 2 {
		return nil, errors.WithStack(ErrNoColumns)
	}

	root := meta.Schema[0]
	if root.NumChildren == nil || int(*root.NumChildren) != len(meta.Schema)-1 {
		return nil, errors.WithStack(ErrNotFlat)
	}

	columns := make([]*Column, 0, len(meta.Schema)-1)

	// element 0 is the root and otherwise useless
	for i, e := range meta.Schema[1:] {
		if e.Type == nil || (e.NumChildren != nil && *e.NumChildren > 0) {
			return nil, errors.WithFields(
				errors.WithStack(ErrNotFlat),
				errors.Fields{
					"element": e.Name,
				})
		}

		if e.RepetitionType == nil || *e.RepetitionType != parquet.FieldRepetitionType_OPTIONAL {
			return nil, errors.WithFields(
				errors.WithStack(ErrNotOptional),
				errors.Fields{
					"element": e.Name,
				})
		}

		if *e.Type == parquet.Type_FIXED_LEN_BYTE_ARRAY && e.TypeLength == nil {
			return nil, errors.WithFields(
				errors.WithStack(ErrNoTypeLength),
				errors.Fields{
					"element": e.Name,
				})
		}

		columns = append(columns, &Column{
			index:   i,
			name:    e.Name,
			typ:     *e.Type,
			element: e,
		})
	}

	return columns, nil
}
