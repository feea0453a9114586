package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// FileMetaData is the deserialized file footer.
type FileMetaData struct {
	Version             int32
	Schema              []*SchemaElement
	NumRows             int64
	RowGroups           []*RowGroup
	KeyValueMetadata    []*KeyValue
	CreatedBy           *string
	EncryptionAlgorithm *EncryptionAlgorithm
}

// EncryptionAlgorithm is carried for presence only; encrypted files are
// rejected before any of its content would matter.
type EncryptionAlgorithm struct{}

type KeyValue struct {
	Key   string
	Value *string
}

type SchemaElement struct {
	Type           *Type
	TypeLength     *int32
	RepetitionType *FieldRepetitionType
	Name           string
	NumChildren    *int32
	ConvertedType  *int32
}

type RowGroup struct {
	Columns       []*ColumnChunk
	TotalByteSize int64
	NumRows       int64
}

type ColumnChunk struct {
	FilePath   *string
	FileOffset int64
	MetaData   *ColumnMetaData
}

type ColumnMetaData struct {
	Type                  Type
	Encodings             []Encoding
	PathInSchema          []string
	Codec                 CompressionCodec
	NumValues             int64
	TotalUncompressedSize int64
	TotalCompressedSize   int64
	DataPageOffset        int64
	IndexPageOffset       *int64
	DictionaryPageOffset  *int64
}

func (p *FileMetaData) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read FileMetaData struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return errors.Wrap(err, "failed to read FileMetaData field begin")
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // version
			if p.Version, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 2: // schema
			err = readList(iprot, fieldTypeID, func() error {
				e := &SchemaElement{}
				if err := e.Read(iprot); err != nil {
					return err
				}
				p.Schema = append(p.Schema, e)
				return nil
			})
			if err != nil {
				return err
			}

		case 3: // num_rows
			if p.NumRows, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 4: // row_groups
			err = readList(iprot, fieldTypeID, func() error {
				g := &RowGroup{}
				if err := g.Read(iprot); err != nil {
					return err
				}
				p.RowGroups = append(p.RowGroups, g)
				return nil
			})
			if err != nil {
				return err
			}

		case 5: // key_value_metadata
			err = readList(iprot, fieldTypeID, func() error {
				kv := &KeyValue{}
				if err := kv.Read(iprot); err != nil {
					return err
				}
				p.KeyValueMetadata = append(p.KeyValueMetadata, kv)
				return nil
			})
			if err != nil {
				return err
			}

		case 6: // created_by
			v, err := readString(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.CreatedBy = &v

		case 8: // encryption_algorithm
			// the content is irrelevant, the presence alone rejects the file
			p.EncryptionAlgorithm = &EncryptionAlgorithm{}
			if err := iprot.Skip(fieldTypeID); err != nil {
				return errors.Wrap(err, "failed to skip encryption algorithm")
			}

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return errors.Wrap(err, "failed to skip unknown FileMetaData field")
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *FileMetaData) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("FileMetaData"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "version", 1, p.Version); err != nil {
		return err
	}

	err := writeListField(oprot, "schema", 2, len(p.Schema), func(i int) error {
		return p.Schema[i].Write(oprot)
	})
	if err != nil {
		return err
	}

	if err := writeI64Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}

	err = writeListField(oprot, "row_groups", 4, len(p.RowGroups), func(i int) error {
		return p.RowGroups[i].Write(oprot)
	})
	if err != nil {
		return err
	}

	if p.KeyValueMetadata != nil {
		err = writeListField(oprot, "key_value_metadata", 5, len(p.KeyValueMetadata), func(i int) error {
			return p.KeyValueMetadata[i].Write(oprot)
		})
		if err != nil {
			return err
		}
	}

	if p.CreatedBy != nil {
		if err := writeStringField(oprot, "created_by", 6, *p.CreatedBy); err != nil {
			return err
		}
	}

	if p.EncryptionAlgorithm != nil {
		if err := oprot.WriteFieldBegin("encryption_algorithm", thrift.STRUCT, 8); err != nil {
			return err
		}
		if err := oprot.WriteStructBegin("EncryptionAlgorithm"); err != nil {
			return err
		}
		if err := oprot.WriteFieldStop(); err != nil {
			return err
		}
		if err := oprot.WriteStructEnd(); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *KeyValue) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read KeyValue struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1:
			if p.Key, err = readString(iprot, fieldTypeID); err != nil {
				return err
			}

		case 2:
			v, err := readString(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Value = &v

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *KeyValue) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("KeyValue"); err != nil {
		return err
	}

	if err := writeStringField(oprot, "key", 1, p.Key); err != nil {
		return err
	}

	if p.Value != nil {
		if err := writeStringField(oprot, "value", 2, *p.Value); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *SchemaElement) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read SchemaElement struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // type
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Type = TypePtr(Type(v))

		case 2: // type_length
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.TypeLength = &v

		case 3: // repetition_type
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.RepetitionType = FieldRepetitionTypePtr(FieldRepetitionType(v))

		case 4: // name
			if p.Name, err = readString(iprot, fieldTypeID); err != nil {
				return err
			}

		case 5: // num_children
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.NumChildren = &v

		case 6: // converted_type
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.ConvertedType = &v

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *SchemaElement) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("SchemaElement"); err != nil {
		return err
	}

	if p.Type != nil {
		if err := writeI32Field(oprot, "type", 1, int32(*p.Type)); err != nil {
			return err
		}
	}

	if p.TypeLength != nil {
		if err := writeI32Field(oprot, "type_length", 2, *p.TypeLength); err != nil {
			return err
		}
	}

	if p.RepetitionType != nil {
		if err := writeI32Field(oprot, "repetition_type", 3, int32(*p.RepetitionType)); err != nil {
			return err
		}
	}

	if err := writeStringField(oprot, "name", 4, p.Name); err != nil {
		return err
	}

	if p.NumChildren != nil {
		if err := writeI32Field(oprot, "num_children", 5, *p.NumChildren); err != nil {
			return err
		}
	}

	if p.ConvertedType != nil {
		if err := writeI32Field(oprot, "converted_type", 6, *p.ConvertedType); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *RowGroup) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read RowGroup struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // columns
			err = readList(iprot, fieldTypeID, func() error {
				c := &ColumnChunk{}
				if err := c.Read(iprot); err != nil {
					return err
				}
				p.Columns = append(p.Columns, c)
				return nil
			})
			if err != nil {
				return err
			}

		case 2: // total_byte_size
			if p.TotalByteSize, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 3: // num_rows
			if p.NumRows, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *RowGroup) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("RowGroup"); err != nil {
		return err
	}

	err := writeListField(oprot, "columns", 1, len(p.Columns), func(i int) error {
		return p.Columns[i].Write(oprot)
	})
	if err != nil {
		return err
	}

	if err := writeI64Field(oprot, "total_byte_size", 2, p.TotalByteSize); err != nil {
		return err
	}

	if err := writeI64Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *ColumnChunk) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read ColumnChunk struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // file_path
			v, err := readString(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.FilePath = &v

		case 2: // file_offset
			if p.FileOffset, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 3: // meta_data
			p.MetaData = &ColumnMetaData{}
			if err := p.MetaData.Read(iprot); err != nil {
				return err
			}

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *ColumnChunk) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("ColumnChunk"); err != nil {
		return err
	}

	if p.FilePath != nil {
		if err := writeStringField(oprot, "file_path", 1, *p.FilePath); err != nil {
			return err
		}
	}

	if err := writeI64Field(oprot, "file_offset", 2, p.FileOffset); err != nil {
		return err
	}

	if p.MetaData != nil {
		if err := oprot.WriteFieldBegin("meta_data", thrift.STRUCT, 3); err != nil {
			return err
		}
		if err := p.MetaData.Write(oprot); err != nil {
			return err
		}
		if err := oprot.WriteFieldEnd(); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *ColumnMetaData) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read ColumnMetaData struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return err
		}

		if fieldTypeID == thrift.STOP {
			break
		}

		switch fieldID {
		case 1: // type
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Type = Type(v)

		case 2: // encodings
			err = readList(iprot, fieldTypeID, func() error {
				v, err := iprot.ReadI32()
				if err != nil {
					return err
				}
				p.Encodings = append(p.Encodings, Encoding(v))
				return nil
			})
			if err != nil {
				return err
			}

		case 3: // path_in_schema
			err = readList(iprot, fieldTypeID, func() error {
				v, err := iprot.ReadString()
				if err != nil {
					return err
				}
				p.PathInSchema = append(p.PathInSchema, v)
				return nil
			})
			if err != nil {
				return err
			}

		case 4: // codec
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Codec = CompressionCodec(v)

		case 5: // num_values
			if p.NumValues, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 6: // total_uncompressed_size
			if p.TotalUncompressedSize, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 7: // total_compressed_size
			if p.TotalCompressedSize, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 9: // data_page_offset
			if p.DataPageOffset, err = readI64(iprot, fieldTypeID); err != nil {
				return err
			}

		case 10: // index_page_offset
			v, err := readI64(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.IndexPageOffset = &v

		case 11: // dictionary_page_offset
			v, err := readI64(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.DictionaryPageOffset = &v

		default:
			if err := iprot.Skip(fieldTypeID); err != nil {
				return err
			}
		}

		if err := iprot.ReadFieldEnd(); err != nil {
			return err
		}
	}

	return iprot.ReadStructEnd()
}

func (p *ColumnMetaData) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("ColumnMetaData"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "type", 1, int32(p.Type)); err != nil {
		return err
	}

	err := writeListFieldTyped(oprot, "encodings", 2, thrift.I32, len(p.Encodings), func(i int) error {
		return oprot.WriteI32(int32(p.Encodings[i]))
	})
	if err != nil {
		return err
	}

	err = writeListFieldTyped(oprot, "path_in_schema", 3, thrift.STRING, len(p.PathInSchema), func(i int) error {
		return oprot.WriteString(p.PathInSchema[i])
	})
	if err != nil {
		return err
	}

	if err := writeI32Field(oprot, "codec", 4, int32(p.Codec)); err != nil {
		return err
	}

	if err := writeI64Field(oprot, "num_values", 5, p.NumValues); err != nil {
		return err
	}

	if err := writeI64Field(oprot, "total_uncompressed_size", 6, p.TotalUncompressedSize); err != nil {
		return err
	}

	if err := writeI64Field(oprot, "total_compressed_size", 7, p.TotalCompressedSize); err != nil {
		return err
	}

	if err := writeI64Field(oprot, "data_page_offset", 9, p.DataPageOffset); err != nil {
		return err
	}

	if p.IndexPageOffset != nil {
		if err := writeI64Field(oprot, "index_page_offset", 10, *p.IndexPageOffset); err != nil {
			return err
		}
	}

	if p.DictionaryPageOffset != nil {
		if err := writeI64Field(oprot, "dictionary_page_offset", 11, *p.DictionaryPageOffset); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}
