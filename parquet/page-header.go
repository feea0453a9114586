package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// PageHeader precedes every page inside a column chunk.
type PageHeader struct {
	Type                 PageType
	UncompressedPageSize int32
	CompressedPageSize   int32
	Crc                  *int32
	DataPageHeader       *DataPageHeader
	DictionaryPageHeader *DictionaryPageHeader
	DataPageHeaderV2     *DataPageHeaderV2
}

type DataPageHeader struct {
	NumValues               int32
	Encoding                Encoding
	DefinitionLevelEncoding Encoding
	RepetitionLevelEncoding Encoding
}

type DictionaryPageHeader struct {
	NumValues int32
	Encoding  Encoding
	IsSorted  *bool
}

type DataPageHeaderV2 struct {
	NumValues                  int32
	NumNulls                   int32
	NumRows                    int32
	Encoding                   Encoding
	DefinitionLevelsByteLength int32
	RepetitionLevelsByteLength int32
}

func (p *PageHeader) GetCompressedPageSize() int32   { return p.CompressedPageSize }
func (p *PageHeader) GetUncompressedPageSize() int32 { return p.UncompressedPageSize }

func (p *PageHeader) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read PageHeader struct begin")
	}

	for {
		_, fieldTypeID, fieldID, err := iprot.ReadFieldBegin()
		if err != nil {
			return errors.Wrap(err, "failed to read PageHeader field begin")
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
			p.Type = PageType(v)

		case 2: // uncompressed_page_size
			if p.UncompressedPageSize, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 3: // compressed_page_size
			if p.CompressedPageSize, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 4: // crc
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Crc = &v

		case 5: // data_page_header
			p.DataPageHeader = &DataPageHeader{}
			if err := p.DataPageHeader.Read(iprot); err != nil {
				return err
			}

		case 7: // dictionary_page_header
			p.DictionaryPageHeader = &DictionaryPageHeader{}
			if err := p.DictionaryPageHeader.Read(iprot); err != nil {
				return err
			}

		case 8: // data_page_header_v2
			p.DataPageHeaderV2 = &DataPageHeaderV2{}
			if err := p.DataPageHeaderV2.Read(iprot); err != nil {
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

func (p *PageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("PageHeader"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "type", 1, int32(p.Type)); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "uncompressed_page_size", 2, p.UncompressedPageSize); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "compressed_page_size", 3, p.CompressedPageSize); err != nil {
		return err
	}

	if p.Crc != nil {
		if err := writeI32Field(oprot, "crc", 4, *p.Crc); err != nil {
			return err
		}
	}

	if p.DataPageHeader != nil {
		if err := writeStructField(oprot, "data_page_header", 5, p.DataPageHeader.Write); err != nil {
			return err
		}
	}

	if p.DictionaryPageHeader != nil {
		if err := writeStructField(oprot, "dictionary_page_header", 7, p.DictionaryPageHeader.Write); err != nil {
			return err
		}
	}

	if p.DataPageHeaderV2 != nil {
		if err := writeStructField(oprot, "data_page_header_v2", 8, p.DataPageHeaderV2.Write); err != nil {
			return err
		}
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *DataPageHeader) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read DataPageHeader struct begin")
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
		case 1: // num_values
			if p.NumValues, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 2: // encoding
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Encoding = Encoding(v)

		case 3: // definition_level_encoding
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.DefinitionLevelEncoding = Encoding(v)

		case 4: // repetition_level_encoding
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.RepetitionLevelEncoding = Encoding(v)

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

func (p *DataPageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DataPageHeader"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "encoding", 2, int32(p.Encoding)); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "definition_level_encoding", 3, int32(p.DefinitionLevelEncoding)); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "repetition_level_encoding", 4, int32(p.RepetitionLevelEncoding)); err != nil {
		return err
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}

func (p *DictionaryPageHeader) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read DictionaryPageHeader struct begin")
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
		case 1: // num_values
			if p.NumValues, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 2: // encoding
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Encoding = Encoding(v)

		case 3: // is_sorted
			v, err := iprot.ReadBool()
			if err != nil {
				return err
			}
			p.IsSorted = &v

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

func (p *DictionaryPageHeader) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DictionaryPageHeader"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "encoding", 2, int32(p.Encoding)); err != nil {
		return err
	}

	if p.IsSorted != nil {
		if err := oprot.WriteFieldBegin("is_sorted", thrift.BOOL, 3); err != nil {
			return err
		}
		if err := oprot.WriteBool(*p.IsSorted); err != nil {
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

func (p *DataPageHeaderV2) Read(iprot thrift.TProtocol) error {
	if _, err := iprot.ReadStructBegin(); err != nil {
		return errors.Wrap(err, "failed to read DataPageHeaderV2 struct begin")
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
			if p.NumValues, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 2:
			if p.NumNulls, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 3:
			if p.NumRows, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 4:
			v, err := readI32(iprot, fieldTypeID)
			if err != nil {
				return err
			}
			p.Encoding = Encoding(v)

		case 5:
			if p.DefinitionLevelsByteLength, err = readI32(iprot, fieldTypeID); err != nil {
				return err
			}

		case 6:
			if p.RepetitionLevelsByteLength, err = readI32(iprot, fieldTypeID); err != nil {
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

func (p *DataPageHeaderV2) Write(oprot thrift.TProtocol) error {
	if err := oprot.WriteStructBegin("DataPageHeaderV2"); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "num_values", 1, p.NumValues); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "num_nulls", 2, p.NumNulls); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "num_rows", 3, p.NumRows); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "encoding", 4, int32(p.Encoding)); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "definition_levels_byte_length", 5, p.DefinitionLevelsByteLength); err != nil {
		return err
	}

	if err := writeI32Field(oprot, "repetition_levels_byte_length", 6, p.RepetitionLevelsByteLength); err != nil {
		return err
	}

	if err := oprot.WriteFieldStop(); err != nil {
		return err
	}

	return oprot.WriteStructEnd()
}
