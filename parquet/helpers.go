package parquet

import (
	"github.com/apache/thrift/lib/go/thrift"
	"github.com/hexbee-net/errors"
)

// The compact protocol encodes field and list element types; a mismatch
// between the declared wire type and the expected one means the record is not
// what the schema says it is.

func readI32(iprot thrift.TProtocol, fieldTypeID thrift.TType) (int32, error) {
	if fieldTypeID != thrift.I32 {
		return 0, errors.WithFields(
			errors.New("unexpected wire type for i32 field"),
			errors.Fields{
				"wire-type": fieldTypeID,
			})
	}

	return iprot.ReadI32()
}

func readI64(iprot thrift.TProtocol, fieldTypeID thrift.TType) (int64, error) {
	if fieldTypeID != thrift.I64 {
		return 0, errors.WithFields(
			errors.New("unexpected wire type for i64 field"),
			errors.Fields{
				"wire-type": fieldTypeID,
			})
	}

	return iprot.ReadI64()
}

func readString(iprot thrift.TProtocol, fieldTypeID thrift.TType) (string, error) {
	if fieldTypeID != thrift.STRING {
		return "", errors.WithFields(
			errors.New("unexpected wire type for string field"),
			errors.Fields{
				"wire-type": fieldTypeID,
			})
	}

	return iprot.ReadString()
}

func readList(iprot thrift.TProtocol, fieldTypeID thrift.TType, elem func() error) error {
	if fieldTypeID != thrift.LIST {
		return errors.WithFields(
			errors.New("unexpected wire type for list field"),
			errors.Fields{
				"wire-type": fieldTypeID,
			})
	}

	_, size, err := iprot.ReadListBegin()
	if err != nil {
		return errors.Wrap(err, "failed to read list begin")
	}

	for i := 0; i < size; i++ {
		if err := elem(); err != nil {
			return err
		}
	}

	return iprot.ReadListEnd()
}

func writeI32Field(oprot thrift.TProtocol, name string, id int16, v int32) error {
	if err := oprot.WriteFieldBegin(name, thrift.I32, id); err != nil {
		return err
	}

	if err := oprot.WriteI32(v); err != nil {
		return err
	}

	return oprot.WriteFieldEnd()
}

func writeI64Field(oprot thrift.TProtocol, name string, id int16, v int64) error {
	if err := oprot.WriteFieldBegin(name, thrift.I64, id); err != nil {
		return err
	}

	if err := oprot.WriteI64(v); err != nil {
		return err
	}

	return oprot.WriteFieldEnd()
}

func writeStringField(oprot thrift.TProtocol, name string, id int16, v string) error {
	if err := oprot.WriteFieldBegin(name, thrift.STRING, id); err != nil {
		return err
	}

	if err := oprot.WriteString(v); err != nil {
		return err
	}

	return oprot.WriteFieldEnd()
}

func writeStructField(oprot thrift.TProtocol, name string, id int16, write func(thrift.TProtocol) error) error {
	if err := oprot.WriteFieldBegin(name, thrift.STRUCT, id); err != nil {
		return err
	}

	if err := write(oprot); err != nil {
		return err
	}

	return oprot.WriteFieldEnd()
}

func writeListField(oprot thrift.TProtocol, name string, id int16, size int, elem func(int) error) error {
	return writeListFieldTyped(oprot, name, id, thrift.STRUCT, size, elem)
}

func writeListFieldTyped(oprot thrift.TProtocol, name string, id int16, elemType thrift.TType, size int, elem func(int) error) error {
	if err := oprot.WriteFieldBegin(name, thrift.LIST, id); err != nil {
		return err
	}

	if err := oprot.WriteListBegin(elemType, size); err != nil {
		return err
	}

	for i := 0; i < size; i++ {
		if err := elem(i); err != nil {
			return err
		}
	}

	if err := oprot.WriteListEnd(); err != nil {
		return err
	}

	return oprot.WriteFieldEnd()
}
