package parquet

import (
	"io"
	"os"

	"github.com/quarrydata/parquet/datastore"
	"github.com/quarrydata/parquet/encoding"
	"github.com/quarrydata/parquet/layout"
	"github.com/quarrydata/parquet/schema"
)

// ErrorKind sorts decode failures into the handful of classes callers act
// on. Every sentinel error of the decode pipeline maps to one kind;
// KindOf walks a wrapped error's chain to find it.
type ErrorKind int

const (
	ErrorKindUnknown ErrorKind = iota

	// FormatError: the file is not a parquet file.
	FormatError

	// UnsupportedFeature: a valid file using features outside this
	// reader's scope.
	UnsupportedFeature

	// CorruptData: a parquet file whose content contradicts itself.
	CorruptData

	// IoError: the bytes could not be read at all.
	IoError

	// DecompressionError: a page payload failed to decompress.
	DecompressionError
)

func (k ErrorKind) String() string {
	switch k {
	case FormatError:
		return "format error"
	case UnsupportedFeature:
		return "unsupported feature"
	case CorruptData:
		return "corrupt data"
	case IoError:
		return "io error"
	case DecompressionError:
		return "decompression error"
	default:
		return "unknown"
	}
}

var kindBySentinel = map[error]ErrorKind{
	ErrInvalidHeader:    FormatError,
	ErrInvalidFooter:    FormatError,
	ErrFooterLength:     FormatError,
	schema.ErrNoColumns: FormatError,

	ErrEncrypted:                    UnsupportedFeature,
	schema.ErrNotFlat:               UnsupportedFeature,
	schema.ErrNotOptional:           UnsupportedFeature,
	schema.ErrNoTypeLength:          UnsupportedFeature,
	encoding.ErrUnsupportedBitWidth: UnsupportedFeature,
	layout.ErrDataPageV2:            UnsupportedFeature,
	layout.ErrUnknownCodec:          UnsupportedFeature,
	layout.ErrExternalData:          UnsupportedFeature,
	layout.ErrNestedChunk:           UnsupportedFeature,
	layout.ErrDictTypeUnsupported:   UnsupportedFeature,
	layout.ErrDictUnsupported:       UnsupportedFeature,
	layout.ErrDictEncoding:          UnsupportedFeature,
	layout.ErrLevelEncoding:         UnsupportedFeature,
	layout.ErrValueEncoding:         UnsupportedFeature,
	layout.ErrIndexBitWidth:         UnsupportedFeature,
	datastore.ErrUnsupportedType:    UnsupportedFeature,

	ErrRowGroupLayout:            CorruptData,
	encoding.ErrVarintOverflow:   CorruptData,
	encoding.ErrValueTooLarge:    CorruptData,
	encoding.ErrShortRun:         CorruptData,
	layout.ErrShortPage:          CorruptData,
	layout.ErrDuplicateDict:      CorruptData,
	layout.ErrMissingDict:        CorruptData,
	layout.ErrPageHeaderMismatch: CorruptData,
	layout.ErrTooManyValues:      CorruptData,
	layout.ErrShortIndexRun:      CorruptData,
	layout.ErrInvalidDictIndex:   CorruptData,
	layout.ErrPlainAfterDict:     CorruptData,
	layout.ErrChunkTypeMismatch:  CorruptData,
	layout.ErrMissingMetaData:    CorruptData,
	datastore.ErrOutOfRange:      CorruptData,

	layout.ErrPageDecompression: DecompressionError,
}

// KindOf classifies err by the sentinel at the bottom of its wrap chain.
func KindOf(err error) ErrorKind {
	for err != nil {
		if kind, ok := kindBySentinel[err]; ok {
			return kind
		}

		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return IoError
		}

		if _, ok := err.(*os.PathError); ok {
			return IoError
		}

		switch cause := err.(type) {
		case interface{ Unwrap() error }:
			err = cause.Unwrap()
		case interface{ Cause() error }:
			err = cause.Cause()
		default:
			return ErrorKindUnknown
		}
	}

	return ErrorKindUnknown
}
