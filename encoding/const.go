package encoding

import (
	"github.com/hexbee-net/errors"
)

// ReadPadding is the number of trailing bytes every buffer handed to the
// hybrid decoder must carry beyond its logical size. The 32-wide unpack
// kernels always consume whole 32-value blocks and may read up to 4*32 bytes
// past the last logical byte of a literal run.
const ReadPadding = 32 * 4

const (
	ErrUnsupportedBitWidth = errors.Error("rle-bp: unsupported bit width")
	ErrVarintOverflow      = errors.Error("rle-bp: varint overflow in run header")
	ErrValueTooLarge       = errors.Error("rle-bp: run value exceeds bit width")
	ErrShortRun            = errors.Error("rle-bp: run exceeds input")

	errShortPadding = errors.Error("rle-bp: buffer is missing the read padding")
)
