package encoding

// The unpack kernels decode 32 packed little-endian values per call, one
// kernel per bit width. A kernel for width w consumes exactly 4*w bytes and
// never checks bounds; callers guarantee the input extends ReadPadding bytes
// beyond the logical end of the stream.

type unpack32Func func(src []byte) [32]uint32

var unpack32FuncByWidth = buildUnpack32Funcs()

func buildUnpack32Funcs() (fns [33]unpack32Func) {
	for w := range fns {
		fns[w] = unpack32ForWidth(uint(w))
	}

	return fns
}

// Bits are packed LSB-first within each byte, values back to back with no
// alignment between them.
func unpack32ForWidth(width uint) unpack32Func {
	if width == 0 {
		return func([]byte) (out [32]uint32) { return }
	}

	return func(src []byte) (out [32]uint32) {
		bit := uint(0)

		for i := range out {
			v := uint32(0)

			for j := uint(0); j < width; j++ {
				v |= uint32(src[bit>>3]>>(bit&7)&1) << j
				bit++
			}

			out[i] = v
		}

		return out
	}
}
