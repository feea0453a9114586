package encoding

// PadBuffer copies a raw stream into a buffer that satisfies the decoder's
// trailing padding contract; the logical size stays len(b). Callers that
// already own padded buffers slice them directly instead.
func PadBuffer(b []byte) []byte {
	out := make([]byte, len(b)+ReadPadding)
	copy(out, b)

	return out
}
