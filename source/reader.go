// Package source abstracts where file bytes come from. A Reader is a
// positional byte source the file reader owns exclusively.
package source

import "io"

type Reader interface {
	io.Reader
	io.Seeker
	io.Closer
}
