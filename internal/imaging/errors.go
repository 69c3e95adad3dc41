package imaging

import "errors"

// Sentinel errors. Callers match with errors.Is; the wrapped error carries
// the codec's own message.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrDecode            = errors.New("cannot decode image")
	ErrEncode            = errors.New("webp encode failed")
)
