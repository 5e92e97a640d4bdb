package icns

import "errors"

var (
	ErrNotIcns         = errors.New("not an icns container")
	ErrSizeMismatch    = errors.New("icns size field does not match data length")
	ErrTruncatedRecord = errors.New("truncated icns record")
)
