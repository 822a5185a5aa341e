package drivers

import "errors"

// Common errors for store construction and use.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrStoreClosed      = errors.New("store closed")
)
