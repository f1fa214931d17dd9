package utils

import (
	"errors"
	"unsafe"
)

// Str converts bytes to string without copying; the bytes must not be
// modified while the string is in use.
func Str(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

func FlattenErrors(errs []error) error {
	switch len(errs) {
	default:
		return errors.Join(errs...)
	case 1:
		return errs[0]
	case 0:
		return nil
	}
}

// Preview returns at most max bytes of b, marking the cut if there was one.
func Preview(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
