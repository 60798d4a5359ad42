package wire

import "errors"

// Framing errors returned by the codec. Each maps to one of the validation
// rules in the wire format: a malformed value fails before it is ever
// observable past the codec boundary.
var (
	ErrInvalidVersion  = errors.New("wire: invalid version")
	ErrPayloadTooLarge = errors.New("wire: payload exceeds maximum size")
	ErrReservedNonZero = errors.New("wire: reserved byte must be zero")
	ErrUnknownProto    = errors.New("wire: unknown proto")
	ErrUnknownStatus   = errors.New("wire: unknown status")
	ErrEmptyName       = errors.New("wire: name must not be empty")
	ErrLengthMismatch  = errors.New("wire: declared length does not match actual length")
	ErrStringTooLong   = errors.New("wire: string exceeds maximum length")
	ErrTruncated       = errors.New("wire: buffer shorter than declared length")
)
