// Package wire implements the framed protocol exchanged with the rendezvous
// server: a fixed 12-byte header followed by a typed payload. All integers
// are big-endian, matching the layout smux and muxado use for their own
// frame headers.
package wire

import "encoding/binary"

// MessageType identifies the payload that follows a Header.
type MessageType uint8

const (
	TypeRequest  MessageType = 0x01
	TypeResponse MessageType = 0x02
	TypeAccess   MessageType = 0x03
	TypeAck      MessageType = 0x04
	TypeMetrics  MessageType = 0x05
	TypeEnd      MessageType = 0x06
	TypeError    MessageType = 0xFF
)

// FlagMetrics requests that the server open a metrics stream once
// registration succeeds.
const FlagMetrics uint8 = 0x01

// ProtocolVersion is the only version this client speaks.
const ProtocolVersion uint8 = 0x10

// HeaderSize is the fixed on-wire size of a Header.
const HeaderSize = 12

// MaxPayloadSize bounds Header.Length; larger values are a framing error.
const MaxPayloadSize = 1 << 20 // 1 MiB

// Header is the fixed preamble sent before every payload.
type Header struct {
	Version  uint8
	Type     MessageType
	Flags    uint8
	Length   uint64
	Reserved uint8
}

// HasFlag reports whether flag is set.
func (h Header) HasFlag(flag uint8) bool {
	return h.Flags&flag != 0
}

// SetFlag sets flag; idempotent.
func (h *Header) SetFlag(flag uint8) {
	h.Flags |= flag
}

// ClearFlag clears flag unconditionally, leaving the other bits unchanged.
func (h *Header) ClearFlag(flag uint8) {
	h.Flags &^= flag
}

func (h Header) validate() error {
	if h.Version != ProtocolVersion {
		return ErrInvalidVersion
	}
	if h.Length > MaxPayloadSize {
		return ErrPayloadTooLarge
	}
	if h.Reserved != 0 {
		return ErrReservedNonZero
	}
	return nil
}

// SerializeHeader encodes h into a HeaderSize-byte buffer, validating it
// first so a malformed Header can never reach the wire.
func SerializeHeader(h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, HeaderSize)
	buf[0] = h.Version
	buf[1] = byte(h.Type)
	buf[2] = h.Flags
	binary.BigEndian.PutUint64(buf[3:11], h.Length)
	buf[11] = h.Reserved
	return buf, nil
}

// DeserializeHeader decodes a HeaderSize-byte buffer, validating the result
// before returning it.
func DeserializeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, ErrTruncated
	}
	h := Header{
		Version:  buf[0],
		Type:     MessageType(buf[1]),
		Flags:    buf[2],
		Length:   binary.BigEndian.Uint64(buf[3:11]),
		Reserved: buf[11],
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}
