package frame

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the length of the big-endian payload length field.
	HeaderSize = 4
	// MaxPayloadSize is the largest payload representable in the 4-byte header.
	MaxPayloadSize int64 = math.MaxUint32
)

// Frame is one decoded entry together with its position in the log.
type Frame struct {
	// Payload is the opaque entry body. The log never interprets it.
	Payload []byte
	// Offset is the byte offset of the length header within the log.
	Offset int64
	// Size is the total encoded size (header + payload).
	Size int64
}

// EncodedSize returns the on-disk size of an entry with a payload of the given length.
func EncodedSize(payloadLen int) int64 {
	return int64(HeaderSize) + int64(payloadLen)
}

// Encode frames the payload as a 4-byte big-endian length header followed by
// the payload bytes. It returns the encoded byte slice or an error.
func Encode(payload []byte) ([]byte, error) {
	if err := ValidatePayloadLength(len(payload)); err != nil {
		return nil, err
	}

	data := make([]byte, HeaderSize+len(payload))
	binary.BigEndian.PutUint32(data[:HeaderSize], uint32(len(payload))) //nolint:gosec
	copy(data[HeaderSize:], payload)

	return data, nil
}

// ValidatePayloadLength checks that a payload length fits the 32-bit header.
func ValidatePayloadLength(length int) error {
	if int64(length) > MaxPayloadSize {
		return &ParseError{
			Kind: KindTooLarge,
			Want: length,
			Have: int(MaxPayloadSize),
			Err:  ErrTooLarge,
		}
	}
	return nil
}
