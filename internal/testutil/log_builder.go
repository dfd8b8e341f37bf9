package testutil

import (
	"encoding/binary"
	"os"

	"github.com/julianstephens/redolog/internal/redolog/wal/frame"
)

// LogBuilder composes raw log file images: well-formed entries plus the torn
// fragments an interrupted append leaves behind.
type LogBuilder struct {
	buf []byte
}

// NewLogBuilder creates an empty log image.
func NewLogBuilder() *LogBuilder {
	return &LogBuilder{buf: []byte{}}
}

// Entry appends one well-formed entry (header + payload).
func (b *LogBuilder) Entry(payload []byte) *LogBuilder {
	hdr := make([]byte, frame.HeaderSize)
	binary.BigEndian.PutUint32(hdr, uint32(len(payload))) //nolint:gosec
	b.buf = append(b.buf, hdr...)
	b.buf = append(b.buf, payload...)
	return b
}

// TornHeader appends a partial length header of n bytes (n < 4), as left by a
// crash mid-way through writing a header.
func (b *LogBuilder) TornHeader(n int) *LogBuilder {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, 0x00)
	}
	return b
}

// TornEntry appends a full header declaring declaredLen payload bytes followed
// by only the given partial payload, as left by a crash mid-way through
// writing an entry body.
func (b *LogBuilder) TornEntry(declaredLen uint32, partial []byte) *LogBuilder {
	hdr := make([]byte, frame.HeaderSize)
	binary.BigEndian.PutUint32(hdr, declaredLen)
	b.buf = append(b.buf, hdr...)
	b.buf = append(b.buf, partial...)
	return b
}

// Bytes returns the composed image.
func (b *LogBuilder) Bytes() []byte {
	return b.buf
}

// Len returns the composed image length.
func (b *LogBuilder) Len() int64 {
	return int64(len(b.buf))
}

// WriteFile writes the image to the given path.
func (b *LogBuilder) WriteFile(path string) error {
	return os.WriteFile(path, b.buf, 0o600)
}
