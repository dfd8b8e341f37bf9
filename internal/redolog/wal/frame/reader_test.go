package frame_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/julianstephens/redolog/internal/redolog/wal/frame"
)

// helper to construct a valid encoded entry
func encodeEntry(payload []byte) []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.BigEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func TestNextRoundtrip(t *testing.T) {
	testCases := []struct {
		name    string
		payload []byte
	}{
		{"set_command", []byte("SET key1 = value1")},
		{"del_command", []byte("DEL key1")},
		{"binary", []byte{0x00, 0xFF, 0x10, 0x00}},
		{"empty", []byte{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := frame.NewReader(bytes.NewReader(encodeEntry(tc.payload)))

			f, err := reader.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(f.Payload, tc.payload) {
				t.Errorf("payload mismatch: want %q, got %q", tc.payload, f.Payload)
			}
			if f.Offset != 0 {
				t.Errorf("expected offset 0, got %d", f.Offset)
			}
			if f.Size != int64(frame.HeaderSize+len(tc.payload)) {
				t.Errorf("expected size %d, got %d", frame.HeaderSize+len(tc.payload), f.Size)
			}

			// The stream is exhausted at a clean boundary.
			if _, err := reader.Next(); err != io.EOF {
				t.Fatalf("expected io.EOF after last entry, got %v", err)
			}
		})
	}
}

func TestNextMultipleEntries(t *testing.T) {
	payloads := [][]byte{
		[]byte("SET key1 = value1"),
		[]byte("SET key2 = value2"),
		[]byte("DEL key1"),
	}

	buf := new(bytes.Buffer)
	for _, p := range payloads {
		buf.Write(encodeEntry(p))
	}

	reader := frame.NewReader(buf)
	for i, expected := range payloads {
		f, err := reader.Next()
		if err != nil {
			t.Fatalf("entry %d: unexpected error: %v", i, err)
		}
		if !bytes.Equal(f.Payload, expected) {
			t.Errorf("entry %d: expected payload %q, got %q", i, expected, f.Payload)
		}
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestNextTruncationDetection(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"partial_header_1byte", []byte{0x00}},
		{"partial_header_3bytes", []byte{0x00, 0x00, 0x00}},
		{"header_without_payload", []byte{0x00, 0x00, 0x00, 0x05}},
		{"partial_payload", append([]byte{0x00, 0x00, 0x00, 0x05}, 'a', 'b')},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reader := frame.NewReader(bytes.NewReader(tc.data))

			_, err := reader.Next()
			if err == nil {
				t.Fatal("expected error, got none")
			}
			if !frame.IsTruncation(err) {
				t.Fatalf("expected truncation, got %v", err)
			}

			pe, ok := frame.AsParseError(err)
			if !ok {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if pe.Kind != frame.KindTruncated {
				t.Errorf("expected Kind=%v, got %v", frame.KindTruncated, pe.Kind)
			}
			if pe.Offset != 0 {
				t.Errorf("expected frame offset 0, got %d", pe.Offset)
			}
		})
	}
}

func TestNextTruncationAfterValidEntries(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Write(encodeEntry([]byte("SET key1 = value1")))
	buf.Write(encodeEntry([]byte("SET key2 = value2")))
	buf.Write([]byte{0x00, 0x00}) // torn header

	reader := frame.NewReader(buf)

	for i := 0; i < 2; i++ {
		if _, err := reader.Next(); err != nil {
			t.Fatalf("entry %d: unexpected error: %v", i, err)
		}
	}

	_, err := reader.Next()
	if !frame.IsTruncation(err) {
		t.Fatalf("expected truncation at tail, got %v", err)
	}
	pe, _ := frame.AsParseError(err)
	expectedOffset := int64(2 * (frame.HeaderSize + len("SET key1 = value1")))
	if pe.Offset != expectedOffset {
		t.Errorf("expected truncation at offset %d, got %d", expectedOffset, pe.Offset)
	}
}

func TestNextEOF(t *testing.T) {
	// An empty stream is a clean boundary, not a truncation.
	reader := frame.NewReader(bytes.NewReader([]byte{}))
	if _, err := reader.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF for empty stream, got %v", err)
	}
}

type failingReader struct {
	err error
}

func (r failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestNextIOError(t *testing.T) {
	cause := errors.New("disk gone")
	reader := frame.NewReader(failingReader{err: cause})

	_, err := reader.Next()
	if err == nil {
		t.Fatal("expected error, got none")
	}
	if !errors.Is(err, frame.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	pe, ok := frame.AsParseError(err)
	if !ok {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if pe.Kind != frame.KindIO {
		t.Errorf("expected Kind=%v, got %v", frame.KindIO, pe.Kind)
	}
	if !errors.Is(pe.Err, cause) {
		t.Errorf("expected cause to be preserved, got %v", pe.Err)
	}
}

func TestOffsetTracking(t *testing.T) {
	payloads := [][]byte{
		[]byte("SET key1 = value1"),
		[]byte(""),
		[]byte("DEL key1"),
	}

	buf := new(bytes.Buffer)
	offsets := []int64{}
	for _, p := range payloads {
		offsets = append(offsets, int64(buf.Len()))
		buf.Write(encodeEntry(p))
	}

	reader := frame.NewReader(buf)
	if reader.Offset() != 0 {
		t.Errorf("expected initial offset 0, got %d", reader.Offset())
	}

	for i, p := range payloads {
		f, err := reader.Next()
		if err != nil {
			t.Fatalf("entry %d: unexpected error: %v", i, err)
		}
		if f.Offset != offsets[i] {
			t.Errorf("entry %d: expected offset %d, got %d", i, offsets[i], f.Offset)
		}
		expectedNext := offsets[i] + int64(frame.HeaderSize+len(p))
		if reader.Offset() != expectedNext {
			t.Errorf("entry %d: expected reader offset %d, got %d", i, expectedNext, reader.Offset())
		}
	}
}
