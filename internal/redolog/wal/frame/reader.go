package frame

import (
	"encoding/binary"
	"io"
)

type Reader struct {
	r      io.Reader
	offset int64
}

// NewReader creates a Reader that decodes framed entries from the given io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:      r,
		offset: 0,
	}
}

// Next reads the next entry from the underlying reader.
// It returns io.EOF at a clean entry boundary, a ParseError with KindTruncated
// when the stream ends mid-header or mid-payload, and a ParseError with KindIO
// for any other read failure.
func (fr *Reader) Next() (Frame, error) {
	frameStart := fr.offset

	hdr := make([]byte, HeaderSize)
	n, err := io.ReadFull(fr.r, hdr)
	if err != nil {
		fr.offset += int64(n)
		if err == io.EOF && n == 0 {
			return Frame{}, io.EOF
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Frame{}, &ParseError{
				Kind:   KindTruncated,
				Offset: frameStart,
				Want:   HeaderSize,
				Have:   n,
				Err:    io.ErrUnexpectedEOF,
			}
		}
		return Frame{}, &ParseError{
			Kind:   KindIO,
			Offset: frameStart,
			Want:   HeaderSize,
			Have:   n,
			Err:    err,
		}
	}

	payloadLen := binary.BigEndian.Uint32(hdr)

	payload := make([]byte, payloadLen)
	n, err = io.ReadFull(fr.r, payload)
	if err != nil {
		fr.offset += int64(HeaderSize + n)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Frame{}, &ParseError{
				Kind:        KindTruncated,
				Offset:      frameStart,
				DeclaredLen: payloadLen,
				Want:        int(payloadLen),
				Have:        n,
				Err:         io.ErrUnexpectedEOF,
			}
		}
		return Frame{}, &ParseError{
			Kind:        KindIO,
			Offset:      frameStart,
			DeclaredLen: payloadLen,
			Want:        int(payloadLen),
			Have:        n,
			Err:         err,
		}
	}
	fr.offset += int64(HeaderSize) + int64(payloadLen)

	return Frame{
		Payload: payload,
		Offset:  frameStart,
		Size:    int64(HeaderSize) + int64(payloadLen),
	}, nil
}

// Offset returns the current offset in the underlying reader.
func (fr *Reader) Offset() int64 {
	return fr.offset
}
