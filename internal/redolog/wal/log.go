package wal

import (
	"bufio"
	"io"
	"os"

	"github.com/julianstephens/redolog/internal/logger"
	"github.com/julianstephens/redolog/internal/redolog/wal/frame"
)

const scanBufferSize = 64 << 10 // 64KiB

// Log is a single-file append-only write-ahead log. Entries are framed as a
// 4-byte big-endian length header followed by the payload bytes, with no file
// header and no trailer.
//
// A Log assumes exactly one writer and performs no internal locking; callers
// that share an instance across goroutines or a path across processes must
// provide their own mutual exclusion.
type Log struct {
	path string
	file *os.File

	// offset is the write cursor. It always points at end-of-file after any
	// successful operation; the read cursor used by Scan is local to the scan.
	offset int64

	lg     logger.Logger
	closed bool
}

// Open opens or creates the log file at the given path and positions the
// write cursor at end-of-file. Prior content is not validated here; a torn
// tail is detected lazily by Scan.
func Open(path string, lg logger.Logger) (*Log, error) {
	if lg == nil {
		lg = logger.NoOpLogger{}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600) //nolint:gosec
	if err != nil {
		return nil, wrapLogErr("open", ErrOpenFailed, path, 0, err)
	}

	offset, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		_ = file.Close()
		return nil, wrapLogErr("open", ErrOpenFailed, path, 0, err)
	}

	lg.Debug("log opened", "path", path, "size", offset)

	return &Log{
		path:   path,
		file:   file,
		offset: offset,
		lg:     lg,
	}, nil
}

// Append frames the payload and writes it at the current end-of-file, then
// fsyncs. The entry is durable when Append returns nil. It returns the byte
// offset at which the entry's header begins.
//
// After a failed Append the tail of the file must be assumed torn; Scan
// recovers everything written before the failure and skips the torn tail.
func (l *Log) Append(payload []byte) (offset int64, err error) {
	if l.closed {
		return 0, wrapLogErr("append", ErrLogClosed, l.path, l.offset, nil)
	}

	data, err := frame.Encode(payload)
	if err != nil {
		return 0, wrapLogErr("append", ErrPayloadTooLarge, l.path, l.offset, err)
	}

	entryOffset := l.offset

	n, err := l.file.WriteAt(data, entryOffset)
	if err != nil {
		l.lg.Error("append write failed", err, "path", l.path, "offset", entryOffset)
		return 0, wrapLogErr("append", ErrAppendFailed, l.path, entryOffset, err)
	}
	if n != len(data) {
		return 0, wrapLogErr("append", ErrAppendFailed, l.path, entryOffset, ErrShortWrite)
	}

	if err := l.file.Sync(); err != nil {
		l.lg.Error("append fsync failed", err, "path", l.path, "offset", entryOffset)
		return 0, wrapLogErr("fsync", ErrAppendFailed, l.path, entryOffset, err)
	}

	l.offset += int64(n)

	l.lg.Debug("entry appended", "path", l.path, "offset", entryOffset, "size", n)
	return entryOffset, nil
}

// ScanResult reports one full scan of the log.
type ScanResult struct {
	// Payloads holds every well-formed entry, in append order.
	Payloads [][]byte
	// EndOffset is the byte offset just past the last well-formed entry.
	EndOffset int64
	// Truncated reports whether the scan stopped at a torn trailing fragment
	// rather than a clean entry boundary.
	Truncated bool
}

// Scan reads every well-formed entry from offset 0. A trailing partial header
// or payload marks where an interrupted append stopped; it ends the scan
// without error so that everything written before the interruption is still
// recovered. After the scan the write cursor is back at true end-of-file, so
// subsequent appends continue correctly however the scan ended.
func (l *Log) Scan() (*ScanResult, error) {
	if l.closed {
		return nil, wrapLogErr("scan", ErrLogClosed, l.path, l.offset, nil)
	}

	info, err := l.file.Stat()
	if err != nil {
		return nil, wrapLogErr("scan", ErrReadFailed, l.path, l.offset, err)
	}
	size := info.Size()

	fr := frame.NewReader(bufio.NewReaderSize(io.NewSectionReader(l.file, 0, size), scanBufferSize))
	res := &ScanResult{Payloads: [][]byte{}}

	for {
		f, err := fr.Next()
		if err != nil {
			if frame.IsCleanEOF(err) {
				break
			}
			if frame.IsTruncation(err) {
				l.lg.Warn("scan stopped at torn tail", "path", l.path, "offset", res.EndOffset, "size", size)
				res.Truncated = true
				break
			}
			l.lg.Error("scan failed", err, "path", l.path, "offset", fr.Offset())
			return nil, wrapLogErr("scan", ErrReadFailed, l.path, fr.Offset(), err)
		}

		res.Payloads = append(res.Payloads, f.Payload)
		res.EndOffset = f.Offset + f.Size
	}

	// Reposition the write cursor at true end-of-file, past any torn tail.
	l.offset = size

	l.lg.Debug("scan complete", "path", l.path, "entries", len(res.Payloads), "end_offset", res.EndOffset)
	return res, nil
}

// ReadAll returns every well-formed entry payload in append order.
func (l *Log) ReadAll() ([][]byte, error) {
	res, err := l.Scan()
	if err != nil {
		return nil, err
	}
	return res.Payloads, nil
}

// Truncate resets the log to zero length and the write cursor to offset 0.
// Callers must only truncate after every entry returned by the most recent
// scan has been durably applied to the primary store; the log does not verify
// this. If truncation fails the prior content is retained, which is safe:
// entries are simply replayed and reapplied on the next recovery.
func (l *Log) Truncate() error {
	if l.closed {
		return wrapLogErr("truncate", ErrLogClosed, l.path, l.offset, nil)
	}

	if err := l.file.Truncate(0); err != nil {
		l.lg.Error("truncate failed", err, "path", l.path)
		return wrapLogErr("truncate", ErrTruncateFailed, l.path, l.offset, err)
	}
	if err := l.file.Sync(); err != nil {
		l.lg.Error("truncate fsync failed", err, "path", l.path)
		return wrapLogErr("truncate", ErrTruncateFailed, l.path, l.offset, err)
	}

	l.offset = 0

	l.lg.Info("log truncated", "path", l.path)
	return nil
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Size returns the current write cursor, which equals the file length.
func (l *Log) Size() int64 {
	return l.offset
}

// Close releases the file handle. The log cannot be used afterwards.
func (l *Log) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true

	if err := l.file.Close(); err != nil {
		return wrapLogErr("close", ErrCloseFailed, l.path, l.offset, err)
	}
	return nil
}
