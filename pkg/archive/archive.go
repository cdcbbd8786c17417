// Package archive implements a key-addressable byte-stream file holding
// named sections ("routing", "cross_mwm"), each offset-observable while
// being written. It generalizes a single-blob CRC32 +
// atomic-temp-file-rename technique to multiple named sections in one
// file.
package archive

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sort"
)

const magicBytes = "MWMARCH1"

// ErrSectionNotFound is returned by GetReader when the tag is absent.
var ErrSectionNotFound = errors.New("archive: section not found")

// Writer accumulates named sections in memory and commits them to a
// single file atomically on Save.
type Writer struct {
	sections map[string]*SectionWriter
	order    []string
}

// NewWriter creates an empty archive writer.
func NewWriter() *Writer {
	return &Writer{sections: make(map[string]*SectionWriter)}
}

// GetWriter returns the SectionWriter for tag, creating it on first use.
// Calling GetWriter twice for the same tag returns the same writer, so
// a caller may interleave writes to distinct sections.
func (w *Writer) GetWriter(tag string) *SectionWriter {
	if sw, ok := w.sections[tag]; ok {
		return sw
	}
	sw := &SectionWriter{}
	w.sections[tag] = sw
	w.order = append(w.order, tag)
	return sw
}

// SectionWriter is a single named section's byte buffer. Pos reports
// the number of bytes written so far, so offsets are observable mid-write.
type SectionWriter struct {
	buf bytes.Buffer
}

func (s *SectionWriter) Write(p []byte) (int, error) { return s.buf.Write(p) }

// Pos returns the current write offset within the section.
func (s *SectionWriter) Pos() int64 { return int64(s.buf.Len()) }

// tocEntry describes one section's placement in the committed file.
type tocEntry struct {
	Tag    [32]byte
	Offset uint64
	Length uint64
	CRC32  uint32
}

// Save writes every accumulated section to path atomically: it writes
// to a temp file first and renames over path only on success, so a
// reader never observes a partially written archive.
func (w *Writer) Save(path string) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("archive: create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	tags := append([]string(nil), w.order...)
	sort.Strings(tags)

	entries := make([]tocEntry, 0, len(tags))
	var offset uint64
	payload := make([][]byte, 0, len(tags))
	for _, tag := range tags {
		if len(tag) > 32 {
			return fmt.Errorf("archive: section tag %q exceeds 32 bytes", tag)
		}
		data := w.sections[tag].buf.Bytes()
		var entry tocEntry
		copy(entry.Tag[:], tag)
		entry.Offset = offset
		entry.Length = uint64(len(data))
		entry.CRC32 = crc32.ChecksumIEEE(data)
		entries = append(entries, entry)
		payload = append(payload, data)
		offset += uint64(len(data))
	}

	if _, err := f.WriteString(magicBytes); err != nil {
		return fmt.Errorf("archive: write magic: %w", err)
	}
	if err := binary.Write(f, binary.LittleEndian, uint32(len(entries))); err != nil {
		return fmt.Errorf("archive: write toc length: %w", err)
	}
	for _, e := range entries {
		if err := binary.Write(f, binary.LittleEndian, &e); err != nil {
			return fmt.Errorf("archive: write toc entry: %w", err)
		}
	}
	for _, data := range payload {
		if len(data) == 0 {
			continue
		}
		if _, err := f.Write(data); err != nil {
			return fmt.Errorf("archive: write section data: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("archive: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("archive: rename: %w", err)
	}
	return nil
}

// Reader opens a committed archive for random section access.
type Reader struct {
	data      []byte
	entries   map[string]tocEntry
	dataStart int
}

// Open reads and validates path's table of contents.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("archive: open: %w", err)
	}
	if len(data) < len(magicBytes)+4 || string(data[:len(magicBytes)]) != magicBytes {
		return nil, fmt.Errorf("archive: bad magic bytes")
	}
	cursor := len(magicBytes)
	count := binary.LittleEndian.Uint32(data[cursor:])
	cursor += 4

	entries := make(map[string]tocEntry, count)
	const entrySize = 32 + 8 + 8 + 4
	for i := uint32(0); i < count; i++ {
		if cursor+entrySize > len(data) {
			return nil, fmt.Errorf("archive: truncated table of contents")
		}
		var e tocEntry
		copy(e.Tag[:], data[cursor:cursor+32])
		e.Offset = binary.LittleEndian.Uint64(data[cursor+32:])
		e.Length = binary.LittleEndian.Uint64(data[cursor+40:])
		e.CRC32 = binary.LittleEndian.Uint32(data[cursor+48:])
		cursor += entrySize
		tag := tagString(e.Tag)
		entries[tag] = e
	}

	r := &Reader{data: data, entries: entries}
	r.dataStart = cursor
	return r, nil
}

func tagString(raw [32]byte) string {
	n := bytes.IndexByte(raw[:], 0)
	if n < 0 {
		n = len(raw)
	}
	return string(raw[:n])
}

// GetReader returns an io.Reader over the named section's bytes,
// verifying its CRC32 before returning.
func (r *Reader) GetReader(tag string) (io.Reader, error) {
	e, ok := r.entries[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSectionNotFound, tag)
	}
	start := r.dataStart + int(e.Offset)
	end := start + int(e.Length)
	if start < 0 || end > len(r.data) || start > end {
		return nil, fmt.Errorf("archive: section %q out of range", tag)
	}
	section := r.data[start:end]
	if crc32.ChecksumIEEE(section) != e.CRC32 {
		return nil, fmt.Errorf("archive: section %q failed CRC32 check", tag)
	}
	return bytes.NewReader(section), nil
}

// HasSection reports whether tag exists in the archive.
func (r *Reader) HasSection(tag string) bool {
	_, ok := r.entries[tag]
	return ok
}
