package leafpak

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
)

// Entry describes one file in the container's table of contents.
type Entry struct {
	Name    string // ASCII, at most EntryNameSize bytes
	Size    uint32 // stored byte length; for encoded entries the true size is in the payload header
	Encoded bool   // payload is LZSS-compressed
	Offset  uint32 // absolute payload offset from container start
}

// parseTOC reads the container header and all TOC records from r.
// The stored entry count carries a fixed off-by-one bias: count 1 is an
// empty container, the first record slot is never a real entry.
func parseTOC(r io.Reader) ([]Entry, error) {
	var hdr [tocHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncatedHeader, err)
	}

	countPlusOne := binary.LittleEndian.Uint16(hdr[0:2])
	if countPlusOne == 0 {
		return nil, fmt.Errorf("%w: zero entry count", ErrTruncatedHeader)
	}
	count := int(countPlusOne) - 1

	entries := make([]Entry, 0, count)
	seen := make(map[string]struct{}, count)

	var rec [tocRecordSize]byte
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, rec[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, fmt.Errorf("%w: record %d of %d", ErrTruncatedHeader, i, count)
			}

			return nil, err
		}

		name := string(bytes.TrimRight(rec[:EntryNameSize], "\x00"))
		if _, ok := seen[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		seen[name] = struct{}{}

		entries = append(entries, Entry{
			Name:    name,
			Size:    binary.LittleEndian.Uint32(rec[16:20]),
			Encoded: binary.LittleEndian.Uint32(rec[20:24]) != 0,
			Offset:  binary.LittleEndian.Uint32(rec[24:28]),
		})
	}

	return entries, nil
}

// buildTOC lays out a new container index for inputs, sorted by name.
// Offsets start right after the TOC region and increase contiguously;
// created entries are always raw (the format has no compressing writer).
// Returns the serialized header+records and the resulting entries in
// payload order.
func buildTOC(inputs []Input) ([]byte, []Entry, error) {
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	seen := make(map[string]struct{}, len(sorted))
	for _, in := range sorted {
		if err := validateEntryName(in.Name); err != nil {
			return nil, nil, err
		}
		if _, ok := seen[in.Name]; ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrDuplicateName, in.Name)
		}
		seen[in.Name] = struct{}{}
	}

	if len(sorted)+1 > math.MaxUint16 {
		return nil, nil, fmt.Errorf("%w: %d entries do not fit a u16 count", ErrInvalidPayload, len(sorted))
	}

	toc := make([]byte, tocHeaderSize+tocRecordSize*len(sorted))
	binary.LittleEndian.PutUint16(toc[0:2], uint16(len(sorted)+1)) // #nosec G115 -- checked above

	entries := make([]Entry, len(sorted))
	offset := int64(len(toc))
	for i, in := range sorted {
		if offset+int64(len(in.Data)) > math.MaxUint32 {
			return nil, nil, fmt.Errorf("%w: container exceeds u32 offsets at %q", ErrInvalidPayload, in.Name)
		}

		entries[i] = Entry{
			Name:   in.Name,
			Size:   uint32(len(in.Data)), // #nosec G115 -- bounded by the offset check
			Offset: uint32(offset),       // #nosec G115 -- bounded by the offset check
		}

		rec := toc[tocHeaderSize+tocRecordSize*i:]
		copy(rec[:EntryNameSize], in.Name)
		binary.LittleEndian.PutUint32(rec[16:20], entries[i].Size)
		binary.LittleEndian.PutUint32(rec[20:24], 0)
		binary.LittleEndian.PutUint32(rec[24:28], entries[i].Offset)

		offset += int64(len(in.Data))
	}

	return toc, entries, nil
}

// validateEntryName rejects names that cannot live in a 16-byte ASCII record
// or that would escape an extraction directory.
func validateEntryName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if len(name) > EntryNameSize {
		return fmt.Errorf("%w: %q is %d bytes", ErrNameTooLong, name, len(name))
	}

	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c >= 0x7F || c == '/' || c == '\\' {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}

	return nil
}
