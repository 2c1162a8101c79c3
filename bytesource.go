package leafpak

import (
	"errors"
	"fmt"
	"io"
)

// sliceByteReader reads from a byte slice.
type sliceByteReader struct {
	data []byte
	pos  int
}

func (r *sliceByteReader) ReadByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}

	b := r.data[r.pos]
	r.pos++

	return b, nil
}

// countingByteReader counts bytes read from base, for consumed-size reporting.
type countingByteReader struct {
	base  io.ByteReader
	count int64
}

func (r *countingByteReader) ReadByte() (byte, error) {
	b, err := r.base.ReadByte()
	if err != nil {
		return 0, err
	}

	r.count++

	return b, nil
}

// payloadSource reads the compressed body of one payload. Every read is
// charged against the declared packed size, so the decoder can never consume
// bytes past the region the header claims; running out mid-token or hitting
// EOF early is ErrTruncatedStream.
type payloadSource struct {
	base      io.ByteReader
	remaining int // body bytes left, packed_size - PayloadHeaderSize at start
}

func (s *payloadSource) next() (byte, error) {
	if s.remaining <= 0 {
		return 0, fmt.Errorf("%w: body exhausted mid-token", ErrTruncatedStream)
	}

	b, err := s.base.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: unexpected end of input", ErrTruncatedStream)
		}

		return 0, err
	}

	s.remaining--

	return b, nil
}
