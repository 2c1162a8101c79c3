package leafpak

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// Decode decompresses one payload (header + body) from the beginning of src.
// Bytes after the declared packed size are ignored; payloads are
// self-delimiting. Options nil means DefaultDecodeOptions.
func Decode(src []byte, opts *DecodeOptions) ([]byte, error) {
	if len(src) < PayloadHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTruncatedHeader, len(src), PayloadHeaderSize)
	}

	return decodeFromByteReader(&sliceByteReader{data: src}, opts)
}

// DecodeFrom decompresses one payload from r and returns the number of bytes
// consumed (header + body). The stream is left positioned right after the
// payload, so back-to-back payloads can be decoded in sequence.
func DecodeFrom(r io.Reader, opts *DecodeOptions) ([]byte, int64, error) {
	if r == nil {
		return nil, 0, ErrNilReader
	}

	var byteReader io.ByteReader
	if existing, ok := r.(io.ByteReader); ok {
		byteReader = existing
	} else {
		byteReader = bufio.NewReader(r)
	}

	countingReader := &countingByteReader{base: byteReader}
	out, err := decodeFromByteReader(countingReader, opts)
	if err != nil {
		return nil, countingReader.count, err
	}

	return out, countingReader.count, nil
}

// DecodeAt decompresses a payload located at an absolute offset of ra.
// Each call reads independently, so concurrent extractions can share one
// io.ReaderAt (positioned reads) without coordination.
func DecodeAt(ra io.ReaderAt, offset int64, opts *DecodeOptions) ([]byte, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	section := io.NewSectionReader(ra, offset, math.MaxInt64-offset)
	out, _, err := DecodeFrom(section, opts)

	return out, err
}

// decodeFromByteReader decompresses one payload from a byte reader.
func decodeFromByteReader(r io.ByteReader, opts *DecodeOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultDecodeOptions()
	}

	ceiling := opts.MaxUnpackedSize
	if ceiling <= 0 {
		ceiling = DefaultMaxUnpacked
	}

	packedSize, unpackedSize, err := readPayloadHeader(r)
	if err != nil {
		return nil, err
	}

	if unpackedSize == 0 || packedSize <= PayloadHeaderSize {
		return nil, fmt.Errorf("%w: packed=%d unpacked=%d", ErrInvalidPayload, packedSize, unpackedSize)
	}
	// Checked before allocating: corrupt headers must not cause runaway allocation.
	if int64(unpackedSize) > int64(ceiling) {
		return nil, fmt.Errorf("%w: %d > %d", ErrOversizedPayload, unpackedSize, ceiling)
	}

	src := &payloadSource{base: r, remaining: int(packedSize) - PayloadHeaderSize}
	out := make([]byte, unpackedSize)
	hist := &history{}
	dst := 0

	for src.remaining > 0 {
		ctl, err := src.next()
		if err != nil {
			return nil, err
		}

		for bit := 0; bit < ControlBits && src.remaining > 0; bit++ {
			if (ctl>>bit)&1 == 1 {
				// Literal: copied to output and fed to the dictionary directly.
				b, err := src.next()
				if err != nil {
					return nil, err
				}
				if dst >= len(out) {
					return nil, fmt.Errorf("%w: literal past declared unpacked size", ErrTruncatedStream)
				}

				out[dst] = b
				dst++
				hist.input(b)

				continue
			}

			// Back-reference: u16 LE, high 12 bits look-behind position,
			// low 4 bits length nibble (15 pulls an extension byte).
			lo, err := src.next()
			if err != nil {
				return nil, err
			}
			hi, err := src.next()
			if err != nil {
				return nil, err
			}

			token := uint16(lo) | uint16(hi)<<8
			pos := int(token >> 4)
			length := int(token & 0xF)
			if length == extendedNibble {
				ext, err := src.next()
				if err != nil {
					return nil, err
				}
				length += int(ext)
			}
			length += MinMatch

			if dst+length > len(out) {
				return nil, fmt.Errorf("%w: back-reference run of %d at %d past declared unpacked size %d",
					ErrTruncatedStream, length, dst, len(out))
			}

			// Copy the whole run from the pre-token ring first, then feed the
			// run back from the output buffer. The dictionary is updated from
			// produced output, not from the source window; later tokens depend
			// on this order.
			for k := 0; k < length; k++ {
				out[dst+k] = hist.read(pos + k)
			}
			for k := 0; k < length; k++ {
				hist.input(out[dst+k])
			}
			dst += length
		}
	}

	if dst != len(out) {
		return nil, fmt.Errorf("%w: body ended at %d of %d output bytes", ErrTruncatedStream, dst, len(out))
	}

	return out, nil
}

// readPayloadHeader reads packed_size and unpacked_size (u32 LE each).
func readPayloadHeader(r io.ByteReader) (packed, unpacked uint32, err error) {
	var hdr [PayloadHeaderSize]byte
	for i := range hdr {
		b, err := r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, 0, fmt.Errorf("%w: payload header", ErrTruncatedHeader)
			}

			return 0, 0, err
		}
		hdr[i] = b
	}

	packed = binary.LittleEndian.Uint32(hdr[0:4])
	unpacked = binary.LittleEndian.Uint32(hdr[4:8])

	return packed, unpacked, nil
}
