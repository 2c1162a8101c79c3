package leafpak

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode compresses src into a full payload (header + body) whose Decode is
// byte-identical to src. Options nil means DefaultEncodeOptions.
//
// Matches are searched against the same history ring, with the same seed and
// copy-then-feed discipline, that the decoder maintains, so every emitted
// token reads back exactly the bytes it stood for.
func Encode(src []byte, opts *EncodeOptions) ([]byte, error) {
	if opts == nil {
		opts = DefaultEncodeOptions()
	}
	if len(src) == 0 {
		return nil, ErrEmptyInput
	}
	if int64(len(src)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes does not fit a u32 unpacked size", ErrInvalidPayload, len(src))
	}

	limit := opts.SearchLimit
	if limit < 0 {
		limit = 0
	}
	if limit > HistorySize {
		limit = HistorySize
	}

	// Worst case is all literals plus one control byte per 8, plus the header.
	body := make([]byte, 0, len(src)+(len(src)+7)/8+PayloadHeaderSize)
	body = append(body, 0, 0, 0, 0, 0, 0, 0, 0) // header placeholder

	hist := &history{}

	var ctlByte byte
	bitCount := 0
	ctlPos := -1

	flushControl := func() {
		if ctlPos >= 0 {
			body[ctlPos] = ctlByte
		}
		ctlByte = 0
		bitCount = 0
	}
	startChunk := func() {
		ctlPos = len(body)
		body = append(body, 0)
	}

	startChunk()

	i := 0
	for i < len(src) {
		pos, length := findMatch(hist, src, i, limit)

		if length >= MinMatch {
			// Token: position<<4 | nibble; nibble 15 pulls an extension byte.
			nibble := length - MinMatch
			ext := -1
			if nibble >= extendedNibble {
				ext = nibble - extendedNibble
				nibble = extendedNibble
			}

			token := uint16(pos)<<4 | uint16(nibble) // #nosec G115 -- pos < HistorySize, nibble <= 15
			body = append(body, byte(token&0xFF), byte(token>>8))
			if ext >= 0 {
				body = append(body, byte(ext)) // #nosec G115 -- ext <= 255 by MaxMatch
			}

			// Feed after the whole match, mirroring the decoder's copy-then-feed.
			for k := 0; k < length; k++ {
				hist.input(src[i+k])
			}
			i += length
		} else {
			ctlByte |= 1 << bitCount
			body = append(body, src[i])
			hist.input(src[i])
			i++
		}

		bitCount++
		if bitCount == ControlBits {
			flushControl()
			if i < len(src) {
				startChunk()
			}
		}
	}

	if bitCount > 0 {
		flushControl()
	}

	binary.LittleEndian.PutUint32(body[0:4], uint32(len(body))) // #nosec G115 -- bounded by input u32 check
	binary.LittleEndian.PutUint32(body[4:8], uint32(len(src)))  // #nosec G115 -- checked above

	return body, nil
}

// findMatch returns the best (position, length) back-reference for src[i:]
// readable from the current ring state, scanning up to limit positions
// backward from the write cursor. Length 0 means emit a literal.
//
// The ring is not mutated while a run is read back (two-phase feed), so a
// candidate is valid exactly when the static ring content matches the
// upcoming input, including seed-filled slots that were never written.
func findMatch(hist *history, src []byte, i, limit int) (pos, length int) {
	maxLen := len(src) - i
	if maxLen > MaxMatch {
		maxLen = MaxMatch
	}
	if maxLen < MinMatch || limit == 0 {
		return 0, 0
	}

	for back := 1; back <= limit; back++ {
		start := (hist.pos - back + HistorySize) % HistorySize

		n := 0
		for n < maxLen && hist.read(start+n) == src[i+n] {
			n++
		}

		if n > length {
			pos, length = start, n
			if length == maxLen {
				break
			}
		}
	}

	return pos, length
}
