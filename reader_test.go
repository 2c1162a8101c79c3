package leafpak

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// container assembles a full in-memory container from raw record+payload pairs.
func container(records [][]byte, payloads ...[]byte) []byte {
	buf := tocBytes(uint16(len(records)+1), records...)
	for _, p := range payloads {
		buf = append(buf, p...)
	}

	return buf
}

func TestExtractRawEntry(t *testing.T) {
	// Payload sits at the absolute offset the record declares
	payloadOffset := uint32(tocHeaderSize + tocRecordSize)
	src := container(
		[][]byte{tocRecord("a.txt", 5, false, payloadOffset)},
		[]byte("hello"),
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	data, err := r.Extract("a.txt")
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), data)
}

func TestExtractReadsAbsoluteOffset(t *testing.T) {
	// The declared offset is honored verbatim, wherever it points
	src := container(
		[][]byte{tocRecord("a.txt", 5, false, 20)},
		[]byte("0123456789"),
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	data, err := r.Extract("a.txt")
	require.NoError(t, err)
	require.Equal(t, src[20:25], data)
}

func TestExtractZeroSizeSkipsPayloadRead(t *testing.T) {
	// Offset points far past the end of the file; extraction must not
	// attempt any payload read for a zero-size entry
	src := container([][]byte{tocRecord("empty", 0, false, 0xFFFF)})

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	data, err := r.Extract("empty")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestExtractEncodedEntry(t *testing.T) {
	want := bytes.Repeat([]byte("asset data "), 50)
	enc, err := Encode(want, nil)
	require.NoError(t, err)

	payloadOffset := uint32(tocHeaderSize + tocRecordSize)
	src := container(
		[][]byte{tocRecord("m.lzs", uint32(len(enc)), true, payloadOffset)},
		enc,
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	data, err := r.Extract("m.lzs")
	require.NoError(t, err)
	require.Equal(t, want, data)
}

func TestExtractUnknownEntry(t *testing.T) {
	src := container([][]byte{tocRecord("a", 1, false, 32)}, []byte{0x7F})

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	_, err = r.Extract("nope")
	require.ErrorIs(t, err, ErrUnknownEntry)
}

func TestExtractRawTruncatedPayload(t *testing.T) {
	payloadOffset := uint32(tocHeaderSize + tocRecordSize)
	src := container(
		[][]byte{tocRecord("short", 10, false, payloadOffset)},
		[]byte("abc"), // 3 of the declared 10 bytes
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	_, err = r.Extract("short")
	require.ErrorIs(t, err, ErrTruncatedStream)
}

func TestReaderLazyTOCParse(t *testing.T) {
	// A corrupt header surfaces on first TOC access, not on construction
	r, err := NewReader(bytes.NewReader([]byte{0x05}), ReaderOptions{})
	require.NoError(t, err)

	_, err = r.Entries()
	require.ErrorIs(t, err, ErrTruncatedHeader)
}

func TestReaderCeilingPassedToDecoder(t *testing.T) {
	big, err := Encode(bytes.Repeat([]byte{'x'}, 4096), nil)
	require.NoError(t, err)

	payloadOffset := uint32(tocHeaderSize + tocRecordSize)
	src := container(
		[][]byte{tocRecord("big", uint32(len(big)), true, payloadOffset)},
		big,
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{MaxUnpackedSize: 100})
	require.NoError(t, err)

	_, err = r.Extract("big")
	require.ErrorIs(t, err, ErrOversizedPayload)
}

func TestExtractAllAbortsByDefault(t *testing.T) {
	r := twoEntryReader(t)

	_, err := r.ExtractAll(ExtractOptions{})
	require.ErrorIs(t, err, ErrInvalidPayload)
}

func TestExtractAllBestEffort(t *testing.T) {
	r := twoEntryReader(t)

	var done []string
	out, err := r.ExtractAll(ExtractOptions{
		BestEffort:  true,
		OnEntryDone: func(name string) { done = append(done, name) },
	})
	require.ErrorIs(t, err, ErrInvalidPayload)
	require.Equal(t, map[string][]byte{"good": []byte("hello")}, out)
	require.Equal(t, []string{"good"}, done)
}

// twoEntryReader builds a container with one good raw entry and one entry
// whose compressed payload has a corrupt header.
func twoEntryReader(t *testing.T) *Reader {
	t.Helper()

	base := uint32(tocHeaderSize + 2*tocRecordSize)
	bad := payload(0, 0x01, 'A') // unpacked_size 0 is invalid
	src := container(
		[][]byte{
			tocRecord("bad", uint32(len(bad)), true, base),
			tocRecord("good", 5, false, base+uint32(len(bad))),
		},
		bad,
		[]byte("hello"),
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
	require.NoError(t, err)

	return r
}

func TestExtractCacheServesDecodedBytes(t *testing.T) {
	want := bytes.Repeat([]byte("cached "), 30)
	enc, err := Encode(want, nil)
	require.NoError(t, err)

	payloadOffset := tocHeaderSize + tocRecordSize
	src := container(
		[][]byte{tocRecord("c", uint32(len(enc)), true, uint32(payloadOffset))},
		enc,
	)

	r, err := NewReader(bytes.NewReader(src), ReaderOptions{CacheSize: 4})
	require.NoError(t, err)

	first, err := r.Extract("c")
	require.NoError(t, err)
	require.Equal(t, want, first)

	// Corrupt the underlying payload; a cache hit never re-reads it
	src[payloadOffset] ^= 0xFF
	second, err := r.Extract("c")
	require.NoError(t, err)
	require.Equal(t, want, second)
}

func TestExtractTo(t *testing.T) {
	for _, workers := range []int{1, 3} {
		dir := t.TempDir()

		base := uint32(tocHeaderSize + 3*tocRecordSize)
		src := container(
			[][]byte{
				tocRecord("a.txt", 5, false, base),
				tocRecord("b.txt", 3, false, base+5),
				tocRecord("empty", 0, false, 0),
			},
			[]byte("hello"),
			[]byte("xyz"),
		)

		r, err := NewReader(bytes.NewReader(src), ReaderOptions{})
		require.NoError(t, err)

		err = r.ExtractTo(context.Background(), dir, ExtractOptions{Workers: workers})
		require.NoError(t, err)

		a, err := os.ReadFile(filepath.Join(dir, "a.txt"))
		require.NoError(t, err)
		require.Equal(t, []byte("hello"), a)

		b, err := os.ReadFile(filepath.Join(dir, "b.txt"))
		require.NoError(t, err)
		require.Equal(t, []byte("xyz"), b)

		// Zero-size entries produce no file, and staging leaves no temp files
		_, err = os.Stat(filepath.Join(dir, "empty"))
		require.True(t, os.IsNotExist(err))
		listing, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, ent := range listing {
			require.False(t, strings.HasPrefix(ent.Name(), ".leafpak-"), "stray staging file %s", ent.Name())
		}
	}
}

func TestExtractToCancelledContext(t *testing.T) {
	r := twoEntryReader(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.ExtractTo(ctx, t.TempDir(), ExtractOptions{BestEffort: true})
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "absent.pak"))
	require.Error(t, err)
}

func TestNewReaderNil(t *testing.T) {
	_, err := NewReader(nil, ReaderOptions{})
	require.ErrorIs(t, err, ErrNilReader)
}
