package leafpak

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/panjf2000/ants/v2"
)

// Reader provides access to one Leafpak container. The TOC is parsed on
// first use and cached for the lifetime of the handle. Extraction methods
// use positioned reads only, so they are safe for concurrent use.
type Reader struct {
	ra     io.ReaderAt
	closer io.Closer
	opts   ReaderOptions

	mu      sync.Mutex
	parsed  bool
	entries []Entry
	byName  map[string]int

	cache *lru.Cache[string, []byte]
}

// Open opens a container file with default options.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens a container file.
func OpenWithOptions(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path) // #nosec G304 -- caller-chosen archive path
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	r.closer = f

	return r, nil
}

// NewReader wraps an already-open positioned byte source.
func NewReader(ra io.ReaderAt, opts ReaderOptions) (*Reader, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	r := &Reader{ra: ra, opts: opts}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []byte](opts.CacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}

	return r, nil
}

// Close releases the underlying file, if the Reader owns one.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}

	return r.closer.Close()
}

// Entries returns all TOC entries in container order.
func (r *Reader) Entries() ([]Entry, error) {
	if err := r.ensureTOC(); err != nil {
		return nil, err
	}

	out := make([]Entry, len(r.entries))
	copy(out, r.entries)

	return out, nil
}

// Entry resolves one TOC entry by name.
func (r *Reader) Entry(name string) (Entry, error) {
	if err := r.ensureTOC(); err != nil {
		return Entry{}, err
	}

	i, ok := r.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownEntry, name)
	}

	return r.entries[i], nil
}

// Extract returns the decoded bytes of one entry. Zero-size entries yield an
// empty slice without touching the payload region. With a cache configured,
// returned slices may be shared and must not be modified.
func (r *Reader) Extract(name string) ([]byte, error) {
	e, err := r.Entry(name)
	if err != nil {
		return nil, err
	}

	if e.Size == 0 {
		return []byte{}, nil
	}

	if r.cache != nil {
		if data, ok := r.cache.Get(name); ok {
			return data, nil
		}
	}

	var data []byte
	if e.Encoded {
		data, err = DecodeAt(r.ra, int64(e.Offset), &DecodeOptions{MaxUnpackedSize: r.opts.MaxUnpackedSize})
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
	} else {
		data = make([]byte, e.Size)
		if _, err := r.ra.ReadAt(data, int64(e.Offset)); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				err = fmt.Errorf("%w: raw payload of %d bytes at %d", ErrTruncatedStream, e.Size, e.Offset)
			}

			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
	}

	if r.cache != nil {
		r.cache.Add(name, data)
	}

	return data, nil
}

// ExtractAll extracts every entry into memory, keyed by name. The default
// policy aborts on the first failure; BestEffort collects the failures,
// keeps going, and returns them joined alongside the successful entries.
func (r *Reader) ExtractAll(opts ExtractOptions) (map[string][]byte, error) {
	entries, err := r.Entries()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(entries))
	var failures []error

	for _, e := range entries {
		data, err := r.Extract(e.Name)
		if err != nil {
			if !opts.BestEffort {
				return nil, err
			}

			failures = append(failures, err)
			continue
		}

		out[e.Name] = data
		if opts.OnEntryDone != nil {
			opts.OnEntryDone(e.Name)
		}
	}

	return out, errors.Join(failures...)
}

// ExtractTo writes every entry to a file under dir. Each entry is staged to a
// temp file and renamed on success, so a failed entry never leaves partial
// output. Zero-size entries are skipped (no file write). Workers above 1 run
// entries on an ants pool; each task reads through its own positioned view.
func (r *Reader) ExtractTo(ctx context.Context, dir string, opts ExtractOptions) error {
	entries, err := r.Entries()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	if opts.Workers < 2 {
		return r.extractSequential(ctx, dir, entries, opts)
	}

	return r.extractParallel(ctx, dir, entries, opts)
}

func (r *Reader) extractSequential(ctx context.Context, dir string, entries []Entry, opts ExtractOptions) error {
	var failures []error

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			failures = append(failures, err)
			break
		}

		if err := r.extractEntryToFile(dir, e); err != nil {
			if !opts.BestEffort {
				return err
			}
			failures = append(failures, err)
			continue
		}

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(e.Name)
		}
	}

	return errors.Join(failures...)
}

func (r *Reader) extractParallel(ctx context.Context, dir string, entries []Entry, opts ExtractOptions) error {
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			mu.Lock()
			failures = append(failures, err)
			mu.Unlock()
			break
		}

		e := e
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			err := r.extractEntryToFile(dir, e)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			if opts.OnEntryDone != nil {
				opts.OnEntryDone(e.Name)
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failures = append(failures, submitErr)
			mu.Unlock()
			break
		}
	}

	wg.Wait()

	if len(failures) == 0 {
		return nil
	}
	if !opts.BestEffort {
		return failures[0]
	}

	return errors.Join(failures...)
}

// extractEntryToFile decodes one entry and commits it under dir via a staged
// temp file. Extract itself never reads the payload for zero-size entries;
// here they produce no file at all.
func (r *Reader) extractEntryToFile(dir string, e Entry) error {
	if err := validateEntryName(e.Name); err != nil {
		return err
	}

	if e.Size == 0 {
		return nil
	}

	data, err := r.Extract(e.Name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".leafpak-*")
	if err != nil {
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("entry %q: %w", e.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("entry %q: %w", e.Name, err)
	}

	if err := os.Rename(tmp.Name(), filepath.Join(dir, e.Name)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("entry %q: %w", e.Name, err)
	}

	return nil
}

// ensureTOC parses and caches the table of contents on first use.
func (r *Reader) ensureTOC() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.parsed {
		return nil
	}

	section := io.NewSectionReader(r.ra, 0, math.MaxInt64)
	entries, err := parseTOC(section)
	if err != nil {
		return err
	}

	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		byName[e.Name] = i
	}

	r.entries = entries
	r.byName = byName
	r.parsed = true

	return nil
}
