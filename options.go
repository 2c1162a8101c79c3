package leafpak

// DecodeOptions configures payload decoding.
type DecodeOptions struct {
	// MaxUnpackedSize rejects payloads whose declared unpacked size exceeds it,
	// before any output allocation. Zero or negative means DefaultMaxUnpacked.
	// This guards against corrupt headers, it is not a format limit.
	MaxUnpackedSize int
}

// DefaultDecodeOptions returns decode options with the default safety ceiling.
func DefaultDecodeOptions() *DecodeOptions {
	return &DecodeOptions{
		MaxUnpackedSize: DefaultMaxUnpacked,
	}
}

// EncodeOptions configures payload encoding.
type EncodeOptions struct {
	// SearchLimit caps how many history positions (backward from the write
	// cursor) are examined per match. 0 = literals only; capped at HistorySize.
	SearchLimit int
}

// DefaultEncodeOptions returns options for default encoding (full-ring search).
func DefaultEncodeOptions() *EncodeOptions {
	return &EncodeOptions{
		SearchLimit: HistorySize,
	}
}

// ReaderOptions configures a container Reader.
type ReaderOptions struct {
	// MaxUnpackedSize is passed through to the decoder for compressed entries.
	// Zero means DefaultMaxUnpacked.
	MaxUnpackedSize int
	// CacheSize enables an LRU cache of decoded entry payloads when positive.
	// Cached slices are shared between calls and must not be modified.
	CacheSize int
}

// ExtractOptions configures batch extraction.
type ExtractOptions struct {
	// Workers is the number of concurrent extraction workers for ExtractTo.
	// Values below 2 extract sequentially.
	Workers int
	// BestEffort keeps extracting past per-entry failures and returns all of
	// them joined, instead of stopping at the first one.
	BestEffort bool
	// OnEntryDone, if set, is called after each entry finishes (also on
	// failure). Calls may come from worker goroutines but never concurrently.
	OnEntryDone func(name string)
}
