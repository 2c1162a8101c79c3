package leafpak

// history is the fixed-capacity ring dictionary shared by encoder and decoder.
// Token positions are absolute indexes into its address space, reduced modulo
// HistorySize on read. A fresh instance is used per codec call.
type history struct {
	buf  [HistorySize]byte
	pos  int // write cursor, always in [0, HistorySize)
	size int // valid bytes, saturates at HistorySize
}

// input appends one byte at the cursor and advances it modulo capacity.
// The very first byte seeds the whole ring with its value before the normal
// write; existing archives depend on this exact initialization.
func (h *history) input(b byte) {
	if h.size == 0 {
		for i := range h.buf {
			h.buf[i] = b
		}
	}

	h.buf[h.pos] = b
	h.pos = (h.pos + 1) % HistorySize
	if h.size < HistorySize {
		h.size++
	}
}

// read returns the byte at pos modulo capacity. Slots never written read as
// zero (or as the seed value once anything has been fed).
func (h *history) read(pos int) byte {
	return h.buf[pos%HistorySize]
}
