package leafpak

// Leafpak format constants.
const (
	HistorySize        = 2048      // History ring capacity (look-behind dictionary).
	MinMatch           = 3         // Fixed bias added to every back-reference length.
	MaxMatch           = 273       // Longest back-reference: nibble 15 + extension 255 + bias 3.
	PayloadHeaderSize  = 8         // packed_size u32 + unpacked_size u32.
	ControlBits        = 8         // Slots per control byte (bit 1 = literal, bit 0 = back-reference).
	EntryNameSize      = 16        // TOC record name field width (ASCII, null-padded).
	DefaultMaxUnpacked = 1_000_000 // Safety ceiling for declared unpacked_size.
)

// TOC layout constants.
const (
	tocHeaderSize = 4  // u16 entry_count_plus_one + u16 reserved.
	tocRecordSize = 28 // name[16] + size u32 + encoded u32 + offset u32.

	extendedNibble = 0xF // Length nibble value that pulls one extension byte.
)
