// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/leafpak

/*
Package leafpak reads and writes Leafpak game-asset containers and implements
the LZSS variant used for compressed entries inside them.

Container layout (little-endian): u16 entry count plus one, u16 reserved,
then (count-1) 28-byte TOC records of name[16] (ASCII, null-padded),
size u32, encoded u32 (nonzero = compressed), offset u32 (absolute),
followed by the concatenated entry payloads.

Compressed payload: packed_size u32, unpacked_size u32, then packed_size-8
bytes of body. One control byte per 8 slots, bits consumed LSB first;
bit 1 = literal (1 byte), bit 0 = back-reference (u16 LE token: high 12 bits
look-behind position in the 2048-byte history ring, low 4 bits length nibble;
nibble 15 adds an extension byte; final length = nibble [+ ext] + 3).
The history ring is seeded with the first written byte's value across its
whole capacity, and back-reference runs are copied first and fed back into
the ring from the output buffer afterwards. Both quirks are load-bearing for
byte-exact compatibility with existing archives.

Use Decode(src, opts) to decompress a payload slice, nil opts for defaults.
Use DecodeAt(ra, offset, opts) to decode a payload embedded in a container.
Use DecodeFrom(r, opts) to decode from a stream and get consumed bytes.
Use Encode(data, opts) to produce a payload whose Decode round-trips.
Use Open / OpenWithOptions for container access, Pack / PackFile / PackDir
to create raw (uncompressed) containers.

# Reading

Open a container and list or extract entries:

	r, err := leafpak.Open("WAMES.pak")
	if err != nil {
		return err
	}
	defer r.Close()
	entries, err := r.Entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		data, _ := r.Extract(e.Name)
		// use data
	}

For repeated access to the same compressed entries, enable the decoded cache:

	r, err := leafpak.OpenWithOptions("WAMES.pak", leafpak.ReaderOptions{
		CacheSize: 32,
	})

# Extracting

Extract every entry to a directory (parallel workers):

	err := r.ExtractTo(ctx, "out/", leafpak.ExtractOptions{Workers: 4})

Best-effort mode keeps going past corrupt entries and reports them joined:

	err := r.ExtractTo(ctx, "out/", leafpak.ExtractOptions{
		Workers:    4,
		BestEffort: true,
	})

# Creating

Created containers always store raw payloads (the format's writer contract):

	err := leafpak.PackFile("new.pak", []leafpak.Input{
		{Name: "a.txt", Data: a},
		{Name: "b.txt", Data: b},
	})

or pack a whole directory of regular files:

	err := leafpak.PackDir("new.pak", "assets/")

# Codec round-trip

	enc, err := leafpak.Encode(data, nil)
	if err != nil {
		return err
	}
	dec, err := leafpak.Decode(enc, nil)
	if err != nil {
		return err
	}
	// dec equals data
*/
package leafpak
