package leafpak

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Input is one file to place into a created container.
type Input struct {
	Name string
	Data []byte
}

// Pack writes a complete container (TOC + raw payloads) to w. Inputs are laid
// out sorted by name; created entries are never compressed.
func Pack(w io.Writer, inputs []Input) error {
	toc, entries, err := buildTOC(inputs)
	if err != nil {
		return err
	}

	if _, err := w.Write(toc); err != nil {
		return err
	}

	byName := make(map[string][]byte, len(inputs))
	for _, in := range inputs {
		byName[in.Name] = in.Data
	}

	for _, e := range entries {
		if _, err := w.Write(byName[e.Name]); err != nil {
			return fmt.Errorf("entry %q: %w", e.Name, err)
		}
	}

	return nil
}

// PackFile writes a container to path through a staged temp file, committing
// with a rename only on success. A failed pack never corrupts an existing
// archive at path.
func PackFile(path string, inputs []Input) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".leafpak-pack-*")
	if err != nil {
		return err
	}

	if err := Pack(tmp, inputs); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	return nil
}

// PackDir packs every regular file directly under dir into a container at
// path. Subdirectories are skipped; the format has no path separators.
func PackDir(path, dir string) error {
	listing, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	var inputs []Input
	for _, ent := range listing {
		if !ent.Type().IsRegular() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, ent.Name())) // #nosec G304 -- enumerated from caller's dir
		if err != nil {
			return err
		}

		inputs = append(inputs, Input{Name: ent.Name(), Data: data})
	}

	return PackFile(path, inputs)
}
