package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"equipment-catalog/internal"
)

// EncodeCatalog renders entries as 2-space indented JSON with literal
// non-ASCII characters and a single trailing newline.
func EncodeCatalog(entries []internal.Entry) ([]byte, error) {
	if entries == nil {
		entries = []internal.Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCatalog replaces dest with the encoded catalog. The file is written
// next to dest and renamed over it, so readers never see a partial catalog.
func WriteCatalog(entries []internal.Entry, dest string) error {
	blob, err := EncodeCatalog(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(blob); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}

func ReadCatalog(path string) ([]internal.Entry, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []internal.Entry
	if err := json.Unmarshal(blob, &entries); err != nil {
		return nil, fmt.Errorf("%w: catalog %s: %w", internal.ErrParse, path, err)
	}
	return entries, nil
}
