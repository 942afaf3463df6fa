package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteCatalog serializes the catalog into the given file path, creating
// parent directories as needed.
func WriteCatalog(cat Catalog, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cat); err != nil {
		return fmt.Errorf("encode json for %s: %w", path, err)
	}
	return nil
}
