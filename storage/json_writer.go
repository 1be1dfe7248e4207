package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"openhouse-aggregator/models"
)

// WriteJSON serializes a cleaned batch to a local file for inspection.
// This is a debug convenience, not part of the network contract.
// Intermediate directories are created automatically.
func WriteJSON(path string, batch []*models.CanonicalListing) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("json: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("json: create file %q: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(batch); err != nil {
		return fmt.Errorf("json: encode batch: %w", err)
	}
	return nil
}
