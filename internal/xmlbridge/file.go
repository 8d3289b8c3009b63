package xmlbridge

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
)

// SaveToFile exports the user's tasks to an XML file on disk, creating the
// parent directory if needed.
func (b *Bridge) SaveToFile(ctx context.Context, userID uint, path string) error {
	data, err := b.Export(ctx, userID)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create xml dir %q: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write xml file %q: %w", path, err)
	}
	return nil
}

// LoadFromFile imports tasks from an XML file on disk.
func (b *Bridge) LoadFromFile(ctx context.Context, userID uint, path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return b.Import(ctx, userID, data)
}

// ParseFile reads and parses an XML file without touching the store. It is
// used to hand the document to the UI as JSON.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}
