package feed

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile replaces the feed artifact atomically: the document lands in a
// temp file first, then renames over the target, so readers never observe a
// partially written feed.
func WriteFile(path, content string) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".marit-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write feed: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace feed file: %w", err)
	}

	return nil
}
