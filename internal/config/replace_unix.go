//go:build !windows

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

func replaceFile(from, to string) error {
	if err := os.Rename(from, to); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	// Persist the rename itself; failure here leaves a valid file behind.
	if d, err := os.Open(filepath.Dir(to)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}
