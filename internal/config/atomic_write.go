package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// atomicWriteFile writes data next to path and swaps it into place, so
// readers see either the old file or the new one.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if runtime.GOOS != "windows" {
		if err := f.Chmod(perm); err != nil {
			_ = f.Close()
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	return replaceFile(tmp, path)
}
