// Package fsops provides the filesystem primitives used for staging assets.
// The central operation is a merge copy: source files overlay the destination,
// overwriting same-path files while leaving unrelated destination files alone.
package fsops

import (
	"io"
	"os"
	"path/filepath"
)

// CopyStats summarizes a completed copy for logging and metrics.
type CopyStats struct {
	Files int
	Bytes int64
}

// CopyDir recursively merge-copies src into dst. The destination directory is
// created if absent. Existing destination files at a source-relative path are
// overwritten; destination files with no source counterpart are preserved.
//
// The source is stat'd before anything is created at dst, so a missing source
// fails without leaving an empty destination behind. The copy itself is not
// transactional; an interrupted run leaves a partial destination that a rerun
// repairs.
func CopyDir(src, dst string) (CopyStats, error) {
	var stats CopyStats

	srcInfo, err := os.Stat(src)
	if err != nil {
		return stats, err
	}

	if err := os.MkdirAll(dst, srcInfo.Mode()); err != nil {
		return stats, err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return stats, err
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		if entry.IsDir() {
			sub, err := CopyDir(srcPath, dstPath)
			if err != nil {
				return stats, err
			}
			stats.Files += sub.Files
			stats.Bytes += sub.Bytes
		} else {
			n, err := CopyFile(srcPath, dstPath)
			if err != nil {
				return stats, err
			}
			stats.Files++
			stats.Bytes += n
		}
	}

	return stats, nil
}

// CopyFile copies a single file from src to dst, truncating any existing
// destination file and preserving the source file mode. It returns the number
// of bytes written.
func CopyFile(src, dst string) (int64, error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		return n, err
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return n, err
	}
	return n, os.Chmod(dst, srcInfo.Mode())
}
