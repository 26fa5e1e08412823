// Package archive streams a directory tree into a single ZIP container,
// used for whole-directory downloads and for share links that point at a
// directory.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

var (
	// ErrNotADirectory signals that the archive source is missing or not a
	// directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrArchiveIO signals a read or write failure while producing the
	// archive. Partial sink output is possible; callers are expected to
	// discard it.
	ErrArchiveIO = errors.New("archive i/o failure")
)

// Copy buffer tiers by source file size. Any tier produces identical output
// bytes; the split only bounds peak memory while keeping large-file
// throughput acceptable.
const (
	tierSmall  = 100 << 10 // ≤100 KiB: 8 KiB buffer
	tierMedium = 1 << 20   // ≤1 MiB: 16 KiB buffer
	tierLarge  = 40 << 20  // ≤40 MiB: 256 KiB buffer
)

func bufferFor(size int64) []byte {
	switch {
	case size <= tierSmall:
		return make([]byte, 8<<10)
	case size <= tierMedium:
		return make([]byte, 16<<10)
	case size <= tierLarge:
		return make([]byte, 256<<10)
	default:
		return make([]byte, 2<<20)
	}
}

// WriteDir walks dir in lexical order and writes its contents to sink as a
// ZIP stream. Every regular file becomes an entry named by its path
// relative to dir; every empty directory becomes a directory-only entry so
// it survives a round trip. Other entry types (sockets, devices, symlinks)
// are skipped.
func WriteDir(dir string, sink io.Writer) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", dir, ErrNotADirectory)
	}

	zw := zip.NewWriter(sink)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			return addDirIfEmpty(zw, path, filepath.ToSlash(rel))
		}
		if !d.Type().IsRegular() {
			return nil
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})
	if err != nil {
		_ = zw.Close()
		return fmt.Errorf("%w: %w", ErrArchiveIO, err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveIO, err)
	}
	return nil
}

func addDirIfEmpty(zw *zip.Writer, path, name string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		// Non-empty directories are implied by their files' entry names.
		return nil
	}
	_, err = zw.Create(name + "/")
	return err
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := zip.FileInfoHeader(fi)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}

	_, err = io.CopyBuffer(w, retryReader{f}, bufferFor(fi.Size()))
	return err
}

// retryReader retries reads interrupted by a signal instead of failing the
// whole archive.
type retryReader struct {
	r io.Reader
}

func (rr retryReader) Read(p []byte) (int, error) {
	for {
		n, err := rr.r.Read(p)
		if n == 0 && errors.Is(err, syscall.EINTR) {
			continue
		}
		return n, err
	}
}
