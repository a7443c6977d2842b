package archive

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sassoftware/go-rpmutils"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// Extractor unpacks an archive file into a directory
type Extractor interface {
	Extract(ctx context.Context, archivePath, dest string) error
}

// FileExtractor implements Extractor for the formats DetectFormat knows
type FileExtractor struct{}

// NewFileExtractor creates a new extractor
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract unpacks archivePath into dest, which must already exist. Entries
// keep their paths relative to dest, like tar -xf archive -C dest.
func (e *FileExtractor) Extract(ctx context.Context, archivePath, dest string) error {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return fmt.Errorf("failed to detect archive format: %w", err)
	}

	logrus.Debugf("Extracting %s archive %s into %s", format, archivePath, dest)

	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	var tarReader *tar.Reader

	switch format {
	case FormatRpm:
		rpm, err := rpmutils.ReadRpm(f)
		if err != nil {
			return fmt.Errorf("failed to read RPM: %w", err)
		}
		if err := rpm.ExpandPayload(dest); err != nil {
			return fmt.Errorf("failed to expand RPM payload: %w", err)
		}
		return nil
	case FormatGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		tarReader = tar.NewReader(gr)
	case FormatZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		tarReader = tar.NewReader(zr)
	case FormatXz:
		xr, err := xz.NewReader(f)
		if err != nil {
			return err
		}
		tarReader = tar.NewReader(xr)
	case FormatTar:
		tarReader = tar.NewReader(f)
	default:
		return fmt.Errorf("unsupported archive format: %s", filepath.Base(archivePath))
	}

	return untar(ctx, tarReader, dest)
}

// untar writes every entry of tr below dest. "../" and absolute names are
// clamped to dest, like tar does by default.
func untar(ctx context.Context, tr *tar.Reader, dest string) error {
	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		target, err := entryPath(dest, header.Name)
		if err != nil {
			return fmt.Errorf("invalid entry %q: %w", header.Name, err)
		}
		if target == "" {
			continue
		}

		mode := header.FileInfo().Mode().Perm()

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, mode|0700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, mode); err != nil {
				return fmt.Errorf("failed to write %s: %w", header.Name, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.RemoveAll(target); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return err
			}
		case tar.TypeLink:
			source, err := securejoin.SecureJoin(dest, header.Linkname)
			if err != nil {
				return fmt.Errorf("invalid link %q: %w", header.Linkname, err)
			}
			if err := os.RemoveAll(target); err != nil {
				return err
			}
			if err := os.Link(source, target); err != nil {
				return err
			}
		default:
			logrus.Debugf("Skipping %s (type %c)", header.Name, header.Typeflag)
			continue
		}
		count++
	}

	logrus.Debugf("Extracted %d entries into %s", count, dest)
	return nil
}

// entryPath resolves the parent of name inside dest. The last element is
// not resolved so that an existing symlink there is replaced, not followed.
func entryPath(dest, name string) (string, error) {
	name = filepath.Clean(name)
	base := filepath.Base(name)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", nil
	}

	parent, err := securejoin.SecureJoin(dest, filepath.Dir(name))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, base), nil
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	// Never write through a symlink left by an earlier entry or run
	if fi, err := os.Lstat(target); err == nil && fi.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
