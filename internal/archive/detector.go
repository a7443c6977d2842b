package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Format represents the container/compression of an archive
type Format int

const (
	FormatUnknown Format = iota
	FormatTar
	FormatGzip
	FormatZstd
	FormatXz
	FormatRpm
)

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatTar:
		return "tar"
	case FormatGzip:
		return "tar.gz"
	case FormatZstd:
		return "tar.zst"
	case FormatXz:
		return "tar.xz"
	case FormatRpm:
		return "rpm"
	default:
		return "unknown"
	}
}

// Magic bytes for archive detection
var (
	// RPM packages start with 0xED 0xAB 0xEE 0xDB
	rpmMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

	gzipMagic = []byte{0x1F, 0x8B}

	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

	xzMagic = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}

	// POSIX and GNU tar headers carry "ustar" at offset 257
	tarMagic       = []byte("ustar")
	tarMagicOffset = 257
)

// DetectFormat determines the archive format based on magic bytes, falling
// back to the file name when the header is inconclusive
func DetectFormat(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, err
	}
	defer f.Close()

	// Read first 512 bytes for magic byte detection
	header := make([]byte, 512)
	n, err := f.Read(header)
	if err != nil && n == 0 {
		return FormatUnknown, err
	}
	header = header[:n]

	switch {
	case bytes.HasPrefix(header, rpmMagic):
		return FormatRpm, nil
	case bytes.HasPrefix(header, gzipMagic):
		return FormatGzip, nil
	case bytes.HasPrefix(header, zstdMagic):
		return FormatZstd, nil
	case bytes.HasPrefix(header, xzMagic):
		return FormatXz, nil
	case len(header) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(header[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return FormatTar, nil
	}

	return formatFromName(filepath.Base(path)), nil
}

func formatFromName(name string) Format {
	switch {
	case strings.HasSuffix(name, ".rpm"):
		return FormatRpm
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return FormatGzip
	case strings.HasSuffix(name, ".tar.zst"):
		return FormatZstd
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return FormatXz
	case strings.HasSuffix(name, ".tar"):
		return FormatTar
	default:
		return FormatUnknown
	}
}
