package archive

import (
	"net/url"
	"path"
)

// Ext returns the archive suffix of name, ".tar.gz" when none is recognised
func Ext(name string) string {
	switch formatFromName(path.Base(name)) {
	case FormatRpm:
		return ".rpm"
	case FormatZstd:
		return ".tar.zst"
	case FormatXz:
		return ".tar.xz"
	case FormatTar:
		return ".tar"
	default:
		return ".tar.gz"
	}
}

// FileName returns the last path element of rawURL, or fallback when the
// URL has none
func FileName(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	return base
}
