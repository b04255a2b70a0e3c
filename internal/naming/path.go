package naming

import (
	"path"
	"regexp"
	"strings"
)

// ImageExtensions lists the recognized image extensions (lowercase, with dot).
// Browsers handle jpg/png/webp; heic/heif are accepted for staging.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".heic": true,
	".heif": true,
}

var reImageSuffix = regexp.MustCompile(`(?i)\.(jpeg|jpg|png|webp|heic|heif)$`)

// NormalizePath replaces backslash separators with forward slashes.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// BaseIdentifier returns the filename of p without directories, lower-cased,
// with a known image extension stripped. Unknown extensions are kept, so
// malformed input degrades to a case-folded filename instead of failing.
func BaseIdentifier(p string) string {
	b := path.Base(NormalizePath(strings.TrimSpace(p)))
	if b == "." || b == "/" {
		return ""
	}
	return strings.ToLower(reImageSuffix.ReplaceAllString(b, ""))
}

// BareName returns the filename of p without directories and without its
// last extension, preserving case. It is the join key for the rich table's
// file column.
func BareName(p string) string {
	b := path.Base(NormalizePath(strings.TrimSpace(p)))
	if b == "." || b == "/" {
		return ""
	}
	return strings.TrimSuffix(b, path.Ext(b))
}

// IsImage reports whether p has a recognized image extension (any case).
func IsImage(p string) bool {
	return ImageExtensions[strings.ToLower(path.Ext(NormalizePath(p)))]
}
