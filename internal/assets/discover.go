package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Discover walks root/imageDir and returns every regular file as a
// root-relative, forward-slash path, sorted for a deterministic processing
// order. Symlinks to regular files count as files; symlinked directories
// are not descended. Hidden directories (".git", ".thumbs") are pruned. A
// missing or unreadable image root is an error. An absolute imageDir is
// walked as is.
func Discover(root, imageDir string) ([]string, error) {
	start := filepath.FromSlash(imageDir)
	if !filepath.IsAbs(start) {
		start = filepath.Join(root, start)
	}
	var files []string
	err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != start && len(d.Name()) > 1 && d.Name()[0] == '.' {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegular(p, d) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", p, err)
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// isRegular reports whether d is a regular file or a symlink resolving to
// one. Dangling links are ignored.
func isRegular(p string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
