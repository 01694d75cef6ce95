package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tabviz/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path string
	Name string
}

// FindTabularFiles finds source tables in dir: regular files whose extension
// is one of extensions (case-insensitive) and whose name does not carry the
// transformed marker. Results are sorted by name.
func FindTabularFiles(dir string, extensions []string) ([]FileInfo, error) {
	return find(dir, func(name string) bool {
		return HasExtension(name, extensions) && !domain.IsTransformed(name)
	})
}

// FindTransformedFiles finds derived tables in dir, sorted by name.
func FindTransformedFiles(dir string, extensions []string) ([]FileInfo, error) {
	return find(dir, func(name string) bool {
		return HasExtension(name, extensions) && domain.IsTransformed(name)
	})
}

func find(dir string, keep func(name string) bool) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !keep(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		files = append(files, FileInfo{
			Path: filepath.Join(dir, entry.Name()),
			Name: entry.Name(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// HasExtension reports whether name ends with one of extensions, ignoring case
func HasExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return false
	}
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
