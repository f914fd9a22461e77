package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Discover recursively finds all SQL files in the given directory
func Discover(rootPath string) ([]DiscoveredFile, error) {
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Check if directory exists
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", absRoot)
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absRoot)
	}

	var files []DiscoveredFile

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Skip directories we can't access
			if os.IsPermission(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !IsSQLFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		files = append(files, DiscoveredFile{
			Path:         path,
			RelativePath: relPath,
			ModTime:      info.ModTime(),
			Size:         info.Size(),
		})

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// DiscoverPaths resolves command-line arguments into files. Directories are
// searched recursively for *.sql files, regular files are taken as given
// whatever their extension, and "-" (or no argument at all) stands for
// standard input. Files are returned in argument order, each directory's
// files sorted by path, without duplicates.
func DiscoverPaths(paths []string) ([]DiscoveredFile, error) {
	if len(paths) == 0 {
		return []DiscoveredFile{Stdin()}, nil
	}

	var files []DiscoveredFile
	seen := make(map[string]bool)
	add := func(f DiscoveredFile) {
		if !seen[f.Path] {
			seen[f.Path] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		if p == StdinPath {
			add(Stdin())
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path not found: %s", p)
			}
			return nil, fmt.Errorf("failed to access %s: %w", p, err)
		}

		if !info.IsDir() {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, fmt.Errorf("failed to get absolute path: %w", err)
			}
			add(DiscoveredFile{
				Path:         abs,
				RelativePath: p,
				ModTime:      info.ModTime(),
				Size:         info.Size(),
			})
			continue
		}

		found, err := Discover(p)
		if err != nil {
			return nil, err
		}
		sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
		for _, f := range found {
			f.RelativePath = filepath.Join(p, f.RelativePath)
			add(f)
		}
	}

	return files, nil
}
