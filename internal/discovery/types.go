package discovery

import "time"

// StdinPath names standard input in place of a file path
const StdinPath = "-"

// DiscoveredFile represents a SQL file discovered during filesystem traversal
type DiscoveredFile struct {
	Path         string    // Absolute path to file, or StdinPath
	RelativePath string    // Path relative to search root
	ModTime      time.Time // Last modification time
	Size         int64
}

// IsStdin reports whether the file stands for standard input
func (f *DiscoveredFile) IsStdin() bool {
	return f.Path == StdinPath
}

// Stdin returns the DiscoveredFile standing for standard input
func Stdin() DiscoveredFile {
	return DiscoveredFile{Path: StdinPath, RelativePath: "<stdin>"}
}
