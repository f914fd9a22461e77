package discovery

import (
	"path/filepath"
	"strings"
)

// IsSQLFile reports whether filename has a .sql extension (case-insensitive)
func IsSQLFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".sql")
}
