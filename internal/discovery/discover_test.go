package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestIsSQLFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"schema.sql", true},
		{"SCHEMA.SQL", true},
		{"nested/path/data.Sql", true},
		{"notes.txt", false},
		{"sql", false},
		{"schema.sql.bak", false},
	}
	for _, tt := range tests {
		if got := IsSQLFile(tt.name); got != tt.want {
			t.Errorf("IsSQLFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.sql"), "select 1;")
	writeFile(t, filepath.Join(root, "sub", "b.SQL"), "select 2;")
	writeFile(t, filepath.Join(root, "sub", "readme.md"), "# not sql")

	files, err := Discover(root)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Discover() found %d files, want 2: %+v", len(files), files)
	}

	rel := map[string]bool{}
	for _, f := range files {
		rel[f.RelativePath] = true
		if !filepath.IsAbs(f.Path) {
			t.Errorf("Path %q is not absolute", f.Path)
		}
	}
	if !rel["a.sql"] || !rel[filepath.Join("sub", "b.SQL")] {
		t.Errorf("Discover() relative paths = %v", rel)
	}
}

func TestDiscover_Errors(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "a.sql")
	writeFile(t, file, "select 1;")

	if _, err := Discover(filepath.Join(root, "missing")); err == nil {
		t.Error("Discover() on missing directory: expected error")
	}
	if _, err := Discover(file); err == nil {
		t.Error("Discover() on a file: expected error")
	}
}

func TestDiscoverPaths(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "2.sql"), "select 2;")
	writeFile(t, filepath.Join(root, "dir", "1.sql"), "select 1;")
	script := filepath.Join(root, "script.psql")
	writeFile(t, script, "select 3;")

	files, err := DiscoverPaths([]string{script, filepath.Join(root, "dir"), "-", script})
	if err != nil {
		t.Fatalf("DiscoverPaths() error = %v", err)
	}

	var got []string
	for _, f := range files {
		got = append(got, filepath.Base(f.Path))
	}
	want := []string{"script.psql", "1.sql", "2.sql", "-"}
	if len(got) != len(want) {
		t.Fatalf("DiscoverPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DiscoverPaths()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if !files[3].IsStdin() {
		t.Error("IsStdin() = false for -")
	}
}

func TestDiscoverPaths_DefaultsToStdin(t *testing.T) {
	files, err := DiscoverPaths(nil)
	if err != nil {
		t.Fatalf("DiscoverPaths() error = %v", err)
	}
	if len(files) != 1 || !files[0].IsStdin() {
		t.Errorf("DiscoverPaths(nil) = %+v, want stdin", files)
	}
}

func TestDiscoverPaths_Missing(t *testing.T) {
	if _, err := DiscoverPaths([]string{filepath.Join(t.TempDir(), "nope.sql")}); err == nil {
		t.Error("DiscoverPaths() on missing path: expected error")
	}
}
