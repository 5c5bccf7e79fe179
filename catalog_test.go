package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTestFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write test file: %v", err)
		}
	}
}

func entryPaths(entries []CatalogEntry) []string {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}

func testCatalog(paths ...string) *Catalog {
	entries := make([]CatalogEntry, len(paths))
	for i, p := range paths {
		entries[i] = CatalogEntry{Path: p, Ordinal: i}
	}
	return &Catalog{entries: entries}
}

func TestBuildCatalogFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "b.png", "a.jpg", "c.txt", "d.gif")

	catalog, err := buildCatalog([]string{dir}, false, CatalogOptions{SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "d.gif"),
	}
	if got := entryPaths(catalog.Entries()); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected entries %v, got %v", expected, got)
	}

	for i, e := range catalog.Entries() {
		if e.Ordinal != i {
			t.Errorf("Expected ordinal %d, got %d", i, e.Ordinal)
		}
	}
}

func TestBuildCatalogShallowSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.png", filepath.Join("sub", "b.png"))

	catalog, err := buildCatalog([]string{dir}, false, CatalogOptions{SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", catalog.Len())
	}

	recursive, err := buildCatalog([]string{dir}, false, CatalogOptions{Recursive: true, SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}
	if recursive.Len() != 2 {
		t.Errorf("Expected 2 entries with recursion, got %d", recursive.Len())
	}
}

func TestBuildCatalogDeduplicatesTargets(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.png")
	file := filepath.Join(dir, "a.png")

	catalog, err := buildCatalog([]string{file, dir}, false, CatalogOptions{SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}
	if catalog.Len() != 1 {
		t.Errorf("Expected 1 entry after dedup, got %d", catalog.Len())
	}
}

func TestBuildCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "notes.txt")

	if _, err := buildCatalog([]string{dir}, false, CatalogOptions{SortMethod: SortLexical}); !errors.Is(err, ErrNoImages) {
		t.Errorf("Expected ErrNoImages, got %v", err)
	}

	if _, err := buildCatalog([]string{filepath.Join(dir, "missing")}, false, CatalogOptions{SortMethod: SortLexical}); err == nil {
		t.Error("Expected error for missing target")
	}
}

func TestBuildCatalogDirModeSelectsStartingFile(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.png", "b.png", "c.png")
	start := filepath.Join(dir, "b.png")

	catalog, err := buildCatalog([]string{start, dir}, true, CatalogOptions{SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}
	cur, ok := catalog.Current()
	if !ok || cur.Path != start {
		t.Errorf("Expected current %s, got %s", start, cur.Path)
	}
}

func TestAdvanceClampsAtBoundaries(t *testing.T) {
	tests := []struct {
		name          string
		start         int
		delta         int
		expectedIndex int
		expectChanged bool
	}{
		{"Forward", 0, 1, 1, true},
		{"Backward", 2, -1, 1, true},
		{"Clamp at end", 2, 1, 2, false},
		{"Clamp at start", 0, -1, 0, false},
		{"Big step clamps", 1, 100, 2, true},
		{"Big backward step clamps", 1, -100, 0, true},
		{"Zero delta", 1, 0, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCatalog("a.png", "b.png", "c.png")
			c.current = tt.start
			changed := c.Advance(tt.delta)
			if changed != tt.expectChanged {
				t.Errorf("Expected changed=%v, got %v", tt.expectChanged, changed)
			}
			if c.Index() != tt.expectedIndex {
				t.Errorf("Expected index %d, got %d", tt.expectedIndex, c.Index())
			}
		})
	}
}

func TestAdvanceOnEmptyCatalog(t *testing.T) {
	c := &Catalog{}
	if c.Advance(1) {
		t.Error("Expected Advance on empty catalog to report no change")
	}
	if _, ok := c.Current(); ok {
		t.Error("Expected no current entry on empty catalog")
	}
}

func TestNeighborsInterleaved(t *testing.T) {
	c := testCatalog("a.png", "b.png", "c.png", "d.png", "e.png")
	c.current = 2

	got := entryPaths(c.Neighbors(2))
	expected := []string{"d.png", "b.png", "e.png", "a.png"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected neighbors %v, got %v", expected, got)
	}
}

func TestNeighborsAtBoundary(t *testing.T) {
	c := testCatalog("a.png", "b.png", "c.png")
	c.current = 0

	got := entryPaths(c.Neighbors(2))
	expected := []string{"b.png", "c.png"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected neighbors %v, got %v", expected, got)
	}
}

func TestApplyRefreshKeepsCurrentByPath(t *testing.T) {
	c := testCatalog("a.png", "b.png", "c.png")
	c.current = 1

	// b.png survives the rescan at a different position.
	c.ApplyRefresh([]CatalogEntry{
		{Path: "a.png", Ordinal: 0},
		{Path: "a2.png", Ordinal: 1},
		{Path: "b.png", Ordinal: 2},
	})

	cur, ok := c.Current()
	if !ok || cur.Path != "b.png" {
		t.Errorf("Expected current b.png after refresh, got %v", cur.Path)
	}
	if c.Index() != 2 {
		t.Errorf("Expected index 2, got %d", c.Index())
	}
}

func TestApplyRefreshVanishedCurrentClampsOrdinal(t *testing.T) {
	c := testCatalog("a.png", "b.png", "c.png")
	c.current = 2

	// c.png is gone; the selection clamps to the old ordinal's position.
	c.ApplyRefresh([]CatalogEntry{
		{Path: "a.png", Ordinal: 0},
		{Path: "b.png", Ordinal: 1},
	})

	cur, ok := c.Current()
	if !ok || cur.Path != "b.png" {
		t.Errorf("Expected current b.png after refresh, got %v", cur.Path)
	}
}

func TestApplyRefreshToEmpty(t *testing.T) {
	c := testCatalog("a.png")
	c.ApplyRefresh(nil)
	if c.Len() != 0 {
		t.Errorf("Expected empty catalog, got %d entries", c.Len())
	}
	if _, ok := c.Current(); ok {
		t.Error("Expected no current entry after refreshing to empty")
	}
}

func TestIsSupportedExt(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"PNG file", "test.png", true},
		{"JPG file", "test.jpg", true},
		{"JPEG file", "test.jpeg", true},
		{"WebP file", "test.webp", true},
		{"BMP file", "test.bmp", true},
		{"GIF file", "test.gif", true},
		{"TIFF file", "test.tiff", true},
		{"TIF file", "test.tif", true},
		{"PNG uppercase", "test.PNG", true},
		{"Text file", "test.txt", false},
		{"No extension", "test", false},
		{"Empty string", "", false},
		{"Multiple dots", "test.backup.jpg", true},
		{"Path with directory", "/path/to/test.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSupportedExt(tt.path); got != tt.expected {
				t.Errorf("isSupportedExt(%s) = %v, want %v", tt.path, got, tt.expected)
			}
		})
	}
}

func TestIsArchiveExt(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.zip", true},
		{"a.rar", true},
		{"a.7z", true},
		{"a.ZIP", true},
		{"a.png", false},
		{"a.tar", false},
	}

	for _, tt := range tests {
		if got := isArchiveExt(tt.path); got != tt.expected {
			t.Errorf("isArchiveExt(%s) = %v, want %v", tt.path, got, tt.expected)
		}
	}
}
