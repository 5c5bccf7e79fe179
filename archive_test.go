package main

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type zipMember struct {
	name string
	body string
}

func writeTestZip(t *testing.T, path string, members []zipMember) {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, m := range members {
		f, err := w.Create(m.name)
		if err != nil {
			t.Fatalf("Failed to create zip member %s: %v", m.name, err)
		}
		if _, err := f.Write([]byte(m.body)); err != nil {
			t.Fatalf("Failed to write zip member %s: %v", m.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write zip file: %v", err)
	}
}

func TestListArchiveImagesZip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "comic.zip")
	writeTestZip(t, archivePath, []zipMember{
		{name: "page1.png", body: "p1"},
		{name: "readme.txt", body: "not an image"},
		{name: "sub/page2.jpg", body: "p2"},
		{name: "sub/", body: ""},
	})

	entries, err := listArchiveImages(archivePath)
	if err != nil {
		t.Fatalf("listArchiveImages failed: %v", err)
	}

	expected := []string{
		archivePath + ":page1.png",
		archivePath + ":sub/page2.jpg",
	}
	if got := entryPaths(entries); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected entries %v, got %v", expected, got)
	}
	for _, e := range entries {
		if e.ArchivePath != archivePath {
			t.Errorf("Expected ArchivePath %s, got %s", archivePath, e.ArchivePath)
		}
		if e.EntryPath == "" {
			t.Errorf("Expected EntryPath set for %s", e.Path)
		}
	}
}

func TestListArchiveImagesUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.tar")
	if err := os.WriteFile(path, []byte("tar"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := listArchiveImages(path); err == nil {
		t.Error("Expected an error for an unsupported archive format")
	}
	if _, err := readArchiveEntry(path, "a.png"); err == nil {
		t.Error("Expected an error for an unsupported archive format")
	}
}

func TestListArchiveImagesMissingFile(t *testing.T) {
	if _, err := listArchiveImages(filepath.Join(t.TempDir(), "gone.zip")); err == nil {
		t.Error("Expected an error for a missing archive")
	}
}

func TestReadArchiveEntryZip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "comic.zip")
	writeTestZip(t, archivePath, []zipMember{
		{name: "page1.png", body: "png bytes here"},
		{name: "sub/page2.jpg", body: "jpg bytes here"},
	})

	data, err := readArchiveEntry(archivePath, "sub/page2.jpg")
	if err != nil {
		t.Fatalf("readArchiveEntry failed: %v", err)
	}
	if string(data) != "jpg bytes here" {
		t.Errorf("Expected member bytes round-tripped, got %q", data)
	}

	if _, err := readArchiveEntry(archivePath, "absent.png"); err == nil {
		t.Error("Expected an error for a missing member")
	} else if !strings.Contains(err.Error(), "absent.png") {
		t.Errorf("Expected missing-member error to name the member, got %v", err)
	}
}

func TestCatalogIncludesZipEntries(t *testing.T) {
	dir := t.TempDir()
	writeTestFiles(t, dir, "a.png")
	archivePath := filepath.Join(dir, "b.zip")
	writeTestZip(t, archivePath, []zipMember{
		{name: "inner1.png", body: "i1"},
		{name: "inner2.png", body: "i2"},
		{name: "notes.txt", body: "skip"},
	})

	catalog, err := buildCatalog([]string{dir}, false, CatalogOptions{SortMethod: SortLexical})
	if err != nil {
		t.Fatalf("buildCatalog failed: %v", err)
	}

	expected := []string{
		filepath.Join(dir, "a.png"),
		archivePath + ":inner1.png",
		archivePath + ":inner2.png",
	}
	if got := entryPaths(catalog.Entries()); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected catalog %v, got %v", expected, got)
	}
}
