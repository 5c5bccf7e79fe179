package main

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode"
)

// listArchiveImages returns catalog entries for every image inside the
// archive, in archive order.
func listArchiveImages(archivePath string) ([]CatalogEntry, error) {
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return listImagesFromZip(archivePath)
	case ".rar":
		return listImagesFromRar(archivePath)
	case ".7z":
		return listImagesFrom7z(archivePath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", archivePath)
	}
}

func archiveEntry(archivePath, entryPath string) CatalogEntry {
	return CatalogEntry{
		Path:        archivePath + ":" + entryPath,
		ArchivePath: archivePath,
		EntryPath:   entryPath,
	}
}

func listImagesFromZip(archivePath string) ([]CatalogEntry, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []CatalogEntry
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			entries = append(entries, archiveEntry(archivePath, f.Name))
		}
	}
	return entries, nil
}

func listImagesFromRar(archivePath string) ([]CatalogEntry, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	var entries []CatalogEntry
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.IsDir && isSupportedExt(header.Name) {
			entries = append(entries, archiveEntry(archivePath, header.Name))
		}
	}
	return entries, nil
}

func listImagesFrom7z(archivePath string) ([]CatalogEntry, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var entries []CatalogEntry
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && isSupportedExt(f.Name) {
			entries = append(entries, archiveEntry(archivePath, f.Name))
		}
	}
	return entries, nil
}

// readArchiveEntry returns the raw bytes of one archive member.
func readArchiveEntry(archivePath, entryPath string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		return readEntryFromZip(archivePath, entryPath)
	case ".rar":
		return readEntryFromRar(archivePath, entryPath)
	case ".7z":
		return readEntryFrom7z(archivePath, entryPath)
	default:
		return nil, fmt.Errorf("unsupported archive format: %s", archivePath)
	}
}

func readEntryFromZip(archivePath, entryPath string) ([]byte, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readEntryFromRar(archivePath, entryPath string) ([]byte, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := rardecode.NewReader(f, "")
	if err != nil {
		return nil, err
	}

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if header.Name == entryPath {
			return io.ReadAll(r)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}

func readEntryFrom7z(archivePath, entryPath string) ([]byte, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == entryPath {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %s not found in %s", entryPath, archivePath)
}
