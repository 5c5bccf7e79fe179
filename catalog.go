package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoImages is returned when catalog construction finds no browsable
// entries. Fatal at startup, non-fatal on refresh.
var ErrNoImages = errors.New("no image files found")

// CatalogEntry is one browsable image. Regular files leave ArchivePath and
// EntryPath empty; archive entries carry both and a "archive:entry" display
// path. Ordinal is the entry's position in the sorted catalog.
type CatalogEntry struct {
	Path        string // Local file path or archive:entry format
	ArchivePath string // Empty for regular files, path to archive for entries
	EntryPath   string // Empty for regular files, path within archive for entries
	Ordinal     int
}

// IsArchiveEntry reports whether the entry lives inside an archive.
func (e CatalogEntry) IsArchiveEntry() bool { return e.ArchivePath != "" }

// CatalogOptions controls how targets are expanded into entries.
type CatalogOptions struct {
	Recursive  bool // descend into subdirectories of directory targets
	SortMethod int
}

// Catalog is the ordered, navigable list of image entries plus the current
// selection. It remembers the targets it was built from so a refresh can
// rebuild the same view.
type Catalog struct {
	entries []CatalogEntry
	current int
	targets []string
	dirMode bool // rebuild from the current file's directory on refresh
	opts    CatalogOptions
}

func isSupportedExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp", ".tif", ".tiff":
		return true
	default:
		return false
	}
}

func isArchiveExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar", ".7z":
		return true
	default:
		return false
	}
}

// buildCatalog expands the given file/directory targets into a catalog.
// Directory targets contribute the image files they contain (recursively or
// shallowly per options); archives contribute their image entries. A missing
// target path is an error, an empty result is ErrNoImages.
func buildCatalog(targets []string, dirMode bool, opts CatalogOptions) (*Catalog, error) {
	entries, err := scanTargets(targets, opts)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoImages
	}

	c := &Catalog{
		entries: entries,
		targets: targets,
		dirMode: dirMode,
		opts:    opts,
	}

	// In directory-browsing mode the first target is the starting file;
	// select it if it made it into the catalog.
	if dirMode && len(targets) > 0 {
		if idx, ok := c.indexOf(targets[0]); ok {
			c.current = idx
		}
	}
	return c, nil
}

// scanTargets produces the sorted, deduplicated entry list for a target set.
// Safe to call off the interactive goroutine; it touches no catalog state.
func scanTargets(targets []string, opts CatalogOptions) ([]CatalogEntry, error) {
	var list []CatalogEntry
	seen := make(map[string]bool)

	appendEntry := func(e CatalogEntry) {
		if !seen[e.Path] {
			seen[e.Path] = true
			list = append(list, e)
		}
	}
	appendFile := func(path string) error {
		if isSupportedExt(path) {
			appendEntry(CatalogEntry{Path: path})
		} else if isArchiveExt(path) {
			archiveEntries, err := listArchiveImages(path)
			if err != nil {
				log.Printf("Warning: skipping unreadable archive %s: %v", path, err)
				return nil
			}
			for _, e := range archiveEntries {
				appendEntry(e)
			}
		}
		return nil
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			if err := appendFile(target); err != nil {
				return nil, err
			}
			continue
		}
		if opts.Recursive {
			err = filepath.Walk(target, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if fi.IsDir() {
					return nil
				}
				return appendFile(path)
			})
		} else {
			var dirents []os.DirEntry
			dirents, err = os.ReadDir(target)
			if err == nil {
				for _, de := range dirents {
					if de.IsDir() {
						continue
					}
					if e := appendFile(filepath.Join(target, de.Name())); e != nil {
						err = e
						break
					}
				}
			}
		}
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", target, err)
		}
	}

	sorted := GetSortStrategy(opts.SortMethod).Sort(list)
	for i := range sorted {
		sorted[i].Ordinal = i
	}
	return sorted, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Index returns the current index.
func (c *Catalog) Index() int { return c.current }

// Entries returns the entry slice. Callers must not modify it.
func (c *Catalog) Entries() []CatalogEntry { return c.entries }

// Current returns the selected entry, or false for an empty catalog.
func (c *Catalog) Current() (CatalogEntry, bool) {
	if len(c.entries) == 0 {
		return CatalogEntry{}, false
	}
	return c.entries[c.current], true
}

// Advance moves the selection by delta, clamping at both ends. There is no
// wraparound: stepping past the first or last entry is a no-op. Reports
// whether the selection changed.
func (c *Catalog) Advance(delta int) bool {
	if len(c.entries) == 0 {
		return false
	}
	idx := c.current + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(c.entries)-1 {
		idx = len(c.entries) - 1
	}
	if idx == c.current {
		return false
	}
	c.current = idx
	return true
}

// Neighbors returns up to n entries on each side of the current index, the
// prefetch candidates for the current selection.
func (c *Catalog) Neighbors(n int) []CatalogEntry {
	var out []CatalogEntry
	for i := 1; i <= n; i++ {
		if idx := c.current + i; idx < len(c.entries) {
			out = append(out, c.entries[idx])
		}
		if idx := c.current - i; idx >= 0 {
			out = append(out, c.entries[idx])
		}
	}
	return out
}

// refreshTargets returns the target set a refresh scans: the original
// startup targets, or the current file's directory in directory mode.
func (c *Catalog) refreshTargets() []string {
	if c.dirMode {
		if cur, ok := c.Current(); ok && !cur.IsArchiveEntry() {
			return []string{filepath.Dir(cur.Path)}
		}
	}
	return c.targets
}

// Refresh rebuilds the catalog synchronously. Large-directory refresh runs
// through scanTargets on a worker goroutine instead and lands in
// ApplyRefresh; this variant exists for callers that own a small target set.
func (c *Catalog) Refresh() error {
	entries, err := scanTargets(c.refreshTargets(), c.opts)
	if err != nil {
		return err
	}
	c.ApplyRefresh(entries)
	return nil
}

// ApplyRefresh replaces the entry list, preserving the selection by path if
// the previously-current path survived, otherwise clamping to the nearest
// remaining entry by the previous ordinal position.
func (c *Catalog) ApplyRefresh(entries []CatalogEntry) {
	prevPath := ""
	prevOrdinal := 0
	if cur, ok := c.Current(); ok {
		prevPath = cur.Path
		prevOrdinal = cur.Ordinal
	}

	c.entries = entries
	if len(entries) == 0 {
		c.current = 0
		return
	}
	if idx, ok := c.indexOf(prevPath); ok {
		c.current = idx
		return
	}
	if prevOrdinal > len(entries)-1 {
		prevOrdinal = len(entries) - 1
	}
	c.current = prevOrdinal
}

func (c *Catalog) indexOf(path string) (int, bool) {
	for i, e := range c.entries {
		if e.Path == path {
			return i, true
		}
	}
	return 0, false
}
