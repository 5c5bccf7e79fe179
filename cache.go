package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadState is the lifecycle state of an ImageRecord.
type LoadState int

const (
	StateUnloaded LoadState = iota
	StateLoading
	StateReady
	StateFailed
)

// ImageRecord is the cache's view of one catalog entry. Records are owned by
// the cache and mutated only on the interactive goroutine; decode workers
// never see them.
type ImageRecord struct {
	Entry  CatalogEntry
	State  LoadState
	Image  *ebiten.Image
	Width  int
	Height int
	Err    error

	bytes int64
}

// CacheStats counts what the pipeline has done, for the debug log.
type CacheStats struct {
	Loaded  int
	Failed  int
	Dropped int
}

type loadResult struct {
	entry CatalogEntry
	img   *ebiten.Image
	err   error
}

// ImageCache owns the decoded-image store and the asynchronous decode
// pipeline. Requests go out on a channel to a bounded worker pool and results
// come back on a completion channel drained once per update cycle; those two
// channels are the only synchronization points. Everything else is touched
// exclusively by the interactive goroutine.
type ImageCache struct {
	records  *lru.Cache[string, *ImageRecord]
	inflight map[string]bool

	requests    chan CatalogEntry
	completions chan loadResult
	cancel      context.CancelFunc

	entryCap      int
	budgetBytes   int64
	residentBytes int64
	pinned        string
	stats         CacheStats

	loadFunc func(CatalogEntry) (*ebiten.Image, error)
}

const requestQueueSize = 64

// NewImageCache creates a cache bounded by entryCap records and budgetBytes
// of decoded pixels, with the given number of decode workers (clamped to at
// least one). A nil loadFunc uses the real decoder; tests inject their own.
func NewImageCache(entryCap int, budgetBytes int64, workers int, loadFunc func(CatalogEntry) (*ebiten.Image, error)) *ImageCache {
	if entryCap < 4 {
		entryCap = 4
	}
	if workers < 1 {
		workers = 1
	}
	if loadFunc == nil {
		loadFunc = decodeEntry
	}

	c := &ImageCache{
		inflight:    make(map[string]bool),
		requests:    make(chan CatalogEntry, requestQueueSize),
		completions: make(chan loadResult, requestQueueSize+workers),
		entryCap:    entryCap,
		budgetBytes: budgetBytes,
		loadFunc:    loadFunc,
	}

	// The lru tracks recency and frees evicted textures; the eviction
	// decisions themselves are made in evictOne so the pinned record and
	// in-flight targets are never dropped. Its own capacity is sized past
	// every record that can be resident at once — at most entryCap settled
	// records (makeRoom refuses inserts beyond that), one pinned record, and
	// one record per in-flight path, itself bounded by a slot in the request
	// queue, a worker, or the completion queue — so the lru's internal
	// eviction, which knows nothing of the exemptions, can never fire.
	lruCap := entryCap + 2*(requestQueueSize+workers) + 1
	records, err := lru.NewWithEvict[string, *ImageRecord](lruCap, c.onEvict)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	c.records = records

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	for i := 0; i < workers; i++ {
		go c.worker(ctx)
	}
	return c
}

// DefaultDecodeWorkers is the worker pool size: one per core, minus the one
// core reserved for the interactive goroutine.
func DefaultDecodeWorkers() int {
	return runtime.NumCPU() - 1
}

// Close stops the worker pool. In-flight decodes finish and are discarded.
func (c *ImageCache) Close() {
	c.cancel()
}

func (c *ImageCache) onEvict(path string, rec *ImageRecord) {
	if rec.Image != nil {
		rec.Image.Deallocate()
		c.residentBytes -= rec.bytes
	}
	debugLog("evicted %s (resident: %dMB)", path, c.residentBytes/1024/1024)
}

// Get returns the cached record for a path, bumping its recency.
func (c *ImageCache) Get(path string) (*ImageRecord, bool) {
	return c.records.Get(path)
}

// Pin marks the currently displayed path. A pinned record is never evicted.
func (c *ImageCache) Pin(path string) {
	c.pinned = path
}

// Stats returns pipeline counters.
func (c *ImageCache) Stats() CacheStats { return c.stats }

// Request returns the record for an entry, scheduling an asynchronous decode
// on a miss. Requests for a path already Loading attach to the pending
// decode; there is never more than one in-flight decode per path. Never
// blocks: if the request queue is momentarily full the record stays Unloaded
// and a later Request retries.
func (c *ImageCache) Request(entry CatalogEntry) *ImageRecord {
	if rec, ok := c.records.Get(entry.Path); ok {
		if rec.State == StateUnloaded && c.enqueue(entry) {
			rec.State = StateLoading
			c.inflight[entry.Path] = true
		}
		return rec
	}

	rec := &ImageRecord{Entry: entry, State: StateUnloaded}
	c.makeRoom()
	c.records.Add(entry.Path, rec)
	if c.inflight[entry.Path] {
		// A decode for this path is already running (the record was evicted
		// after it was scheduled); attach to it instead of scheduling another.
		rec.State = StateLoading
	} else if c.enqueue(entry) {
		rec.State = StateLoading
		c.inflight[entry.Path] = true
	}
	return rec
}

// Prefetch schedules best-effort decodes for entries likely to be visited
// next. Entries that are already cached or in flight are skipped; entries
// that do not fit in the request queue are silently dropped.
func (c *ImageCache) Prefetch(entries []CatalogEntry) {
	for _, entry := range entries {
		if _, ok := c.records.Peek(entry.Path); ok {
			continue
		}
		if c.inflight[entry.Path] {
			continue
		}
		if !c.makeRoom() {
			// Every resident record is pinned or in flight; inserting anyway
			// would push the store toward the lru's own exemption-blind cap.
			c.stats.Dropped++
			continue
		}
		if !c.enqueue(entry) {
			c.stats.Dropped++
			continue
		}
		rec := &ImageRecord{Entry: entry, State: StateLoading}
		c.records.Add(entry.Path, rec)
		c.inflight[entry.Path] = true
	}
}

// Forget drops a record so the next Request decodes afresh. Used when
// re-navigating to a Failed entry. No-op while the path is in flight.
func (c *ImageCache) Forget(path string) {
	if c.inflight[path] {
		return
	}
	c.records.Remove(path)
}

// Drain applies all finished decodes and returns their paths. Completions
// arrive in decode-finish order, not request order; callers decide whether a
// completed path is still interesting. Called once per update cycle.
func (c *ImageCache) Drain() []string {
	var done []string
	for {
		select {
		case res := <-c.completions:
			c.apply(res)
			done = append(done, res.entry.Path)
		default:
			if done != nil {
				c.enforceBudget()
			}
			return done
		}
	}
}

func (c *ImageCache) apply(res loadResult) {
	delete(c.inflight, res.entry.Path)

	rec, ok := c.records.Get(res.entry.Path)
	if !ok {
		// Evicted while decoding. The finished work is cheap to keep and
		// saves a re-decode if the user navigates back.
		rec = &ImageRecord{Entry: res.entry}
		c.makeRoom()
		c.records.Add(res.entry.Path, rec)
	}

	if res.err != nil {
		rec.State = StateFailed
		rec.Err = res.err
		rec.Image = nil
		c.stats.Failed++
		log.Printf("Error: failed to load %s: %v", res.entry.Path, res.err)
		return
	}

	b := res.img.Bounds()
	rec.State = StateReady
	rec.Image = res.img
	rec.Width = b.Dx()
	rec.Height = b.Dy()
	rec.bytes = int64(rec.Width) * int64(rec.Height) * 4
	c.residentBytes += rec.bytes
	c.stats.Loaded++
	debugLog("loaded %s (%dx%d, resident: %dMB)", res.entry.Path, rec.Width, rec.Height, c.residentBytes/1024/1024)
}

func (c *ImageCache) enqueue(entry CatalogEntry) bool {
	select {
	case c.requests <- entry:
		return true
	default:
		return false
	}
}

// makeRoom evicts one record when the entry cap is reached, ahead of an Add.
// Reports whether the insert may proceed: false means every resident record
// is pinned or in flight and nothing could be evicted.
func (c *ImageCache) makeRoom() bool {
	if c.records.Len() < c.entryCap {
		return true
	}
	return c.evictOne()
}

// enforceBudget evicts least-recently-accessed records until the decoded
// byte total fits the budget. Stops early if every remaining record is the
// pinned one or an in-flight target.
func (c *ImageCache) enforceBudget() {
	for c.residentBytes > c.budgetBytes {
		if !c.evictOne() {
			return
		}
	}
}

func (c *ImageCache) evictOne() bool {
	for _, path := range c.records.Keys() { // oldest first
		if path == c.pinned || c.inflight[path] {
			continue
		}
		c.records.Remove(path)
		return true
	}
	return false
}

func (c *ImageCache) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-c.requests:
			img, err := c.loadFunc(entry)
			select {
			case c.completions <- loadResult{entry: entry, img: img, err: err}:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Decoding

func loadImageFromBytes(data []byte, path string) (*ebiten.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}

// decodeEntry reads and decodes one catalog entry. I/O errors and decode
// errors are reported the same way; the caller cannot tell and does not care.
func decodeEntry(entry CatalogEntry) (*ebiten.Image, error) {
	if entry.IsArchiveEntry() {
		data, err := readArchiveEntry(entry.ArchivePath, entry.EntryPath)
		if err != nil {
			return nil, err
		}
		return loadImageFromBytes(data, entry.Path)
	}

	f, err := os.Open(entry.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %v", entry.Path, err)
	}
	return ebiten.NewImageFromImage(img), nil
}
