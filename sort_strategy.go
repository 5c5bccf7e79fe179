package main

import (
	"sort"

	"github.com/maruel/natural"
)

// SortStrategy orders catalog entries. Strategies never modify their input.
type SortStrategy interface {
	// Sort returns a new sorted slice without modifying the original
	Sort(entries []CatalogEntry) []CatalogEntry
	// Name returns the human-readable name of the strategy
	Name() string
	// ID returns the numeric identifier for config storage
	ID() int
}

// LexicalSortStrategy sorts by path lexicographically. This is the default
// catalog order.
type LexicalSortStrategy struct{}

func (s *LexicalSortStrategy) Sort(entries []CatalogEntry) []CatalogEntry {
	result := make([]CatalogEntry, len(entries))
	copy(result, entries)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

func (s *LexicalSortStrategy) Name() string { return "Lexical" }
func (s *LexicalSortStrategy) ID() int      { return SortLexical }

// NaturalSortStrategy sorts with embedded numbers compared numerically, so
// file2 comes before file10.
type NaturalSortStrategy struct{}

func (s *NaturalSortStrategy) Sort(entries []CatalogEntry) []CatalogEntry {
	result := make([]CatalogEntry, len(entries))
	copy(result, entries)
	sort.Slice(result, func(i, j int) bool {
		return natural.Less(result[i].Path, result[j].Path)
	})
	return result
}

func (s *NaturalSortStrategy) Name() string { return "Natural" }
func (s *NaturalSortStrategy) ID() int      { return SortNatural }

// ScanOrderSortStrategy preserves the order entries were discovered in.
type ScanOrderSortStrategy struct{}

func (s *ScanOrderSortStrategy) Sort(entries []CatalogEntry) []CatalogEntry {
	result := make([]CatalogEntry, len(entries))
	copy(result, entries)
	return result
}

func (s *ScanOrderSortStrategy) Name() string { return "Scan Order" }
func (s *ScanOrderSortStrategy) ID() int      { return SortScanOrder }

// GetSortStrategy returns the strategy for the given sort method ID, falling
// back to lexical order.
func GetSortStrategy(sortMethod int) SortStrategy {
	switch sortMethod {
	case SortNatural:
		return &NaturalSortStrategy{}
	case SortScanOrder:
		return &ScanOrderSortStrategy{}
	default:
		return &LexicalSortStrategy{}
	}
}
