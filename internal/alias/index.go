// Package alias provides a case-normalizing index from raw skill text to
// canonical skill names, built from a declarative alias table.
package alias

import (
	"sync"
	"sync/atomic"

	"github.com/jonathan/job-enricher/internal/types"
)

// Options configures index behavior
type Options struct {
	// CaseSensitive disables lowercasing of lookup keys. Default is
	// case-insensitive: Resolve("K8s") == Resolve("k8s").
	CaseSensitive bool
}

// entry is one alias table row plus its live usage counter
type entry struct {
	alias      types.SkillAlias
	usageCount atomic.Int64
}

// indexState is an immutable snapshot of the built lookup map. Reload builds
// a fresh state and swaps the pointer, so in-flight lookups never observe a
// partially built map.
type indexState struct {
	entries map[string]*entry
}

// Stats holds cumulative lookup statistics for one index instance
type Stats struct {
	TotalLookups          int64            `json:"total_lookups"`
	SuccessfulResolutions int64            `json:"successful_resolutions"`
	FailedResolutions     int64            `json:"failed_resolutions"`
	ResolutionRate        float64          `json:"resolution_rate"`
	ResolutionsByCategory map[string]int64 `json:"resolutions_by_category"`
}

// Index resolves skill aliases to canonical names with O(1) lookups.
// Safe for concurrent readers; Reload may run concurrently with lookups.
type Index struct {
	opts  Options
	state atomic.Pointer[indexState]

	statsMu    sync.Mutex
	lookups    int64
	hits       int64
	misses     int64
	byCategory map[string]int64
}

// NewIndex builds an index from an alias table
func NewIndex(table []types.SkillAlias, opts Options) *Index {
	idx := &Index{
		opts:       opts,
		byCategory: make(map[string]int64),
	}
	idx.state.Store(buildState(table, opts))
	return idx
}

// buildState constructs a fresh lookup map from the table
func buildState(table []types.SkillAlias, opts Options) *indexState {
	entries := make(map[string]*entry, len(table))
	for _, a := range table {
		key := a.AliasText
		if !opts.CaseSensitive {
			key = types.NormalizeSkillText(key)
		}
		if key == "" {
			continue
		}
		e := &entry{alias: a}
		e.usageCount.Store(a.UsageCount)
		entries[key] = e
	}
	return &indexState{entries: entries}
}

// Reload rebuilds the index from a new table and swaps it in atomically
func (idx *Index) Reload(table []types.SkillAlias) {
	idx.state.Store(buildState(table, idx.opts))
}

// lookup finds the entry for text and records statistics
func (idx *Index) lookup(text string) (*entry, bool) {
	key := text
	if !idx.opts.CaseSensitive {
		key = types.NormalizeSkillText(key)
	}
	e, ok := idx.state.Load().entries[key]

	idx.statsMu.Lock()
	idx.lookups++
	if ok {
		idx.hits++
		idx.byCategory[e.alias.Category]++
	} else {
		idx.misses++
	}
	idx.statsMu.Unlock()

	return e, ok
}

// Resolve returns the canonical name for an alias, or false when unknown
func (idx *Index) Resolve(text string) (string, bool) {
	e, ok := idx.lookup(text)
	if !ok {
		return "", false
	}
	e.usageCount.Add(1)
	return e.alias.CanonicalName, true
}

// ResolveInfo resolves an alias and returns the full entry in one lookup,
// bumping the usage counter like Resolve
func (idx *Index) ResolveInfo(text string) (*types.SkillAlias, bool) {
	e, ok := idx.lookup(text)
	if !ok {
		return nil, false
	}
	info := e.alias
	info.UsageCount = e.usageCount.Add(1)
	return &info, true
}

// Info returns the full alias entry for text, or false when unknown.
// Does not count as a resolution for usage tracking.
func (idx *Index) Info(text string) (*types.SkillAlias, bool) {
	e, ok := idx.lookup(text)
	if !ok {
		return nil, false
	}
	info := e.alias
	info.UsageCount = e.usageCount.Load()
	return &info, true
}

// IsAlias reports whether text is a known alias without touching statistics
// or usage counters
func (idx *Index) IsAlias(text string) bool {
	key := text
	if !idx.opts.CaseSensitive {
		key = types.NormalizeSkillText(key)
	}
	_, ok := idx.state.Load().entries[key]
	return ok
}

// Len returns the number of aliases currently indexed
func (idx *Index) Len() int {
	return len(idx.state.Load().entries)
}

// Stats returns a snapshot of cumulative lookup statistics
func (idx *Index) Stats() Stats {
	idx.statsMu.Lock()
	defer idx.statsMu.Unlock()

	byCategory := make(map[string]int64, len(idx.byCategory))
	for category, count := range idx.byCategory {
		byCategory[category] = count
	}

	rate := 0.0
	if idx.lookups > 0 {
		rate = float64(idx.hits) / float64(idx.lookups)
	}

	return Stats{
		TotalLookups:          idx.lookups,
		SuccessfulResolutions: idx.hits,
		FailedResolutions:     idx.misses,
		ResolutionRate:        rate,
		ResolutionsByCategory: byCategory,
	}
}
