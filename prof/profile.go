// Package prof collects coarse phase timings across a run. It is meant for
// the sweep tooling, not for per-operation micro benchmarks.
package prof

import (
	"sort"
	"sync"
	"time"
)

// Entry aggregates the measurements recorded under one label.
type Entry struct {
	Label string
	Count int
	Total time.Duration
}

var (
	mu     sync.Mutex
	record map[string]*Entry
)

// Track logs the duration since start under the given label. Use it with
// defer at the top of a phase.
func Track(start time.Time, label string) {
	elapsed := time.Since(start)
	mu.Lock()
	if record == nil {
		record = make(map[string]*Entry)
	}
	e := record[label]
	if e == nil {
		e = &Entry{Label: label}
		record[label] = e
	}
	e.Count++
	e.Total += elapsed
	mu.Unlock()
}

// SnapshotAndReset returns the aggregated entries sorted by label and clears
// the collector.
func SnapshotAndReset() []Entry {
	mu.Lock()
	defer mu.Unlock()
	out := make([]Entry, 0, len(record))
	for _, e := range record {
		out = append(out, *e)
	}
	record = nil
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
