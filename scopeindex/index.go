// Package scopeindex projects the unordered byte-range scopes the collector
// found into a sorted, position-indexed cover: a flat timeline of "from this
// (line, UTF-16 column) onward, this is the active scope" entries, suitable
// for binary search by a source-map token's minified position.
package scopeindex

import (
	"fmt"
	"sort"

	"github.com/viant/smcache/scopename"
	"github.com/viant/smcache/source"
)

// LookupKind distinguishes the three possible outcomes of a position
// lookup, mirroring the sentinel scheme the writer serializes scopes with.
type LookupKind int

const (
	// Unknown means no collected scope covers the queried position.
	Unknown LookupKind = iota
	// AnonymousScope means a scope covers the position but no name could
	// be inferred for it.
	AnonymousScope
	// NamedScope means a scope covers the position and Name is its
	// rendered, resolved name.
	NamedScope
)

// Result is the outcome of a single Lookup call.
type Result struct {
	Kind LookupKind
	Name string
}

// Scope is one entry to project: a byte range (from the AST) and its
// resolved name.
type Scope struct {
	Lo, Hi uint32
	Name   *scopename.Name
}

type rawEntry struct {
	lo, hi uint32
	name   *scopename.Name
}

type positionedEntry struct {
	pos    source.Position
	result Result
}

// Index answers position lookups against a nested set of scopes.
type Index struct {
	entries []positionedEntry // sorted by position, at most one per position
}

// Build projects scopes into an Index over ctx's coordinate space. Scopes
// must nest properly: any two ranges must be either disjoint or one fully
// containing the other; overlapping-but-not-nested ranges are rejected,
// since there is no well-defined innermost scope for positions in the
// overlap. Byte ranges that fail to convert to a position (out of range,
// not on a UTF-8 boundary) are dropped rather than failing the whole build.
func Build(scopes []Scope, ctx *source.Context) (*Index, error) {
	sorted := make([]rawEntry, len(scopes))
	for i, s := range scopes {
		sorted[i] = rawEntry{lo: s.Lo, hi: s.Hi, name: s.Name}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].lo != sorted[j].lo {
			return sorted[i].lo < sorted[j].lo
		}
		return sorted[i].hi > sorted[j].hi // outer (wider) range first
	})

	var stack []rawEntry
	type offsetEvent struct {
		offset uint32
		result Result
	}
	var timeline []offsetEvent

	popTo := func(limit uint32) error {
		for len(stack) > 0 && stack[len(stack)-1].hi <= limit {
			popped := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			timeline = append(timeline, offsetEvent{offset: popped.hi, result: activeResult(stack)})
		}
		return nil
	}

	for _, e := range sorted {
		_ = popTo(e.lo)
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if e.hi > top.hi {
				return nil, fmt.Errorf(
					"scopeindex: scope [%d,%d) overlaps [%d,%d) without nesting",
					e.lo, e.hi, top.lo, top.hi,
				)
			}
		}
		stack = append(stack, e)
		timeline = append(timeline, offsetEvent{offset: e.lo, result: resultFor(e)})
	}
	for len(stack) > 0 {
		popped := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		timeline = append(timeline, offsetEvent{offset: popped.hi, result: activeResult(stack)})
	}

	positioned := make([]positionedEntry, 0, len(timeline))
	for _, ev := range timeline {
		pos, ok := ctx.OffsetToPosition(ev.offset)
		if !ok {
			continue
		}
		positioned = append(positioned, positionedEntry{pos: pos, result: ev.result})
	}
	sort.SliceStable(positioned, func(i, j int) bool {
		if positioned[i].pos.Line != positioned[j].pos.Line {
			return positioned[i].pos.Line < positioned[j].pos.Line
		}
		return positioned[i].pos.Column < positioned[j].pos.Column
	})

	// Collapse to at most one entry per position, keeping the
	// latest-seen (stable sort preserves timeline order among ties).
	deduped := positioned[:0]
	for _, pe := range positioned {
		if n := len(deduped); n > 0 && deduped[n-1].pos == pe.pos {
			deduped[n-1] = pe
			continue
		}
		deduped = append(deduped, pe)
	}

	return &Index{entries: deduped}, nil
}

func resultFor(e rawEntry) Result {
	if e.name == nil {
		return Result{Kind: AnonymousScope}
	}
	return Result{Kind: NamedScope, Name: e.name.String()}
}

func activeResult(stack []rawEntry) Result {
	if len(stack) == 0 {
		return Result{Kind: Unknown}
	}
	return resultFor(stack[len(stack)-1])
}

// Lookup finds the active scope at the given source position: the result
// recorded by the latest timeline entry at or before pos.
func (idx *Index) Lookup(pos source.Position) Result {
	lo, hi := 0, len(idx.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if lessOrEqual(idx.entries[mid].pos, pos) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return Result{Kind: Unknown}
	}
	return idx.entries[lo-1].result
}

func lessOrEqual(a, b source.Position) bool {
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	return a.Column <= b.Column
}

// Len reports how many timeline entries the index holds.
func (idx *Index) Len() int { return len(idx.entries) }
