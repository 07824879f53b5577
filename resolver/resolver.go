// Package resolver rewrites the minified identifiers a scope name was built
// from into their original names, using a decoded source map as the lookup
// table. This is the fourth stage of the pipeline: the scope collector and
// name inferencer only ever see the minified source, so every Identifier
// component they produce still carries a minified symbol.
package resolver

import (
	"sort"

	"github.com/viant/smcache/scopename"
	"github.com/viant/smcache/source"
	"github.com/viant/smcache/sourcemapfmt"
)

// Resolver looks up original names for minified identifier spans.
type Resolver struct {
	ctx     *source.Context
	tokens  []sourcemapfmt.Token // sorted by (DstLine, DstColumn)
	sources []sourcemapfmt.Source

	// srcCtx lazily holds a per-original-source Context, built on first use,
	// so a token's (SrcLine, SrcColumn) can be converted to a byte offset
	// into that source's content for the excerpt fallback.
	srcCtx map[int]*source.Context
}

// New builds a Resolver over source's byte-offset/position context and a
// decoded source map's token stream and original sources.
func New(ctx *source.Context, decoded *sourcemapfmt.Decoded) *Resolver {
	tokens := append([]sourcemapfmt.Token(nil), decoded.Tokens...)
	sort.Slice(tokens, func(i, j int) bool {
		if tokens[i].DstLine != tokens[j].DstLine {
			return tokens[i].DstLine < tokens[j].DstLine
		}
		return tokens[i].DstColumn < tokens[j].DstColumn
	})
	return &Resolver{
		ctx:     ctx,
		tokens:  tokens,
		sources: decoded.Sources,
		srcCtx:  make(map[int]*source.Context),
	}
}

// ResolveName returns a copy of name with every Identifier component's text
// replaced by its resolved original name, where one could be found. A
// component that can't be resolved at all (out of range, no matching
// token) keeps its original minified text.
func (r *Resolver) ResolveName(name *scopename.Name) *scopename.Name {
	out := scopename.New()
	for _, c := range name.Components() {
		out.PushBack(r.resolveComponent(c))
	}
	return out
}

// resolveComponent resolves one Identifier component through the three-tier
// fallback: the token's original name, else the original source excerpt at
// the token's source position, else the component's own minified text.
func (r *Resolver) resolveComponent(c scopename.Component) scopename.Component {
	lo, hi, ok := c.Span()
	if !ok {
		return c
	}

	pos, ok := r.ctx.OffsetToPosition(lo)
	if !ok {
		return c
	}

	tok, ok := r.nearestToken(pos)
	if !ok {
		return c
	}

	if tok.HasName {
		return c.WithText(tok.Name)
	}

	if excerpt, ok := r.sourceExcerpt(tok, int(hi-lo)); ok {
		return c.WithText(excerpt)
	}

	return c
}

// sourceExcerpt returns the substring of the token's original source
// starting at (SrcLine, SrcColumn), n bytes long. n is the minified
// component's own span length, the only length available once a token
// carries no original-name to begin with.
func (r *Resolver) sourceExcerpt(tok sourcemapfmt.Token, n int) (string, bool) {
	if !tok.HasSource || n <= 0 {
		return "", false
	}

	ctx, ok := r.sourceContext(tok.SourceIdx)
	if !ok {
		return "", false
	}

	offset, ok := ctx.PositionToOffset(source.Position{Line: tok.SrcLine, Column: tok.SrcColumn})
	if !ok {
		return "", false
	}

	excerpt, ok := ctx.Excerpt(offset, n)
	if !ok || excerpt == "" {
		return "", false
	}
	return excerpt, true
}

func (r *Resolver) sourceContext(idx int) (*source.Context, bool) {
	if ctx, ok := r.srcCtx[idx]; ok {
		return ctx, ctx != nil
	}
	if idx < 0 || idx >= len(r.sources) {
		r.srcCtx[idx] = nil
		return nil, false
	}
	ctx, err := source.New(r.sources[idx].Content)
	if err != nil {
		r.srcCtx[idx] = nil
		return nil, false
	}
	r.srcCtx[idx] = ctx
	return ctx, true
}

// nearestToken finds the last token at or before pos on the same generated
// line. Source maps emit one token per meaningful boundary, not one per
// byte, so the token that covers an identifier is whichever token's
// position is the closest one not after it.
func (r *Resolver) nearestToken(pos source.Position) (sourcemapfmt.Token, bool) {
	lo, hi := 0, len(r.tokens)
	for lo < hi {
		mid := (lo + hi) / 2
		if atOrBefore(r.tokens[mid], pos) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return sourcemapfmt.Token{}, false
	}
	candidate := r.tokens[lo-1]
	if candidate.DstLine != pos.Line {
		return sourcemapfmt.Token{}, false
	}
	return candidate, true
}

// atOrBefore reports whether tok's generated position is at or before pos.
func atOrBefore(tok sourcemapfmt.Token, pos source.Position) bool {
	if tok.DstLine != pos.Line {
		return tok.DstLine < pos.Line
	}
	return tok.DstColumn <= pos.Column
}
