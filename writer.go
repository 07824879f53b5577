// Package smcache assembles the SmCache binary artifact: given a minified
// JavaScript source and its source map, it walks the AST for function
// scopes, infers and resolves their names, projects them onto the
// minified-source coordinate space, and emits a compact, alignment-padded,
// deduplicated binary cache a reader can binary-search by position.
package smcache

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/viant/smcache/jscan"
	"github.com/viant/smcache/resolver"
	"github.com/viant/smcache/scopeindex"
	"github.com/viant/smcache/scopename"
	"github.com/viant/smcache/source"
	"github.com/viant/smcache/sourcemapfmt"
)

// Writer holds everything needed to serialize one SmCache artifact. It is
// built once by New and consumed once by Serialize; it owns no resources
// beyond in-memory buffers.
type Writer struct {
	log *logrus.Logger

	minPositions  []minifiedSourcePosition
	origLocations []originalSourceLocation
	files         []fileEntry
	lineOffsets   []uint32
	strings       *interner
}

// New runs the full writer pipeline over source and sourcemap and returns
// an assembled Writer ready to Serialize. Every failure is wrapped in a
// *WriterError carrying one of SourceMapError, SourceContextError, or
// ScopeIndexError. log may be nil.
func New(minified, sourcemap []byte, log *logrus.Logger) (*Writer, error) {
	if log == nil {
		log = discardLogger()
	}

	decoded, err := sourcemapfmt.Decode(sourcemap)
	if err != nil {
		return nil, wrapSourceMap(err)
	}

	ctx, err := source.New(string(minified))
	if err != nil {
		return nil, wrapSourceContext(err)
	}

	rawScopes := jscan.Collect(minified, log)

	res := resolver.New(ctx, decoded)
	indexScopes := make([]scopeindex.Scope, 0, len(rawScopes))
	for _, s := range rawScopes {
		var name *scopename.Name
		if s.Name != nil {
			name = res.ResolveName(s.Name)
		}
		indexScopes = append(indexScopes, scopeindex.Scope{Lo: s.Lo, Hi: s.Hi, Name: name})
	}

	idx, err := scopeindex.Build(indexScopes, ctx)
	if err != nil {
		return nil, wrapScopeIndex(err)
	}

	w := &Writer{log: log, strings: newInterner()}
	origToFileIdx := w.buildFileTable(decoded.Sources)
	w.buildMappingTable(decoded, idx, origToFileIdx)

	return w, nil
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// buildFileTable interns every source's name and content, records its
// line-offset slice, sorts the table by name, and returns a mapping from
// a source map's original source index to the sorted file_idx.
func (w *Writer) buildFileTable(sources []sourcemapfmt.Source) []uint32 {
	type built struct {
		origIdx int
		name    string
		entry   fileEntry
	}

	list := make([]built, len(sources))
	for i, s := range sources {
		nameOff := w.strings.insert(s.Name)
		srcOff := w.strings.insert(s.Content)
		lo := computeLineOffsets(s.Content)

		start := len(w.lineOffsets)
		w.lineOffsets = append(w.lineOffsets, lo...)

		list[i] = built{
			origIdx: i,
			name:    s.Name,
			entry: fileEntry{
				NameOffset:    nameOff,
				SourceOffset:  srcOff,
				LineOffsetsLo: uint32(start),
				LineOffsetsHi: uint32(start + len(lo)),
			},
		}
	}

	sort.Slice(list, func(i, j int) bool { return list[i].name < list[j].name })

	origToFileIdx := make([]uint32, len(sources))
	w.files = make([]fileEntry, len(list))
	for newIdx, b := range list {
		w.files[newIdx] = b.entry
		origToFileIdx[b.origIdx] = uint32(newIdx)
	}
	return origToFileIdx
}

// buildMappingTable iterates source-map tokens in their yielded order and
// produces the parallel min_positions/orig_locations arrays, deduplicating
// adjacent-identical entries.
func (w *Writer) buildMappingTable(decoded *sourcemapfmt.Decoded, idx *scopeindex.Index, origToFileIdx []uint32) {
	hasScopeCoverage := idx.Len() > 0
	isHermes := decoded.Kind == sourcemapfmt.KindHermes

	var prev *originalSourceLocation

	for _, tok := range decoded.Tokens {
		fileIdx := NoFileSentinel
		var line uint32
		if tok.HasSource {
			if tok.SourceIdx >= 0 && tok.SourceIdx < len(origToFileIdx) {
				fileIdx = origToFileIdx[tok.SourceIdx]
			}
			line = tok.SrcLine
		}

		scopeIdx := w.resolveScopeIdx(tok, idx, hasScopeCoverage, isHermes, decoded)

		loc := originalSourceLocation{FileIdx: fileIdx, Line: line, ScopeIdx: scopeIdx}
		if prev != nil && *prev == loc {
			continue
		}

		w.minPositions = append(w.minPositions, minifiedSourcePosition{Line: tok.DstLine, Column: tok.DstColumn})
		w.origLocations = append(w.origLocations, loc)

		locCopy := loc
		prev = &locCopy
	}
}

func (w *Writer) resolveScopeIdx(
	tok sourcemapfmt.Token,
	idx *scopeindex.Index,
	hasScopeCoverage, isHermes bool,
	decoded *sourcemapfmt.Decoded,
) uint32 {
	if !hasScopeCoverage && isHermes {
		if name, ok := decoded.OriginalFunctionName(tok.DstColumn); ok {
			return w.clampScopeOffset(w.strings.insert(name))
		}
		return GlobalScopeSentinel
	}

	result := idx.Lookup(source.Position{Line: tok.DstLine, Column: tok.DstColumn})
	switch result.Kind {
	case scopeindex.NamedScope:
		return w.clampScopeOffset(w.strings.insert(result.Name))
	case scopeindex.AnonymousScope:
		return AnonymousScopeSentinel
	default:
		return GlobalScopeSentinel
	}
}

func (w *Writer) clampScopeOffset(offset uint32) uint32 {
	if offset >= GlobalScopeSentinel {
		return GlobalScopeSentinel
	}
	return offset
}

// Serialize writes the assembled artifact to dst in a little-endian,
// 8-byte-aligned section layout. Only I/O errors from dst are reported;
// the Writer itself cannot fail at this stage.
func (w *Writer) Serialize(dst io.Writer) error {
	bw := &alignedWriter{w: dst}

	h := header{
		Magic:          magic,
		Version:        formatVersion,
		NumMappings:    uint32(len(w.minPositions)),
		NumFiles:       uint32(len(w.files)),
		NumLineOffsets: uint32(len(w.lineOffsets)),
		StringBytes:    uint32(len(w.strings.bytes)),
	}
	if err := bw.writeSection(func(buf *[]byte) {
		*buf = binary.LittleEndian.AppendUint32(*buf, h.Magic)
		*buf = binary.LittleEndian.AppendUint32(*buf, h.Version)
		*buf = binary.LittleEndian.AppendUint32(*buf, h.NumMappings)
		*buf = binary.LittleEndian.AppendUint32(*buf, h.NumFiles)
		*buf = binary.LittleEndian.AppendUint32(*buf, h.NumLineOffsets)
		*buf = binary.LittleEndian.AppendUint32(*buf, h.StringBytes)
		*buf = append(*buf, h.Reserved[:]...)
	}); err != nil {
		return err
	}

	if err := bw.writeSection(func(buf *[]byte) {
		for _, p := range w.minPositions {
			*buf = binary.LittleEndian.AppendUint32(*buf, p.Line)
			*buf = binary.LittleEndian.AppendUint32(*buf, p.Column)
		}
	}); err != nil {
		return err
	}

	if err := bw.writeSection(func(buf *[]byte) {
		for _, l := range w.origLocations {
			*buf = binary.LittleEndian.AppendUint32(*buf, l.FileIdx)
			*buf = binary.LittleEndian.AppendUint32(*buf, l.Line)
			*buf = binary.LittleEndian.AppendUint32(*buf, l.ScopeIdx)
		}
	}); err != nil {
		return err
	}

	if err := bw.writeSection(func(buf *[]byte) {
		for _, f := range w.files {
			*buf = binary.LittleEndian.AppendUint32(*buf, f.NameOffset)
			*buf = binary.LittleEndian.AppendUint32(*buf, f.SourceOffset)
			*buf = binary.LittleEndian.AppendUint32(*buf, f.LineOffsetsLo)
			*buf = binary.LittleEndian.AppendUint32(*buf, f.LineOffsetsHi)
		}
	}); err != nil {
		return err
	}

	if err := bw.writeSection(func(buf *[]byte) {
		for _, o := range w.lineOffsets {
			*buf = binary.LittleEndian.AppendUint32(*buf, o)
		}
	}); err != nil {
		return err
	}

	return bw.writeSection(func(buf *[]byte) {
		*buf = append(*buf, w.strings.bytes...)
	})
}

// alignedWriter writes a sequence of sections, zero-padding each to an
// 8-byte boundary after it's written.
type alignedWriter struct {
	w io.Writer
}

func (a *alignedWriter) writeSection(build func(buf *[]byte)) error {
	var buf []byte
	build(&buf)

	if _, err := a.w.Write(buf); err != nil {
		return err
	}

	if pad := alignTo8(len(buf)) - len(buf); pad > 0 {
		if _, err := a.w.Write(make([]byte, pad)); err != nil {
			return err
		}
	}
	return nil
}
