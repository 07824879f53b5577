package smcache

// Sentinel values used in place of a valid offset.
const (
	// NoFileSentinel marks an OriginalSourceLocation whose original file
	// could not be determined.
	NoFileSentinel uint32 = 0xFFFFFFFF
	// GlobalScopeSentinel marks a mapping entry whose scope is unknown
	// (no covering scope, or a Hermes map with no AST-derived coverage).
	GlobalScopeSentinel uint32 = 0xFFFFFFFF - 1
	// AnonymousScopeSentinel marks a mapping entry that falls inside a
	// scope with no inferable name. It shares NoFileSentinel's numeric
	// value but lives in the scope_idx field, never file_idx.
	AnonymousScopeSentinel uint32 = 0xFFFFFFFF
	// emptyStringSentinel is what the interner returns for "" without
	// writing anything to string_bytes.
	emptyStringSentinel uint32 = 0xFFFFFFFF
)

const (
	magic         uint32 = 0x41434d53 // "SMCA" little-endian
	formatVersion uint32 = 2
)

// header is the fixed-size artifact header, written first.
type header struct {
	Magic          uint32
	Version        uint32
	NumMappings    uint32
	NumFiles       uint32
	NumLineOffsets uint32
	StringBytes    uint32
	Reserved       [8]byte
}

// minifiedSourcePosition is one entry of the min_positions table.
type minifiedSourcePosition struct {
	Line   uint32
	Column uint32
}

// originalSourceLocation is one entry of the orig_locations table,
// parallel to min_positions by index.
type originalSourceLocation struct {
	FileIdx  uint32
	Line     uint32
	ScopeIdx uint32
}

// fileEntry is one entry of the files table.
type fileEntry struct {
	NameOffset    uint32
	SourceOffset  uint32
	LineOffsetsLo uint32
	LineOffsetsHi uint32
}

// alignTo8 returns n rounded up to the next multiple of 8.
func alignTo8(n int) int {
	return (n + 7) &^ 7
}
