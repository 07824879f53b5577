package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/smcache/source"
)

func TestOffsetToPosition(t *testing.T) {
	ctx, err := source.New("abc\ndef\n\nghi")
	assert.NoError(t, err)

	pos, ok := ctx.OffsetToPosition(0)
	assert.True(t, ok)
	assert.Equal(t, source.Position{Line: 0, Column: 0}, pos)

	pos, ok = ctx.OffsetToPosition(5) // 'e' of "def"
	assert.True(t, ok)
	assert.Equal(t, source.Position{Line: 1, Column: 1}, pos)

	pos, ok = ctx.OffsetToPosition(9) // 'g' of "ghi", after blank line
	assert.True(t, ok)
	assert.Equal(t, source.Position{Line: 3, Column: 0}, pos)

	_, ok = ctx.OffsetToPosition(1000)
	assert.False(t, ok)
}

func TestOffsetToPositionUTF16Columns(t *testing.T) {
	// "𝌆" (U+1D306) is astral, encoded as 2 UTF-16 units; "é" (U+00E9) is BMP.
	ctx, err := source.New("é𝌆x")
	assert.NoError(t, err)

	// byte offsets: é=2 bytes, 𝌆=4 bytes, x=1 byte
	pos, ok := ctx.OffsetToPosition(0)
	assert.True(t, ok)
	assert.Equal(t, uint32(0), pos.Column)

	pos, ok = ctx.OffsetToPosition(2) // start of 𝌆
	assert.True(t, ok)
	assert.Equal(t, uint32(1), pos.Column) // é counted as 1 UTF-16 unit

	pos, ok = ctx.OffsetToPosition(6) // start of x
	assert.True(t, ok)
	assert.Equal(t, uint32(3), pos.Column) // é(1) + 𝌆(2) = 3
}

func TestOffsetToPositionRejectsNonCharBoundary(t *testing.T) {
	ctx, err := source.New("é")
	assert.NoError(t, err)

	// byte 1 is the second byte of the 2-byte encoding of 'é'.
	_, ok := ctx.OffsetToPosition(1)
	assert.False(t, ok)
}

func TestNewRejectsInvalidUTF8(t *testing.T) {
	_, err := source.New(string([]byte{0xff, 0xfe, 0xfd}))
	assert.Error(t, err)
}

func TestPositionToOffsetRoundTripsWithOffsetToPosition(t *testing.T) {
	ctx, err := source.New("abc\ndef\n\nghi")
	assert.NoError(t, err)

	for _, offset := range []uint32{0, 1, 5, 7, 8, 9, 12} {
		pos, ok := ctx.OffsetToPosition(offset)
		assert.True(t, ok)

		got, ok := ctx.PositionToOffset(pos)
		assert.True(t, ok)
		assert.Equal(t, offset, got)
	}
}

func TestPositionToOffsetUTF16Columns(t *testing.T) {
	ctx, err := source.New("é𝌆x")
	assert.NoError(t, err)

	offset, ok := ctx.PositionToOffset(source.Position{Line: 0, Column: 1})
	assert.True(t, ok)
	assert.Equal(t, uint32(2), offset) // start of 𝌆, after é's 2 bytes

	offset, ok = ctx.PositionToOffset(source.Position{Line: 0, Column: 3})
	assert.True(t, ok)
	assert.Equal(t, uint32(6), offset) // start of x
}

func TestPositionToOffsetRejectsOutOfRange(t *testing.T) {
	ctx, err := source.New("abc")
	assert.NoError(t, err)

	_, ok := ctx.PositionToOffset(source.Position{Line: 5, Column: 0})
	assert.False(t, ok)

	_, ok = ctx.PositionToOffset(source.Position{Line: 0, Column: 100})
	assert.False(t, ok)
}

func TestExcerpt(t *testing.T) {
	ctx, err := source.New("function handleClick(){}")
	assert.NoError(t, err)

	excerpt, ok := ctx.Excerpt(9, 11)
	assert.True(t, ok)
	assert.Equal(t, "handleClick", excerpt)

	// Clamped rather than failed when n overruns the text.
	excerpt, ok = ctx.Excerpt(9, 1000)
	assert.True(t, ok)
	assert.Equal(t, "handleClick(){}", excerpt)

	_, ok = ctx.Excerpt(1000, 1)
	assert.False(t, ok)
}
