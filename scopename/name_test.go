package scopename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/smcache/scopename"
)

func TestRenderSingleIdentifier(t *testing.T) {
	name := scopename.New()
	name.PushFront(scopename.Ident("name", 6, 10))

	assert.Equal(t, "name", name.String())
}

func TestRenderDottedPath(t *testing.T) {
	// Simulates walking out from "method" through "." to "Outer":
	// innermost pushed first, outermost pushed last, renders left-to-right
	// as outermost first.
	name := scopename.New()
	name.PushFront(scopename.Ident("method", 0, 0))
	name.PushFront(scopename.Interp("."))
	name.PushFront(scopename.Ident("Outer", 0, 0))

	assert.Equal(t, "Outer.method", name.String())
}

func TestNewClassPrefix(t *testing.T) {
	name := scopename.New()
	name.PushFront(scopename.Ident("Foo", 0, 0))
	name.PushFront(scopename.Interp("new "))

	assert.Equal(t, "new Foo", name.String())
}

func TestPrependName(t *testing.T) {
	lhs := scopename.New()
	lhs.PushFront(scopename.Ident("k", 0, 0))
	lhs.PushFront(scopename.Interp("."))
	lhs.PushFront(scopename.Ident("obj", 0, 0))

	rest := scopename.New()
	rest.PrependName(lhs)

	assert.Equal(t, "obj.k", rest.String())
}

func TestPunctuationRendersEmpty(t *testing.T) {
	c := scopename.Punct()
	assert.Equal(t, "", c.Text())
	_, _, ok := c.Span()
	assert.False(t, ok)
}

func TestIdentifierSpan(t *testing.T) {
	c := scopename.Ident("x", 3, 4)
	lo, hi, ok := c.Span()
	assert.True(t, ok)
	assert.Equal(t, uint32(3), lo)
	assert.Equal(t, uint32(4), hi)
}
