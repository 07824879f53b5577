package jscan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/smcache/jscan"
)

func names(scopes []jscan.Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		if s.Name == nil {
			out[i] = ""
		} else {
			out[i] = s.Name.String()
		}
	}
	return out
}

func TestCollectNamedFunctionDeclaration(t *testing.T) {
	scopes := jscan.Collect([]byte(`function greet() { return 1; }`), nil)
	assert.Equal(t, []string{"greet"}, names(scopes))
}

func TestCollectVariableAssignedArrow(t *testing.T) {
	scopes := jscan.Collect([]byte(`const add = (a, b) => a + b;`), nil)
	assert.Equal(t, []string{"add"}, names(scopes))
}

func TestCollectClassMethod(t *testing.T) {
	scopes := jscan.Collect([]byte(`class C { m() { return 1; } }`), nil)
	// class body scope, then method scope
	assert.Contains(t, names(scopes), "new C")
	assert.Contains(t, names(scopes), "C.m")
}

func TestCollectPrivateMethod(t *testing.T) {
	scopes := jscan.Collect([]byte(`class C { #p() { return 1; } }`), nil)
	assert.Contains(t, names(scopes), "C.#p")
}

func TestCollectConstructorSkipped(t *testing.T) {
	scopes := jscan.Collect([]byte(`class C { constructor() { this.x = 1; } }`), nil)
	for _, n := range names(scopes) {
		assert.NotContains(t, n, "constructor")
	}
	assert.Contains(t, names(scopes), "new C")
}

func TestCollectObjectMethodAndProperty(t *testing.T) {
	scopes := jscan.Collect([]byte(`const obj = { m() {}, k: function() {} };`), nil)
	// Inference doesn't stop at the enclosing object literal: it keeps
	// walking outward to the variable the object itself is bound to.
	assert.Contains(t, names(scopes), "obj.m")
	assert.Contains(t, names(scopes), "obj.k")
}

func TestCollectAssignmentToMember(t *testing.T) {
	scopes := jscan.Collect([]byte(`obj.k = function() { return 1; };`), nil)
	assert.Contains(t, names(scopes), "obj.k")
}

func TestCollectAnonymousClassExpression(t *testing.T) {
	scopes := jscan.Collect([]byte(`const Foo = class { m() {} };`), nil)
	assert.Contains(t, names(scopes), "new Foo")
}

func TestCollectUnresolvableAnonymousFunctionIsNil(t *testing.T) {
	scopes := jscan.Collect([]byte(`setTimeout(function() { return 1; }, 0);`), nil)
	assert.Contains(t, names(scopes), "")
}

func TestCollectMalformedInputDoesNotPanic(t *testing.T) {
	// tree-sitter error-recovers most malformed input rather than failing
	// outright, so this asserts Collect never panics on it.
	assert.NotPanics(t, func() {
		jscan.Collect([]byte(`function ( { }{{{`), nil)
	})
}
