// Package jscan walks a tree-sitter JavaScript AST to collect the byte-range
// scopes the smcache writer needs: one entry per function-like node (arrow
// function, function declaration/expression, class body) along with a
// best-effort inferred name for that scope.
package jscan

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/sirupsen/logrus"
	"github.com/viant/smcache/scopename"
)

// Scope is one collected function/class scope: its byte range in the
// minified source and its best-effort inferred name (nil if anonymous and
// uninferrable).
type Scope struct {
	Lo, Hi uint32
	Name   *scopename.Name
}

// Collect parses source and returns every function-like scope found in it.
// A parse failure is recovered locally: it logs a warning and returns no
// scopes rather than failing the whole writer. Scope coverage then
// degrades to empty, and every token resolves to Unknown.
func Collect(source []byte, log *logrus.Logger) []Scope {
	if log == nil {
		log = discardLogger()
	}

	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		log.WithError(err).Warn("jscan: parse failed, scope coverage will be empty")
		return nil
	}

	c := &collector{source: source, log: log}
	var path []*sitter.Node
	c.walk(tree.RootNode(), &path)
	return c.scopes
}

type collector struct {
	source []byte
	log    *logrus.Logger
	scopes []Scope
}

func (c *collector) walk(node *sitter.Node, path *[]*sitter.Node) {
	if node == nil {
		return
	}

	if scope, ok := c.scopeFor(node, *path); ok {
		c.scopes = append(c.scopes, scope)
	}

	*path = append(*path, node)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.walk(node.NamedChild(i), path)
	}
	*path = (*path)[:len(*path)-1]
}

// scopeFor decides whether node opens a scope and, if so, computes its
// name. path holds node's ancestors, nearest-last.
func (c *collector) scopeFor(node *sitter.Node, path []*sitter.Node) (Scope, bool) {
	switch node.Type() {
	case "arrow_function":
		return Scope{Lo: node.StartByte(), Hi: node.EndByte(), Name: c.inferScopeName(node, path)}, true

	case "function_declaration", "function", "function_expression",
		"generator_function_declaration", "generator_function":
		name := c.ownFunctionName(node)
		if name == nil {
			name = c.inferScopeName(node, path)
		}
		return Scope{Lo: node.StartByte(), Hi: node.EndByte(), Name: name}, true

	case "class_declaration", "class", "class_expression":
		name := c.ownClassName(node, path)
		return Scope{Lo: node.StartByte(), Hi: node.EndByte(), Name: name}, true

	case "method_definition":
		components, isConstructor := c.methodKeyComponents(node)
		if isConstructor {
			// Constructors never get their own scope entry: field
			// initializers run as part of them, and they're covered by
			// the enclosing class-body scope instead.
			return Scope{}, false
		}
		name := c.inferMethodName(components, path)
		return Scope{Lo: node.StartByte(), Hi: node.EndByte(), Name: name}, true
	}

	return Scope{}, false
}

// ownFunctionName reads a function/function_declaration/generator_function
// node's own "name" field, if any. Arrow functions never have one.
func (c *collector) ownFunctionName(node *sitter.Node) *scopename.Name {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := scopename.New()
	name.PushBack(c.identFromNode(nameNode))
	return name
}

// ownClassName reads a class/class_declaration node's own "name" field if
// present, falling back to ancestor inference otherwise. Either way, a
// resolved name gets "new " prepended.
func (c *collector) ownClassName(node *sitter.Node, path []*sitter.Node) *scopename.Name {
	var name *scopename.Name

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		name = scopename.New()
		name.PushBack(c.identFromNode(nameNode))
	} else {
		name = c.inferScopeName(node, path)
	}

	if name == nil {
		return nil
	}
	name.PushFront(scopename.Interp("new "))
	return name
}

func (c *collector) identFromNode(node *sitter.Node) scopename.Component {
	return scopename.Ident(node.Content(c.source), node.StartByte(), node.EndByte())
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(discardWriter{})
	return l
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
