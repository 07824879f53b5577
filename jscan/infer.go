package jscan

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/viant/smcache/scopename"
)

// inferScopeName walks self's ancestors (nearest first) looking for the
// kind of enclosing context that gives an otherwise-anonymous scope a
// name: a variable it's assigned to, a property it's assigned to, or the
// class/object it's a method of.
func (c *collector) inferScopeName(self *sitter.Node, path []*sitter.Node) *scopename.Name {
	name := scopename.New()
	if c.walkAncestors(name, path) {
		return name
	}
	return nil
}

// inferMethodName is inferScopeName for a method_definition node, whose own
// key (e.g. "m" in `class C { m() {} }`) is not an ancestor but the node
// itself. components is the already-extracted key contribution (possibly
// nil, if the key couldn't be read).
func (c *collector) inferMethodName(components []scopename.Component, path []*sitter.Node) *scopename.Name {
	name := scopename.New()
	for _, comp := range components {
		name.PushFront(comp)
	}
	if c.walkAncestors(name, path) {
		return name
	}
	return nil
}

// walkAncestors extends name by walking path from its nearest ancestor
// outward. It returns true if the walk reached a terminating context (a
// binding it could attach the name to); false means the caller should
// discard whatever was accumulated and treat the scope as anonymous.
func (c *collector) walkAncestors(name *scopename.Name, path []*sitter.Node) bool {
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]

		switch node.Type() {
		case "arrow_function", "function_declaration", "function", "function_expression",
			"generator_function_declaration", "generator_function":
			// Another function scope in the way: its own name (if any)
			// belongs to it, not to the node we're inferring for.
			return false

		case "method_definition":
			components, isConstructor := c.methodKeyComponents(node)
			if isConstructor {
				return false
			}
			for _, comp := range components {
				name.PushFront(comp)
			}
			// no separator, no termination: keep walking outward.

		case "pair":
			if key := node.ChildByFieldName("key"); key != nil && isPlainKey(key) {
				name.PushFront(c.identFromNode(key))
			}
			// no separator, no termination.

		case "class", "class_expression":
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name.PushFront(c.identFromNode(nameNode))
			}
			// no separator, no termination.

		case "class_declaration":
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				pushSeparator(name)
				name.PushFront(c.identFromNode(nameNode))
				return true
			}

		case "variable_declarator":
			if nameNode := node.ChildByFieldName("name"); nameNode != nil && nameNode.Type() == "identifier" {
				pushSeparator(name)
				name.PushFront(c.identFromNode(nameNode))
				return true
			}

		case "assignment_expression":
			if left := node.ChildByFieldName("left"); left != nil {
				if lhs := c.inferNameFromExpr(left); lhs != nil {
					pushSeparator(name)
					name.PrependName(lhs)
					return true
				}
			}
		}
	}
	return false
}

// inferNameFromExpr renders an expression as a qualified name, used for the
// left-hand side of an assignment. Only plain identifiers, `this`, and
// non-computed member chains resolve; anything else (computed access,
// calls, literals) fails the whole inference.
func (c *collector) inferNameFromExpr(node *sitter.Node) *scopename.Name {
	name := scopename.New()
	for {
		switch node.Type() {
		case "identifier":
			name.PushFront(c.identFromNode(node))
			return name

		case "this":
			name.PushFront(scopename.Interp("this"))
			return name

		case "member_expression":
			if prop := node.ChildByFieldName("property"); prop != nil && prop.Type() == "property_identifier" {
				name.PushFront(c.identFromNode(prop))
				name.PushFront(scopename.Interp("."))
			}
			obj := node.ChildByFieldName("object")
			if obj == nil {
				return nil
			}
			node = obj
			continue

		default:
			return nil
		}
	}
}

// methodKeyComponents extracts the name components a method_definition
// node's own key contributes (handling "#private" methods), and reports
// whether the key is "constructor" (which contributes nothing and aborts
// any inference that reaches it, since construction-time code belongs to
// the enclosing class-body scope, not to a named method).
func (c *collector) methodKeyComponents(node *sitter.Node) ([]scopename.Component, bool) {
	key := node.ChildByFieldName("name")
	if key == nil {
		return nil, false
	}

	if key.Type() == "private_property_identifier" {
		text := key.Content(c.source)
		text = stripHash(text)
		// Pushed in this order (ident, then "#") so that, once PushFront
		// reverses it, "#" renders before the name: "#p".
		return []scopename.Component{
			scopename.Ident(text, key.StartByte(), key.EndByte()),
			scopename.Interp("#"),
		}, false
	}

	text := key.Content(c.source)
	if text == "constructor" {
		return nil, true
	}
	if !isPlainKey(key) {
		return nil, false
	}
	return []scopename.Component{c.identFromNode(key)}, false
}

func isPlainKey(node *sitter.Node) bool {
	switch node.Type() {
	case "property_identifier", "identifier", "private_property_identifier":
		return true
	default:
		return false
	}
}

func pushSeparator(name *scopename.Name) {
	if !name.IsEmpty() {
		name.PushFront(scopename.Interp("."))
	}
}

func stripHash(text string) string {
	if len(text) > 0 && text[0] == '#' {
		return text[1:]
	}
	return text
}
