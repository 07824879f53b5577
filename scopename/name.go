// Package scopename defines the qualified-name model the scope collector
// builds during AST inference and the name resolver later rewrites against
// a source map. A Name is an ordered sequence of Components rendered by
// concatenating each component's text, built by repeated front/back
// insertion while walking AST context.
package scopename

// Kind distinguishes the three Component variants.
type Kind int

const (
	// Interpolation is literal filler text such as ".", "#", "new ", "this"
	// that does not correspond to any token in the source.
	Interpolation Kind = iota
	// Identifier is a real source token with a byte span.
	Identifier
	// Punctuation is a reserved placeholder. It currently contributes no
	// text or range; kept for forward compatibility.
	Punctuation
)

// Component is one atom of a Name.
type Component struct {
	kind Kind
	text string // for Interpolation and Identifier

	hasSpan bool
	lo, hi  uint32
}

// Interp builds an Interpolation component carrying literal filler text.
func Interp(text string) Component {
	return Component{kind: Interpolation, text: text}
}

// Ident builds an Identifier component for a source token spanning
// [lo, hi) bytes.
func Ident(symbol string, lo, hi uint32) Component {
	return Component{kind: Identifier, text: symbol, hasSpan: true, lo: lo, hi: hi}
}

// Punct builds a Punctuation placeholder component.
func Punct() Component {
	return Component{kind: Punctuation}
}

// Kind reports which variant this component is.
func (c Component) Kind() Kind { return c.kind }

// Text is the source text this component contributes to a rendered Name.
// Punctuation components always render as empty text.
func (c Component) Text() string {
	if c.kind == Punctuation {
		return ""
	}
	return c.text
}

// Span returns the component's byte range in the source text. Only
// Identifier components carry one; everything else returns ok=false.
func (c Component) Span() (lo, hi uint32, ok bool) {
	if c.kind != Identifier || !c.hasSpan {
		return 0, 0, false
	}
	return c.lo, c.hi, true
}

// WithText returns a copy of the component with its text replaced, used by
// the name resolver to substitute a minified identifier with its original
// symbol. Only meaningful for Identifier components.
func (c Component) WithText(text string) Component {
	c.text = text
	return c
}

// Name is an ordered sequence of Components, rendered by concatenating each
// component's Text() in order. AST inference walks outward from a scope
// and repeatedly prepends context, so Name is built as two stacks: `front`
// holds prepended components in reverse order (most recently pushed last),
// `back` holds appended components in order. Both pushes are O(1)
// amortized; only Components()/String() pay to flatten them.
type Name struct {
	front []Component // reversed: front[len(front)-1] is the outermost component
	back  []Component
}

// New returns an empty Name.
func New() *Name {
	return &Name{}
}

// IsEmpty reports whether no components have been added yet.
func (n *Name) IsEmpty() bool {
	return n == nil || (len(n.front) == 0 && len(n.back) == 0)
}

// PushFront prepends a component, used when walking outward from a scope
// toward its containing context.
func (n *Name) PushFront(c Component) {
	n.front = append(n.front, c)
}

// PushBack appends a component.
func (n *Name) PushBack(c Component) {
	n.back = append(n.back, c)
}

// PrependName splices another Name's components in front of this one's.
// Used when an assignment-expression LHS resolves to a multi-component name
// that must sit outside what's already been built.
func (n *Name) PrependName(other *Name) {
	combined := append(append([]Component{}, other.Components()...), n.Components()...)
	n.front = nil
	n.back = combined
}

// Components returns the ordered components of this name.
func (n *Name) Components() []Component {
	out := make([]Component, 0, len(n.front)+len(n.back))
	for i := len(n.front) - 1; i >= 0; i-- {
		out = append(out, n.front[i])
	}
	out = append(out, n.back...)
	return out
}

// String renders the name by concatenating every component's text.
func (n *Name) String() string {
	var b []byte
	for _, c := range n.Components() {
		b = append(b, c.Text()...)
	}
	return string(b)
}
