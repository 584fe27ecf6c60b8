package css

// Builder assembles a complex selector fragment by fragment:
//
//	css.ID("main").Class("container").Class("editable").Stringify()
//	    => "#main.container.editable"
//
//	css.Combine(css.Element("ul"), css.Child, css.Element("li").PseudoClass("first-child")).Stringify()
//	    => "ul > li:first-child"
//
// Every call returns a new Builder and never touches the receiver, so chains
// may be branched from a common prefix and used from several goroutines.
// Zero value (and nil pointer) is an empty selector.
//
// Appending element, id or pseudo-element twice to the same simple selector
// puts the chain into failed state: the fragment is not applied, all further
// fragments are ignored and Err returns *DuplicatePartError. Fragments
// appended after Combine go to the rightmost simple selector.
type Builder struct {
	node Selector
	err  error
}

// New returns empty builder.
func New() *Builder {
	return &Builder{}
}

func (b *Builder) Element(name string) *Builder {
	return b.add(Part{Kind: PartElement, Name: name})
}

func (b *Builder) ID(name string) *Builder {
	return b.add(Part{Kind: PartID, Name: name})
}

func (b *Builder) Class(name string) *Builder {
	return b.add(Part{Kind: PartClass, Name: name})
}

func (b *Builder) Attr(name string) *Builder {
	return b.add(Part{Kind: PartAttr, Name: name})
}

func (b *Builder) PseudoClass(name string) *Builder {
	return b.add(Part{Kind: PartPseudoClass, Name: name})
}

func (b *Builder) PseudoElement(name string) *Builder {
	return b.add(Part{Kind: PartPseudoElement, Name: name})
}

// Part appends fragment of arbitrary kind.
func (b *Builder) Part(p Part) *Builder {
	return b.add(p)
}

func (b *Builder) add(p Part) *Builder {
	if b == nil {
		b = &Builder{}
	}
	if b.err != nil {
		return b
	}
	node, err := extend(b.node, p)
	if err != nil {
		return &Builder{node: b.node, err: err}
	}
	return &Builder{node: node}
}

// Combine ignores receiver state and is here so that a facade variable can be
// used for everything: b.Combine(b.Element("a"), css.Child, b.Element("b")).
func (b *Builder) Combine(left Selector, c Combinator, right Selector) *Builder {
	return Combine(left, c, right)
}

// Err returns first error of the chain or of any combined operand.
func (b *Builder) Err() error {
	if b == nil {
		return nil
	}
	return b.err
}

// Build returns assembled selector tree or the chain error.
func (b *Builder) Build() (Selector, error) {
	if b == nil {
		return Simple{}, nil
	}
	if b.err != nil {
		return nil, b.err
	}
	if s, ok := b.node.(Simple); b.node == nil || ok && s.Empty() {
		return Simple{}, nil
	}
	return b.node, nil
}

// Stringify renders the selector. Since builders are never modified the caller
// may start a fresh selector from any facade right away, nothing has to be
// reset. On failed chain it renders fragments accepted before the failure,
// check Err when that matters.
func (b *Builder) Stringify() string {
	if b == nil {
		return ""
	}
	return Render(b.node)
}

func (b *Builder) String() string {
	return b.Stringify()
}

// Reset returns empty builder.
func (b *Builder) Reset() *Builder {
	return New()
}

// Combine produces composite selector "left combinator right". Operands are
// rendered as is, cardinality is not checked across combinators. Errors of
// builder operands are carried over, left one first.
func Combine(left Selector, c Combinator, right Selector) *Builder {
	l, lerr := unwrap(left)
	r, rerr := unwrap(right)
	res := &Builder{node: Composite{Left: l, Combinator: c, Right: r}}
	switch {
	case lerr != nil:
		res.err = lerr
	case rerr != nil:
		res.err = rerr
	}
	return res
}

// unwrap replaces builders anywhere inside s with their nodes and returns the
// first builder error met, left to right.
func unwrap(s Selector) (Selector, error) {
	switch n := s.(type) {
	case *Builder:
		if n == nil {
			return nil, nil
		}
		node, err := unwrap(n.node)
		if n.err != nil {
			err = n.err
		}
		return node, err
	case *Composite:
		if n == nil {
			return nil, nil
		}
		return unwrap(*n)
	case Composite:
		l, lerr := unwrap(n.Left)
		r, rerr := unwrap(n.Right)
		n.Left, n.Right = l, r
		if lerr != nil {
			return n, lerr
		}
		return n, rerr
	default:
		return s, nil
	}
}

// Facade shortcuts, each starts a new chain.

func Element(name string) *Builder       { return New().Element(name) }
func ID(name string) *Builder            { return New().ID(name) }
func Class(name string) *Builder         { return New().Class(name) }
func Attr(name string) *Builder          { return New().Attr(name) }
func PseudoClass(name string) *Builder   { return New().PseudoClass(name) }
func PseudoElement(name string) *Builder { return New().PseudoElement(name) }
