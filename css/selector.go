package css

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// PartKind identifies one kind of fragment of a simple selector.
type PartKind int

const (
	PartElement       PartKind = iota // a
	PartID                            // #main
	PartClass                         // .container
	PartAttr                          // [href]
	PartPseudoClass                   // :focus
	PartPseudoElement                 // ::before
)

// String returns the name of the part kind as used in selector documents.
func (k PartKind) String() string {
	switch k {
	case PartElement:
		return "element"
	case PartID:
		return "id"
	case PartClass:
		return "class"
	case PartAttr:
		return "attr"
	case PartPseudoClass:
		return "pseudo-class"
	case PartPseudoElement:
		return "pseudo-element"
	default:
		return "unknown"
	}
}

var ErrInvalidPartKind = errors.New("not a valid selector part kind")

// ParsePartKind accepts names returned by PartKind.String as well as
// camel-case forms (pseudoClass, pseudoElement) and "attribute".
func ParsePartKind(name string) (PartKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "element", "type", "tag":
		return PartElement, nil
	case "id":
		return PartID, nil
	case "class":
		return PartClass, nil
	case "attr", "attribute":
		return PartAttr, nil
	case "pseudo-class", "pseudoclass", "pseudo_class":
		return PartPseudoClass, nil
	case "pseudo-element", "pseudoelement", "pseudo_element":
		return PartPseudoElement, nil
	}
	return PartKind(0), fmt.Errorf("%q is %w", name, ErrInvalidPartKind)
}

// Singleton reports whether the kind may occur at most once inside a simple
// selector.
func (k PartKind) Singleton() bool {
	return k == PartElement || k == PartID || k == PartPseudoElement
}

// Format returns CSS text for a fragment of this kind. Name is used verbatim.
func (k PartKind) Format(name string) string {
	switch k {
	case PartID:
		return "#" + name
	case PartClass:
		return "." + name
	case PartAttr:
		return "[" + name + "]"
	case PartPseudoClass:
		return ":" + name
	case PartPseudoElement:
		return "::" + name
	default:
		return name
	}
}

// Part is a single fragment of a simple selector.
type Part struct {
	Kind PartKind
	Name string
}

func (p Part) String() string {
	return p.Kind.Format(p.Name)
}

// Selector is anything that renders to selector text: Simple, Composite or
// a Builder chain.
type Selector interface {
	String() string
}

// Render returns selector text, nil renders as empty string.
func Render(s Selector) string {
	if s == nil {
		return ""
	}
	return s.String()
}

// Simple is a non-combined selector: fragments concatenated in the order they
// were appended. Simple values are never modified after construction.
type Simple struct {
	parts []Part
	used  uint8 // bit per singleton kind
}

// Parts returns fragments of the selector in append order.
func (s Simple) Parts() []Part {
	return slices.Clone(s.parts)
}

// Empty is true when no fragments were appended.
func (s Simple) Empty() bool {
	return len(s.parts) == 0
}

// Has reports whether a singleton kind is already present. Always false for
// repeatable kinds.
func (s Simple) Has(kind PartKind) bool {
	return kind.Singleton() && s.used&(1<<uint(kind)) != 0
}

// With returns a new selector with part appended. The receiver is untouched,
// on duplicate singleton nothing is appended and *DuplicatePartError is
// returned.
func (s Simple) With(part Part) (Simple, error) {
	if s.Has(part.Kind) {
		return s, &DuplicatePartError{Kind: part.Kind, Name: part.Name}
	}
	parts := make([]Part, len(s.parts), len(s.parts)+1)
	copy(parts, s.parts)
	ns := Simple{parts: append(parts, part), used: s.used}
	if part.Kind.Singleton() {
		ns.used |= 1 << uint(part.Kind)
	}
	return ns, nil
}

func (s Simple) String() string {
	var sb strings.Builder
	for _, p := range s.parts {
		sb.WriteString(p.String())
	}
	return sb.String()
}

// Composite joins two selectors with a combinator.
type Composite struct {
	Left       Selector
	Combinator Combinator
	Right      Selector
}

func (c Composite) String() string {
	return Render(c.Left) + " " + c.Combinator.Symbol() + " " + Render(c.Right)
}

// extend appends part to the rightmost simple selector of node, so that
// fragments following a combine refine the subject of the composite.
func extend(node Selector, part Part) (Selector, error) {
	switch n := node.(type) {
	case nil:
		return Simple{}.With(part)
	case Simple:
		return n.With(part)
	case Composite:
		right, err := extend(n.Right, part)
		if err != nil {
			return node, err
		}
		n.Right = right
		return n, nil
	case *Builder:
		if n == nil {
			return Simple{}.With(part)
		}
		if n.err != nil {
			return node, n.err
		}
		return extend(n.node, part)
	case joined:
		tail, err := n.tail.With(part)
		if err != nil {
			return node, err
		}
		n.tail = tail
		return n, nil
	default:
		// foreign Selector implementation, treat it as opaque right operand
		s, err := Simple{}.With(part)
		if err != nil {
			return node, err
		}
		return joined{node, s}, nil
	}
}

// joined renders two selectors without separator, used to append fragments
// to selectors we do not own.
type joined struct {
	head Selector
	tail Simple
}

func (j joined) String() string {
	return Render(j.head) + j.tail.String()
}
