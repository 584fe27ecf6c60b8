package css

import (
	"errors"
	"fmt"
	"strings"
)

// Combinator joins two selectors into a composite one.
type Combinator byte

const (
	Descendant      Combinator = ' '
	Child           Combinator = '>'
	AdjacentSibling Combinator = '+'
	GeneralSibling  Combinator = '~'
)

var ErrInvalidCombinator = errors.New("not a valid combinator")

var combinatorNames = map[Combinator]string{
	Descendant:      "descendant",
	Child:           "child",
	AdjacentSibling: "adjacent-sibling",
	GeneralSibling:  "general-sibling",
}

// Symbol returns text placed between combined selectors.
func (c Combinator) Symbol() string {
	return string(rune(c))
}

// String returns the combinator name, or its symbol if it is not one we know.
func (c Combinator) String() string {
	if name, ok := combinatorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Combinator(%q)", rune(c))
}

// IsValid reports whether c is one of ' ', '>', '+', '~'.
func (c Combinator) IsValid() bool {
	_, ok := combinatorNames[c]
	return ok
}

// ParseCombinator accepts either a symbol or a combinator name. Blank input
// (any amount of white space) is the descendant combinator.
func ParseCombinator(s string) (Combinator, error) {
	if len(s) > 0 && strings.TrimSpace(s) == "" {
		return Descendant, nil
	}
	t := strings.ToLower(strings.TrimSpace(s))
	if len(t) == 1 {
		if c := Combinator(t[0]); c.IsValid() {
			return c, nil
		}
	}
	for c, name := range combinatorNames {
		if name == t {
			return c, nil
		}
	}
	return Combinator(0), fmt.Errorf("%q is %w", s, ErrInvalidCombinator)
}

// MarshalText implements encoding.TextMarshaler.
func (c Combinator) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%s is %w", c, ErrInvalidCombinator)
	}
	return []byte(c.Symbol()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Combinator) UnmarshalText(text []byte) error {
	v, err := ParseCombinator(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
