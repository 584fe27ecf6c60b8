package css

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw       string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value     float64 // Numeric value if applicable
	Unit      string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword   string  // Keyword if applicable: "bold", "italic", "center", etc.
	Important bool    // Declared with !important
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	// "0" has neither unit nor keyword
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

func (v Value) String() string {
	if v.Important {
		return v.Raw + " !important"
	}
	return v.Raw
}

// Rule is a selector with its declarations.
type Rule struct {
	Selector   Selector
	Properties map[string]Value
}

// GetProperty returns the value for a property, or empty Value if not found.
func (r Rule) GetProperty(name string) (Value, bool) {
	v, ok := r.Properties[name]
	return v, ok
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule or MediaBlock is non-nil.
type StylesheetItem struct {
	Rule       *Rule
	MediaBlock *MediaBlock
}

// MediaBlock groups rules under a single @media query.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// Stylesheet is an ordered list of rules ready to be written out.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in insertion order
	Warnings []string         // Problems found while collecting declarations
}

// AddRule appends rule to the stylesheet. Rules with the same non empty media
// query that follow each other share a single @media block.
func (s *Stylesheet) AddRule(media string, rule Rule) {
	media = strings.TrimSpace(media)
	if media == "" {
		s.Items = append(s.Items, StylesheetItem{Rule: &rule})
		return
	}
	if n := len(s.Items); n > 0 {
		if mb := s.Items[n-1].MediaBlock; mb != nil && mb.Query == media {
			mb.Rules = append(mb.Rules, rule)
			return
		}
	}
	s.Items = append(s.Items, StylesheetItem{MediaBlock: &MediaBlock{Query: media, Rules: []Rule{rule}}})
}

// Rules returns all rules including those inside @media blocks.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			rules = append(rules, *item.Rule)
		case item.MediaBlock != nil:
			rules = append(rules, item.MediaBlock.Rules...)
		}
	}
	return rules
}

// RulesBySelector returns all top-level rules matching the given selector string.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule != nil && Render(item.Rule.Selector) == selector {
			matches = append(matches, *item.Rule)
		}
	}
	return matches
}

// WriteTo writes the stylesheet to w in insertion order, implementing io.WriterTo.
// Property order within a rule is sorted alphabetically for deterministic output.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w prefixing every line with indent.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, Render(rule.Selector))
	total += n
	if err != nil {
		return total, err
	}

	names := make([]string, 0, len(rule.Properties))
	for name := range rule.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, name, rule.Properties[name])
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}

		// Blank line between rules in a media block (except after last)
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
