// Package sheet assembles stylesheets from selector documents - YAML (or
// JSON) descriptions of rules whose selectors are built fragment by fragment
// with css.Builder.
package sheet

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"cssb/css"
)

type (
	// Document is a list of rules.
	Document struct {
		Rules []RuleSpec `yaml:"rules"`
	}

	// RuleSpec describes single rule. Declarations are optional, rule without
	// them is only useful for selector listing.
	RuleSpec struct {
		Selector     Node   `yaml:"selector"`
		Declarations string `yaml:"declarations,omitempty"`
		Media        string `yaml:"media,omitempty"`
	}

	// Node is either a simple selector (ordered parts) or combination of two
	// nodes, never both.
	Node struct {
		Parts   []PartSpec   `yaml:"parts,omitempty"`
		Combine *CombineSpec `yaml:"combine,omitempty"`
	}

	CombineSpec struct {
		Left       Node           `yaml:"left"`
		Combinator CombinatorSpec `yaml:"combinator"`
		Right      Node           `yaml:"right"`
	}

	// PartSpec is a single-key mapping: {class: container}.
	PartSpec css.Part

	// CombinatorSpec is a combinator symbol or name. Plain ~ is null in YAML
	// and still means general sibling.
	CombinatorSpec css.Combinator
)

var ErrMalformedNode = errors.New("malformed selector node")

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *PartSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode || len(value.Content) != 2 {
		return fmt.Errorf("line %d: selector part must be a mapping with a single key", value.Line)
	}
	kind, err := css.ParsePartKind(value.Content[0].Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	var name string
	if err := value.Content[1].Decode(&name); err != nil {
		return fmt.Errorf("line %d: selector part value: %w", value.Line, err)
	}
	*p = PartSpec{Kind: kind, Name: name}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p PartSpec) MarshalYAML() (any, error) {
	return map[string]string{p.Kind.String(): p.Name}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler. Decoder never calls it for null
// nodes, CombineSpec passes those explicitly.
func (c *CombinatorSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: combinator must be a scalar", value.Line)
	}
	if value.Tag == "!!null" && value.Value == "~" {
		*c = CombinatorSpec(css.GeneralSibling)
		return nil
	}
	v, err := css.ParseCombinator(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = CombinatorSpec(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c CombinatorSpec) MarshalYAML() (any, error) {
	text, err := css.Combinator(c).MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (c CombinatorSpec) String() string {
	return css.Combinator(c).String()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *CombineSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: combine must be a mapping", value.Line)
	}
	if err := knownKeys(value, "combine", "left", "combinator", "right"); err != nil {
		return err
	}

	var raw struct {
		Left       Node      `yaml:"left"`
		Combinator yaml.Node `yaml:"combinator"`
		Right      Node      `yaml:"right"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	res := CombineSpec{Left: raw.Left, Right: raw.Right}
	if raw.Combinator.Kind != 0 {
		if err := res.Combinator.UnmarshalYAML(&raw.Combinator); err != nil {
			return err
		}
	}
	*c = res
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: selector node must be a mapping", value.Line)
	}
	if err := knownKeys(value, "selector node", "parts", "combine"); err != nil {
		return err
	}
	type plain Node
	return value.Decode((*plain)(n))
}

// knownKeys rejects unknown mapping keys, yaml.Node.Decode does not inherit
// decoder KnownFields setting.
func knownKeys(value *yaml.Node, what string, keys ...string) error {
	for i := 0; i+1 < len(value.Content); i += 2 {
		if key := value.Content[i]; !slices.Contains(keys, key.Value) {
			return fmt.Errorf("line %d: field %s not found in %s", key.Line, key.Value, what)
		}
	}
	return nil
}

// Builder assembles selector described by the node.
func (n *Node) Builder() (*css.Builder, error) {
	switch {
	case n.Combine != nil && len(n.Parts) > 0:
		return nil, fmt.Errorf("%w: both parts and combine are present", ErrMalformedNode)
	case n.Combine != nil:
		if !css.Combinator(n.Combine.Combinator).IsValid() {
			return nil, fmt.Errorf("%w: %w", ErrMalformedNode, css.ErrInvalidCombinator)
		}
		left, err := n.Combine.Left.Builder()
		if err != nil {
			return nil, fmt.Errorf("left: %w", err)
		}
		right, err := n.Combine.Right.Builder()
		if err != nil {
			return nil, fmt.Errorf("right: %w", err)
		}
		return css.Combine(left, css.Combinator(n.Combine.Combinator), right), nil
	case len(n.Parts) > 0:
		b := css.New()
		for _, p := range n.Parts {
			b = b.Part(css.Part(p))
		}
		if err := b.Err(); err != nil {
			var dup *css.DuplicatePartError
			if errors.As(err, &dup) {
				return nil, fmt.Errorf("%s %q: %w", dup.Kind, dup.Name, err)
			}
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: neither parts nor combine are present", ErrMalformedNode)
	}
}

// Load decodes selector document. Unknown fields are rejected. JSON is
// accepted as well.
func Load(data []byte) (*Document, error) {
	doc := &Document{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil {
		return nil, fmt.Errorf("failed to decode selector document: %w", err)
	}
	return doc, nil
}

// LoadFile reads and decodes selector document from file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read selector document: %w", err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes document back to YAML.
func (d *Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal selector document to yaml: %w", err)
	}
	return data, nil
}

// Selectors renders selector of every rule. Errors from all rules are
// collected, rendered slice keeps an empty string for failed rules.
func (d *Document) Selectors() ([]string, error) {
	var errs error
	res := make([]string, len(d.Rules))
	for i := range d.Rules {
		b, err := d.Rules[i].Selector.Builder()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		res[i] = b.Stringify()
	}
	return res, errs
}

// Build assembles stylesheet. Rules with broken selectors are skipped and
// reported together, declaration problems end up as stylesheet warnings.
func (d *Document) Build(log *zap.Logger) (*css.Stylesheet, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("sheet")

	parser := css.NewParser(log)
	sheet := &css.Stylesheet{}

	var errs error
	for i := range d.Rules {
		spec := &d.Rules[i]

		b, err := spec.Selector.Builder()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		sel, err := b.Build()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}

		props, warnings := parser.ParseDeclarations([]byte(spec.Declarations), css.Render(sel))
		for _, w := range warnings {
			sheet.Warnings = append(sheet.Warnings, fmt.Sprintf("rule %d (%s): %s", i, css.Render(sel), w))
		}
		sheet.AddRule(spec.Media, css.Rule{Selector: sel, Properties: props})
		log.Debug("Rule assembled", zap.Int("index", i), zap.Stringer("selector", sel), zap.Int("properties", len(props)), zap.String("media", spec.Media))
	}
	return sheet, errs
}
