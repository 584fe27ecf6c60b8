package sheet_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cssb/css"
	"cssb/sheet"
)

const sampleDocument = `rules:
  - selector:
      parts:
        - id: main
        - class: container
        - class: editable
    declarations: "border: 1px solid; padding: 0.5em"
  - selector:
      parts:
        - element: a
        - attr: 'href$=".png"'
        - pseudo-class: focus
    declarations: "outline: none"
  - selector:
      combine:
        left:
          parts:
            - element: div
            - id: main
            - class: container
            - class: draggable
        combinator: "+"
        right:
          combine:
            left:
              parts: [{element: table}, {id: data}]
            combinator: "~"
            right:
              combine:
                left:
                  parts: [{element: tr}, {pseudoClass: "nth-of-type(even)"}]
                combinator: " "
                right:
                  parts: [{element: td}, {pseudoClass: "nth-of-type(even)"}]
    media: print
`

func TestDocument_Selectors(t *testing.T) {
	doc, err := sheet.Load([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	got, err := doc.Selectors()
	if err != nil {
		t.Fatalf("Selectors() error = %v", err)
	}
	want := []string{
		"#main.container.editable",
		`a[href$=".png"]:focus`,
		"div#main.container.draggable + table#data ~ tr:nth-of-type(even)   td:nth-of-type(even)",
	}
	if len(got) != len(want) {
		t.Fatalf("Selectors() returned %d items, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selector %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDocument_Build(t *testing.T) {
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))

	doc, err := sheet.Load([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	st, err := doc.Build(logger)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	rules := st.Rules()
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(rules))
	}
	if v, ok := rules[0].GetProperty("padding"); !ok || v.Value != 0.5 || v.Unit != "em" {
		t.Errorf("padding = %+v", v)
	}

	out := st.String()
	if !strings.Contains(out, "#main.container.editable {\n  border: 1px solid;\n  padding: 0.5em;\n}\n") {
		t.Errorf("unexpected stylesheet:\n%s", out)
	}
	if !strings.Contains(out, "@media print {\n  div#main.container.draggable + table#data") {
		t.Errorf("expected media block in:\n%s", out)
	}
}

func TestDocument_JSON(t *testing.T) {
	doc, err := sheet.Load([]byte(`{"rules": [{"selector": {"combine": {"left": {"parts": [{"element": "ul"}]}, "combinator": "child", "right": {"parts": [{"element": "li"}, {"pseudo-element": "marker"}]}}}}]}`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	got, err := doc.Selectors()
	if err != nil {
		t.Fatalf("Selectors() error = %v", err)
	}
	if got[0] != "ul > li::marker" {
		t.Errorf("selector = %q", got[0])
	}
}

func TestDocument_ErrorsAreCollected(t *testing.T) {
	doc, err := sheet.Load([]byte(`rules:
  - selector:
      parts: [{element: a}, {element: b}]
  - selector:
      parts: [{class: ok}]
  - selector:
      combine:
        left: {parts: [{element: a}]}
        combinator: ">"
        right: {parts: [{id: x}, {id: y}]}
  - selector: {}
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	st, err := doc.Build(zap.NewNop())
	if err == nil {
		t.Fatal("expected error")
	}
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), err)
	}
	if !errors.Is(errs[0], css.ErrDuplicatePart) || !strings.HasPrefix(errs[0].Error(), "rule 0: element \"b\"") {
		t.Errorf("unexpected first error: %v", errs[0])
	}
	if !errors.Is(errs[1], css.ErrDuplicatePart) || !strings.HasPrefix(errs[1].Error(), "rule 2: right: id") {
		t.Errorf("unexpected second error: %v", errs[1])
	}
	if !errors.Is(errs[2], sheet.ErrMalformedNode) {
		t.Errorf("unexpected third error: %v", errs[2])
	}

	rules := st.Rules()
	if len(rules) != 1 || css.Render(rules[0].Selector) != ".ok" {
		t.Errorf("expected only valid rule to survive, got %v", rules)
	}

	sels, err := doc.Selectors()
	if err == nil || sels[1] != ".ok" || sels[0] != "" {
		t.Errorf("Selectors() = %q, %v", sels, err)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "rules:\n  - selector: {parts: [{class: a}]}\n    colour: red\n"},
		{"unknown part kind", "rules:\n  - selector: {parts: [{tag-name: a}]}\n"},
		{"two keys in part", "rules:\n  - selector: {parts: [{class: a, id: b}]}\n"},
		{"bad combinator", "rules:\n  - selector: {combine: {left: {parts: [{class: a}]}, combinator: '|', right: {parts: [{class: b}]}}}\n"},
		{"null combinator", "rules:\n  - selector: {combine: {left: {parts: [{class: a}]}, combinator: null, right: {parts: [{class: b}]}}}\n"},
		{"unknown field in combine", "rules:\n  - selector: {combine: {left: {parts: [{class: a}]}, combinator: '>', right: {parts: [{class: b}]}, extra: 1}}\n"},
		{"unknown field in nested node", "rules:\n  - selector: {combine: {left: {part: [{class: a}]}, combinator: '>', right: {parts: [{class: b}]}}}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sheet.Load([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDocument_MarshalRoundTrip(t *testing.T) {
	doc, err := sheet.Load([]byte(sampleDocument))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	again, err := sheet.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v\n%s", err, data)
	}

	first, _ := doc.Selectors()
	second, _ := again.Selectors()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("selector %d changed after round trip: %q != %q", i, first[i], second[i])
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := sheet.LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDocument_Dump(t *testing.T) {
	doc, err := sheet.Load([]byte(`rules:
  - selector:
      combine:
        left:
          parts: [{element: ul}]
        combinator: ">"
        right:
          parts: [{element: li}, {class: active}]
    media: print
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := `rule 0
  media: "print"
  combine child
    simple
      element: "ul"
    simple
      element: "li"
      class: "active"
`
	if got := doc.Dump(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestDocument_PlainTildeCombinator(t *testing.T) {
	doc, err := sheet.Load([]byte(`rules:
  - selector:
      combine:
        left:
          parts: [{element: h1}]
        combinator: ~
        right:
          combine:
            left:
              parts: [{element: p}]
            combinator: ">"
            right:
              parts: [{element: em}]
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	sels, err := doc.Selectors()
	if err != nil {
		t.Fatalf("Selectors() error = %v", err)
	}
	if sels[0] != "h1 ~ p > em" {
		t.Errorf("selector = %q", sels[0])
	}

	data, err := doc.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	again, err := sheet.Load(data)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", data, err)
	}
	if sels, err = again.Selectors(); err != nil || sels[0] != "h1 ~ p > em" {
		t.Errorf("Selectors() after round trip = %q, %v", sels, err)
	}
}
