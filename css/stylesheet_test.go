package css_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"cssb/css"
)

func TestParser_ParseDeclarations(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	props, warnings := p.ParseDeclarations([]byte(`text-indent: 1.5em; FONT-WEIGHT: bold; margin: 0 auto; width: 50%; color: #ff0000; line-height: 1.2`))
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}

	tests := []struct {
		name    string
		raw     string
		value   float64
		unit    string
		keyword string
	}{
		{"text-indent", "1.5em", 1.5, "em", ""},
		{"font-weight", "bold", 0, "", "bold"},
		{"margin", "0 auto", 0, "", "0 auto"},
		{"width", "50%", 50, "%", ""},
		{"color", "#ff0000", 0, "", "#ff0000"},
		{"line-height", "1.2", 1.2, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := props[tt.name]
			if !ok {
				t.Fatalf("property %q not found in %v", tt.name, props)
			}
			if v.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", v.Raw, tt.raw)
			}
			if v.Value != tt.value {
				t.Errorf("Value = %v, want %v", v.Value, tt.value)
			}
			if v.Unit != tt.unit {
				t.Errorf("Unit = %q, want %q", v.Unit, tt.unit)
			}
			if v.Keyword != tt.keyword {
				t.Errorf("Keyword = %q, want %q", v.Keyword, tt.keyword)
			}
		})
	}

	if !props["text-indent"].IsNumeric() || props["text-indent"].IsKeyword() {
		t.Error("text-indent must be numeric")
	}
	if !props["font-weight"].IsKeyword() || props["font-weight"].IsNumeric() {
		t.Error("font-weight must be keyword")
	}
}

func TestParser_Important(t *testing.T) {
	p := css.NewParser(nil)

	props, _ := p.ParseDeclarations([]byte(`color: red !important; display: none`))
	color := props["color"]
	if !color.Important {
		t.Error("expected color to be important")
	}
	if color.Raw != "red" || color.Keyword != "red" {
		t.Errorf("color = %+v", color)
	}
	if color.String() != "red !important" {
		t.Errorf("String() = %q", color.String())
	}
	if props["display"].Important {
		t.Error("display must not be important")
	}
}

func TestParser_Empty(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	props, warnings := p.ParseDeclarations(nil, "empty")
	if len(props) != 0 || len(warnings) != 0 {
		t.Errorf("expected nothing, got %v %v", props, warnings)
	}
}

func TestStylesheet_WriteTo(t *testing.T) {
	sheet := &css.Stylesheet{}
	sheet.AddRule("", css.Rule{
		Selector: css.Element("a").Attr(`href$=".png"`).PseudoClass("focus"),
		Properties: map[string]css.Value{
			"outline": {Raw: "none"},
			"color":   {Raw: "red", Important: true},
		},
	})
	sheet.AddRule("print", css.Rule{
		Selector:   css.Combine(css.Element("nav"), css.Child, css.Element("ul")),
		Properties: map[string]css.Value{"display": {Raw: "none"}},
	})
	sheet.AddRule(" print ", css.Rule{
		Selector:   css.Class("ads"),
		Properties: map[string]css.Value{"display": {Raw: "none"}},
	})

	want := `a[href$=".png"]:focus {
  color: red !important;
  outline: none;
}

@media print {
  nav > ul {
    display: none;
  }

  .ads {
    display: none;
  }
}
`
	var sb strings.Builder
	n, err := sheet.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if got := sb.String(); got != want {
		t.Errorf("WriteTo() =\n%s\nwant\n%s", got, want)
	}
	if int(n) != len(want) {
		t.Errorf("WriteTo() reported %d bytes, want %d", n, len(want))
	}
	if sheet.String() != want {
		t.Error("String() differs from WriteTo()")
	}

	if len(sheet.Rules()) != 3 {
		t.Errorf("Rules() = %d, want 3", len(sheet.Rules()))
	}
	if len(sheet.RulesBySelector(`a[href$=".png"]:focus`)) != 1 {
		t.Error("expected rule lookup by rendered selector")
	}
	if len(sheet.RulesBySelector(".ads")) != 0 {
		t.Error("rules inside @media are not top-level")
	}
}
