package css

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser turns declaration blocks ("color: red; margin: 0 auto") into rule
// properties. Selectors are never parsed, they come from Builder.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new declarations parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseDeclarations parses declaration block without surrounding braces.
// Problems are reported as warnings, valid declarations are always returned.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) ParseDeclarations(data []byte, source ...string) (map[string]Value, []string) {
	props := make(map[string]Value)
	var warnings []string

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing declarations", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), true)
	for {
		gt, _, name := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			err := parser.Err()
			if err == nil {
				warnings = append(warnings, "malformed declaration skipped")
				continue
			}
			if !errors.Is(err, io.EOF) {
				p.log.Debug("CSS parse error", zap.Error(err))
				warnings = append(warnings, "parse error: "+err.Error())
			}
			return props, warnings

		case css.DeclarationGrammar:
			prop := strings.ToLower(string(name))
			values := parser.Values()
			if len(values) == 0 {
				warnings = append(warnings, "empty value for property: "+prop)
				continue
			}
			props[prop] = parsePropertyValue(values)

		case css.CustomPropertyGrammar:
			// --name: value, kept verbatim
			prop := string(name)
			raw := strings.TrimSpace(string(bytes.Join(tokenData(parser.Values()), nil)))
			props[prop] = Value{Raw: raw, Keyword: raw}

		default:
			p.log.Debug("Unexpected grammar in declaration block", zap.Stringer("grammar", gt))
		}
	}
}

func tokenData(tokens []css.Token) [][]byte {
	res := make([][]byte, 0, len(tokens))
	for _, t := range tokens {
		res = append(res, t.Data)
	}
	return res
}

// splitImportant removes trailing "!important" from value tokens.
func splitImportant(tokens []css.Token) ([]css.Token, bool) {
	end := len(tokens)
	for end > 0 && tokens[end-1].TokenType == css.WhitespaceToken {
		end--
	}
	if end < 2 || tokens[end-1].TokenType != css.IdentToken || !strings.EqualFold(string(tokens[end-1].Data), "important") {
		return tokens, false
	}
	bang := end - 2
	for bang >= 0 && tokens[bang].TokenType == css.WhitespaceToken {
		bang--
	}
	if bang < 0 || tokens[bang].TokenType != css.DelimToken || string(tokens[bang].Data) != "!" {
		return tokens, false
	}
	return tokens[:bang], true
}

// parsePropertyValue converts CSS tokens to a Value.
func parsePropertyValue(tokens []css.Token) Value {
	tokens, important := splitImportant(tokens)

	// Trim whitespace tokens on both ends
	for len(tokens) > 0 && tokens[0].TokenType == css.WhitespaceToken {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && tokens[len(tokens)-1].TokenType == css.WhitespaceToken {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return Value{Important: important}
	}

	// Build raw value string, collapsing white space
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(t.Data)
	}

	val := Value{Raw: sb.String(), Important: important}

	if len(tokens) == 1 {
		t := tokens[0]
		switch t.TokenType {
		case css.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case css.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case css.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case css.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case css.StringToken:
			val.Keyword = unquote(string(t.Data))
		case css.HashToken:
			// Color value
			val.Keyword = string(t.Data)
		default:
			val.Keyword = val.Raw
		}
		return val
	}

	// Functions (rgb(), url()) and multi-value properties
	val.Keyword = val.Raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}

	if numEnd == 0 {
		return 0, ""
	}

	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
