package css

import (
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	tdcss "github.com/tdewolff/parse/v2/css"

	"github.com/FEAWServices/wyverncss-sub000/color"
)

// ValueKind discriminates the parsed representation of a CSS property value.
type ValueKind int

const (
	KindUnknown   ValueKind = iota // no applicable interpretation
	KindKeyword                    // bare identifier
	KindColor                      // color literal (hex, rgb()/hsl(), named)
	KindNumber                     // number with optional unit
	KindFunction                   // function call other than a color function
	KindComposite                  // whitespace separated list of values
)

// Value is a parsed CSS property value. It is produced once by ParseValue
// and consumed by both the validator and the compliance engine, so unit
// math and color parsing happen in exactly one place.
type Value struct {
	Raw  string
	Kind ValueKind

	Keyword string      // KindKeyword: lowercased identifier
	Number  float64     // KindNumber
	Unit    string      // KindNumber: lowercased unit, "" if unitless, "%" for percentages
	Name    string      // KindFunction: lowercased function name
	Args    string      // KindFunction: raw argument text
	Color   color.Color // KindColor
	Parts   []Value     // KindComposite
}

// colorFuncs are function names handed to the color model instead of the
// generic function path.
var colorFuncs = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true,
}

// ParseValue parses a raw property value into a tagged Value. The property
// name steers color recognition: bare identifiers on color-bearing
// properties resolve through the named color table.
func ParseValue(property, raw string) Value {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Value{Raw: raw}
	}

	chunks := splitTopLevel(raw)
	if len(chunks) > 1 {
		v := Value{Raw: raw, Kind: KindComposite}
		for _, chunk := range chunks {
			v.Parts = append(v.Parts, ParseValue(property, chunk))
		}
		return v
	}

	return parseChunk(property, raw)
}

// parseChunk classifies a single whitespace-free chunk using the tdewolff
// CSS lexer.
func parseChunk(property, chunk string) Value {
	v := Value{Raw: chunk}

	lex := tdcss.NewLexer(parse.NewInput(strings.NewReader(chunk)))
	tt, data := lex.Next()

	switch tt {
	case tdcss.IdentToken:
		if !atEnd(lex) {
			return v
		}
		v.Keyword = strings.ToLower(string(data))
		v.Kind = KindKeyword
		if strings.Contains(strings.ToLower(property), "color") {
			if c, ok := color.Parse(v.Keyword); ok {
				v.Kind = KindColor
				v.Color = c
			}
		}
		return v

	case tdcss.HashToken:
		if !atEnd(lex) {
			return v
		}
		if c, ok := color.Parse(string(data)); ok {
			v.Kind = KindColor
			v.Color = c
		}
		return v

	case tdcss.NumberToken:
		if !atEnd(lex) {
			return v
		}
		v.Number, _ = strconv.ParseFloat(string(data), 64)
		v.Kind = KindNumber
		return v

	case tdcss.PercentageToken:
		if !atEnd(lex) {
			return v
		}
		v.Number, _ = strconv.ParseFloat(strings.TrimSuffix(string(data), "%"), 64)
		v.Unit = "%"
		v.Kind = KindNumber
		return v

	case tdcss.DimensionToken:
		if !atEnd(lex) {
			return v
		}
		v.Number, v.Unit = parseDimension(string(data))
		v.Kind = KindNumber
		return v

	case tdcss.FunctionToken:
		name := strings.ToLower(strings.TrimSuffix(string(data), "("))
		if colorFuncs[name] {
			if c, ok := color.Parse(chunk); ok {
				v.Kind = KindColor
				v.Color = c
				return v
			}
		}
		v.Kind = KindFunction
		v.Name = name
		if open := strings.IndexByte(chunk, '('); open >= 0 {
			v.Args = strings.TrimSuffix(chunk[open+1:], ")")
		}
		return v
	}

	return v
}

// atEnd reports whether the lexer has consumed the whole chunk.
func atEnd(lex *tdcss.Lexer) bool {
	tt, _ := lex.Next()
	return tt == tdcss.ErrorToken
}

// parseDimension extracts numeric value and unit from dimension token data.
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
		return 0, strings.ToLower(s)
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	return num, strings.ToLower(s[numEnd:])
}

// splitTopLevel splits a value on whitespace runs that are outside
// parentheses, so function arguments stay attached to their call.
func splitTopLevel(raw string) []string {
	var (
		parts []string
		sb    strings.Builder
		depth int
	)
	for _, r := range raw {
		switch {
		case r == '(':
			depth++
			sb.WriteRune(r)
		case r == ')':
			depth--
			sb.WriteRune(r)
		case unicode.IsSpace(r) && depth == 0:
			if sb.Len() > 0 {
				parts = append(parts, sb.String())
				sb.Reset()
			}
		default:
			sb.WriteRune(r)
		}
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

// BalancedParens reports whether parentheses in s balance and never go
// negative.
func BalancedParens(s string) bool {
	depth := 0
	for _, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// PxSize converts a numeric value to CSS pixels: px passes through, pt is
// scaled by 1.333, rem/em by the 16px default root size and % by 0.16.
// Returns ok=false for non-numeric values and unconvertible units.
func PxSize(v Value) (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	switch v.Unit {
	case "px":
		return v.Number, true
	case "pt":
		return v.Number * 1.333, true
	case "rem", "em":
		return v.Number * 16, true
	case "%":
		return v.Number * 0.16, true
	}
	return 0, false
}
