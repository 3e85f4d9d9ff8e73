// Package css holds the shared low-level CSS machinery: a tokenizer-backed
// tagged value type and a light stylesheet parser producing flat rules.
// The full CSS grammar (nested selectors, cascade) is out of scope; the
// parser keeps exactly what the validation and compliance layers consume.
package css

import (
	"bytes"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	tdcss "github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Rule is a flat CSS rule: a raw selector and its declarations. Rules
// nested in @media blocks keep the query text in Media.
type Rule struct {
	Selector     string
	Media        string // enclosing @media query, "" for top-level rules
	Declarations map[string]string
}

// Stylesheet is the parsed form of untrusted CSS text.
type Stylesheet struct {
	Rules          []Rule
	Warnings       []string
	ImportantCount int // number of declarations carrying !important
}

// Parser parses CSS text into flat rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet. Parse never fails: malformed
// input yields fewer rules and more warnings.
func (p *Parser) Parse(data []byte) *Stylesheet {
	sheet := &Stylesheet{
		Rules:    make([]Rule, 0),
		Warnings: make([]string, 0),
	}

	input := parse.NewInput(bytes.NewReader(data))
	parser := tdcss.NewParser(input, false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case tdcss.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				p.log.Debug("CSS parse error", zap.Error(err))
			}
			return sheet

		case tdcss.BeginAtRuleGrammar:
			atRule := string(data)
			if atRule == "@media" {
				query := tokensToString(parser.Values())
				p.parseBlockRules(parser, sheet, query)
				p.log.Debug("Parsed @media block", zap.String("query", query))
			} else {
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case tdcss.AtRuleGrammar:
			atRule := string(data)
			sheet.Warnings = append(sheet.Warnings, "skipped at-rule: "+atRule)
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case tdcss.BeginRulesetGrammar, tdcss.QualifiedRuleGrammar:
			selectors := p.parseSelectors(data, parser.Values())
			decls := p.parseDeclarations(parser, sheet)
			appendRules(sheet, selectors, "", decls)
		}
	}
}

// parseBlockRules parses rules inside an @media block, tagging each with
// the query.
func (p *Parser) parseBlockRules(parser *tdcss.Parser, sheet *Stylesheet, query string) {
	for {
		gt, _, data := parser.Next()

		switch gt {
		case tdcss.ErrorGrammar, tdcss.EndAtRuleGrammar:
			return

		case tdcss.BeginRulesetGrammar:
			selectors := p.parseSelectors(data, parser.Values())
			decls := p.parseDeclarations(parser, sheet)
			appendRules(sheet, selectors, query, decls)
		}
	}
}

// appendRules creates one rule per selector, cloning the declaration map.
func appendRules(sheet *Stylesheet, selectors []string, media string, decls map[string]string) {
	for _, sel := range selectors {
		declsCopy := make(map[string]string, len(decls))
		for k, v := range decls {
			declsCopy[k] = v
		}
		sheet.Rules = append(sheet.Rules, Rule{
			Selector:     sel,
			Media:        media,
			Declarations: declsCopy,
		})
	}
}

// parseSelectors extracts raw selector strings from token data, split on
// commas for grouped selectors.
func (p *Parser) parseSelectors(data []byte, values []tdcss.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
// An !important marker is stripped from the value and counted on the sheet.
func (p *Parser) parseDeclarations(parser *tdcss.Parser, sheet *Stylesheet) map[string]string {
	decls := make(map[string]string)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case tdcss.ErrorGrammar, tdcss.EndRulesetGrammar:
			return decls

		case tdcss.DeclarationGrammar:
			name := strings.ToLower(string(data))
			value := tokensToString(parser.Values())
			if stripped, had := stripImportant(value); had {
				value = stripped
				sheet.ImportantCount++
			}
			if value != "" {
				decls[name] = value
			}

		case tdcss.CustomPropertyGrammar:
			// custom properties (--var) are not validated
			continue
		}
	}
}

// tokensToString joins token data with single spaces between runs.
func tokensToString(tokens []tdcss.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != tdcss.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// stripImportant removes a trailing !important marker.
func stripImportant(value string) (string, bool) {
	lower := strings.ToLower(value)
	idx := strings.LastIndex(lower, "!")
	if idx < 0 || strings.TrimSpace(lower[idx+1:]) != "important" {
		return value, false
	}
	return strings.TrimSpace(value[:idx]), true
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *tdcss.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case tdcss.ErrorGrammar:
			return
		case tdcss.BeginAtRuleGrammar, tdcss.BeginRulesetGrammar:
			depth++
		case tdcss.EndAtRuleGrammar, tdcss.EndRulesetGrammar:
			depth--
		}
	}
}
