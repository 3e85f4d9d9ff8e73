package css_test

import (
	"strings"
	"testing"

	"github.com/FEAWServices/wyverncss-sub000/css"
)

func TestParseSimpleRule(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(`p { color: red; font-size: 14px; }`))

	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	rule := sheet.Rules[0]
	if rule.Selector != "p" {
		t.Errorf("selector = %q, want %q", rule.Selector, "p")
	}
	if rule.Media != "" {
		t.Errorf("unexpected media query %q", rule.Media)
	}
	if rule.Declarations["color"] != "red" || rule.Declarations["font-size"] != "14px" {
		t.Errorf("unexpected declarations: %v", rule.Declarations)
	}
}

func TestParseGroupedSelectors(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(`h1, h2.title { margin: 0 }`))

	if len(sheet.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(sheet.Rules))
	}
	if sheet.Rules[0].Selector != "h1" || sheet.Rules[1].Selector != "h2.title" {
		t.Errorf("unexpected selectors: %q, %q", sheet.Rules[0].Selector, sheet.Rules[1].Selector)
	}
	// each rule carries its own declaration map
	sheet.Rules[0].Declarations["margin"] = "changed"
	if sheet.Rules[1].Declarations["margin"] != "0" {
		t.Error("declaration maps are shared between grouped rules")
	}
}

func TestParseMediaBlock(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(`
p { color: black }
@media (max-width: 600px) {
	p { color: blue }
	h1 { font-size: 20px }
}`))

	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}
	if sheet.Rules[0].Media != "" {
		t.Errorf("top-level rule tagged with media query %q", sheet.Rules[0].Media)
	}
	for _, rule := range sheet.Rules[1:] {
		if !strings.Contains(rule.Media, "max-width") {
			t.Errorf("rule %q media = %q, want max-width query", rule.Selector, rule.Media)
		}
	}
}

func TestParseImportant(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(`p { color: red !important; margin: 0 !IMPORTANT; padding: 4px }`))

	if sheet.ImportantCount != 2 {
		t.Errorf("ImportantCount = %d, want 2", sheet.ImportantCount)
	}
	decls := sheet.Rules[0].Declarations
	if decls["color"] != "red" {
		t.Errorf("!important not stripped: %q", decls["color"])
	}
	if decls["margin"] != "0" {
		t.Errorf("!IMPORTANT not stripped: %q", decls["margin"])
	}
}

func TestParseSkipsOtherAtRules(t *testing.T) {
	sheet := css.NewParser(nil).Parse([]byte(`
@import url("evil.css");
@font-face { font-family: X; src: url(x.woff2); }
p { color: red }`))

	if len(sheet.Rules) != 1 || sheet.Rules[0].Selector != "p" {
		t.Fatalf("expected only the ruleset to survive, got %+v", sheet.Rules)
	}
	if len(sheet.Warnings) != 2 {
		t.Errorf("expected 2 warnings, got %v", sheet.Warnings)
	}
}

func TestParseNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"p {",
		"{}{}{}",
		"p { color }",
		"@media {",
		"\x00\x01\x02",
	}
	for _, in := range inputs {
		sheet := css.NewParser(nil).Parse([]byte(in))
		if sheet == nil {
			t.Fatalf("Parse(%q) returned nil sheet", in)
		}
	}
}
