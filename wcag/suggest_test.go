package wcag_test

import (
	"testing"

	"github.com/FEAWServices/wyverncss-sub000/wcag"
)

func TestSuggestHoverWithoutFocus(t *testing.T) {
	issues := wcag.Suggest(`a:hover { color: blue; }`)

	if findRule(issues, "hover-without-focus") == nil {
		t.Errorf("expected hover-without-focus, got %+v", issues)
	}
	if findRule(issues, "no-focus-styles") == nil {
		t.Errorf("expected no-focus-styles, got %+v", issues)
	}

	issues = wcag.Suggest(`a:hover { color: blue; } a:focus { outline: 2px solid; }`)
	if findRule(issues, "hover-without-focus") != nil || findRule(issues, "no-focus-styles") != nil {
		t.Errorf("focus styles present, got %+v", issues)
	}
}

func TestSuggestUnguardedMotion(t *testing.T) {
	issues := wcag.Suggest(`.spinner { animation: spin 1s linear infinite; }`)
	if findRule(issues, "unguarded-animation") == nil {
		t.Errorf("expected unguarded-animation, got %+v", issues)
	}

	guarded := `
@media (prefers-reduced-motion: no-preference) {
	.spinner { animation: spin 1s linear infinite; }
}`
	if findRule(wcag.Suggest(guarded), "unguarded-animation") != nil {
		t.Error("guarded animation still flagged")
	}

	if findRule(wcag.Suggest(`.box { transition: opacity 0.3s; }`), "unguarded-animation") == nil {
		t.Error("transition not flagged")
	}
}

func TestSuggestStructuralProbes(t *testing.T) {
	cases := []struct {
		css  string
		rule string
	}{
		{`.hero { background-image: url(hero.png); }`, "background-image-text"},
		{`.nav { position: fixed; top: 0; }`, "fixed-position"},
		{`.error { color: red; }`, "color-only-signal"},
		{`.ok { color: green; }`, "color-only-signal"},
	}
	for _, tc := range cases {
		if findRule(wcag.Suggest(tc.css), tc.rule) == nil {
			t.Errorf("Suggest(%q): expected %s", tc.css, tc.rule)
		}
	}

	if findRule(wcag.Suggest(`.err { color: crimson; }`), "color-only-signal") != nil {
		t.Error("non-signal color literal flagged")
	}
}

func TestSuggestAlwaysAdvisory(t *testing.T) {
	issues := wcag.Suggest(`
a:hover { color: red; }
.nav { position: fixed; }
.hero { background-image: url(x); animation: slide 2s; }`)

	if len(issues) == 0 {
		t.Fatal("expected issues")
	}
	for _, issue := range issues {
		if issue.Severity != wcag.SeverityInfo {
			t.Errorf("scanner produced non-advisory issue: %+v", issue)
		}
	}
}

func TestSuggestEmptyInput(t *testing.T) {
	if issues := wcag.Suggest(""); len(issues) != 0 {
		t.Errorf("empty input produced issues: %+v", issues)
	}
	if issues := wcag.Suggest("   \n\t"); len(issues) != 0 {
		t.Errorf("blank input produced issues: %+v", issues)
	}
}
