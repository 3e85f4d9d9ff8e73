package validate_test

import (
	"strings"
	"testing"

	"github.com/FEAWServices/wyverncss-sub000/validate"
)

func errorsContain(res validate.Result, substr string) bool {
	for _, e := range res.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestDangerousContentFailsClosed(t *testing.T) {
	v := validate.NewValidator(nil)

	cases := []map[string]string{
		{"background": "url(javascript:alert(1))"},
		{"width": "expression(alert(1))"},
		{"background": "url(data:text/html,<script>)"},
		{"list-style": "url(vbscript:msgbox)"},
		{"content": "-moz-binding: url(x)"},
		{"content": "@import url(evil.css)"},
	}

	for _, decls := range cases {
		res := v.Validate(decls, false)
		if !res.Failed() {
			t.Errorf("Validate(%v) did not fail", decls)
			continue
		}
		if !res.SecurityRejected() {
			t.Errorf("Validate(%v) left partial output: %v", decls, res.Validated)
		}
	}
}

func TestDangerousContentAbortsWholeBatch(t *testing.T) {
	v := validate.NewValidator(nil)

	// the safe declarations must not survive alongside a dangerous one
	res := v.Validate(map[string]string{
		"color":      "#ffffff",
		"font-size":  "14px",
		"background": "url(javascript:alert(1))",
	}, false)

	if !res.SecurityRejected() {
		t.Fatalf("expected security rejection, got %+v", res)
	}
	if !errorsContain(res, "javascript:") {
		t.Errorf("errors should name the matched pattern: %v", res.Errors)
	}
}

func TestBehaviorRejectedByName(t *testing.T) {
	v := validate.NewValidator(nil)

	// the value itself matches no pattern; the property name alone rejects
	res := v.Validate(map[string]string{"behavior": "url(#default#time2)"}, false)
	if !res.SecurityRejected() {
		t.Fatalf("expected security rejection for behavior property, got %+v", res)
	}
	if !errorsContain(res, "dangerous_content") {
		t.Errorf("expected dangerous_content code, got %v", res.Errors)
	}
}

func TestNumericCeiling(t *testing.T) {
	v := validate.NewValidator(nil)

	res := v.Validate(map[string]string{"width": "99999px"}, false)
	if !res.Failed() || !errorsContain(res, "value_too_large") {
		t.Errorf("expected value_too_large, got %+v", res)
	}
	if res.SecurityRejected() {
		t.Error("schema rejection should not look like a security rejection")
	}
	if res.Validated == nil || len(res.Validated) != 0 {
		t.Errorf("expected empty validated map, got %v", res.Validated)
	}

	res = v.Validate(map[string]string{"width": "9999px"}, false)
	if res.Failed() {
		t.Errorf("9999px should validate, got %v", res.Errors)
	}

	res = v.Validate(map[string]string{"margin": "-99999px"}, false)
	if !errorsContain(res, "value_too_large") {
		t.Errorf("ceiling must apply to the absolute value, got %+v", res)
	}
}

func TestUnitWhitelist(t *testing.T) {
	v := validate.NewValidator(nil)

	res := v.Validate(map[string]string{"margin": "10xyz"}, false)
	if !errorsContain(res, "invalid_unit") {
		t.Errorf("expected invalid_unit, got %+v", res)
	}

	for _, value := range []string{"10px", "1.5em", "2rem", "50%", "10vh", "0.3s", "45deg"} {
		res = v.Validate(map[string]string{"margin": value}, false)
		if res.Failed() {
			t.Errorf("margin %q should validate, got %v", value, res.Errors)
		}
	}
}

func TestCompositeValues(t *testing.T) {
	v := validate.NewValidator(nil)

	res := v.Validate(map[string]string{"padding": "10px 5%"}, false)
	if res.Failed() {
		t.Fatalf("compound value should validate, got %v", res.Errors)
	}
	if res.Validated["padding"] != "10px 5%" {
		t.Errorf("validated value mangled: %q", res.Validated["padding"])
	}

	// a bad part fails the whole value
	res = v.Validate(map[string]string{"padding": "10px 99999px"}, false)
	if !errorsContain(res, "value_too_large") {
		t.Errorf("expected value_too_large from composite part, got %+v", res)
	}
}

func TestDisallowedPropertyDropsAndContinues(t *testing.T) {
	v := validate.NewValidator(nil)

	res := v.Validate(map[string]string{"width": "10px", "zoom": "2"}, false)
	if !errorsContain(res, "disallowed_property") {
		t.Fatalf("expected disallowed_property, got %+v", res)
	}
	if res.Validated["width"] != "10px" {
		t.Errorf("valid sibling property dropped: %v", res.Validated)
	}
	if _, ok := res.Validated["zoom"]; ok {
		t.Error("disallowed property survived into validated output")
	}
}

func TestColorProperties(t *testing.T) {
	v := validate.NewValidator(nil)

	good := []map[string]string{
		{"color": "#32a852"},
		{"color": "red"},
		{"color": "inherit"},
		{"background-color": "rgb(0, 0, 0)"},
		{"border-color": "hsl(10, 50%, 50%)"},
	}
	for _, decls := range good {
		if res := v.Validate(decls, false); res.Failed() {
			t.Errorf("Validate(%v) failed: %v", decls, res.Errors)
		}
	}

	res := v.Validate(map[string]string{"color": "bananas"}, false)
	if !errorsContain(res, "invalid_color") {
		t.Errorf("expected invalid_color, got %+v", res)
	}
}

func TestKeywordDomains(t *testing.T) {
	v := validate.NewValidator(nil)

	if res := v.Validate(map[string]string{"display": "flex"}, false); res.Failed() {
		t.Errorf("display: flex should validate, got %v", res.Errors)
	}
	if res := v.Validate(map[string]string{"position": "sticky"}, false); res.Failed() {
		t.Errorf("position: sticky should validate, got %v", res.Errors)
	}

	res := v.Validate(map[string]string{"display": "banana"}, false)
	if !errorsContain(res, "invalid_keyword") {
		t.Errorf("expected invalid_keyword, got %+v", res)
	}

	// css-wide keywords pass any restricted property
	if res := v.Validate(map[string]string{"display": "unset"}, false); res.Failed() {
		t.Errorf("display: unset should validate, got %v", res.Errors)
	}
}

func TestFunctions(t *testing.T) {
	v := validate.NewValidator(nil)

	if res := v.Validate(map[string]string{"transform": "rotate(45deg)"}, false); res.Failed() {
		t.Errorf("rotate() should validate, got %v", res.Errors)
	}
	if res := v.Validate(map[string]string{"background": "linear-gradient(to right, red, blue)"}, false); res.Failed() {
		t.Errorf("linear-gradient() should validate, got %v", res.Errors)
	}

	res := v.Validate(map[string]string{"transform": "steal(1)"}, false)
	if !errorsContain(res, "invalid_function") {
		t.Errorf("expected invalid_function, got %+v", res)
	}

	res = v.Validate(map[string]string{"transform": "rotate(45deg"}, false)
	if !errorsContain(res, "malformed_function") {
		t.Errorf("expected malformed_function, got %+v", res)
	}

	res = v.Validate(map[string]string{"background": "url(https://example.com/x.png)"}, false)
	if !errorsContain(res, "url_not_allowed") {
		t.Errorf("expected url_not_allowed, got %+v", res)
	}
}

func TestStrictPromotesWarnings(t *testing.T) {
	v := validate.NewValidator(nil)
	decls := map[string]string{"font-family": "Arial, sans-serif"}

	res := v.Validate(decls, false)
	if res.Failed() {
		t.Fatalf("lenient validation should pass with warnings, got %v", res.Errors)
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected warnings for unrecognized font names")
	}

	res = v.Validate(decls, true)
	if !res.Failed() {
		t.Fatal("strict validation should promote warnings to errors")
	}
	if _, ok := res.Validated["font-family"]; ok {
		t.Error("strict validation should drop the warned property")
	}
}

func TestSanitization(t *testing.T) {
	v := validate.NewValidator(nil)

	// names are lowercased and stripped, values trimmed and collapsed
	res := v.Validate(map[string]string{" COLOR ": "  #fff  ", "Font-Size": "14px\t "}, false)
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Errors)
	}
	if res.Validated["color"] != "#fff" || res.Validated["font-size"] != "14px" {
		t.Errorf("sanitization mangled declarations: %v", res.Validated)
	}
}

func TestInlineStyle(t *testing.T) {
	v := validate.NewValidator(nil)
	decls := map[string]string{
		"padding":   "10px 20px",
		"color":     "#fff",
		"font-size": "14px",
	}

	want := "color: #fff; font-size: 14px; padding: 10px 20px"
	if got := v.InlineStyle(decls); got != want {
		t.Errorf("InlineStyle = %q, want %q", got, want)
	}

	// re-validating the validated output must not change the rendering
	res := v.Validate(decls, false)
	if got := v.InlineStyle(res.Validated); got != want {
		t.Errorf("InlineStyle not stable across re-validation: %q", got)
	}
}

func TestInlineStyleDropsFailures(t *testing.T) {
	v := validate.NewValidator(nil)

	got := v.InlineStyle(map[string]string{
		"color": "#fff",
		"zoom":  "2",
	})
	if got != "color: #fff" {
		t.Errorf("InlineStyle = %q, want failing property dropped", got)
	}

	if got := v.InlineStyle(map[string]string{"width": "expression(alert(1))"}); got != "" {
		t.Errorf("InlineStyle = %q, want empty on security rejection", got)
	}
}

func TestInlineStyleStripsBreakoutCharacters(t *testing.T) {
	v := validate.NewValidator(nil)

	got := v.InlineStyle(map[string]string{"font-family": `"Arial"`})
	if strings.ContainsAny(got, `"'<>`) {
		t.Errorf("InlineStyle leaked breakout characters: %q", got)
	}
}
