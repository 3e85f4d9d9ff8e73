package wcag

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/FEAWServices/wyverncss-sub000/color"
	"github.com/FEAWServices/wyverncss-sub000/css"
)

// Contrast and size thresholds. Load-time constants: changing them is a
// versioned behavior change.
const (
	contrastNormalAA  = 4.5
	contrastLargeAA   = 3.0
	contrastNormalAAA = 7.0
	contrastLargeAAA  = 4.5

	largeTextPx     = 24.0
	largeTextBoldPx = 19.0

	minFontPx  = 12.0
	softFontPx = 14.0

	minLineHeight = 1.5

	importantCeiling = 5
)

// Context carries caller-supplied facts that are not in the property map.
// The engine never infers them.
type Context struct {
	IsInteractive     bool
	DefaultBackground *color.Color
	DefaultForeground *color.Color
	Tag               string
	Selector          string
}

// Engine runs compliance rules over validated declarations. Pure: every
// call allocates its own working state, safe for concurrent use.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates a compliance engine.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log.Named("wcag-engine")}
}

// Check runs the per-declaration rules over a single validated declaration
// set and derives the compliance report. It never fails on malformed
// input: an unparsable color or size downgrades the affected check to a
// warning.
func (e *Engine) Check(decls map[string]string, ctx Context) Report {
	issues := e.declarationIssues(decls, ctx)
	rpt := buildReport(issues)
	e.log.Debug("Compliance check",
		zap.Int("declarations", len(decls)),
		zap.Int("issues", len(rpt.Issues)),
		zap.Bool("passes", rpt.Passes))
	return rpt
}

// CheckStylesheet runs the per-declaration rules over every rule of a
// parsed stylesheet, each with its own selector, and adds the
// stylesheet-wide probes.
func (e *Engine) CheckStylesheet(sheet *css.Stylesheet, ctx Context) Report {
	var issues []Issue
	for _, rule := range sheet.Rules {
		rctx := ctx
		rctx.Selector = rule.Selector
		issues = append(issues, e.declarationIssues(rule.Declarations, rctx)...)
	}
	issues = append(issues, e.stylesheetIssues(sheet)...)
	rpt := buildReport(issues)
	e.log.Debug("Stylesheet compliance check",
		zap.Int("rules", len(sheet.Rules)),
		zap.Int("issues", len(rpt.Issues)),
		zap.Bool("passes", rpt.Passes))
	return rpt
}

func (e *Engine) declarationIssues(decls map[string]string, ctx Context) []Issue {
	var issues []Issue
	issues = append(issues, e.contrastIssues(decls, ctx)...)
	issues = append(issues, e.fontSizeIssues(decls, ctx)...)
	issues = append(issues, e.focusIssues(decls, ctx)...)
	issues = append(issues, e.keyboardIssues(decls, ctx)...)
	issues = append(issues, e.lineHeightIssues(decls, ctx)...)
	issues = append(issues, e.underlineIssues(decls, ctx)...)
	return issues
}

// contrastIssues computes the WCAG contrast ratio when a resolvable
// foreground/background pair exists.
func (e *Engine) contrastIssues(decls map[string]string, ctx Context) []Issue {
	fg, warn := resolveColor(decls, ctx.DefaultForeground, "color")
	if warn != nil {
		return []Issue{*withSelector(warn, ctx)}
	}
	bg, warn := resolveColor(decls, ctx.DefaultBackground, "background-color", "background")
	if warn != nil {
		return []Issue{*withSelector(warn, ctx)}
	}
	if fg == nil || bg == nil {
		return nil
	}

	ratio := color.ContrastRatio(*fg, *bg)
	large := isLargeText(decls)

	required, enhanced := contrastNormalAA, contrastNormalAAA
	if large {
		required, enhanced = contrastLargeAA, contrastLargeAAA
	}

	details := map[string]any{
		"ratio":    math.Round(ratio*100) / 100,
		"required": required,
	}

	// threshold comparison uses the unrounded ratio
	if ratio < required {
		suggestion := "adjust the lightness of the foreground or background color until the ratio clears the minimum"
		if fixed, ok := suggestFix(*fg, *bg, required); ok {
			suggestion = fmt.Sprintf("shift the foreground toward %s to clear the %.1f minimum", fixed.Hex(), required)
			details["suggested_color"] = fixed.Hex()
		}
		return []Issue{{
			Severity:   SeverityError,
			Rule:       "color-contrast",
			WCAG:       "1.4.3",
			Level:      LevelAA,
			Selector:   ctx.Selector,
			Message:    fmt.Sprintf("contrast ratio %.2f is below the %.1f minimum", ratio, required),
			Suggestion: suggestion,
			Details:    details,
		}}
	}
	if ratio < enhanced {
		details["required"] = enhanced
		return []Issue{{
			Severity:   SeverityInfo,
			Rule:       "color-contrast-enhanced",
			WCAG:       "1.4.6",
			Level:      LevelAAA,
			Selector:   ctx.Selector,
			Message:    fmt.Sprintf("contrast ratio %.2f meets AA but not the %.1f AAA recommendation", ratio, enhanced),
			Details:    details,
		}}
	}
	return nil
}

// suggestFix walks the foreground lightness away from the background until
// the contrast ratio clears the required minimum, keeping hue and
// saturation. Fails when the lightness range runs out first.
func suggestFix(fg, bg color.Color, required float64) (color.Color, bool) {
	h, s, l := fg.HSL()
	step := 0.05
	if bg.Luminance() > fg.Luminance() {
		step = -step
	}
	for l += step; l >= 0 && l <= 1; l += step {
		c := color.FromHSL(h, s, l)
		if color.ContrastRatio(c, bg) >= required {
			return c, true
		}
	}
	return color.Color{}, false
}

// resolveColor picks the first declared property that names a color,
// falling back to the context default. A declared but unparsable color
// produces a warning issue instead of a result.
func resolveColor(decls map[string]string, fallback *color.Color, props ...string) (*color.Color, *Issue) {
	for _, prop := range props {
		raw, ok := decls[prop]
		if !ok {
			continue
		}
		if c, ok := color.Parse(raw); ok {
			return &c, nil
		}
		// backgrounds may hold gradients or images; only a plain literal
		// that fails to parse downgrades the check
		parsed := css.ParseValue(prop, raw)
		if parsed.Kind == css.KindKeyword || parsed.Kind == css.KindUnknown {
			if fallback != nil {
				return fallback, nil
			}
			if cssWideKeywords[parsed.Keyword] {
				// passes validation upstream but names no resolvable color
				return nil, nil
			}
			return nil, &Issue{
				Severity: SeverityWarning,
				Rule:     "color-contrast",
				WCAG:     "1.4.3",
				Level:    LevelAA,
				Message:  fmt.Sprintf("cannot parse %s value %q, contrast not checked", prop, raw),
			}
		}
		return nil, nil
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, nil
}

// cssWideKeywords are accepted for color properties by the validator but
// carry no color of their own.
var cssWideKeywords = map[string]bool{
	"inherit": true, "initial": true, "unset": true, "none": true, "auto": true,
}

func withSelector(issue *Issue, ctx Context) *Issue {
	issue.Selector = ctx.Selector
	return issue
}

// isLargeText implements the large-text exemption: font-size of at least
// 24px, or at least 19px when bold.
func isLargeText(decls map[string]string) bool {
	px, ok := css.PxSize(css.ParseValue("font-size", decls["font-size"]))
	if !ok {
		return false
	}
	if px >= largeTextPx {
		return true
	}
	return isBold(decls) && px >= largeTextBoldPx
}

func isBold(decls map[string]string) bool {
	v := css.ParseValue("font-weight", decls["font-weight"])
	switch v.Kind {
	case css.KindKeyword:
		return v.Keyword == "bold" || v.Keyword == "bolder"
	case css.KindNumber:
		return v.Number >= 700
	}
	return false
}

func (e *Engine) fontSizeIssues(decls map[string]string, ctx Context) []Issue {
	raw, ok := decls["font-size"]
	if !ok {
		return nil
	}
	v := css.ParseValue("font-size", raw)
	px, convertible := css.PxSize(v)
	if !convertible {
		if v.Kind == css.KindNumber {
			return []Issue{{
				Severity: SeverityWarning,
				Rule:     "font-size",
				WCAG:     "1.4.4",
				Level:    LevelAA,
				Selector: ctx.Selector,
				Message:  fmt.Sprintf("cannot convert font-size %q to pixels, size not checked", raw),
			}}
		}
		return nil
	}

	details := map[string]any{"px": math.Round(px*100) / 100}
	switch {
	case px < minFontPx:
		return []Issue{{
			Severity:   SeverityError,
			Rule:       "font-size",
			WCAG:       "1.4.4",
			Level:      LevelAA,
			Selector:   ctx.Selector,
			Message:    fmt.Sprintf("font-size %.4gpx is below the %.4gpx minimum", px, minFontPx),
			Suggestion: "use at least 12px, or a relative unit that resolves to it",
			Details:    details,
		}}
	case px < softFontPx:
		return []Issue{{
			Severity: SeverityWarning,
			Rule:     "font-size",
			WCAG:     "1.4.4",
			Level:    LevelAA,
			Selector: ctx.Selector,
			Message:  fmt.Sprintf("font-size %.4gpx is below the recommended %.4gpx", px, softFontPx),
			Details:  details,
		}}
	}
	return nil
}

// focusIssues flags removal of the focus outline on :focus selectors.
// Presence of a border or box-shadow in the same declaration set downgrades
// the finding to a recommendation.
func (e *Engine) focusIssues(decls map[string]string, ctx Context) []Issue {
	if !strings.Contains(ctx.Selector, ":focus") {
		return nil
	}
	outline := strings.ToLower(strings.TrimSpace(decls["outline"]))
	if outline != "none" && outline != "0" && outline != "0px" {
		return nil
	}

	if hasVisibleAlternative(decls) {
		return []Issue{{
			Severity:   SeverityInfo,
			Rule:       "focus-visible",
			WCAG:       "2.4.7",
			Level:      LevelAA,
			Selector:   ctx.Selector,
			Message:    "outline removed on :focus; border/box-shadow appears to act as focus indicator",
			Suggestion: "verify the replacement indicator is clearly visible",
		}}
	}
	return []Issue{{
		Severity:   SeverityError,
		Rule:       "focus-visible",
		WCAG:       "2.4.7",
		Level:      LevelAA,
		Selector:   ctx.Selector,
		Message:    "focus outline removed with no visible replacement",
		Suggestion: "keep the outline or add a border/box-shadow focus indicator",
	}}
}

func hasVisibleAlternative(decls map[string]string) bool {
	for _, prop := range []string{"border", "box-shadow"} {
		if v, ok := decls[prop]; ok && strings.ToLower(strings.TrimSpace(v)) != "none" {
			return true
		}
	}
	return false
}

// keyboardIssues flags declarations that take an interactive element out
// of keyboard reach.
func (e *Engine) keyboardIssues(decls map[string]string, ctx Context) []Issue {
	if !ctx.IsInteractive {
		return nil
	}
	var issues []Issue
	if strings.EqualFold(decls["display"], "none") || strings.EqualFold(decls["visibility"], "hidden") {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Rule:       "keyboard-navigation",
			WCAG:       "2.1.1",
			Level:      LevelA,
			Selector:   ctx.Selector,
			Message:    "interactive element is hidden and unreachable by keyboard",
			Suggestion: "hide interactive elements with the hidden attribute or move them off the focus order deliberately",
		})
	}
	if strings.EqualFold(decls["pointer-events"], "none") {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Rule:     "keyboard-navigation",
			WCAG:     "2.1.1",
			Level:    LevelA,
			Selector: ctx.Selector,
			Message:  "pointer-events disabled on an interactive element",
		})
	}
	return issues
}

func (e *Engine) lineHeightIssues(decls map[string]string, ctx Context) []Issue {
	raw, ok := decls["line-height"]
	if !ok {
		return nil
	}
	v := css.ParseValue("line-height", raw)
	if v.Kind != css.KindNumber {
		return nil
	}
	value := v.Number
	switch v.Unit {
	case "":
	case "%":
		value /= 100
	default:
		return nil
	}
	if value >= minLineHeight {
		return nil
	}
	return []Issue{{
		Severity:   SeverityWarning,
		Rule:       "line-height",
		WCAG:       "1.4.12",
		Level:      LevelAA,
		Selector:   ctx.Selector,
		Message:    fmt.Sprintf("line-height %.4g is below the %.1f minimum for readable text spacing", value, minLineHeight),
		Suggestion: "use an unitless line-height of 1.5 or more",
		Details:    map[string]any{"value": value},
	}}
}

// anchorSelector matches selectors that target anchors: "a", "a:hover",
// "a.nav", ".menu a" and the like.
var anchorSelector = regexp.MustCompile(`(^|[\s>+~])a([.:#\[\s]|$)`)

func (e *Engine) underlineIssues(decls map[string]string, ctx Context) []Issue {
	if ctx.Tag != "a" && !anchorSelector.MatchString(ctx.Selector) {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(decls["text-decoration"]), "none") {
		return nil
	}
	return []Issue{{
		Severity:   SeverityWarning,
		Rule:       "link-underline",
		WCAG:       "1.4.1",
		Level:      LevelA,
		Selector:   ctx.Selector,
		Message:    "link underline removed; color alone cannot distinguish links",
		Suggestion: "keep the underline or add a non-color distinction such as a border",
	}}
}

// stylesheetIssues are the advisory probes over the whole sheet.
func (e *Engine) stylesheetIssues(sheet *css.Stylesheet) []Issue {
	var issues []Issue

	if sheet.ImportantCount > importantCeiling {
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Rule:     "important-overuse",
			Level:    LevelAA,
			Message:  fmt.Sprintf("%d !important declarations; heavy use defeats user style overrides", sheet.ImportantCount),
			Details:  map[string]any{"count": sheet.ImportantCount},
		})
	}

	for _, rule := range sheet.Rules {
		if strings.EqualFold(rule.Declarations["user-select"], "none") && isGlobalSelector(rule.Selector) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Rule:     "user-select-disabled",
				Level:    LevelAA,
				Selector: rule.Selector,
				Message:  "text selection disabled globally",
			})
		}
		if strings.EqualFold(rule.Declarations["pointer-events"], "none") {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Rule:     "pointer-events-advisory",
				Level:    LevelA,
				Selector: rule.Selector,
				Message:  "pointer-events disabled; confirm the element is not interactive",
			})
		}
	}
	return issues
}

func isGlobalSelector(selector string) bool {
	switch strings.TrimSpace(selector) {
	case "*", "body", "html", ":root":
		return true
	}
	return false
}
