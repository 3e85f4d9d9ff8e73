package wcag

import (
	"regexp"
	"strings"
)

// Scanner probes. Each is an independent regex over unparsed stylesheet
// text: structural smells are cheaper to find lexically than through the
// parser, and the resulting list is a separate advisory channel that is
// deliberately not deduplicated against engine findings.
var (
	hoverRe      = regexp.MustCompile(`:hover\b`)
	focusRe      = regexp.MustCompile(`:focus\b`)
	motionRe     = regexp.MustCompile(`(?i)\b(animation|transition)\s*:`)
	reducedRe    = regexp.MustCompile(`(?i)prefers-reduced-motion`)
	bgImageRe    = regexp.MustCompile(`(?i)background-image\s*:`)
	fixedRe      = regexp.MustCompile(`(?i)position\s*:\s*fixed`)
	bareSignalRe = regexp.MustCompile(`(?i)color\s*:\s*(red|green)\b`)
)

// Suggest runs the heuristic probes over raw stylesheet text and returns
// advisory issues, always with info severity.
func Suggest(rawCSS string) []Issue {
	issues := make([]Issue, 0)
	hasFocus := focusRe.MatchString(rawCSS)

	if hoverRe.MatchString(rawCSS) && !hasFocus {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "hover-without-focus",
			WCAG:       "2.4.7",
			Level:      LevelAA,
			Message:    ":hover styles without matching :focus styles leave keyboard users without feedback",
			Suggestion: "pair every :hover rule with a :focus or :focus-visible rule",
		})
	}

	if !hasFocus && strings.TrimSpace(rawCSS) != "" {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "no-focus-styles",
			WCAG:       "2.4.7",
			Level:      LevelAA,
			Message:    "stylesheet defines no :focus styles",
			Suggestion: "add visible focus indicators for interactive elements",
		})
	}

	if motionRe.MatchString(rawCSS) && !reducedRe.MatchString(rawCSS) {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "unguarded-animation",
			WCAG:       "2.3.3",
			Level:      LevelAAA,
			Message:    "animation or transition without a prefers-reduced-motion guard",
			Suggestion: "wrap motion in an @media (prefers-reduced-motion: no-preference) block",
		})
	}

	if bgImageRe.MatchString(rawCSS) {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "background-image-text",
			WCAG:       "1.4.5",
			Level:      LevelAA,
			Message:    "background-image in use; text rendered in images is not accessible",
			Suggestion: "keep meaningful text out of background images",
		})
	}

	if fixedRe.MatchString(rawCSS) {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "fixed-position",
			WCAG:       "1.4.10",
			Level:      LevelAA,
			Message:    "position: fixed can obscure content when zoomed or reflowed",
			Suggestion: "verify fixed elements do not cover content at 400% zoom",
		})
	}

	if bareSignalRe.MatchString(rawCSS) {
		issues = append(issues, Issue{
			Severity:   SeverityInfo,
			Rule:       "color-only-signal",
			WCAG:       "1.4.1",
			Level:      LevelA,
			Message:    "bare red/green color literals suggest color-only semantic signaling",
			Suggestion: "pair state colors with icons, text or patterns",
		})
	}

	return issues
}
