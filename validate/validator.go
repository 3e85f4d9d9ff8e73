// Package validate implements the security gate for untrusted CSS
// declarations: a whitelist-driven validator over a flat property/value
// map. Dangerous-pattern detection is all-or-nothing; ordinary whitelist
// rejection drops the offending property and carries on.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/FEAWServices/wyverncss-sub000/css"
)

// Validation error codes. They appear verbatim in Result.Errors so callers
// can match on them.
const (
	codeDangerous         = "dangerous_content"
	codeDisallowed        = "disallowed_property"
	codeURLNotAllowed     = "url_not_allowed"
	codeInvalidColor      = "invalid_color"
	codeValueTooLarge     = "value_too_large"
	codeInvalidUnit       = "invalid_unit"
	codeInvalidKeyword    = "invalid_keyword"
	codeInvalidFunction   = "invalid_function"
	codeMalformedFunction = "malformed_function"
)

// Result is the outcome of a validation call. A call fails when Errors is
// non-empty. Schema rejections may leave a partial Validated map; a
// dangerous-pattern hit never does.
type Result struct {
	Validated map[string]string `json:"validated,omitempty"`
	Errors    []string          `json:"errors,omitempty"`
	Warnings  []string          `json:"warnings"`
}

// Failed reports whether the call as a whole failed.
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

// SecurityRejected reports whether the failure came from the
// dangerous-pattern gate, which never leaves partial output.
func (r Result) SecurityRejected() bool {
	return r.Failed() && r.Validated == nil
}

// Validator checks untrusted declarations against the constant tables.
type Validator struct {
	log *zap.Logger
}

// NewValidator creates a new validator.
func NewValidator(log *zap.Logger) *Validator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Validator{log: log.Named("css-validator")}
}

// Validate checks a flat property/value map. With strict set, every
// accumulated warning is promoted to an error and the warned property is
// dropped from the validated output.
func (v *Validator) Validate(decls map[string]string, strict bool) Result {
	res := Result{Warnings: make([]string, 0)}

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	// Dangerous-pattern gate: any hit fails the whole batch with no
	// partial output.
	for _, name := range names {
		if sanitizeName(name) == "behavior" {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: property %q is not allowed", codeDangerous, name))
		}
		lower := strings.ToLower(decls[name])
		for _, pattern := range dangerousPatterns {
			if strings.Contains(lower, pattern) {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: value of %q contains %q", codeDangerous, name, pattern))
			}
		}
	}
	if len(res.Errors) > 0 {
		v.log.Warn("Rejected declarations", zap.Int("hits", len(res.Errors)))
		return res
	}

	res.Validated = make(map[string]string, len(decls))

	for _, name := range names {
		prop := sanitizeName(name)
		value := sanitizeValue(decls[name])

		if !allowedProperties[prop] {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %q", codeDisallowed, prop))
			continue
		}

		code, warnings := validateValue(prop, value)
		if code != "" {
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %s: %q", code, prop, value))
			continue
		}
		if len(warnings) > 0 {
			if strict {
				res.Errors = append(res.Errors, warnings...)
				continue
			}
			res.Warnings = append(res.Warnings, warnings...)
		}
		res.Validated[prop] = value
	}

	v.log.Debug("Validated declarations",
		zap.Int("in", len(decls)),
		zap.Int("out", len(res.Validated)),
		zap.Int("errors", len(res.Errors)),
		zap.Int("warnings", len(res.Warnings)))
	return res
}

// sanitizeName lowercases a property name and strips everything outside
// [a-z0-9-].
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return -1
		}
	}, strings.ToLower(strings.TrimSpace(name)))
}

// sanitizeValue trims, strips NUL bytes and collapses whitespace runs.
func sanitizeValue(value string) string {
	value = strings.ReplaceAll(value, "\x00", "")
	return strings.Join(strings.Fields(value), " ")
}

// validateValue applies the per-value rules, first match wins. It returns
// an error code, or accumulated warnings for merely-unrecognized input.
func validateValue(prop, value string) (string, []string) {
	if strings.Contains(strings.ToLower(value), "url(") {
		return codeURLNotAllowed, nil
	}

	if strings.Contains(prop, "color") {
		if cssWideKeywords[strings.ToLower(value)] {
			return "", nil
		}
		if parsed := css.ParseValue(prop, value); parsed.Kind == css.KindColor {
			return "", nil
		}
		return codeInvalidColor, nil
	}

	parsed := css.ParseValue(prop, value)
	switch parsed.Kind {
	case css.KindNumber:
		if math.Abs(parsed.Number) > maxNumeric {
			return codeValueTooLarge, nil
		}
		if parsed.Unit != "" && !allowedUnits[parsed.Unit] {
			return codeInvalidUnit, nil
		}
		return "", nil

	case css.KindColor:
		return "", nil

	case css.KindKeyword:
		if cssWideKeywords[parsed.Keyword] {
			return "", nil
		}
		if domain, restricted := keywordDomains[prop]; restricted {
			if domain[parsed.Keyword] {
				return "", nil
			}
			return codeInvalidKeyword, nil
		}
		// unrecognized but harmless keyword
		return "", []string{fmt.Sprintf("unrecognized value for %s: %q", prop, value)}

	case css.KindFunction:
		if !css.BalancedParens(value) {
			return codeMalformedFunction, nil
		}
		if !allowedFunctions[parsed.Name] {
			return codeInvalidFunction, nil
		}
		return "", nil

	case css.KindComposite:
		var warnings []string
		for _, part := range parsed.Parts {
			code, w := validateValue(prop, part.Raw)
			if code != "" {
				return code, nil
			}
			warnings = append(warnings, w...)
		}
		return "", warnings
	}

	if !css.BalancedParens(value) {
		return codeMalformedFunction, nil
	}
	// fail open on unrecognized-but-harmless input
	return "", []string{fmt.Sprintf("unrecognized value for %s: %q", prop, value)}
}

// inlineStripper drops characters that could break out of a style
// attribute.
var inlineStripper = strings.NewReplacer(`"`, "", "'", "", "<", "", ">", "")

// InlineStyle re-validates declarations, silently drops failing properties
// and joins the survivors as `prop: value; ...` suitable for a style
// attribute.
func (v *Validator) InlineStyle(decls map[string]string) string {
	res := v.Validate(decls, false)
	if len(res.Validated) == 0 {
		return ""
	}

	names := make([]string, 0, len(res.Validated))
	for name := range res.Validated {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+inlineStripper.Replace(res.Validated[name]))
	}
	return strings.Join(parts, "; ")
}
