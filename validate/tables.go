package validate

// Constant tables defining the security boundary. They are initialized once
// and shared by reference; changing any of them is a versioned behavior
// change, not configuration.

// dangerousPatterns are substrings that abort an entire validation call.
// Matched case-insensitively against every raw value.
var dangerousPatterns = []string{
	"javascript:",
	"expression(",
	"behavior:",
	"@import",
	"-moz-binding",
	"vbscript:",
	"data:text/html",
}

// cssWideKeywords are accepted for any allowed property.
var cssWideKeywords = map[string]bool{
	"inherit": true,
	"initial": true,
	"unset":   true,
	"none":    true,
	"auto":    true,
}

// allowedProperties is the property allow-list. Anything not listed is
// dropped with an error.
var allowedProperties = map[string]bool{
	// typography
	"font-family":     true,
	"font-size":       true,
	"font-weight":     true,
	"font-style":      true,
	"font-variant":    true,
	"line-height":     true,
	"letter-spacing":  true,
	"word-spacing":    true,
	"text-align":      true,
	"text-decoration": true,
	"text-transform":  true,
	"text-indent":     true,
	"text-shadow":     true,
	"white-space":     true,
	"word-break":      true,
	"overflow-wrap":   true,

	// color
	"color":            true,
	"background":       true,
	"background-color": true,
	"border-color":     true,
	"outline-color":    true,
	"caret-color":      true,
	"accent-color":     true,

	// box model
	"width":          true,
	"height":         true,
	"min-width":      true,
	"min-height":     true,
	"max-width":      true,
	"max-height":     true,
	"margin":         true,
	"margin-top":     true,
	"margin-right":   true,
	"margin-bottom":  true,
	"margin-left":    true,
	"padding":        true,
	"padding-top":    true,
	"padding-right":  true,
	"padding-bottom": true,
	"padding-left":   true,
	"box-sizing":     true,

	// border
	"border":        true,
	"border-top":    true,
	"border-right":  true,
	"border-bottom": true,
	"border-left":   true,
	"border-width":  true,
	"border-style":  true,
	"border-radius": true,
	"outline":       true,
	"outline-width": true,
	"outline-style": true,

	// position / display
	"display":        true,
	"position":       true,
	"top":            true,
	"right":          true,
	"bottom":         true,
	"left":           true,
	"z-index":        true,
	"float":          true,
	"clear":          true,
	"overflow":       true,
	"overflow-x":     true,
	"overflow-y":     true,
	"visibility":     true,
	"vertical-align": true,

	// flexbox
	"flex":            true,
	"flex-direction":  true,
	"flex-wrap":       true,
	"flex-grow":       true,
	"flex-shrink":     true,
	"flex-basis":      true,
	"justify-content": true,
	"align-items":     true,
	"align-content":   true,
	"align-self":      true,
	"gap":             true,
	"row-gap":         true,
	"column-gap":      true,
	"order":           true,

	// grid
	"grid-template-columns": true,
	"grid-template-rows":    true,
	"grid-column":           true,
	"grid-row":              true,
	"grid-area":             true,

	// visual effects
	"opacity":    true,
	"box-shadow": true,
	"transform":  true,
	"transition": true,
	"animation":  true,
	"filter":     true,

	// misc
	"cursor":         true,
	"pointer-events": true,
	"user-select":    true,
	"content":        true,
	"list-style":     true,
	"object-fit":     true,
}

// allowedUnits is the unit whitelist for numeric values.
var allowedUnits = map[string]bool{
	"px": true, "em": true, "rem": true, "%": true,
	"vh": true, "vw": true, "vmin": true, "vmax": true,
	"ch": true, "ex": true, "pt": true,
	"cm": true, "mm": true, "in": true, "pc": true,
	"deg": true, "rad": true, "turn": true,
	"s": true, "ms": true, "fr": true,
}

// allowedFunctions is the function-name whitelist for value function calls.
var allowedFunctions = map[string]bool{
	"rgb": true, "rgba": true, "hsl": true, "hsla": true,
	"calc": true, "var": true,
	"linear-gradient": true, "radial-gradient": true,
	"scale": true, "rotate": true,
	"translate": true, "translatex": true, "translatey": true,
	"skew": true,
}

// keywordDomains restricts certain properties to a fixed keyword set.
// Values are matched case-insensitively after sanitization.
var keywordDomains = map[string]map[string]bool{
	"display": {
		"block": true, "inline": true, "inline-block": true,
		"flex": true, "inline-flex": true, "grid": true, "inline-grid": true,
		"table": true, "table-row": true, "table-cell": true,
		"list-item": true, "contents": true, "none": true,
	},
	"position": {
		"static": true, "relative": true, "absolute": true,
		"fixed": true, "sticky": true,
	},
	"text-align": {
		"left": true, "right": true, "center": true, "justify": true,
		"start": true, "end": true,
	},
	"font-weight": {
		"normal": true, "bold": true, "bolder": true, "lighter": true,
	},
	"font-style": {
		"normal": true, "italic": true, "oblique": true,
	},
	"border-style": {
		"none": true, "hidden": true, "solid": true, "dashed": true,
		"dotted": true, "double": true, "groove": true, "ridge": true,
		"inset": true, "outset": true,
	},
	"cursor": {
		"auto": true, "default": true, "pointer": true, "text": true,
		"move": true, "wait": true, "help": true, "not-allowed": true,
		"grab": true, "grabbing": true, "crosshair": true, "progress": true,
	},
}

// maxNumeric is the ceiling on the absolute value of any numeric token.
const maxNumeric = 10000.0
