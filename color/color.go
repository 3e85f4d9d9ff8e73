// Package color implements the color model shared by the validator and the
// compliance engine: parsing of CSS color literals into normalized RGB,
// WCAG relative luminance and contrast ratio, and RGB/HSL conversion.
package color

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a normalized RGB color with an optional alpha channel.
// Immutable once parsed.
type Color struct {
	R, G, B  uint8
	Alpha    float64 // meaningful only when HasAlpha is true
	HasAlpha bool
}

// RGB constructs an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// named maps CSS color names we recognize to their RGB values. Both British
// and American spellings of gray are present.
var named = map[string]Color{
	"black":     {R: 0x00, G: 0x00, B: 0x00},
	"white":     {R: 0xff, G: 0xff, B: 0xff},
	"red":       {R: 0xff, G: 0x00, B: 0x00},
	"green":     {R: 0x00, G: 0x80, B: 0x00},
	"blue":      {R: 0x00, G: 0x00, B: 0xff},
	"yellow":    {R: 0xff, G: 0xff, B: 0x00},
	"orange":    {R: 0xff, G: 0xa5, B: 0x00},
	"purple":    {R: 0x80, G: 0x00, B: 0x80},
	"pink":      {R: 0xff, G: 0xc0, B: 0xcb},
	"brown":     {R: 0xa5, G: 0x2a, B: 0x2a},
	"gray":      {R: 0x80, G: 0x80, B: 0x80},
	"grey":      {R: 0x80, G: 0x80, B: 0x80},
	"lightgray": {R: 0xd3, G: 0xd3, B: 0xd3},
	"lightgrey": {R: 0xd3, G: 0xd3, B: 0xd3},
	"darkgray":  {R: 0xa9, G: 0xa9, B: 0xa9},
	"darkgrey":  {R: 0xa9, G: 0xa9, B: 0xa9},
	"silver":    {R: 0xc0, G: 0xc0, B: 0xc0},
	"maroon":    {R: 0x80, G: 0x00, B: 0x00},
	"olive":     {R: 0x80, G: 0x80, B: 0x00},
	"lime":      {R: 0x00, G: 0xff, B: 0x00},
	"aqua":      {R: 0x00, G: 0xff, B: 0xff},
	"cyan":      {R: 0x00, G: 0xff, B: 0xff},
	"teal":      {R: 0x00, G: 0x80, B: 0x80},
	"navy":      {R: 0x00, G: 0x00, B: 0x80},
	"fuchsia":   {R: 0xff, G: 0x00, B: 0xff},
	"magenta":   {R: 0xff, G: 0x00, B: 0xff},
}

// Parse parses a CSS color literal: 3/6/8-digit hex with or without '#',
// rgb()/rgba() with 0-255 integer channels, hsl()/hsla(), or a named color.
// Unparsable input returns ok=false - callers must treat that as "cannot
// validate", not "unsafe".
func Parse(literal string) (Color, bool) {
	s := strings.ToLower(strings.TrimSpace(literal))
	if s == "" {
		return Color{}, false
	}

	if c, ok := named[s]; ok {
		return c, true
	}

	if fn, args, ok := splitFunc(s); ok {
		switch fn {
		case "rgb", "rgba":
			return parseRGBFunc(args)
		case "hsl", "hsla":
			return parseHSLFunc(args)
		}
		return Color{}, false
	}

	return parseHex(strings.TrimPrefix(s, "#"))
}

// splitFunc splits "name(args)" into its parts.
func splitFunc(s string) (name, args string, ok bool) {
	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return "", "", false
	}
	return strings.TrimSpace(s[:open]), s[open+1 : len(s)-1], true
}

func parseHex(s string) (Color, bool) {
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return Color{}, false
		}
	}
	switch len(s) {
	case 3:
		r := hexNibble(s[0])
		g := hexNibble(s[1])
		b := hexNibble(s[2])
		return Color{R: r*16 + r, G: g*16 + g, B: b*16 + b}, true
	case 6:
		return Color{R: hexByte(s[0:2]), G: hexByte(s[2:4]), B: hexByte(s[4:6])}, true
	case 8:
		c := Color{R: hexByte(s[0:2]), G: hexByte(s[2:4]), B: hexByte(s[4:6])}
		c.Alpha = float64(hexByte(s[6:8])) / 255.0
		c.HasAlpha = true
		return c, true
	}
	return Color{}, false
}

func hexNibble(b byte) uint8 {
	if b >= 'a' {
		return b - 'a' + 10
	}
	return b - '0'
}

func hexByte(s string) uint8 {
	return hexNibble(s[0])*16 + hexNibble(s[1])
}

func parseRGBFunc(args string) (Color, bool) {
	parts := splitArgs(args)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := range 3 {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		ch[i] = uint8(n)
	}
	c := Color{R: ch[0], G: ch[1], B: ch[2]}
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(parts[3], 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		c.Alpha = a
		c.HasAlpha = true
	}
	return c, true
}

func parseHSLFunc(args string) (Color, bool) {
	parts := splitArgs(args)
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(parts[0], "deg"), 64)
	if err != nil {
		return Color{}, false
	}
	s, err := parsePercent(parts[1])
	if err != nil {
		return Color{}, false
	}
	l, err := parsePercent(parts[2])
	if err != nil {
		return Color{}, false
	}
	c := FromHSL(h, s, l)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(parts[3], 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		c.Alpha = a
		c.HasAlpha = true
	}
	return c, true
}

func parsePercent(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, err
	}
	return n / 100, nil
}

func splitArgs(args string) []string {
	var parts []string
	for p := range strings.SplitSeq(args, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// Hex renders the color as a 6-digit hex literal.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance returns WCAG relative luminance in [0,1]: channels are
// normalized, gamma corrected per sRGB and weighted 0.2126/0.7152/0.0722.
func (c Color) Luminance() float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(ch uint8) float64 {
	v := float64(ch) / 255.0
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio returns the WCAG contrast ratio between two colors,
// in [1,21]. Symmetric in its arguments.
func ContrastRatio(a, b Color) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// HSL converts the color to hue [0,360), saturation and lightness [0,1].
func (c Color) HSL() (h, s, l float64) {
	cf := colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
	h, s, l = cf.Hsl()
	if h >= 360 {
		h -= 360
	}
	return h, s, l
}

// FromHSL builds an opaque color from hue [0,360), saturation and
// lightness [0,1].
func FromHSL(h, s, l float64) Color {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	cf := colorful.Hsl(h, clamp01(s), clamp01(l))
	return Color{
		R: uint8(math.Round(clamp01(cf.R) * 255)),
		G: uint8(math.Round(clamp01(cf.G) * 255)),
		B: uint8(math.Round(clamp01(cf.B) * 255)),
	}
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
