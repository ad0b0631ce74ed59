package styling

import (
	"image/color"
	"strconv"
	"strings"
)

// DefaultColor is used whenever a KML color can't be decoded
const DefaultColor = "#3b82f6"

const (
	SALVAGE_LINE_COLOR   = DefaultColor
	SALVAGE_FILL_COLOR   = "#60a5fa"
	SALVAGE_FILL_OPACITY = 0.2
)

// Style is the resolved, display-ready form of a KML Style.
// A zero value string or nil pointer means "not set".
// Styles are shared between elements (and StyleMap aliases), so must not be modified after resolution.
type Style struct {
	LineColor     string   `json:"lineColor,omitempty"`
	LineWidth     *float64 `json:"lineWidth,omitempty"`
	FillColor     string   `json:"fillColor,omitempty"`
	FillOpacity   *float64 `json:"fillOpacity,omitempty"`
	StrokeOpacity *float64 `json:"strokeOpacity,omitempty"`
	IconURL       string   `json:"iconUrl,omitempty"`
	IconScale     *float64 `json:"iconScale,omitempty"`
}

// StyleTable maps a style ID (without the leading '#') to its resolved style
type StyleTable map[string]*Style

// Lookup resolves a styleUrl of the form "#id". External style URLs are not followed.
func (st StyleTable) Lookup(styleURL string) *Style {
	if !strings.HasPrefix(styleURL, "#") {
		return nil
	}

	return st[strings.TrimPrefix(styleURL, "#")]
}

// SalvageStyle is applied to every element produced by the salvage parser
var SalvageStyle = &Style{
	LineColor:   SALVAGE_LINE_COLOR,
	FillColor:   SALVAGE_FILL_COLOR,
	FillOpacity: Float64(SALVAGE_FILL_OPACITY),
}

func Float64(f float64) *float64 {
	return &f
}

// ColorFromKML converts a KML aabbggrr color into #rrggbb. Alpha is dropped.
func ColorFromKML(kmlColor string) string {
	if len(kmlColor) != 8 {
		return DefaultColor
	}

	blue := kmlColor[2:4]
	green := kmlColor[4:6]
	red := kmlColor[6:8]

	return strings.ToLower("#" + red + green + blue)
}

// ParseHexColor turns a #rrggbb color and an opacity (0-1) into a color.Color.
// Anything it can't read falls back to DefaultColor.
func ParseHexColor(hexColor string, opacity float64) color.Color {
	c, ok := parseHexColor(hexColor)
	if !ok {
		c, _ = parseHexColor(DefaultColor)
	}

	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	c.A = uint8(opacity * 0xff)

	return c
}

func parseHexColor(hexColor string) (color.NRGBA, bool) {
	if len(hexColor) != 7 || hexColor[0] != '#' {
		return color.NRGBA{}, false
	}

	rgb, err := strconv.ParseUint(hexColor[1:], 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}

	return color.NRGBA{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
		A: 0xff,
	}, true
}
