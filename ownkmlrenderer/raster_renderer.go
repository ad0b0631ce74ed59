package ownkmlrenderer

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"sort"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/jamesrr39/go-tracing"
	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"github.com/llgcode/draw2d"
	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"github.com/paulmach/osm"
)

const (
	DEFAULT_LINE_WIDTH   = 2.0
	DEFAULT_FILL_OPACITY = 0.2
	POINT_RADIUS         = 4.0
	LABEL_FONT_SIZE      = 12.0
	MIN_SPAN_DEGREES     = 0.01
	BOUNDS_PADDING       = 0.05
)

type Options struct {
	Width      int
	Height     int
	Background color.Color
	// Bounds to draw. If nil, the bounds of the document (plus some padding) are used.
	Bounds     *osm.Bounds
	ShowLabels bool
}

func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Background: color.White,
		ShowLabels: true,
	}
}

type RasterRenderer struct {
	font *truetype.Font
}

func NewRasterRenderer(font *truetype.Font) *RasterRenderer {
	return &RasterRenderer{
		font,
	}
}

func (rr *RasterRenderer) RenderTextTile(size image.Rectangle, text string) (image.Image, errorsx.Error) {
	img := NewImageWithBackground(size, color.White)
	x := size.Max.X / 4
	y := size.Max.Y / 2

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(rr.font)
	ctx.SetFontSize(16.0)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(x, y))
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return img, nil
}

// drawing order: polygons at the bottom, then lines, then points on top
var kindZIndex = map[ownkml.ElementKind]int{
	ownkml.ElementKindPolygon:    1,
	ownkml.ElementKindLineString: 2,
	ownkml.ElementKindPoint:      3,
}

// RenderDocument draws the document's elements as a static image.
// ctx must carry a tracer (see tracing.Middleware).
func (rr *RasterRenderer) RenderDocument(ctx context.Context, document *ownkml.Document, options Options) (image.Image, errorsx.Error) {
	size := image.Rect(0, 0, options.Width, options.Height)
	if size.Empty() {
		return nil, errorsx.Errorf("image size must be positive, but was %dx%d", options.Width, options.Height)
	}

	var bounds osm.Bounds
	if options.Bounds != nil {
		bounds = padBounds(*options.Bounds, 0)
	} else {
		documentBounds, ok := document.Bounds()
		if !ok {
			return rr.RenderTextTile(size, "(no elements found)")
		}
		bounds = padBounds(documentBounds, BOUNDS_PADDING)
	}

	elements := document.ElementsInBounds(bounds)
	if len(elements) == 0 {
		return rr.RenderTextTile(size, "(no elements found)")
	}

	drawSpan := tracing.StartSpan(ctx, "draw elements")
	defer drawSpan.End(ctx)

	sort.SliceStable(elements, func(a, b int) bool {
		return kindZIndex[elements[a].Kind] < kindZIndex[elements[b].Kind]
	})

	background := options.Background
	if background == nil {
		background = color.White
	}

	img := NewImageWithBackground(size, background)
	proj := newProjection(bounds, size)

	gc := draw2dimg.NewGraphicContext(img)

	for _, element := range elements {
		switch element.Kind {
		case ownkml.ElementKindPolygon:
			drawPolygon(gc, proj, element.Rings, element.Style)
		case ownkml.ElementKindLineString:
			drawLine(gc, proj, element.Line, element.Style)
		case ownkml.ElementKindPoint:
			if element.Point != nil {
				drawPoint(gc, proj, *element.Point, element.Style)
			}
		default:
			return nil, errorsx.Errorf("didn't understand element kind %q", element.Kind)
		}
	}

	if options.ShowLabels {
		labelsSpan := tracing.StartSpan(ctx, "draw labels")
		for _, element := range elements {
			if element.Kind != ownkml.ElementKindPoint || element.Point == nil || element.Name == "" {
				continue
			}

			x, y := proj.toPixel(*element.Point)
			err := rr.drawLabel(img, element.Name, image.Point{X: int(x + POINT_RADIUS*2), Y: int(y + LABEL_FONT_SIZE/2)})
			if err != nil {
				return nil, errorsx.Wrap(err)
			}
		}
		labelsSpan.End(ctx)
	}

	return img, nil
}

func (rr *RasterRenderer) drawLabel(img draw.Image, text string, pt image.Point) errorsx.Error {
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(rr.font)
	ctx.SetFontSize(LABEL_FONT_SIZE)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(color.Black))

	_, err := ctx.DrawString(text, freetype.Pt(pt.X, pt.Y))
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}

type resolvedStyle struct {
	LineColor color.Color
	LineWidth float64
	FillColor color.Color
}

func resolveStyle(style *styling.Style) resolvedStyle {
	if style == nil {
		style = &styling.Style{}
	}

	lineColor := style.LineColor
	if lineColor == "" {
		lineColor = styling.DefaultColor
	}

	strokeOpacity := 1.0
	if style.StrokeOpacity != nil {
		strokeOpacity = *style.StrokeOpacity
	}

	lineWidth := DEFAULT_LINE_WIDTH
	if style.LineWidth != nil && *style.LineWidth > 0 {
		lineWidth = *style.LineWidth
	}

	fillColor := style.FillColor
	if fillColor == "" {
		fillColor = lineColor
	}

	fillOpacity := DEFAULT_FILL_OPACITY
	if style.FillOpacity != nil {
		fillOpacity = *style.FillOpacity
	}

	return resolvedStyle{
		LineColor: styling.ParseHexColor(lineColor, strokeOpacity),
		LineWidth: lineWidth,
		FillColor: styling.ParseHexColor(fillColor, fillOpacity),
	}
}

func tracePath(gc *draw2dimg.GraphicContext, proj projection, coordinates []ownkml.Coordinate) {
	for i, coordinate := range coordinates {
		x, y := proj.toPixel(coordinate)
		if i == 0 {
			gc.MoveTo(x, y)
		} else {
			gc.LineTo(x, y)
		}
	}
}

func drawLine(gc *draw2dimg.GraphicContext, proj projection, coordinates []ownkml.Coordinate, style *styling.Style) {
	if len(coordinates) == 0 {
		return
	}

	resolved := resolveStyle(style)
	gc.SetStrokeColor(resolved.LineColor)
	gc.SetLineWidth(resolved.LineWidth)

	gc.BeginPath()
	tracePath(gc, proj, coordinates)
	gc.Stroke()
}

// drawPolygon fills with the even-odd rule, so inner rings are left as holes
func drawPolygon(gc *draw2dimg.GraphicContext, proj projection, rings [][]ownkml.Coordinate, style *styling.Style) {
	if len(rings) == 0 {
		return
	}

	resolved := resolveStyle(style)
	gc.SetStrokeColor(resolved.LineColor)
	gc.SetLineWidth(resolved.LineWidth)
	gc.SetFillColor(resolved.FillColor)
	gc.SetFillRule(draw2d.FillRuleEvenOdd)

	gc.BeginPath()
	for _, ring := range rings {
		if len(ring) == 0 {
			continue
		}
		tracePath(gc, proj, ring)
		gc.Close()
	}
	gc.FillStroke()
}

func drawPoint(gc *draw2dimg.GraphicContext, proj projection, coordinate ownkml.Coordinate, style *styling.Style) {
	resolved := resolveStyle(style)

	radius := POINT_RADIUS
	if style != nil && style.IconScale != nil && *style.IconScale > 0 {
		radius *= *style.IconScale
	}

	x, y := proj.toPixel(coordinate)

	gc.SetStrokeColor(resolved.LineColor)
	gc.SetLineWidth(1)
	gc.SetFillColor(resolved.LineColor)

	gc.BeginPath()
	draw2dkit.Circle(gc, x, y, radius)
	gc.FillStroke()
}
