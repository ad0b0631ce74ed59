package ownkmlrenderer

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/paulmach/osm"
)

func NewImageWithBackground(r image.Rectangle, c color.Color) *image.RGBA {
	img := image.NewRGBA(r)

	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	return img
}

// projection maps coordinates onto the image with a plain equirectangular projection
type projection struct {
	bounds osm.Bounds
	width  float64
	height float64
}

func newProjection(bounds osm.Bounds, size image.Rectangle) projection {
	return projection{
		bounds: bounds,
		width:  float64(size.Dx()),
		height: float64(size.Dy()),
	}
}

func (p projection) toPixel(coordinate ownkml.Coordinate) (x, y float64) {
	xThroughBounds := (coordinate.Lon - p.bounds.MinLon) / (p.bounds.MaxLon - p.bounds.MinLon)
	yThroughBounds := 1 - ((coordinate.Lat - p.bounds.MinLat) / (p.bounds.MaxLat - p.bounds.MinLat))

	return xThroughBounds * p.width, yThroughBounds * p.height
}

// padBounds grows the bounds by paddingFraction on each side. Bounds with no width or height (a single point) are given one.
func padBounds(bounds osm.Bounds, paddingFraction float64) osm.Bounds {
	lonSpan := bounds.MaxLon - bounds.MinLon
	if lonSpan == 0 {
		lonSpan = MIN_SPAN_DEGREES
		bounds.MinLon -= lonSpan / 2
		bounds.MaxLon += lonSpan / 2
	}

	latSpan := bounds.MaxLat - bounds.MinLat
	if latSpan == 0 {
		latSpan = MIN_SPAN_DEGREES
		bounds.MinLat -= latSpan / 2
		bounds.MaxLat += latSpan / 2
	}

	return osm.Bounds{
		MinLon: bounds.MinLon - lonSpan*paddingFraction,
		MaxLon: bounds.MaxLon + lonSpan*paddingFraction,
		MinLat: bounds.MinLat - latSpan*paddingFraction,
		MaxLat: bounds.MaxLat + latSpan*paddingFraction,
	}
}
