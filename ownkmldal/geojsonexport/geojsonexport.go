package geojsonexport

import (
	"io"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/jamesrr39/ownkml/styling"
	"github.com/paulmach/orb/geojson"
)

// property names follow the "simplestyle" convention where there is one
const (
	PropertyName          = "name"
	PropertyDescription   = "description"
	PropertyKind          = "kind"
	PropertyStroke        = "stroke"
	PropertyStrokeWidth   = "stroke-width"
	PropertyStrokeOpacity = "stroke-opacity"
	PropertyFill          = "fill"
	PropertyFillOpacity   = "fill-opacity"
	PropertyIconURL       = "icon"
	PropertyIconScale     = "icon-scale"
	PropertyLengthKm      = "lengthKm"
	PropertyAreaKm2       = "areaKm2"
	PropertyExtendedData  = "extendedData"
)

func ToFeatureCollection(document *ownkml.Document) *geojson.FeatureCollection {
	featureCollection := geojson.NewFeatureCollection()

	for _, element := range document.Elements {
		geometry := element.Geometry()
		if geometry == nil {
			continue
		}

		feature := geojson.NewFeature(geometry)
		feature.ID = element.ID
		feature.Properties[PropertyKind] = string(element.Kind)

		if element.Name != "" {
			feature.Properties[PropertyName] = element.Name
		}
		if element.Description != "" {
			feature.Properties[PropertyDescription] = element.Description
		}
		if len(element.ExtendedData) != 0 {
			feature.Properties[PropertyExtendedData] = element.ExtendedData
		}

		if element.Metadata != nil {
			if element.Metadata.LengthKm != nil {
				feature.Properties[PropertyLengthKm] = *element.Metadata.LengthKm
			}
			if element.Metadata.AreaKm2 != nil {
				feature.Properties[PropertyAreaKm2] = *element.Metadata.AreaKm2
			}
		}

		setStyleProperties(feature.Properties, element.Style)

		featureCollection.Append(feature)
	}

	return featureCollection
}

func setStyleProperties(properties geojson.Properties, style *styling.Style) {
	if style == nil {
		return
	}

	if style.LineColor != "" {
		properties[PropertyStroke] = style.LineColor
	}
	if style.LineWidth != nil {
		properties[PropertyStrokeWidth] = *style.LineWidth
	}
	if style.StrokeOpacity != nil {
		properties[PropertyStrokeOpacity] = *style.StrokeOpacity
	}
	if style.FillColor != "" {
		properties[PropertyFill] = style.FillColor
	}
	if style.FillOpacity != nil {
		properties[PropertyFillOpacity] = *style.FillOpacity
	}
	if style.IconURL != "" {
		properties[PropertyIconURL] = style.IconURL
	}
	if style.IconScale != nil {
		properties[PropertyIconScale] = *style.IconScale
	}
}

// Write writes the document as a GeoJSON FeatureCollection
func Write(w io.Writer, document *ownkml.Document) errorsx.Error {
	b, err := ToFeatureCollection(document).MarshalJSON()
	if err != nil {
		return errorsx.Wrap(err)
	}

	_, err = w.Write(b)
	if err != nil {
		return errorsx.Wrap(err)
	}

	return nil
}
