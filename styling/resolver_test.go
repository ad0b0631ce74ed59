package styling

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stylesKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
<Document>
	<Style id="route">
		<LineStyle>
			<color>ff0000ff</color>
			<width>4</width>
		</LineStyle>
	</Style>
	<Style id="area">
		<LineStyle>
			<color>801400aa</color>
		</LineStyle>
		<PolyStyle>
			<color>7f00ff00</color>
			<fill>1</fill>
			<outline>0</outline>
		</PolyStyle>
	</Style>
	<Style id="pin">
		<IconStyle>
			<scale>1.5</scale>
			<Icon>
				<href>http://maps.google.com/mapfiles/kml/pushpin/ylw-pushpin.png</href>
			</Icon>
		</IconStyle>
	</Style>
	<Style>
		<LineStyle><color>ffffffff</color></LineStyle>
	</Style>
	<StyleMap id="route-map">
		<Pair>
			<key>highlight</key>
			<styleUrl>#area</styleUrl>
		</Pair>
		<Pair>
			<key>normal</key>
			<styleUrl>#route</styleUrl>
		</Pair>
	</StyleMap>
	<StyleMap id="dangling">
		<Pair>
			<key>normal</key>
			<styleUrl>#does-not-exist</styleUrl>
		</Pair>
	</StyleMap>
	<StyleMap id="external">
		<Pair>
			<key>normal</key>
			<styleUrl>other.kml#route</styleUrl>
		</Pair>
	</StyleMap>
</Document>
</kml>`

func TestResolveStyles(t *testing.T) {
	doc := etree.NewDocument()
	err := doc.ReadFromString(stylesKML)
	require.NoError(t, err)

	table := ResolveStyles(doc)

	assert.Len(t, table, 4)

	route := table["route"]
	require.NotNil(t, route)
	assert.Equal(t, "#ff0000", route.LineColor)
	require.NotNil(t, route.LineWidth)
	assert.Equal(t, 4.0, *route.LineWidth)
	assert.Nil(t, route.FillOpacity)

	area := table["area"]
	require.NotNil(t, area)
	assert.Equal(t, "#aa0014", area.LineColor)
	assert.Equal(t, "#00ff00", area.FillColor)
	require.NotNil(t, area.FillOpacity)
	assert.Equal(t, 0.5, *area.FillOpacity)
	require.NotNil(t, area.StrokeOpacity)
	assert.Equal(t, 0.0, *area.StrokeOpacity)

	pin := table["pin"]
	require.NotNil(t, pin)
	assert.Equal(t, "http://maps.google.com/mapfiles/kml/pushpin/ylw-pushpin.png", pin.IconURL)
	require.NotNil(t, pin.IconScale)
	assert.Equal(t, 1.5, *pin.IconScale)

	// StyleMap aliases share the resolved style
	assert.Same(t, route, table["route-map"])

	_, ok := table["dangling"]
	assert.False(t, ok)
	_, ok = table["external"]
	assert.False(t, ok)
}

func TestBuildStyle_polyStyleFlags(t *testing.T) {
	tests := []struct {
		name              string
		polyStyle         string
		wantFillOpacity   *float64
		wantStrokeOpacity *float64
	}{
		{"fill and outline on", "<PolyStyle><fill>1</fill><outline>1</outline></PolyStyle>", Float64(0.5), Float64(1)},
		{"fill and outline off", "<PolyStyle><fill>0</fill><outline>0</outline></PolyStyle>", Float64(0), Float64(0)},
		{"not set", "<PolyStyle><color>ff000000</color></PolyStyle>", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := etree.NewDocument()
			err := doc.ReadFromString("<Style>" + tt.polyStyle + "</Style>")
			require.NoError(t, err)

			style := BuildStyle(doc.Root())
			assert.Equal(t, tt.wantFillOpacity, style.FillOpacity)
			assert.Equal(t, tt.wantStrokeOpacity, style.StrokeOpacity)
		})
	}
}
