package kmlparser

import (
	"testing"

	"github.com/jamesrr39/ownkml/ownkml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSalvage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantKinds []ownkml.ElementKind
		wantNames []string
	}{
		{
			"prefixed tags",
			`<kml:Placemark><kml:name>Prefixed</kml:name><kml:Point><kml:coordinates>1,2</kml:coordinates></kml:Point></kml:Placemark>`,
			[]ownkml.ElementKind{ownkml.ElementKindPoint},
			[]string{"Prefixed"},
		}, {
			"point takes precedence over line string",
			`<Placemark><LineString><coordinates>1,1 2,2</coordinates></LineString><Point><coordinates>3,3</coordinates></Point></Placemark>`,
			[]ownkml.ElementKind{ownkml.ElementKindPoint},
			[]string{""},
		}, {
			"first geometry without coordinates drops the placemark",
			`<Placemark><Point></Point><LineString><coordinates>1,1 2,2</coordinates></LineString></Placemark>`,
			nil,
			nil,
		}, {
			"unclosed placemark is ignored",
			`<Placemark><name>Open</name><Point><coordinates>1,2</coordinates></Point>`,
			nil,
			nil,
		}, {
			"escaped name",
			`<Placemark><name> Fish &lt;&amp;&gt; chips </name><Point><coordinates>1,2</coordinates></Point></Placemark>`,
			[]ownkml.ElementKind{ownkml.ElementKindPoint},
			[]string{"Fish <&> chips"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			document := Salvage(tt.text)
			require.NotNil(t, document.Elements)
			assert.Equal(t, ownkml.ParseModeSalvage, document.ParseMode)
			require.Len(t, document.Elements, len(tt.wantKinds))

			for i, element := range document.Elements {
				assert.Equal(t, tt.wantKinds[i], element.Kind)
				assert.Equal(t, tt.wantNames[i], element.Name)
			}
		})
	}
}
