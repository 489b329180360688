package extract

import (
	"encoding/json"
	"testing"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/wikidata"
)

func snak(t *testing.T, raw string) wikidata.Snak {
	t.Helper()
	var s wikidata.Snak
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return s
}

func TestParseSnak(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want model.Value
	}{
		{
			name: "entity",
			raw:  `{"snaktype":"value","property":"P170","datavalue":{"value":{"entity-type":"item","numeric-id":762,"id":"Q762"},"type":"wikibase-entityid"}}`,
			want: model.EntityValue("Q762"),
		},
		{
			name: "entity without id",
			raw:  `{"snaktype":"value","property":"P170","datavalue":{"value":{"entity-type":"item","numeric-id":762},"type":"wikibase-entityid"}}`,
			want: model.EntityValue("Q762"),
		},
		{
			name: "string",
			raw:  `{"snaktype":"value","property":"P18","datavalue":{"value":"Mona Lisa.jpg","type":"string"}}`,
			want: model.StringValue("Mona Lisa.jpg"),
		},
		{
			name: "time",
			raw:  `{"snaktype":"value","property":"P571","datavalue":{"value":{"time":"+1503-00-00T00:00:00Z","precision":9},"type":"time"}}`,
			want: model.Value{Kind: model.ValueTime, Time: "+1503-00-00T00:00:00Z", Precision: 9},
		},
		{
			name: "coordinate",
			raw:  `{"snaktype":"value","property":"P625","datavalue":{"value":{"latitude":48.8611,"longitude":2.3358,"precision":0.0001},"type":"globecoordinate"}}`,
			want: model.CoordinateValue(48.8611, 2.3358),
		},
		{
			name: "monolingual",
			raw:  `{"snaktype":"value","property":"P1476","datavalue":{"value":{"text":"La Joconde","language":"fr"},"type":"monolingualtext"}}`,
			want: model.Value{Kind: model.ValueMonolingual, Text: "La Joconde", Language: "fr"},
		},
		{
			name: "quantity",
			raw:  `{"snaktype":"value","property":"P2048","datavalue":{"value":{"amount":"+77","unit":"http://www.wikidata.org/entity/Q174728"},"type":"quantity"}}`,
			want: model.Value{Kind: model.ValueQuantity, Text: "+77"},
		},
		{
			name: "somevalue",
			raw:  `{"snaktype":"somevalue","property":"P170"}`,
			want: model.Value{Kind: model.ValueNone},
		},
		{
			name: "novalue",
			raw:  `{"snaktype":"novalue","property":"P127"}`,
			want: model.Value{Kind: model.ValueNone},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSnak(snak(t, tt.raw))
			if got.Kind != tt.want.Kind || got.EntityID != tt.want.EntityID || got.Text != tt.want.Text ||
				got.Language != tt.want.Language || got.Time != tt.want.Time || got.Precision != tt.want.Precision ||
				got.Latitude != tt.want.Latitude || got.Longitude != tt.want.Longitude {
				t.Errorf("ParseSnak() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseSnak_UnknownTypeKeptRaw(t *testing.T) {
	got := ParseSnak(snak(t, `{"snaktype":"value","property":"P9","datavalue":{"value":{"x":1},"type":"wikibase-form"}}`))
	if got.Kind != model.ValueOther {
		t.Fatalf("expected other kind, got %s", got.Kind)
	}
	if string(got.Raw) != `{"x":1}` {
		t.Errorf("expected raw payload kept, got %s", got.Raw)
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := map[string]string{
		"+1503-00-00T00:00:00Z": "1503-00-00",
		"+1911-08-21T00:00:00Z": "1911-08-21",
		"-0500-00-00T00:00:00Z": "-0500-00-00",
		"1820":                  "1820",
		"":                      "",
	}
	for in, want := range tests {
		if got := NormalizeTime(in); got != want {
			t.Errorf("NormalizeTime(%q) = %q, want %q", in, got, want)
		}
	}
}
