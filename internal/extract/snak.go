package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ppiankov/artgraph/internal/model"
	"github.com/ppiankov/artgraph/internal/wikidata"
)

type entityIDValue struct {
	EntityType string `json:"entity-type"`
	NumericID  int64  `json:"numeric-id"`
	ID         string `json:"id"`
}

type timeValue struct {
	Time      string `json:"time"`
	Precision int    `json:"precision"`
}

type coordinateValue struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type monolingualValue struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type quantityValue struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// ParseSnak converts a raw snak into a Value. somevalue and novalue snaks
// become ValueNone; payloads that cannot be decoded are kept raw as ValueOther.
func ParseSnak(snak wikidata.Snak) model.Value {
	if snak.SnakType != "value" || snak.DataValue == nil {
		return model.Value{Kind: model.ValueNone}
	}

	dv := snak.DataValue
	other := model.Value{Kind: model.ValueOther, Raw: dv.Value}

	switch dv.Type {
	case "wikibase-entityid":
		var v entityIDValue
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return other
		}
		id := v.ID
		if id == "" && v.NumericID > 0 {
			id = entityPrefix(v.EntityType) + strconv.FormatInt(v.NumericID, 10)
		}
		if id == "" {
			return other
		}
		return model.EntityValue(model.Identifier(id))

	case "string":
		var s string
		if err := json.Unmarshal(dv.Value, &s); err != nil {
			return other
		}
		return model.StringValue(s)

	case "time":
		var v timeValue
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return other
		}
		val := model.TimeValue(v.Time)
		val.Precision = v.Precision
		return val

	case "globecoordinate":
		var v coordinateValue
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return other
		}
		return model.CoordinateValue(v.Latitude, v.Longitude)

	case "monolingualtext":
		var v monolingualValue
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return other
		}
		return model.Value{Kind: model.ValueMonolingual, Text: v.Text, Language: v.Language}

	case "quantity":
		var v quantityValue
		if err := json.Unmarshal(dv.Value, &v); err != nil {
			return other
		}
		return model.Value{Kind: model.ValueQuantity, Text: v.Amount}
	}

	return other
}

func entityPrefix(entityType string) string {
	switch entityType {
	case "property":
		return "P"
	case "lexeme":
		return "L"
	default:
		return "Q"
	}
}

// NormalizeTime turns an extended-year timestamp into a plain date:
// "+1503-00-00T00:00:00Z" becomes "1503-00-00". A leading minus (BCE) is kept.
func NormalizeTime(t string) string {
	t = strings.TrimPrefix(t, "+")
	if idx := strings.Index(t, "T"); idx >= 0 {
		t = t[:idx]
	}
	return t
}
