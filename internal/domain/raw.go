package domain

import "encoding/json"

// RawRecord is one row from a Socrata dataset.
type RawRecord map[string]interface{}

// String returns the field as a trimmed string, or "".
func (r RawRecord) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case nil:
		return ""
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// RawFeature is one GeoJSON feature.
type RawFeature struct {
	Geometry   json.RawMessage `json:"geometry"`
	Properties RawRecord       `json:"properties"`
}
