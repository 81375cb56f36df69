package transform

import (
	"encoding/json"
	"fmt"

	"github.com/sf-parking-zones/internal/domain"
)

// GeometryDecoder turns a GeoJSON geometry into polygon outer rings.
type GeometryDecoder interface {
	DecodeGeoJSON(raw []byte) ([]domain.Ring, error)
}

// GeoJSONDecoder reads Polygon and MultiPolygon shells without repairing
// them. It is used when no geometry engine is configured.
type GeoJSONDecoder struct{}

func (GeoJSONDecoder) DecodeGeoJSON(raw []byte) ([]domain.Ring, error) {
	var g struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("parse geometry: %w", err)
	}

	switch g.Type {
	case "Polygon":
		var poly [][][]float64
		if err := json.Unmarshal(g.Coordinates, &poly); err != nil {
			return nil, fmt.Errorf("parse polygon: %w", err)
		}
		if r := shell(poly); r != nil {
			return []domain.Ring{r}, nil
		}
		return nil, nil
	case "MultiPolygon":
		var multi [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &multi); err != nil {
			return nil, fmt.Errorf("parse multipolygon: %w", err)
		}
		var out []domain.Ring
		for _, poly := range multi {
			if r := shell(poly); r != nil {
				out = append(out, r)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func shell(poly [][][]float64) domain.Ring {
	if len(poly) == 0 || len(poly[0]) < 4 {
		return nil
	}
	r := make(domain.Ring, 0, len(poly[0]))
	for _, c := range poly[0] {
		if len(c) < 2 {
			return nil
		}
		r = append(r, domain.Coordinate{Latitude: c[1], Longitude: c[0]})
	}
	return r
}

// linePoints collects every vertex of a LineString or MultiLineString.
func linePoints(raw json.RawMessage) []domain.Coordinate {
	var g struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}

	var lines [][][]float64
	switch g.Type {
	case "LineString":
		var line [][]float64
		if err := json.Unmarshal(g.Coordinates, &line); err != nil {
			return nil
		}
		lines = [][][]float64{line}
	case "MultiLineString":
		if err := json.Unmarshal(g.Coordinates, &lines); err != nil {
			return nil
		}
	default:
		return nil
	}

	var out []domain.Coordinate
	for _, line := range lines {
		for _, c := range line {
			if len(c) >= 2 {
				out = append(out, domain.Coordinate{Latitude: c[1], Longitude: c[0]})
			}
		}
	}
	return out
}
