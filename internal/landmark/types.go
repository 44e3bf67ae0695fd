package landmark

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Point represents a 2D mesh point. A z coordinate, when present, is dropped.
type Point struct {
	X, Y float64
}

// MarshalJSON writes the point as a [x, y] pair
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts [x, y], [x, y, z] or {"x": .., "y": ..}
func (p *Point) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err == nil {
		if len(coords) < 2 {
			return fmt.Errorf("point needs at least 2 coordinates, got %d", len(coords))
		}
		p.X, p.Y = coords[0], coords[1]
		return nil
	}

	var obj struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to decode point: %w", err)
	}
	p.X, p.Y = obj.X, obj.Y
	return nil
}

// BoundingBox represents a face bounding box
type BoundingBox struct {
	TopLeft     Point `json:"topLeft"`
	BottomRight Point `json:"bottomRight"`
}

// Width returns box width
func (b BoundingBox) Width() float64 {
	return b.BottomRight.X - b.TopLeft.X
}

// Height returns box height
func (b BoundingBox) Height() float64 {
	return b.BottomRight.Y - b.TopLeft.Y
}

// ScaleProxy returns the sum of both corner x coordinates.
// This is not the box width. The cold-start model constants were fit
// against this exact definition, so it stays as is.
func (b BoundingBox) ScaleProxy() float64 {
	return b.TopLeft.X + b.BottomRight.X
}

// VerticalProxy is the y-axis counterpart of ScaleProxy, used only to
// normalize vertical head position.
func (b BoundingBox) VerticalProxy() float64 {
	return b.TopLeft.Y + b.BottomRight.Y
}

// Frame is one detection result for one face
type Frame struct {
	Mesh        []Point     `json:"scaledMesh"`
	BoundingBox BoundingBox `json:"boundingBox"`
}

// Points returns the mesh points at the given indices.
// Indices outside the mesh yield the zero point.
func (f *Frame) Points(indices []int) []Point {
	points := make([]Point, len(indices))
	for i, idx := range indices {
		if idx >= 0 && idx < len(f.Mesh) {
			points[i] = f.Mesh[idx]
		}
	}
	return points
}
