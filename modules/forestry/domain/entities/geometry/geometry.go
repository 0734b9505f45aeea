package geometry

import "math"

// Shape identifies how a plot's surface is derived from its stored
// dimensions.
type Shape string

const (
	ShapeRectangular Shape = "RECTANGULAR"
	ShapeSquare      Shape = "SQUARE"
	ShapeCircular    Shape = "CIRCULAR"
	ShapeHexagonal   Shape = "HEXAGONAL"
)

func (s Shape) IsValid() bool {
	switch s {
	case ShapeRectangular, ShapeSquare, ShapeCircular, ShapeHexagonal:
		return true
	}
	return false
}

// Dimensions carries up to four plot measurements in meters. Which ones
// are required depends on the shape; unused dimensions are ignored.
type Dimensions struct {
	D1 *float64
	D2 *float64
	D3 *float64
	D4 *float64
}

func positive(d *float64) (float64, bool) {
	if d == nil || *d <= 0 {
		return 0, false
	}
	return *d, true
}

// AreaM2 derives a plot's surface in square meters from its shape and
// dimensions. The second return value is false when the shape tag is
// unknown or a required dimension is missing or non-positive; callers
// must treat that as a validation failure, never as a zero area.
func AreaM2(shape Shape, dims Dimensions) (float64, bool) {
	switch shape {
	case ShapeRectangular:
		length, ok := positive(dims.D1)
		if !ok {
			return 0, false
		}
		width, ok := positive(dims.D2)
		if !ok {
			return 0, false
		}
		return length * width, true
	case ShapeSquare:
		side, ok := positive(dims.D1)
		if !ok {
			return 0, false
		}
		return side * side, true
	case ShapeCircular:
		radius, ok := positive(dims.D1)
		if !ok {
			return 0, false
		}
		return math.Pi * radius * radius, true
	case ShapeHexagonal:
		side, ok := positive(dims.D1)
		if !ok {
			return 0, false
		}
		return 3 * math.Sqrt(3) / 2 * side * side, true
	default:
		return 0, false
	}
}
