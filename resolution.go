package markrender

import "math"

// Axis names a page dimension.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisY {
		return "Y"
	}
	return "X"
}

// Size is a page size in points.
type Size struct {
	W, H float64
}

// PixelsPerPoint returns the scale at which a page of size renders to
// about desired squared pixels, capped at MaxPixelsPerPoint. Pages with a
// side beyond MaxSize fail with a *TooBigError, width checked first.
// Zero-area pages get MaxPixelsPerPoint.
func PixelsPerPoint(size Size, desired float64) (float64, error) {
	if size.W > MaxSize {
		return 0, &TooBigError{Axis: AxisX, Size: size.W}
	}
	if size.H > MaxSize {
		return 0, &TooBigError{Axis: AxisY, Size: size.H}
	}
	area := size.W * size.H
	if area <= 0 {
		return MaxPixelsPerPoint, nil
	}
	return min(desired/math.Sqrt(area), MaxPixelsPerPoint), nil
}
