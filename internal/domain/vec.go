package domain

import "math"

// Float32Epsilon is the float32 machine epsilon. Hosts store transforms in
// single precision, so comparisons default to it.
const Float32Epsilon = 1.1920929e-7

// Vec3 is a three-component vector used for position, euler rotation and scale.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Axis indexes a Vec3 component.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists every axis in order.
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Get returns the component for axis a. Out-of-range axes read as zero.
func (v Vec3) Get(a Axis) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return 0
}

// With returns a copy with axis a replaced.
func (v Vec3) With(a Axis, value float64) Vec3 {
	switch a {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	case AxisZ:
		v.Z = value
	}
	return v
}

// Mask zeroes every axis whose flag is false.
func (v Vec3) Mask(keep [3]bool) Vec3 {
	for _, a := range Axes {
		if !keep[a] {
			v = v.With(a, 0)
		}
	}
	return v
}

// ApproxEqual compares every axis with Approximately.
func (v Vec3) ApproxEqual(o Vec3, eps float64) bool {
	for _, a := range Axes {
		if !Approximately(v.Get(a), o.Get(a), eps) {
			return false
		}
	}
	return true
}

// Approximately is a tolerant float compare: relative for large magnitudes,
// absolute (eps*8) near zero.
func Approximately(a, b, eps float64) bool {
	tolerance := math.Max(1e-6*math.Max(math.Abs(a), math.Abs(b)), eps*8)
	return math.Abs(b-a) < tolerance
}
