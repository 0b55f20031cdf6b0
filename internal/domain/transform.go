package domain

import "strings"

// Transform groups the three spatial attributes the panel edits.
type Transform struct {
	Position Vec3 `json:"position"`
	Rotation Vec3 `json:"rotation"` // euler angles, degrees
	Scale    Vec3 `json:"scale"`    // local scale
}

// Attribute identifies one Vec3 of a Transform.
type Attribute uint8

const (
	AttributeUnknown Attribute = iota
	AttributePosition
	AttributeRotation
	AttributeScale
)

// Attributes lists the editable attributes in display order.
var Attributes = [3]Attribute{AttributePosition, AttributeRotation, AttributeScale}

var attributeStringTo = map[string]Attribute{
	"POSITION": AttributePosition,
	"ROTATION": AttributeRotation,
	"SCALE":    AttributeScale,
}

var attributeToString = map[Attribute]string{
	AttributePosition: "POSITION",
	AttributeRotation: "ROTATION",
	AttributeScale:    "SCALE",
}

// ParseAttribute is case-insensitive; unknown input maps to AttributeUnknown.
func ParseAttribute(s string) Attribute {
	if val, ok := attributeStringTo[strings.ToUpper(s)]; ok {
		return val
	}
	return AttributeUnknown
}

func (a Attribute) String() string {
	if val, ok := attributeToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// ParseAxis accepts "x", "y", "z" in any case.
func ParseAxis(s string) (Axis, bool) {
	switch strings.ToUpper(s) {
	case "X":
		return AxisX, true
	case "Y":
		return AxisY, true
	case "Z":
		return AxisZ, true
	}
	return 0, false
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// Get returns the Vec3 for attribute a.
func (t Transform) Get(a Attribute) Vec3 {
	switch a {
	case AttributePosition:
		return t.Position
	case AttributeRotation:
		return t.Rotation
	case AttributeScale:
		return t.Scale
	}
	return Vec3{}
}

// With returns a copy with attribute a replaced. Unknown attributes are ignored.
func (t Transform) With(a Attribute, v Vec3) Transform {
	switch a {
	case AttributePosition:
		t.Position = v
	case AttributeRotation:
		t.Rotation = v
	case AttributeScale:
		t.Scale = v
	}
	return t
}

// AxisMixedState flags, per axis, whether selection members disagree.
type AxisMixedState [3]bool

// Any reports whether at least one axis is mixed.
func (m AxisMixedState) Any() bool {
	return m[AxisX] || m[AxisY] || m[AxisZ]
}
