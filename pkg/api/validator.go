package api

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxSearchLen bounds the search string of a filter.
const MaxSearchLen = 256

// Validator is implemented by payloads that can check themselves.
type Validator interface {
	Validate() error
}

func (p EntityPayload) Validate() error {
	if p.Handle == "" {
		return errors.New("handle is required")
	}
	return nil
}

func (p FilterPayload) Validate() error {
	if len(p.Search) > MaxSearchLen {
		return fmt.Errorf("search longer than %d bytes", MaxSearchLen)
	}
	for _, id := range p.Capabilities {
		if strings.TrimSpace(id) == "" {
			return errors.New("capability id cannot be blank")
		}
	}
	return nil
}

func (p EditFieldPayload) Validate() error {
	switch strings.ToLower(p.Attribute) {
	case "position", "rotation", "scale":
	default:
		return fmt.Errorf("unknown attribute %q", p.Attribute)
	}
	switch strings.ToLower(p.Axis) {
	case "x", "y", "z":
	default:
		return fmt.Errorf("unknown axis %q", p.Axis)
	}
	if !finite(p.Value) {
		return errors.New("value must be finite")
	}
	return nil
}

func (p TransformPayload) Validate() error {
	for _, v := range []Vec3View{p.Position, p.Rotation, p.Scale} {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return errors.New("transform values must be finite")
		}
	}
	return nil
}

func (p CapabilityPayload) Validate() error {
	if p.TypeID == "" {
		return errors.New("typeId is required")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
