package api

import (
	"math"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"entity ok", EntityPayload{Handle: "4294967296"}, false},
		{"entity empty", EntityPayload{}, true},
		{"filter empty", FilterPayload{}, false},
		{"filter blank capability", FilterPayload{Capabilities: []string{"rigidbody", " "}}, true},
		{"filter long search", FilterPayload{Search: strings.Repeat("a", MaxSearchLen+1)}, true},
		{"edit ok", EditFieldPayload{Attribute: "Position", Axis: "X", Value: 5}, false},
		{"edit bad attribute", EditFieldPayload{Attribute: "color", Axis: "x"}, true},
		{"edit bad axis", EditFieldPayload{Attribute: "scale", Axis: "w"}, true},
		{"edit NaN", EditFieldPayload{Attribute: "scale", Axis: "x", Value: math.NaN()}, true},
		{"transform ok", TransformPayload{Scale: Vec3View{1, 1, 1}}, false},
		{"transform inf", TransformPayload{Rotation: Vec3View{Y: math.Inf(1)}}, true},
		{"capability ok", CapabilityPayload{TypeID: "light"}, false},
		{"capability empty", CapabilityPayload{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
