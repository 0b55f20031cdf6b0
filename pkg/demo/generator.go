// Package demo generates a seeded demo scene: rooms laid out on a floor plan,
// each furnished with props, so the panel has something to browse without an
// authoring file.
package demo

import (
	"fmt"
	"math/rand"

	"scene-manager/internal/domain"
	"scene-manager/internal/scene"
)

// Layout constants (world units)
const (
	PlanWidth  = 40
	PlanDepth  = 25
	MaxRooms   = 8
	MinSize    = 4
	MaxSize    = 10
	WallHeight = 3
)

// Rect is a room footprint on the floor plan.
type Rect struct {
	X, Z, W, D int
}

func (r Rect) Center() (float64, float64) {
	return float64(r.X) + float64(r.W)/2, float64(r.Z) + float64(r.D)/2
}

func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.W && r.X+r.W >= other.X &&
		r.Z <= other.Z+other.D && r.Z+r.D >= other.Z
}

// Generate builds the scene for seed. The same seed always yields the same specs.
func Generate(seed int64) []scene.Spec {
	rng := rand.New(rand.NewSource(seed))

	var rooms []Rect
	for i := 0; i < MaxRooms; i++ {
		w := randRange(rng, MinSize, MaxSize)
		d := randRange(rng, MinSize, MaxSize)
		room := Rect{
			X: randRange(rng, 1, PlanWidth-w-1),
			Z: randRange(rng, 1, PlanDepth-d-1),
			W: w,
			D: d,
		}

		overlaps := false
		for _, other := range rooms {
			if room.Intersects(other) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			rooms = append(rooms, room)
		}
	}

	specs := []scene.Spec{
		{
			Name:      "Main Camera",
			Active:    true,
			Transform: transform(PlanWidth/2, 20, -10, 45, 0, 1),
			Capabilities: []string{
				"camera", "audio_source",
			},
		},
		{
			// editor gizmo, never listed
			Name:      "Scene Gizmo",
			Active:    true,
			Hidden:    true,
			Transform: transform(0, 0, 0, 0, 0, 1),
		},
	}

	for i, room := range rooms {
		specs = append(specs, furnish(rng, i, room)...)
	}
	return specs
}

func furnish(rng *rand.Rand, idx int, room Rect) []scene.Spec {
	cx, cz := room.Center()

	floor := scene.Spec{
		Name:         fmt.Sprintf("Room %d Floor", idx),
		Active:       true,
		Static:       true,
		Transform:    domain.Transform{Position: domain.Vec3{X: cx, Z: cz}, Scale: domain.Vec3{X: float64(room.W), Y: 1, Z: float64(room.D)}},
		Capabilities: []string{"box_collider", "mesh_renderer"},
	}
	light := scene.Spec{
		Name:         fmt.Sprintf("Room %d Light", idx),
		Active:       true,
		Transform:    transform(cx, WallHeight, cz, 90, 0, 1),
		Capabilities: []string{"light"},
	}
	out := []scene.Spec{floor, light}

	// a few crates per room, slightly off the center so they do not overlap
	crates := randRange(rng, 0, 3)
	for c := 0; c < crates; c++ {
		out = append(out, scene.Spec{
			Name:   fmt.Sprintf("Crate %d-%d", idx, c),
			Active: true,
			Transform: transform(
				cx+float64(randRange(rng, -1, 1)),
				0.5,
				cz+float64(randRange(rng, -1, 1)),
				0, float64(randRange(rng, 0, 3)*15), 1,
			),
			Capabilities: []string{"box_collider", "rigidbody", "mesh_renderer"},
		})
	}

	if rng.Float32() > 0.6 {
		out = append(out, scene.Spec{
			Name:         fmt.Sprintf("Torch %d", idx),
			Active:       rng.Float32() > 0.3,
			Transform:    transform(float64(room.X)+0.5, 2, cz, 0, 90, 0.5),
			Capabilities: []string{"light", "particle_system"},
		})
	}
	return out
}

func transform(x, y, z, pitch, yaw, scale float64) domain.Transform {
	return domain.Transform{
		Position: domain.Vec3{X: x, Y: y, Z: z},
		Rotation: domain.Vec3{X: pitch, Y: yaw},
		Scale:    domain.Vec3{X: scale, Y: scale, Z: scale},
	}
}

func randRange(rng *rand.Rand, min, max int) int {
	return rng.Intn(max-min+1) + min
}
