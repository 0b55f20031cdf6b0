package modules

import "scene-manager/internal/domain"

// Built-in component data. Values are defaults the host starts an instance with.

type BoxCollider struct {
	Size      domain.Vec3
	IsTrigger bool
}

type SphereCollider struct {
	Radius    float64
	IsTrigger bool
}

type Rigidbody struct {
	Mass        float64
	UseGravity  bool
	IsKinematic bool
}

type Light struct {
	Kind      string // directional, point, spot
	Intensity float64
	Range     float64
}

type Camera struct {
	FieldOfView float64
	Near, Far   float64
}

type AudioSource struct {
	Volume float64
	Loop   bool
}

type Animator struct {
	Controller string
}

type ParticleSystem struct {
	MaxParticles int
}

type MeshRenderer struct {
	Material string
}

func init() {
	Register(Kind{ID: domain.CapabilityTransform, DisplayName: "Transform", Internal: true})
	Register(Kind{ID: "behaviour", DisplayName: "Behaviour", Abstract: true})
	Register(Kind{ID: "collider", DisplayName: "Collider", Abstract: true})

	Register(Kind{
		ID:          "box_collider",
		DisplayName: "Box Collider",
		Factory:     func() (any, error) { return &BoxCollider{Size: domain.Vec3{X: 1, Y: 1, Z: 1}}, nil },
	})
	Register(Kind{
		ID:          "sphere_collider",
		DisplayName: "Sphere Collider",
		Factory:     func() (any, error) { return &SphereCollider{Radius: 0.5}, nil },
	})
	Register(Kind{
		ID:          "rigidbody",
		DisplayName: "Rigidbody",
		Factory:     func() (any, error) { return &Rigidbody{Mass: 1, UseGravity: true}, nil },
		// Static geometry is baked; dynamics on it are refused.
		Allowed: func(s domain.EntitySnapshot) bool { return !s.Static },
	})
	Register(Kind{
		ID:          "light",
		DisplayName: "Light",
		Factory:     func() (any, error) { return &Light{Kind: "point", Intensity: 1, Range: 10}, nil },
	})
	Register(Kind{
		ID:          "camera",
		DisplayName: "Camera",
		Factory:     func() (any, error) { return &Camera{FieldOfView: 60, Near: 0.3, Far: 1000}, nil },
	})
	Register(Kind{
		ID:          "audio_source",
		DisplayName: "Audio Source",
		Factory:     func() (any, error) { return &AudioSource{Volume: 1}, nil },
	})
	Register(Kind{
		ID:          "animator",
		DisplayName: "Animator",
		Factory:     func() (any, error) { return &Animator{}, nil },
	})
	Register(Kind{
		ID:          "particle_system",
		DisplayName: "Particle System",
		Factory:     func() (any, error) { return &ParticleSystem{MaxParticles: 1000}, nil },
	})
	Register(Kind{
		ID:          "mesh_renderer",
		DisplayName: "Mesh Renderer",
		Factory:     func() (any, error) { return &MeshRenderer{Material: "Default-Material"}, nil },
	})
}
