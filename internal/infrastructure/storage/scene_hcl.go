package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"scene-manager/internal/domain"
	"scene-manager/internal/scene"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// hclSceneFile is the top-level structure of a scene authoring file.
type hclSceneFile struct {
	Entities []*hclEntity `hcl:"entity,block"`
}

type hclEntity struct {
	Name         string    `hcl:"name,label"`
	Active       *bool     `hcl:"active,optional"`
	Hidden       bool      `hcl:"hidden,optional"`
	Static       bool      `hcl:"static,optional"`
	Position     []float64 `hcl:"position,optional"`
	Rotation     []float64 `hcl:"rotation,optional"`
	Scale        []float64 `hcl:"scale,optional"`
	Capabilities []string  `hcl:"capabilities,optional"`
}

// LoadHCL parses a scene authoring file:
//
//	entity "Cube" {
//	  position     = [0, 0, 0]
//	  rotation     = [0, 45, 0]
//	  capabilities = ["box_collider", "rigidbody"]
//	}
//
// active defaults to true and scale to [1, 1, 1].
func LoadHCL(path string) ([]scene.Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decodeScene(file, path)
}

// ParseHCL is LoadHCL over an in-memory source.
func ParseHCL(src []byte, filename string) ([]scene.Spec, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeScene(file, filename)
}

func decodeScene(file *hcl.File, filename string) ([]scene.Spec, error) {
	var parsed hclSceneFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	specs := make([]scene.Spec, 0, len(parsed.Entities))
	for _, e := range parsed.Entities {
		spec, err := e.toSpec()
		if err != nil {
			return nil, fmt.Errorf("%s: entity %q: %w", filename, e.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (e *hclEntity) toSpec() (scene.Spec, error) {
	pos, err := vec3(e.Position, domain.Vec3{})
	if err != nil {
		return scene.Spec{}, fmt.Errorf("position: %w", err)
	}
	rot, err := vec3(e.Rotation, domain.Vec3{})
	if err != nil {
		return scene.Spec{}, fmt.Errorf("rotation: %w", err)
	}
	scale, err := vec3(e.Scale, domain.Vec3{X: 1, Y: 1, Z: 1})
	if err != nil {
		return scene.Spec{}, fmt.Errorf("scale: %w", err)
	}

	active := true
	if e.Active != nil {
		active = *e.Active
	}

	return scene.Spec{
		Name:         e.Name,
		Active:       active,
		Hidden:       e.Hidden,
		Static:       e.Static,
		Transform:    domain.Transform{Position: pos, Rotation: rot, Scale: scale},
		Capabilities: e.Capabilities,
	}, nil
}

func vec3(v []float64, fallback domain.Vec3) (domain.Vec3, error) {
	if v == nil {
		return fallback, nil
	}
	if len(v) != 3 {
		return domain.Vec3{}, fmt.Errorf("want 3 components, got %d", len(v))
	}
	return domain.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}

// LoadScene picks the loader by extension: .hcl authoring files or .scns snapshots.
func LoadScene(path string) ([]scene.Spec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return LoadHCL(path)
	case ".scns":
		snap, err := LoadSnapshot(path)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", path, err)
		}
		return snap.Entities, nil
	}
	return nil, fmt.Errorf("unsupported scene file %s", path)
}
