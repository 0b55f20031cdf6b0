package storage

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scene-manager/internal/domain"
	"scene-manager/internal/scene"

	"github.com/google/go-cmp/cmp"
)

const demoScene = `
entity "Cube" {
  position     = [0, 0, 0]
  rotation     = [0, 45, 0]
  capabilities = ["box_collider", "rigidbody"]
}

entity "Floor" {
  static = true
  scale  = [10, 1, 10]
}

entity "Editor Camera" {
  active = false
  hidden = true
}
`

func TestParseHCL(t *testing.T) {
	specs, err := ParseHCL([]byte(demoScene), "demo.hcl")
	if err != nil {
		t.Fatalf("ParseHCL() error = %v", err)
	}

	one := domain.Vec3{X: 1, Y: 1, Z: 1}
	want := []scene.Spec{
		{
			Name:         "Cube",
			Active:       true,
			Transform:    domain.Transform{Rotation: domain.Vec3{Y: 45}, Scale: one},
			Capabilities: []string{"box_collider", "rigidbody"},
		},
		{
			Name:      "Floor",
			Active:    true,
			Static:    true,
			Transform: domain.Transform{Scale: domain.Vec3{X: 10, Y: 1, Z: 10}},
		},
		{
			Name:      "Editor Camera",
			Hidden:    true,
			Transform: domain.Transform{Scale: one},
		},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name, src, contains string
	}{
		{"syntax", `entity "A" {`, "parse"},
		{"unknown attribute", `entity "A" { colour = "red" }`, "decode"},
		{"short vector", `entity "A" { position = [1, 2] }`, "position"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHCL([]byte(tt.src), "bad.hcl")
			if err == nil || !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("err = %v, want it to mention %q", err, tt.contains)
			}
		})
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	specs, err := ParseHCL([]byte(demoScene), "demo.hcl")
	if err != nil {
		t.Fatal(err)
	}

	w := scene.New()
	for _, s := range specs {
		w.Spawn(s)
	}
	var entities []domain.EntitySnapshot
	for _, h := range w.EnumerateAll() {
		snap, _ := w.Snapshot(h)
		entities = append(entities, snap)
	}

	svc, err := NewSnapshotService(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path, err := svc.Save(entities)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}

	// Specs without capabilities come back as empty lists.
	specs[1].Capabilities = []string{}
	specs[2].Capabilities = []string{}
	if diff := cmp.Diff(specs, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadBinary_RejectsBadHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := writeBinary(&buf, 1, nil); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()
	data[0] = 'X'

	if _, err := readBinary(bytes.NewReader(data)); err == nil || !strings.Contains(err.Error(), "magic") {
		t.Errorf("err = %v, want invalid magic", err)
	}
}

func TestReadBinary_UntrustedCount(t *testing.T) {
	tests := []struct {
		name  string
		count int32
	}{
		{"huge count", 1<<31 - 1},
		{"above limit", MaxEntities + 1},
		{"negative", -1},
		{"plausible count, no body", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := SnapshotFileHeader{Version: Version1, Count: tt.count}
			copy(header.Magic[:], MagicHeader)

			var buf bytes.Buffer
			if err := binary.Write(&buf, binary.LittleEndian, &header); err != nil {
				t.Fatal(err)
			}

			if _, err := readBinary(bytes.NewReader(buf.Bytes())); err == nil {
				t.Errorf("header-only file with count %d: expected error", tt.count)
			}
		})
	}
}

func TestLoadScene_Dispatch(t *testing.T) {
	dir := t.TempDir()
	hclPath := filepath.Join(dir, "demo.hcl")
	if err := os.WriteFile(hclPath, []byte(demoScene), 0o644); err != nil {
		t.Fatal(err)
	}

	specs, err := LoadScene(hclPath)
	if err != nil || len(specs) != 3 {
		t.Fatalf("LoadScene(hcl) = %d specs, %v", len(specs), err)
	}
	if _, err := LoadScene(filepath.Join(dir, "demo.json")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestWriteSnapshot(t *testing.T) {
	specs := []scene.Spec{
		{
			Name:         "Crate",
			Active:       true,
			Transform:    domain.Transform{Position: domain.Vec3{X: 1, Y: 2, Z: 3}, Scale: domain.Vec3{X: 1, Y: 1, Z: 1}},
			Capabilities: []string{"box_collider", "rigidbody"},
		},
		{
			Name:         "Gizmo",
			Hidden:       true,
			Capabilities: []string{},
		},
	}

	path := filepath.Join(t.TempDir(), "out.scns")
	if err := WriteSnapshot(path, specs); err != nil {
		t.Fatalf("WriteSnapshot() error = %v", err)
	}

	got, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene() error = %v", err)
	}
	if diff := cmp.Diff(specs, got); diff != "" {
		t.Errorf("specs mismatch (-want +got):\n%s", diff)
	}
}
