package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"scene-manager/internal/domain"
	"scene-manager/internal/scene"

	"github.com/pierrec/lz4"
)

// MaxEntities bounds the entity count a snapshot header may declare.
const MaxEntities = 1 << 20

// Snapshot is a decoded .scns file.
type Snapshot struct {
	Timestamp int64
	Entities  []scene.Spec
}

// LoadSnapshot reads a file written by SnapshotService.Save.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readBinary(bufio.NewReader(f))
}

func readBinary(r io.Reader) (*Snapshot, error) {
	var header SnapshotFileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicHeader {
		return nil, fmt.Errorf("invalid magic")
	}
	if header.Version != Version1 {
		return nil, fmt.Errorf("unsupported version: %d (expected %d)", header.Version, Version1)
	}
	if header.Count < 0 || header.Count > MaxEntities {
		return nil, fmt.Errorf("entity count out of range: %d", header.Count)
	}

	// the count is untrusted until the entities are actually read
	snap := &Snapshot{
		Timestamp: header.Timestamp,
		Entities:  make([]scene.Spec, 0, min(int(header.Count), 1024)),
	}

	zr := lz4.NewReader(r)
	for i := 0; i < int(header.Count); i++ {
		spec, err := readEntity(zr)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		snap.Entities = append(snap.Entities, spec)
	}

	return snap, nil
}

func readEntity(r io.Reader) (scene.Spec, error) {
	var eh EntityHeader
	if err := binary.Read(r, binary.LittleEndian, &eh); err != nil {
		return scene.Spec{}, err
	}

	name := make([]byte, eh.NameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return scene.Spec{}, err
	}

	caps := make([]string, 0, eh.CapCount)
	var lenBuf [1]byte
	for j := 0; j < int(eh.CapCount); j++ {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return scene.Spec{}, err
		}
		id := make([]byte, lenBuf[0])
		if _, err := io.ReadFull(r, id); err != nil {
			return scene.Spec{}, err
		}
		caps = append(caps, string(id))
	}

	v := eh.Transform
	return scene.Spec{
		Name:   string(name),
		Active: eh.Flags&flagActive != 0,
		Hidden: eh.Flags&flagHidden != 0,
		Static: eh.Flags&flagStatic != 0,
		Transform: domain.Transform{
			Position: domain.Vec3{X: v[0], Y: v[1], Z: v[2]},
			Rotation: domain.Vec3{X: v[3], Y: v[4], Z: v[5]},
			Scale:    domain.Vec3{X: v[6], Y: v[7], Z: v[8]},
		},
		Capabilities: caps,
	}, nil
}
