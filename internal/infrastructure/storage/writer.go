package storage

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"scene-manager/internal/domain"
	"scene-manager/internal/scene"

	"github.com/pierrec/lz4"
)

const (
	MagicHeader string = `SCNS` // 4 bytes
	Version1    uint32 = 1
)

// Entity flag bits.
const (
	flagActive uint8 = 1 << iota
	flagHidden
	flagStatic
)

// SnapshotFileHeader is written uncompressed; everything after it is one lz4 frame.
type SnapshotFileHeader struct {
	Magic     [4]byte
	Version   uint32
	Timestamp int64 // Unix milliseconds
	Count     int32
}

// EntityHeader precedes each entity record. Name and capability ids follow it.
type EntityHeader struct {
	Flags     uint8
	CapCount  uint8
	NameLen   uint16
	Transform [9]float64 // position, rotation, scale
}

// SnapshotService writes scene snapshots into SaveDir.
type SnapshotService struct {
	SaveDir string
}

func NewSnapshotService(dir string) (*SnapshotService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &SnapshotService{SaveDir: dir}, nil
}

// Save writes entities to a new timestamped file and returns its path.
func (s *SnapshotService) Save(entities []domain.EntitySnapshot) (string, error) {
	ts := time.Now().UnixMilli()
	path := filepath.Join(s.SaveDir, fmt.Sprintf("scene_%d.scns", ts))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, ts, entities); err != nil {
		return "", err
	}
	if err := bw.Flush(); err != nil {
		return "", err
	}
	return path, f.Sync()
}

// WriteSnapshot writes specs to path in the snapshot format. Offline tools use
// it to produce files the server can load.
func WriteSnapshot(path string, specs []scene.Spec) error {
	entities := make([]domain.EntitySnapshot, 0, len(specs))
	for _, s := range specs {
		entities = append(entities, domain.EntitySnapshot{
			Name:         s.Name,
			Active:       s.Active,
			Hidden:       s.Hidden,
			Static:       s.Static,
			Transform:    s.Transform,
			Capabilities: domain.NewCapabilitySet(s.Capabilities...),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeBinary(bw, time.Now().UnixMilli(), entities); err != nil {
		return err
	}
	return bw.Flush()
}

func writeBinary(w io.Writer, ts int64, entities []domain.EntitySnapshot) error {
	header := SnapshotFileHeader{
		Version:   Version1,
		Timestamp: ts,
		Count:     int32(len(entities)),
	}
	copy(header.Magic[:], MagicHeader)

	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	zw := lz4.NewWriter(w)
	for _, e := range entities {
		if err := writeEntity(zw, e); err != nil {
			zw.Close()
			return fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	return zw.Close()
}

func writeEntity(w io.Writer, e domain.EntitySnapshot) error {
	nameBytes := []byte(e.Name)
	if len(nameBytes) > 65535 {
		return fmt.Errorf("name too long: %d", len(nameBytes))
	}

	// transform is implicit on every entity
	caps := make([]string, 0, len(e.Capabilities))
	for _, id := range e.Capabilities.Sorted() {
		if id != domain.CapabilityTransform {
			caps = append(caps, id)
		}
	}
	if len(caps) > 255 {
		return fmt.Errorf("too many capabilities: %d", len(caps))
	}

	var flags uint8
	if e.Active {
		flags |= flagActive
	}
	if e.Hidden {
		flags |= flagHidden
	}
	if e.Static {
		flags |= flagStatic
	}

	t := e.Transform
	eh := EntityHeader{
		Flags:    flags,
		CapCount: uint8(len(caps)),
		NameLen:  uint16(len(nameBytes)),
		Transform: [9]float64{
			t.Position.X, t.Position.Y, t.Position.Z,
			t.Rotation.X, t.Rotation.Y, t.Rotation.Z,
			t.Scale.X, t.Scale.Y, t.Scale.Z,
		},
	}
	if err := binary.Write(w, binary.LittleEndian, &eh); err != nil {
		return err
	}
	if _, err := w.Write(nameBytes); err != nil {
		return err
	}

	for _, id := range caps {
		if len(id) > 255 {
			return fmt.Errorf("capability id too long: %q", id)
		}
		if _, err := w.Write([]byte{uint8(len(id))}); err != nil {
			return err
		}
		if _, err := io.WriteString(w, id); err != nil {
			return err
		}
	}
	return nil
}
