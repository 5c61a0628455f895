package scene

import (
	"encoding/json"
	"fmt"

	"github.com/chazu/brickwork/pkg/piece"
)

// SnapshotVersion is the current snapshot format.
const SnapshotVersion = 1

// Snapshot is the serialized form of a scene.
type Snapshot struct {
	Version int            `json:"version"`
	Pieces  []piece.Placed `json:"pieces"`
}

// Snapshot returns the scene's pieces in placement order.
func (s *Scene) Snapshot() Snapshot {
	return Snapshot{Version: SnapshotVersion, Pieces: s.Pieces()}
}

// MarshalJSON encodes the scene as a Snapshot.
func (s *Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// Restore replaces the scene's contents with snap. Every piece goes
// through the same checks as Place; on the first failure the scene is
// left as it was.
func (s *Scene) Restore(snap Snapshot) error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("restore: unsupported snapshot version %d", snap.Version)
	}
	staged := New(s.cat, WithIDGenerator(s.newID), WithResolver(s.proj.Resolver()))
	staged.overlap = s.overlap
	for i, pc := range snap.Pieces {
		if pc.ID == "" {
			return fmt.Errorf("restore: piece %d has no id", i)
		}
		if _, err := staged.Place(Placement{
			ID:          pc.ID,
			TypeID:      pc.TypeID,
			Position:    pc.Position,
			Orientation: pc.Orientation,
			Rotation:    pc.Rotation,
			Color:       pc.Color,
		}); err != nil {
			return fmt.Errorf("restore: piece %d: %w", i, err)
		}
	}
	s.index = staged.index
	s.details = staged.details
	s.order = staged.order
	s.metrics.SetPieces(s.Len())
	return nil
}

// UnmarshalJSON decodes a Snapshot into an existing scene. The scene must
// have been created with New.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	return s.Restore(snap)
}
