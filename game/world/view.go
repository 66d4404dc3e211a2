package world

import (
	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/geom"
)

// TargetID is an opaque reference to an attackable entity owned by a
// collaborator. Agents hold IDs, never references; a removed target simply
// stops resolving.
type TargetID string

// TargetInfo is the minimal target data the AI needs.
type TargetInfo struct {
	ID  TargetID
	Pos geom.Vec3
	Vel geom.Vec3
}

// WorldView is the world-query interface the AI core consumes. It is
// implemented by collaborators (physics, level streaming); the ok returns
// let a missing player short-circuit only the dependent computation for
// that tick.
type WorldView interface {
	PlayerPosition() (geom.Vec3, bool)
	PlayerVelocity() (geom.Vec3, bool)
	NearbyTargets(pos geom.Vec3, radius float64) []TargetInfo
	Target(id TargetID) (TargetInfo, bool)
	HasLineOfSight(a, b geom.Vec3) bool
	IsCellWalkable(c nav.Cell) bool
}
