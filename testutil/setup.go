// Package testutil provides shared helpers for exercising the AI director
// in tests without a live game world.
package testutil

import (
	"testing"

	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/game/world"
	"github.com/overdrive-game/hordeai/geom"
)

// StaticView is a scriptable WorldView: at most one player target, line of
// sight toggled by a flag, walkability backed by the grid.
type StaticView struct {
	PlayerPos geom.Vec3
	PlayerVel geom.Vec3
	Player    bool
	BlockLOS  bool
	Grid      *nav.Grid
}

func (v *StaticView) PlayerPosition() (geom.Vec3, bool) { return v.PlayerPos, v.Player }
func (v *StaticView) PlayerVelocity() (geom.Vec3, bool) { return v.PlayerVel, v.Player }

func (v *StaticView) NearbyTargets(pos geom.Vec3, radius float64) []world.TargetInfo {
	if !v.Player || pos.DistXZ(v.PlayerPos) > radius {
		return nil
	}
	return []world.TargetInfo{{ID: "player", Pos: v.PlayerPos, Vel: v.PlayerVel}}
}

func (v *StaticView) Target(id world.TargetID) (world.TargetInfo, bool) {
	if !v.Player || id != "player" {
		return world.TargetInfo{}, false
	}
	return world.TargetInfo{ID: "player", Pos: v.PlayerPos, Vel: v.PlayerVel}, true
}

func (v *StaticView) HasLineOfSight(a, b geom.Vec3) bool { return !v.BlockLOS }
func (v *StaticView) IsCellWalkable(c nav.Cell) bool     { return v.Grid.Walkable(c) }

// NewDirector builds a director over a fully open grid with default config
// and a fixed seed. The view's Grid field is filled in if unset.
func NewDirector(t testing.TB, view *StaticView) *world.Director {
	t.Helper()
	if view.Grid == nil {
		view.Grid = nav.NewGrid(512, 512, 1)
	}
	d, err := world.NewDirector(world.DefaultConfig(), view.Grid, view, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new director: %v", err)
	}
	return d
}
