package flock

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/geom"
)

func TestCohesion_PointsTowardCentroid(t *testing.T) {
	pos := geom.Vec3{}
	neighbors := []Neighbor{
		{Pos: geom.Vec3{X: 10}},
		{Pos: geom.Vec3{X: 10, Z: 10}},
	}
	// Centroid is (10, 0, 5); pull must point from the agent toward it.
	v := Cohesion(pos, neighbors)
	assert.InDelta(t, 10.0, v.X, 1e-9)
	assert.InDelta(t, 5.0, v.Z, 1e-9)
}

func TestCohesion_NoNeighbors(t *testing.T) {
	assert.Equal(t, geom.Vec3{}, Cohesion(geom.Vec3{X: 5}, nil))
}

func TestSeparation_ZeroBeyondMinSpacing(t *testing.T) {
	pos := geom.Vec3{}
	neighbors := []Neighbor{
		{Pos: geom.Vec3{X: 5}},
		{Pos: geom.Vec3{Z: -7}},
	}
	assert.Equal(t, geom.Vec3{}, Separation(pos, neighbors, 2.0))
}

func TestSeparation_PushesAwayFromCloseNeighbor(t *testing.T) {
	pos := geom.Vec3{}
	neighbors := []Neighbor{{Pos: geom.Vec3{X: 1}}}
	v := Separation(pos, neighbors, 2.0)
	assert.Negative(t, v.X, "push must point away from the neighbor")
	assert.InDelta(t, 0.0, v.Z, 1e-9)
}

func TestSeparation_OverlappingNeighborStillPushes(t *testing.T) {
	v := Separation(geom.Vec3{}, []Neighbor{{Pos: geom.Vec3{}}}, 2.0)
	assert.Greater(t, v.Len(), 0.0)
}

func TestAlignment_MatchesAverageVelocity(t *testing.T) {
	vel := geom.Vec3{X: 1}
	neighbors := []Neighbor{
		{Vel: geom.Vec3{X: 3}},
		{Vel: geom.Vec3{X: 5}},
	}
	v := Alignment(vel, neighbors)
	assert.InDelta(t, 3.0, v.X, 1e-9) // avg 4 minus own 1
}

func TestSteer_CombinesWeightedComponents(t *testing.T) {
	pos := geom.Vec3{}
	neighbors := []Neighbor{{Pos: geom.Vec3{X: 10}, Vel: geom.Vec3{Z: 2}}}
	v := Steer(pos, geom.Vec3{}, neighbors, Weights{Cohesion: 1, Separation: 1, Alignment: 1}, 1.0)
	assert.InDelta(t, 10.0, v.X, 1e-9)
	assert.InDelta(t, 2.0, v.Z, 1e-9)
}

func TestManager_FormJoinRemove(t *testing.T) {
	m := NewManager(zap.NewNop())
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	g := m.Form(a, b)
	require.NotNil(t, g)
	assert.Equal(t, a, g.LeaderID)
	assert.Equal(t, 2, g.Size())

	assert.True(t, m.Join(g.ID, c))
	assert.False(t, m.Join(g.ID, c), "an agent belongs to at most one group")
	assert.Nil(t, m.Form(b), "grouped agent cannot found a second group")

	// Removing the leader re-elects a remaining member.
	m.Remove(a)
	g2 := m.GroupOf(b)
	require.NotNil(t, g2)
	assert.Equal(t, b, g2.LeaderID)
	assert.True(t, g2.Has(g2.LeaderID), "leader is always a current member")

	m.Remove(b)
	m.Remove(c)
	assert.Equal(t, 0, m.Count(), "empty group dissolves")
	assert.Nil(t, m.GroupOf(c))
}

func TestManager_RemoveUngroupedIsNoop(t *testing.T) {
	m := NewManager(zap.NewNop())
	m.Remove(uuid.New())
	assert.Equal(t, 0, m.Count())
}

func TestRingSlots_EvenAngularSpacing(t *testing.T) {
	m := NewManager(zap.NewNop())
	ids := make([]uuid.UUID, 5)
	for i := range ids {
		ids[i] = uuid.New()
	}
	g := m.Form(ids[0], ids[1:]...)
	require.Equal(t, 5, g.Size())

	target := geom.Vec3{X: 100, Z: 50}
	require.True(t, m.CoordinateAttack(g.ID, target))

	const radius = 8.0
	angles := make([]float64, 0, 5)
	for _, id := range g.Members() {
		pos, ok := g.RingSlot(id, radius)
		require.True(t, ok)
		assert.InDelta(t, radius, pos.DistXZ(target), 1e-9)
		angles = append(angles, pos.Sub(target).HeadingXZ())
	}

	// Consecutive slots are exactly 2π/5 apart.
	step := 2 * math.Pi / 5
	for i := 1; i < len(angles); i++ {
		diff := math.Mod(angles[i]-angles[i-1]+2*math.Pi, 2*math.Pi)
		assert.InDelta(t, step, diff, 1e-9)
	}
}

func TestRingSlot_RequiresCoordinatedMode(t *testing.T) {
	m := NewManager(zap.NewNop())
	a := uuid.New()
	g := m.Form(a)
	_, ok := g.RingSlot(a, 5)
	assert.False(t, ok)
	_, ok = g.RingSlot(uuid.New(), 5)
	assert.False(t, ok)
}
