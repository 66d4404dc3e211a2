package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/game/spawn"
	"github.com/overdrive-game/hordeai/geom"
)

func shambler(t *testing.T) *Archetype {
	t.Helper()
	arch, ok := DefaultArchetypes()[spawn.TierCommon]
	require.True(t, ok)
	return arch
}

func TestTakeDamageDyingIsTerminal(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})

	assert.False(t, ag.takeDamage(59))
	assert.True(t, ag.takeDamage(1))
	assert.Equal(t, StateDying, ag.State)
	assert.Zero(t, ag.Health)

	// Already dying: absorbed, health stays clamped, no second kill.
	assert.False(t, ag.takeDamage(100))
	assert.Zero(t, ag.Health)
	assert.Equal(t, StateDying, ag.State)
}

func TestStunIgnoredWhileDying(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})
	ag.takeDamage(1000)

	ag.stun(time.Second)
	assert.Equal(t, StateDying, ag.State)
	assert.Zero(t, ag.stunRemaining)
}

func TestTickTimersCountsDownCooldowns(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})
	ag.StartCooldown("attack", 300*time.Millisecond)
	assert.False(t, ag.Ready("attack"))

	ag.tickTimers(100 * time.Millisecond)
	ag.tickTimers(100 * time.Millisecond)
	assert.False(t, ag.Ready("attack"))

	ag.tickTimers(100 * time.Millisecond)
	assert.True(t, ag.Ready("attack"))
	assert.True(t, ag.Ready("never_armed"))
}

func TestTickTimersStunExpiry(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})
	ag.stun(250 * time.Millisecond)

	assert.True(t, ag.tickTimers(100*time.Millisecond))
	assert.True(t, ag.tickTimers(100*time.Millisecond))
	assert.False(t, ag.tickTimers(100*time.Millisecond))
	assert.Equal(t, StateIdle, ag.State)
}

func TestDetectRangeScalesWithAwareness(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})

	cold := ag.DetectRange()
	ag.Awareness = 1
	hot := ag.DetectRange()

	assert.Greater(t, hot, cold)
	assert.InDelta(t, ag.Archetype.DetectRange*ag.Archetype.Intelligence, hot, 1e-9)
}

func TestSetMoveTargetInvalidatesStalePath(t *testing.T) {
	ag := newAgent(shambler(t), geom.Vec3{})
	ag.setMoveTarget(geom.Vec3{X: 10})
	ag.path = []nav.Cell{{X: 1, Y: 0}, {X: 2, Y: 0}}

	// Small adjustment keeps the path; a big jump drops it.
	ag.setMoveTarget(geom.Vec3{X: 11})
	assert.NotNil(t, ag.path)
	ag.setMoveTarget(geom.Vec3{X: 50})
	assert.Nil(t, ag.path)

	ag.clearMoveTarget()
	assert.False(t, ag.hasMoveTarget)
	assert.Equal(t, geom.Vec3{}, ag.Vel)
}

func TestGiveUpRangeDefaultsFactor(t *testing.T) {
	arch := &Archetype{DetectRange: 20}
	assert.InDelta(t, 30, arch.GiveUpRange(), 1e-9)

	arch.GiveUpFactor = 2
	assert.InDelta(t, 40, arch.GiveUpRange(), 1e-9)
}
