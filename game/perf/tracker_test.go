package perf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/geom"
)

const tick = 50 * time.Millisecond

func TestScore_DefaultsToNeutralWithoutHistory(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	assert.Equal(t, 0.5, tr.Score())
}

func TestObserve_CommitsOneSnapshotPerSecond(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	for i := 0; i < 60; i++ { // 3 seconds at 50 ms
		tr.Observe(tick, Sample{Health: 100, MaxHealth: 100})
	}
	assert.Len(t, tr.History(), 3)
}

func TestScore_AlwaysWithinUnitInterval(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	// Feed extreme, anomalous inputs; clamping must hold the score in [0,1].
	for i := 0; i < 200; i++ {
		tr.Observe(tick, Sample{
			HasPlayer:    true,
			PlayerPos:    geom.Vec3{X: float64(i) * 50}, // absurd speed
			ShotsFired:   1,
			ShotsHit:     5, // more hits than shots
			Kills:        100,
			DamageTaken:  -20, // negative damage ignored
			Health:       250,
			MaxHealth:    100,
			Dodges:       9,
			AttacksFaced: 1,
		})
		s := tr.Score()
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestAccuracy_HitsOverShots(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	tr.Observe(tick, Sample{ShotsFired: 10, ShotsHit: 7})
	assert.InDelta(t, 0.7, tr.accuracy(), 1e-9)
}

func TestDistanceIntegration(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	tr.Observe(tick, Sample{HasPlayer: true, PlayerPos: geom.Vec3{}})
	tr.Observe(tick, Sample{HasPlayer: true, PlayerPos: geom.Vec3{X: 3}})
	tr.Observe(tick, Sample{HasPlayer: true, PlayerPos: geom.Vec3{X: 3, Z: 4}})
	assert.InDelta(t, 7.0, tr.DistanceTraveled(), 1e-9)
}

func TestStuckTime_AccumulatesOnlyAfterSustainedSlowSpan(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	pos := geom.Vec3{}
	// 1 second of standing still: below StuckAfter (2 s), no stuck time.
	for i := 0; i < 20; i++ {
		tr.Observe(tick, Sample{HasPlayer: true, PlayerPos: pos})
	}
	assert.Equal(t, 0.0, tr.stuckFraction())
	// 2.5 more seconds still: the sustained-slow timer crosses StuckAfter,
	// so stuck time accrues within the current interval.
	for i := 0; i < 50; i++ {
		tr.Observe(tick, Sample{HasPlayer: true, PlayerPos: pos})
	}
	assert.Greater(t, tr.stuckFraction(), 0.0)

	// The committed snapshot for a fully stuck, stationary second scores
	// zero movement.
	snap, ok := tr.Latest()
	require.True(t, ok)
	assert.Equal(t, 0.0, snap.Movement)
}

func TestMissingPlayerSkipsMovementOnly(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	tr.Observe(tick, Sample{HasPlayer: false, ShotsFired: 2, ShotsHit: 2})
	assert.Equal(t, 0.0, tr.DistanceTraveled())
	assert.Equal(t, 1.0, tr.accuracy(), "combat signals still ingested")
}

func TestHistoryRingIsBounded(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	for i := 0; i < 400; i++ {
		tr.Observe(time.Second, Sample{Health: 100, MaxHealth: 100})
	}
	assert.Len(t, tr.History(), 300)
}

func TestScore_TracksCollapseAfterLongStrongPlay(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())

	// 300 seconds of strong play: accurate, mobile, healthy, dodging.
	pos := geom.Vec3{}
	for i := 0; i < 300; i++ {
		pos = pos.Add(geom.Vec3{X: 10})
		tr.Observe(time.Second, Sample{
			HasPlayer: true, PlayerPos: pos,
			ShotsFired: 10, ShotsHit: 9, Kills: 1,
			Health: 100, MaxHealth: 100,
			Dodges: 1, AttacksFaced: 1,
		})
	}
	require.Greater(t, tr.Score(), 0.65, "sustained strong play reads as at least the good bucket")

	// 60 seconds of total collapse: missing every shot, stationary, near
	// death, eating every hit. Old totals must not mask it; the smoothed
	// score has to reach the very-poor band within the recent window.
	for i := 0; i < 60; i++ {
		tr.Observe(time.Second, Sample{
			HasPlayer: true, PlayerPos: pos,
			ShotsFired: 5, ShotsHit: 0,
			DamageTaken: 10, Health: 5, MaxHealth: 100,
			Dodges: 0, AttacksFaced: 3,
		})
		if i >= 9 {
			assert.Less(t, tr.Score(), 0.30,
				"collapse must register within the 10-snapshot window (second %d)", i+1)
		}
	}

	// Interval metrics read current play, not session-lifetime averages:
	// half a second into the next interval, the 300 s of old hits and
	// movement contribute nothing.
	tr.Observe(500*time.Millisecond, Sample{
		HasPlayer: true, PlayerPos: pos,
		ShotsFired: 5, ShotsHit: 0,
	})
	assert.InDelta(t, 0.0, tr.accuracy(), 1e-9)
	assert.InDelta(t, 0.0, tr.averageSpeed(), 1e-9)
}

func TestScore_SmoothsOverRecentSnapshots(t *testing.T) {
	tr := NewTracker(4, zap.NewNop())
	// Strong performance for 20 seconds.
	for i := 0; i < 20; i++ {
		tr.Observe(time.Second, Sample{
			HasPlayer: true, PlayerPos: geom.Vec3{X: float64(i) * 12},
			ShotsFired: 10, ShotsHit: 10,
			Health: 100, MaxHealth: 100,
			Dodges: 1, AttacksFaced: 1,
		})
	}
	high := tr.Score()
	require.Greater(t, high, 0.6)

	// One terrible second must not crater the smoothed score.
	tr.Observe(time.Second, Sample{
		HasPlayer: true, PlayerPos: tr.lastPos,
		ShotsFired: 10, ShotsHit: 0,
		DamageTaken: 90, Health: 10, MaxHealth: 100,
		AttacksFaced: 5,
	})
	after := tr.Score()
	assert.Greater(t, after, high-0.15, "a single bad snapshot is smoothed")
}
