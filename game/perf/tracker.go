package perf

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/geom"
)

// Sub-score weights of the composite performance score.
const (
	weightCombat   = 0.30
	weightMovement = 0.20
	weightSurvival = 0.30
	weightSkill    = 0.20
)

const (
	snapshotInterval = time.Second
	historyCap       = 300
	recentWindow     = 10
	// neutralScore is reported before any snapshot exists so the
	// difficulty loop starts from the average bucket.
	neutralScore = 0.5
)

// Sample carries the per-tick combat/movement/survival signals observed
// from the world.
type Sample struct {
	PlayerPos    geom.Vec3
	HasPlayer    bool
	ShotsFired   int
	ShotsHit     int
	Kills        int
	DamageTaken  float64
	Health       float64
	MaxHealth    float64
	Dodges       int
	AttacksFaced int
	AbilityUsed  string // empty when none this tick
}

// Snapshot is one 1 Hz composite measurement.
type Snapshot struct {
	At       time.Duration // simulation clock
	Combat   float64
	Movement float64
	Survival float64
	Skill    float64
	Overall  float64
}

// Tracker keeps rolling player-effectiveness metrics and produces one
// composite snapshot per second of simulation time. Each snapshot measures
// only its own interval: the signal counters reset on commit, so the
// recent-window mean actually tracks current play instead of lifetime
// averages. The reported score is smoothed over the most recent snapshots
// so a single spike cannot drive difficulty overreaction.
type Tracker struct {
	// Tuning. Zero values are replaced with defaults by NewTracker.
	ReferenceSpeed float64 // speed mapping to a 1.0 movement sub-metric
	StuckSpeed     float64 // below this the player counts as stuck
	StuckAfter     time.Duration

	clock          time.Duration
	sinceSnapshot  time.Duration
	lastPos        geom.Vec3
	hasLastPos     bool
	distance       float64
	speedSum       float64
	speedTicks     int
	slowFor        time.Duration
	stuckTime      time.Duration
	observedTime   time.Duration
	shots, hits    int
	kills          int
	damageTaken    float64
	healthFrac     float64
	dodges, faced  int
	abilitiesUsed  map[string]struct{}
	abilityKinds   int
	history        []Snapshot
	logger         *zap.Logger
}

// NewTracker creates a Tracker. abilityKinds is the number of distinct
// player abilities, used to normalize the ability-variety sub-metric.
func NewTracker(abilityKinds int, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abilityKinds <= 0 {
		abilityKinds = 1
	}
	return &Tracker{
		ReferenceSpeed: 12.0,
		StuckSpeed:     0.5,
		StuckAfter:     2 * time.Second,
		healthFrac:     1.0,
		abilitiesUsed:  make(map[string]struct{}),
		abilityKinds:   abilityKinds,
		logger:         logger,
	}
}

// Observe ingests one tick of world signals and, once per second of
// accumulated simulation time, commits a composite snapshot.
func (t *Tracker) Observe(dt time.Duration, s Sample) {
	if dt <= 0 {
		return
	}
	t.clock += dt
	t.sinceSnapshot += dt

	t.shots += s.ShotsFired
	t.hits += s.ShotsHit
	t.kills += s.Kills
	if s.DamageTaken > 0 {
		t.damageTaken += s.DamageTaken
	}
	if s.MaxHealth > 0 {
		t.healthFrac = clamp01(s.Health / s.MaxHealth)
	}
	t.dodges += s.Dodges
	t.faced += s.AttacksFaced
	if s.AbilityUsed != "" {
		t.abilitiesUsed[s.AbilityUsed] = struct{}{}
	}

	if s.HasPlayer {
		t.observedTime += dt
		if t.hasLastPos {
			delta := s.PlayerPos.DistXZ(t.lastPos)
			t.distance += delta
			speed := delta / dt.Seconds()
			t.speedSum += speed
			t.speedTicks++
			if speed < t.StuckSpeed {
				t.slowFor += dt
				if t.slowFor >= t.StuckAfter {
					t.stuckTime += dt
				}
			} else {
				t.slowFor = 0
			}
		}
		t.lastPos = s.PlayerPos
		t.hasLastPos = true
	}

	for t.sinceSnapshot >= snapshotInterval {
		t.sinceSnapshot -= snapshotInterval
		t.commit()
	}
}

func (t *Tracker) commit() {
	combat := weighted(
		metric{t.accuracy(), 0.4},
		metric{clamp01(float64(t.kills) / 10.0), 0.3},
		metric{clamp01(1 - t.damageTaken/100.0), 0.3},
	)
	movement := weighted(
		metric{clamp01(t.averageSpeed() / t.ReferenceSpeed), 0.6},
		metric{1 - t.stuckFraction(), 0.4},
	)
	survival := weighted(
		metric{t.healthFrac, 0.6},
		metric{t.resourceEfficiency(), 0.4},
	)
	skill := weighted(
		metric{t.dodgeRate(), 0.5},
		metric{clamp01(float64(len(t.abilitiesUsed)) / float64(t.abilityKinds)), 0.5},
	)

	snap := Snapshot{
		At:       t.clock,
		Combat:   clamp01(combat),
		Movement: clamp01(movement),
		Survival: clamp01(survival),
		Skill:    clamp01(skill),
	}
	snap.Overall = clamp01(weightCombat*snap.Combat +
		weightMovement*snap.Movement +
		weightSurvival*snap.Survival +
		weightSkill*snap.Skill)

	t.history = append(t.history, snap)
	if len(t.history) > historyCap {
		t.history = t.history[len(t.history)-historyCap:]
	}

	// Reset the interval counters so the next snapshot measures its own
	// second. Carried state stays: total distance, last position, the
	// last-known health fraction, and slowFor (the sustained-slow timer
	// spans snapshot boundaries).
	t.shots, t.hits = 0, 0
	t.kills = 0
	t.damageTaken = 0
	t.speedSum, t.speedTicks = 0, 0
	t.stuckTime = 0
	t.observedTime = 0
	t.dodges, t.faced = 0, 0
	t.abilitiesUsed = make(map[string]struct{})
}

// Score reports the mean overall score of the most recent snapshots, or
// the neutral 0.5 when no history exists yet.
func (t *Tracker) Score() float64 {
	if len(t.history) == 0 {
		return neutralScore
	}
	n := recentWindow
	if len(t.history) < n {
		n = len(t.history)
	}
	sum := 0.0
	for _, s := range t.history[len(t.history)-n:] {
		sum += s.Overall
	}
	return sum / float64(n)
}

// Latest returns the newest snapshot, ok=false when none exists.
func (t *Tracker) Latest() (Snapshot, bool) {
	if len(t.history) == 0 {
		return Snapshot{}, false
	}
	return t.history[len(t.history)-1], true
}

// History returns a copy of the snapshot ring.
func (t *Tracker) History() []Snapshot {
	out := make([]Snapshot, len(t.history))
	copy(out, t.history)
	return out
}

// DistanceTraveled is the integrated player path length.
func (t *Tracker) DistanceTraveled() float64 { return t.distance }

func (t *Tracker) accuracy() float64 {
	if t.shots == 0 {
		return neutralScore
	}
	return clamp01(float64(t.hits) / float64(t.shots))
}

func (t *Tracker) averageSpeed() float64 {
	if t.speedTicks == 0 {
		return 0
	}
	return t.speedSum / float64(t.speedTicks)
}

func (t *Tracker) stuckFraction() float64 {
	if t.observedTime <= 0 {
		return 0
	}
	return clamp01(t.stuckTime.Seconds() / t.observedTime.Seconds())
}

// resourceEfficiency decays from 1.0 as health is lost.
func (t *Tracker) resourceEfficiency() float64 {
	return math.Exp(-t.damageTaken / 100.0)
}

func (t *Tracker) dodgeRate() float64 {
	if t.faced == 0 {
		return neutralScore
	}
	return clamp01(float64(t.dodges) / float64(t.faced))
}

type metric struct {
	value, weight float64
}

func weighted(ms ...metric) float64 {
	sum, wsum := 0.0, 0.0
	for _, m := range ms {
		sum += clamp01(m.value) * m.weight
		wsum += m.weight
	}
	if wsum == 0 {
		return 0
	}
	return sum / wsum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
