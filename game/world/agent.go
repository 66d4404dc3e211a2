package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/overdrive-game/hordeai/game/ai"
	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/geom"
)

// AgentState enumerates the high-level AI states of a hostile agent.
type AgentState int

const (
	StateIdle AgentState = iota
	StateWandering
	StateChasing
	StateAttacking
	StateStunned
	StateDying // terminal, entered exactly once
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWandering:
		return "wandering"
	case StateChasing:
		return "chasing"
	case StateAttacking:
		return "attacking"
	case StateStunned:
		return "stunned"
	case StateDying:
		return "dying"
	default:
		return "unknown"
	}
}

// Blackboard keys shared between tree leaves and the update loop.
const (
	bbSpawnPos     = "spawn_pos"
	bbWanderTarget = "wander_target"
	bbLastKnownPos = "last_known_target_pos"
	bbDwellUntil   = "dwell_until_s"
)

// Agent is the per-agent mutable AI record. Created on spawn fulfillment,
// mutated by the evaluator and movement integration every tick, destroyed
// on death or despawn-distance exceedance.
type Agent struct {
	ID        uuid.UUID
	Archetype *Archetype
	Pos       geom.Vec3
	Vel       geom.Vec3
	Health    float64
	State     AgentState
	Awareness float64 // [0,1]
	Alert     float64 // [0,1]
	Target    TargetID
	Board     *ai.Blackboard
	Cooldowns map[string]time.Duration
	LOD       int

	moveTarget    geom.Vec3
	hasMoveTarget bool
	path          []nav.Cell
	pathIdx       int
	sincePath     time.Duration
	sinceDecision time.Duration
	stunRemaining time.Duration
	dying         bool
}

func newAgent(arch *Archetype, pos geom.Vec3) *Agent {
	a := &Agent{
		ID:        uuid.New(),
		Archetype: arch,
		Pos:       pos,
		Health:    arch.MaxHealth,
		State:     StateIdle,
		Board:     ai.NewBlackboard(),
		Cooldowns: make(map[string]time.Duration),
		// Force an immediate path computation on the first chase.
		sincePath: time.Hour,
	}
	a.Board.Set(bbSpawnPos, pos)
	return a
}

// DetectRange is the effective detection radius, scaled by awareness and
// archetype intelligence.
func (a *Agent) DetectRange() float64 {
	return a.Archetype.DetectRange * (0.6 + 0.4*a.Awareness) * a.Archetype.Intelligence
}

// Ready reports whether a named cooldown has elapsed.
func (a *Agent) Ready(name string) bool {
	return a.Cooldowns[name] <= 0
}

// StartCooldown arms a named cooldown.
func (a *Agent) StartCooldown(name string, d time.Duration) {
	a.Cooldowns[name] = d
}

// setMoveTarget points movement at a world position and invalidates any
// stale path on a big change.
func (a *Agent) setMoveTarget(p geom.Vec3) {
	if a.hasMoveTarget && a.moveTarget.DistXZ(p) > 4 {
		a.path = nil
	}
	a.moveTarget = p
	a.hasMoveTarget = true
}

func (a *Agent) clearMoveTarget() {
	a.hasMoveTarget = false
	a.path = nil
	a.Vel = geom.Vec3{}
}

// takeDamage applies damage and reports whether this call killed the
// agent. The Dying transition fires exactly once; further damage on a
// dying agent is absorbed silently.
func (a *Agent) takeDamage(dmg float64) bool {
	if a.dying {
		return false
	}
	a.Health -= dmg
	if a.Health > 0 {
		return false
	}
	a.Health = 0
	a.dying = true
	a.State = StateDying
	return true
}

// stun suppresses movement and attacks for the duration. Dying agents
// cannot be stunned.
func (a *Agent) stun(d time.Duration) {
	if a.dying || d <= 0 {
		return
	}
	a.State = StateStunned
	a.stunRemaining = d
	a.clearMoveTarget()
}

// tickTimers advances countdown fields. Returns true while stunned.
func (a *Agent) tickTimers(dt time.Duration) bool {
	for name, left := range a.Cooldowns {
		if left > 0 {
			a.Cooldowns[name] = left - dt
		}
	}
	if a.stunRemaining > 0 {
		a.stunRemaining -= dt
		if a.stunRemaining <= 0 {
			a.stunRemaining = 0
			if a.State == StateStunned {
				a.State = StateIdle
			}
		} else {
			return true
		}
	}
	return false
}
