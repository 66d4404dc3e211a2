package world

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/events"
	"github.com/overdrive-game/hordeai/game/ai"
	"github.com/overdrive-game/hordeai/game/difficulty"
	"github.com/overdrive-game/hordeai/game/flock"
	"github.com/overdrive-game/hordeai/game/nav"
	"github.com/overdrive-game/hordeai/game/perf"
	"github.com/overdrive-game/hordeai/game/spawn"
	"github.com/overdrive-game/hordeai/geom"
)

// Config is the director tuning surface.
type Config struct {
	MaxAgents        int
	DecisionInterval time.Duration // per-agent tree cadence, independent of tick rate
	PathInterval     time.Duration // path recompute cadence
	LODInterval      time.Duration
	LODDistances     [3]float64 // tier 0/1/2 boundaries; beyond the last is frozen
	DespawnDistance  float64
	NeighborRadius   float64
	RingRadius       float64
	WanderRadius     float64
	GroupFoundCount  int
	GroupJoinRadius  float64
	Seed             int64
	Spawn            spawn.Config
}

func DefaultConfig() Config {
	return Config{
		MaxAgents:        40,
		DecisionInterval: 100 * time.Millisecond,
		PathInterval:     500 * time.Millisecond,
		LODInterval:      time.Second,
		LODDistances:     [3]float64{60, 120, 240},
		DespawnDistance:  400,
		NeighborRadius:   15,
		RingRadius:       6,
		WanderRadius:     12,
		GroupFoundCount:  3,
		GroupJoinRadius:  10,
		Seed:             1,
		Spawn:            spawn.DefaultConfig(),
	}
}

// Director is the AI system instance: it owns the agent and group tables,
// the adaptive-difficulty loop and the spawn pipeline, and advances them
// all on one cooperative tick. A fresh Director per test is cheap; nothing
// is ambient.
type Director struct {
	mu   sync.Mutex
	cfg  Config
	grid *nav.Grid
	view WorldView

	reg        *ai.Registry
	trees      map[string]*ai.BehaviorTree
	archetypes map[spawn.Tier]*Archetype

	agents map[uuid.UUID]*Agent
	order  []uuid.UUID // deterministic iteration order
	groups *flock.Manager

	// pendingGroups maps a spawn-cycle group tag to the group it founded,
	// so swarm members land pre-grouped.
	pendingGroups map[string]uuid.UUID

	tracker *perf.Tracker
	diff    *difficulty.Controller
	spawner *spawn.Selector
	emitter events.Emitter
	rng     *rand.Rand

	clock    time.Duration
	sinceLOD time.Duration
	pending  perf.Sample

	logger *zap.Logger
}

// NewDirector wires an AI system. Tree construction resolves every leaf
// name, so a broken archetype tree fails here instead of at runtime.
func NewDirector(cfg Config, grid *nav.Grid, view WorldView, emitter events.Emitter, logger *zap.Logger) (*Director, error) {
	if grid == nil {
		return nil, fmt.Errorf("world: nil grid")
	}
	if view == nil {
		return nil, fmt.Errorf("world: nil world view")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if emitter == nil {
		emitter = events.NopEmitter{}
	}

	reg := ai.NewRegistry(logger)
	registerHandlers(reg)
	trees, err := buildTrees(reg)
	if err != nil {
		return nil, err
	}

	archetypes := DefaultArchetypes()
	abilityKinds := 0
	for _, a := range archetypes {
		abilityKinds += len(a.Abilities)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	d := &Director{
		cfg:           cfg,
		grid:          grid,
		view:          view,
		reg:           reg,
		trees:         trees,
		archetypes:    archetypes,
		agents:        make(map[uuid.UUID]*Agent),
		groups:        flock.NewManager(logger),
		pendingGroups: make(map[string]uuid.UUID),
		tracker:       perf.NewTracker(abilityKinds, logger),
		diff:          difficulty.NewController(logger),
		spawner:       spawn.NewSelector(cfg.Spawn, rng, logger),
		emitter:       emitter,
		rng:           rng,
		logger:        logger,
	}
	logger.Info("ai director created",
		zap.Int("max_agents", cfg.MaxAgents),
		zap.Int64("seed", cfg.Seed))
	return d, nil
}

// Advance runs one simulation tick. All work completes before return;
// there is no mid-tick suspension. Determinism holds for a fixed sequence
// of tick deltas and a fixed seed.
func (d *Director) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.clock += dt
	playerPos, hasPlayer := d.view.PlayerPosition()
	playerVel, _ := d.view.PlayerVelocity()

	// Performance: merge collaborator-pushed combat signals with the
	// observed player state.
	s := d.pending
	d.pending = perf.Sample{}
	s.PlayerPos = playerPos
	s.HasPlayer = hasPlayer
	d.tracker.Observe(dt, s)

	// Difficulty is produced here once per cycle; everything downstream
	// this tick consumes it read-only.
	if d.diff.Advance(dt, d.tracker.Score()) {
		reason := ""
		if h := d.diff.History(); len(h) > 0 {
			reason = h[len(h)-1].Reason
		}
		d.emitter.Emit(events.TypeDifficultyChanged, events.DifficultyChanged{
			Level:  d.diff.Value(),
			Reason: reason,
		})
	}

	if d.spawner.ShouldCycle(dt, d.diff.Value()) {
		d.runSpawnCycle(playerPos, playerVel, hasPlayer)
	}

	d.sinceLOD += dt
	if d.sinceLOD >= d.cfg.LODInterval {
		d.sinceLOD = 0
		if hasPlayer {
			d.assignLOD(playerPos)
		}
	}

	d.maintainGroups()

	// Iterate over a copy: removal mutates the order slice.
	ids := make([]uuid.UUID, len(d.order))
	copy(ids, d.order)
	for _, id := range ids {
		ag, ok := d.agents[id]
		if !ok {
			continue
		}
		d.updateAgent(ag, dt, playerPos, hasPlayer)
	}
}

func (d *Director) updateAgent(ag *Agent, dt time.Duration, playerPos geom.Vec3, hasPlayer bool) {
	if ag.dying {
		d.removeAgent(ag, "killed")
		return
	}
	if hasPlayer && ag.Pos.DistXZ(playerPos) > d.cfg.DespawnDistance {
		d.removeAgent(ag, "despawned")
		return
	}

	stunned := ag.tickTimers(dt)

	sec := dt.Seconds()
	if ag.Target != "" {
		ag.Awareness = math.Min(1, ag.Awareness+0.5*sec)
	} else {
		ag.Awareness = math.Max(0, ag.Awareness-0.1*sec)
		ag.Alert = math.Max(0, ag.Alert-0.2*sec)
	}

	if stunned {
		ag.Vel = geom.Vec3{}
		return
	}
	if ag.LOD >= 3 {
		return // frozen tier
	}

	// Decision pass, rate-limited per agent; far tiers skip it entirely.
	ag.sinceDecision += dt
	if ag.LOD <= 1 && ag.sinceDecision >= d.cfg.DecisionInterval {
		ctx := &ai.Context{
			Agent:   ag,
			World:   d,
			Board:   ag.Board,
			DeltaMS: ag.sinceDecision.Milliseconds(),
		}
		d.trees[ag.Archetype.TreeName].Tick(ctx)
		ag.sinceDecision = 0
	}

	d.integrateMovement(ag, dt)
}

func (d *Director) integrateMovement(ag *Agent, dt time.Duration) {
	if !ag.hasMoveTarget {
		ag.Vel = geom.Vec3{}
		return
	}

	// Path recompute on a bounded cadence; stale paths are followed until
	// then. Far agents never pathfind.
	ag.sincePath += dt
	if ag.LOD <= 1 && ag.sincePath >= d.cfg.PathInterval {
		ag.sincePath = 0
		ag.path = nav.AStar(d.grid, d.grid.CellAt(ag.Pos), d.grid.CellAt(ag.moveTarget))
		ag.pathIdx = 0
	}

	var desired geom.Vec3
	if ag.pathIdx < len(ag.path) {
		wp := d.grid.Center(ag.path[ag.pathIdx])
		if ag.Pos.DistXZ(wp) <= d.grid.CellSize*0.6 {
			ag.pathIdx++
		}
		if ag.pathIdx < len(ag.path) {
			desired = d.grid.Center(ag.path[ag.pathIdx]).Sub(ag.Pos)
		} else {
			desired = ag.moveTarget.Sub(ag.Pos)
		}
	} else {
		// No path (or exhausted): direct line toward the target. This is
		// the designed degradation for unreachable cells.
		desired = ag.moveTarget.Sub(ag.Pos)
	}
	desired.Y = 0
	step := desired.Norm().Scale(ag.Archetype.Speed)

	if g := d.groups.GroupOf(ag.ID); g != nil {
		adj := flock.Steer(ag.Pos, ag.Vel, d.groupNeighbors(ag, g), g.Weights, g.MinSpacing)
		adj.Y = 0
		step = step.Add(adj)
		if limit := ag.Archetype.Speed * 1.5; step.Len() > limit {
			step = step.Norm().Scale(limit)
		}
	}

	ag.Vel = step
	ag.Pos = ag.Pos.Add(step.Scale(dt.Seconds()))
	if ag.Pos.DistXZ(ag.moveTarget) < 0.5 {
		ag.clearMoveTarget()
	}
}

func (d *Director) groupNeighbors(ag *Agent, g *flock.Group) []flock.Neighbor {
	var out []flock.Neighbor
	for _, id := range g.Members() {
		if id == ag.ID {
			continue
		}
		other, ok := d.agents[id]
		if !ok {
			continue
		}
		if ag.Pos.DistXZ(other.Pos) <= d.cfg.NeighborRadius {
			out = append(out, flock.Neighbor{Pos: other.Pos, Vel: other.Vel})
		}
	}
	return out
}

// maintainGroups runs the flocking coordinator's membership rules: an
// ungrouped agent with enough ungrouped neighbors founds a group and
// absorbs them; an ungrouped agent near an existing leader joins it.
// Groups of hunting leaders are pushed into coordinated-attack mode.
func (d *Director) maintainGroups() {
	for _, id := range d.order {
		ag, ok := d.agents[id]
		if !ok || ag.dying || d.groups.GroupOf(id) != nil {
			continue
		}

		var ungrouped []uuid.UUID
		joined := false
		for _, otherID := range d.order {
			if otherID == id {
				continue
			}
			other, ok := d.agents[otherID]
			if !ok || other.dying {
				continue
			}
			if ag.Pos.DistXZ(other.Pos) > d.cfg.GroupJoinRadius {
				continue
			}
			if g := d.groups.GroupOf(otherID); g != nil {
				if g.LeaderID == otherID {
					d.groups.Join(g.ID, id)
					joined = true
					break
				}
				continue
			}
			ungrouped = append(ungrouped, otherID)
		}
		if !joined && len(ungrouped) >= d.cfg.GroupFoundCount {
			d.groups.Form(id, ungrouped...)
		}
	}

	// Coordinated attack: once a led group is on a live target, assign
	// ring headings around it.
	for _, id := range d.order {
		g := d.groups.GroupOf(id)
		if g == nil || g.LeaderID != id {
			continue
		}
		leader, ok := d.agents[id]
		if !ok || leader.Target == "" || g.Size() < d.cfg.GroupFoundCount {
			continue
		}
		if ti, found := d.view.Target(leader.Target); found {
			d.groups.CoordinateAttack(g.ID, ti.Pos)
		}
	}
}

func (d *Director) assignLOD(playerPos geom.Vec3) {
	for _, ag := range d.agents {
		dist := ag.Pos.DistXZ(playerPos)
		switch {
		case dist <= d.cfg.LODDistances[0]:
			ag.LOD = 0
		case dist <= d.cfg.LODDistances[1]:
			ag.LOD = 1
		case dist <= d.cfg.LODDistances[2]:
			ag.LOD = 2
		default:
			ag.LOD = 3
		}
	}
}

func (d *Director) runSpawnCycle(playerPos, playerVel geom.Vec3, hasPlayer bool) {
	// Drop tags whose group has dissolved so the table stays bounded by
	// the live group count.
	for tag, gid := range d.pendingGroups {
		if d.groups.Get(gid) == nil {
			delete(d.pendingGroups, tag)
		}
	}

	reqs := d.spawner.PlanCycle(spawn.CycleInput{
		Difficulty:   d.diff.Value(),
		PlayerPos:    playerPos,
		PlayerVel:    playerVel,
		HasPlayer:    hasPlayer,
		ActiveAgents: len(d.agents),
		MaxAgents:    d.cfg.MaxAgents,
	})
	for _, req := range reqs {
		if !d.view.IsCellWalkable(d.grid.CellAt(req.Pos)) {
			d.spawner.MarkFailed(req)
			d.logger.Debug("spawn rejected, cell not walkable",
				zap.String("pattern", string(req.Pattern)),
				zap.Float64("x", req.Pos.X),
				zap.Float64("z", req.Pos.Z))
			continue
		}
		arch, ok := d.archetypes[req.Tier]
		if !ok {
			d.spawner.MarkFailed(req)
			continue
		}
		ag := newAgent(arch, req.Pos)
		d.agents[ag.ID] = ag
		d.order = append(d.order, ag.ID)

		groupID := ""
		if req.GroupTag != "" {
			if gid, found := d.pendingGroups[req.GroupTag]; found && d.groups.Get(gid) != nil {
				d.groups.Join(gid, ag.ID)
				groupID = gid.String()
			} else {
				g := d.groups.Form(ag.ID)
				d.pendingGroups[req.GroupTag] = g.ID
				groupID = g.ID.String()
			}
		}

		d.spawner.MarkFulfilled(req)
		d.emitter.Emit(events.TypeAgentSpawned, events.AgentSpawned{
			ID:        ag.ID.String(),
			AgentType: arch.Name,
			Pos:       ag.Pos,
			GroupID:   groupID,
		})
	}
}

func (d *Director) removeAgent(ag *Agent, reason string) {
	delete(d.agents, ag.ID)
	for i, id := range d.order {
		if id == ag.ID {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	d.groups.Remove(ag.ID)
	d.emitter.Emit(events.TypeAgentRemoved, events.AgentRemoved{
		ID:     ag.ID.String(),
		Reason: reason,
	})
}

// emitAttack publishes an attack intent; damage application belongs to
// the combat collaborator. Damage scales with live difficulty.
func (d *Director) emitAttack(ag *Agent, ti TargetInfo, damage float64, ability string) {
	scaled := damage * d.diff.Value()
	d.emitter.Emit(events.TypeAgentAttack, events.AgentAttack{
		ID:        ag.ID.String(),
		Pos:       ag.Pos,
		TargetPos: ti.Pos,
		Damage:    scaled,
		Ability:   ability,
	})
	d.emitter.Emit(events.TypeCombatEffect, events.CombatEffect{
		Effect:    "impact",
		Pos:       ti.Pos,
		Intensity: math.Min(1, scaled/50),
	})
}

func (d *Director) pickWanderTarget(ag *Agent) geom.Vec3 {
	anchor, ok := ag.Board.Vec(bbSpawnPos)
	if !ok {
		anchor = ag.Pos
	}
	for i := 0; i < 8; i++ {
		angle := d.rng.Float64() * 2 * math.Pi
		r := 2 + d.rng.Float64()*(d.cfg.WanderRadius-2)
		p := anchor.Add(geom.FromAngleXZ(angle).Scale(r))
		if d.grid.Walkable(d.grid.CellAt(p)) {
			return p
		}
	}
	return anchor
}

// ---- External intents ----

// SpawnAgent places a single agent of the given tier directly, bypassing
// the pattern selector. Used by diagnostics and tests.
func (d *Director) SpawnAgent(tier spawn.Tier, pos geom.Vec3) (uuid.UUID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	arch, ok := d.archetypes[tier]
	if !ok {
		return uuid.Nil, fmt.Errorf("world: unknown tier %q", tier)
	}
	if len(d.agents) >= d.cfg.MaxAgents {
		return uuid.Nil, fmt.Errorf("world: agent cap %d reached", d.cfg.MaxAgents)
	}
	ag := newAgent(arch, pos)
	d.agents[ag.ID] = ag
	d.order = append(d.order, ag.ID)
	d.emitter.Emit(events.TypeAgentSpawned, events.AgentSpawned{
		ID:        ag.ID.String(),
		AgentType: arch.Name,
		Pos:       pos,
	})
	return ag.ID, nil
}

// ReportCombat accumulates collaborator-observed player combat signals for
// the next tick's performance sample. Inputs are clamped downstream.
func (d *Director) ReportCombat(s perf.Sample) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending.ShotsFired += s.ShotsFired
	d.pending.ShotsHit += s.ShotsHit
	d.pending.Kills += s.Kills
	d.pending.DamageTaken += s.DamageTaken
	d.pending.Dodges += s.Dodges
	d.pending.AttacksFaced += s.AttacksFaced
	if s.MaxHealth > 0 {
		d.pending.Health = s.Health
		d.pending.MaxHealth = s.MaxHealth
	}
	if s.AbilityUsed != "" {
		d.pending.AbilityUsed = s.AbilityUsed
	}
}

// DamageAgent applies external damage. Health reaching zero forces the
// Dying transition exactly once, from any state, never retried; the agent
// is destroyed on the next tick.
func (d *Director) DamageAgent(id uuid.UUID, dmg float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	ag, ok := d.agents[id]
	if !ok {
		return false
	}
	return ag.takeDamage(dmg)
}

// StunAgent suppresses an agent's movement and attacks for the duration.
func (d *Director) StunAgent(id uuid.UUID, duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ag, ok := d.agents[id]; ok {
		ag.stun(duration)
	}
}

// NearbyAgents answers the nearby-agent query from the director's own
// table.
func (d *Director) NearbyAgents(pos geom.Vec3, radius float64) []uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []uuid.UUID
	for _, id := range d.order {
		if ag, ok := d.agents[id]; ok && ag.Pos.DistXZ(pos) <= radius {
			out = append(out, id)
		}
	}
	return out
}

// ---- Diagnostics ----

func (d *Director) AgentCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.agents)
}

func (d *Director) GroupCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.groups.Count()
}

func (d *Director) Difficulty() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.diff.Value()
}

func (d *Director) DifficultyHistory() []difficulty.Adjustment {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.diff.History()
}

// SetDifficultyOverride force-sets difficulty (clamped) for diagnostics.
func (d *Director) SetDifficultyOverride(v float64) float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.diff.SetOverride(v)
}

func (d *Director) ClearDifficultyOverride() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.diff.ClearOverride()
}

func (d *Director) DifficultyOverridden() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.diff.Overridden()
}

func (d *Director) PerformanceScore() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Score()
}

func (d *Director) PerformanceSnapshot() (perf.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tracker.Latest()
}

// SpawnStats returns fulfilled/failed counts and the efficiency ratio.
func (d *Director) SpawnStats() (fulfilled, failed int, efficiency float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fulfilled, failed = d.spawner.Stats()
	return fulfilled, failed, d.spawner.Efficiency()
}

// AgentSnapshot is a diagnostics view of one agent.
type AgentSnapshot struct {
	ID        string    `json:"id"`
	AgentType string    `json:"agent_type"`
	State     string    `json:"state"`
	Pos       geom.Vec3 `json:"pos"`
	Health    float64   `json:"health"`
	LOD       int       `json:"lod"`
	Grouped   bool      `json:"grouped"`
}

func (d *Director) AgentsSnapshot() []AgentSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]AgentSnapshot, 0, len(d.order))
	for _, id := range d.order {
		ag, ok := d.agents[id]
		if !ok {
			continue
		}
		out = append(out, AgentSnapshot{
			ID:        ag.ID.String(),
			AgentType: ag.Archetype.Name,
			State:     ag.State.String(),
			Pos:       ag.Pos,
			Health:    ag.Health,
			LOD:       ag.LOD,
			Grouped:   d.groups.GroupOf(ag.ID) != nil,
		})
	}
	return out
}

// Clock returns accumulated simulation time.
func (d *Director) Clock() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clock
}
