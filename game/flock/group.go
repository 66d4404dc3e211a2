package flock

import (
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/geom"
)

// Group is a set of agents sharing flocking forces and, optionally, a
// coordinated-attack target. Members are kept in join order so leader
// re-election and ring slots are deterministic.
type Group struct {
	ID          uuid.UUID
	LeaderID    uuid.UUID
	Weights     Weights
	MinSpacing  float64
	Coordinated bool
	Target      geom.Vec3

	members []uuid.UUID
}

// Members returns the member IDs in join order.
func (g *Group) Members() []uuid.UUID {
	out := make([]uuid.UUID, len(g.members))
	copy(out, g.members)
	return out
}

func (g *Group) Size() int { return len(g.members) }

func (g *Group) Has(id uuid.UUID) bool {
	for _, m := range g.members {
		if m == id {
			return true
		}
	}
	return false
}

// RingSlot returns the coordinated-attack position for a member: slots are
// evenly spaced 2π/n radians apart on a circle of the given radius around
// the shared target, so simultaneous attacks approach from multiple
// headings. ok is false for non-members or when the group is not in
// coordinated-attack mode.
func (g *Group) RingSlot(id uuid.UUID, radius float64) (geom.Vec3, bool) {
	if !g.Coordinated || len(g.members) == 0 {
		return geom.Vec3{}, false
	}
	idx := -1
	for i, m := range g.members {
		if m == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return geom.Vec3{}, false
	}
	angle := 2 * math.Pi * float64(idx) / float64(len(g.members))
	return g.Target.Add(geom.FromAngleXZ(angle).Scale(radius)), true
}

// Manager owns the group table. It is only touched from the simulation
// tick, so it carries no lock; the director serializes access.
type Manager struct {
	groups  map[uuid.UUID]*Group
	byAgent map[uuid.UUID]uuid.UUID // agent -> group
	logger  *zap.Logger
}

func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		groups:  make(map[uuid.UUID]*Group),
		byAgent: make(map[uuid.UUID]uuid.UUID),
		logger:  logger,
	}
}

// Form creates a group with the founder as leader and absorbs the given
// members. Agents already in a group are skipped; every agent belongs to
// at most one group.
func (m *Manager) Form(founder uuid.UUID, others ...uuid.UUID) *Group {
	if _, grouped := m.byAgent[founder]; grouped {
		return nil
	}
	g := &Group{
		ID:         uuid.New(),
		LeaderID:   founder,
		Weights:    DefaultWeights,
		MinSpacing: 2.0,
		members:    []uuid.UUID{founder},
	}
	m.groups[g.ID] = g
	m.byAgent[founder] = g.ID
	for _, id := range others {
		m.Join(g.ID, id)
	}
	m.logger.Debug("group formed",
		zap.String("group_id", g.ID.String()),
		zap.Int("size", g.Size()))
	return g
}

// Join adds an agent to an existing group. No-op if the agent is already
// grouped or the group does not exist.
func (m *Manager) Join(groupID, agentID uuid.UUID) bool {
	g, ok := m.groups[groupID]
	if !ok {
		return false
	}
	if _, grouped := m.byAgent[agentID]; grouped {
		return false
	}
	g.members = append(g.members, agentID)
	m.byAgent[agentID] = g.ID
	return true
}

// Remove takes an agent out of its group. The leader slot is re-elected to
// the oldest remaining member; an emptied group is dissolved.
func (m *Manager) Remove(agentID uuid.UUID) {
	gid, ok := m.byAgent[agentID]
	if !ok {
		return
	}
	delete(m.byAgent, agentID)
	g := m.groups[gid]
	for i, id := range g.members {
		if id == agentID {
			g.members = append(g.members[:i], g.members[i+1:]...)
			break
		}
	}
	if len(g.members) == 0 {
		delete(m.groups, gid)
		m.logger.Debug("group dissolved", zap.String("group_id", gid.String()))
		return
	}
	if g.LeaderID == agentID {
		g.LeaderID = g.members[0]
	}
}

// GroupOf returns the agent's group, or nil when ungrouped.
func (m *Manager) GroupOf(agentID uuid.UUID) *Group {
	gid, ok := m.byAgent[agentID]
	if !ok {
		return nil
	}
	return m.groups[gid]
}

// Get returns a group by ID.
func (m *Manager) Get(groupID uuid.UUID) *Group {
	return m.groups[groupID]
}

// Count returns the number of live groups.
func (m *Manager) Count() int { return len(m.groups) }

// CoordinateAttack puts a group into ring-formation mode around a target.
func (m *Manager) CoordinateAttack(groupID uuid.UUID, target geom.Vec3) bool {
	g, ok := m.groups[groupID]
	if !ok {
		return false
	}
	g.Coordinated = true
	g.Target = target
	return true
}
