package events

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/overdrive-game/hordeai/bus"
	"github.com/overdrive-game/hordeai/geom"
)

// Type names an outbound AI event. Channel name = ChannelPrefix + Type.
type Type string

const (
	TypeAgentSpawned      Type = "agent_spawned"
	TypeAgentAttack       Type = "agent_attack"
	TypeAgentRemoved      Type = "agent_removed"
	TypeCombatEffect      Type = "combat_effect"
	TypeDifficultyChanged Type = "difficulty_changed"
)

// ChannelPrefix namespaces AI events on the bus.
const ChannelPrefix = "horde.events."

// AgentSpawned announces a new hostile agent for collaborators to render.
type AgentSpawned struct {
	ID        string     `json:"id"`
	AgentType string     `json:"agent_type"`
	Pos       geom.Vec3  `json:"pos"`
	GroupID   string     `json:"group_id,omitempty"`
}

// AgentAttack is an attack intent; damage application and presentation
// belong to collaborators.
type AgentAttack struct {
	ID        string    `json:"id"`
	Pos       geom.Vec3 `json:"pos"`
	TargetPos geom.Vec3 `json:"target_pos"`
	Damage    float64   `json:"damage"`
	Ability   string    `json:"ability,omitempty"`
}

// AgentRemoved announces despawn or death.
type AgentRemoved struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// CombatEffect requests a presentation effect.
type CombatEffect struct {
	Effect    string    `json:"effect"`
	Pos       geom.Vec3 `json:"pos"`
	Intensity float64   `json:"intensity"`
}

// DifficultyChanged reports a new difficulty level with its cause.
type DifficultyChanged struct {
	Level  float64 `json:"level"`
	Reason string  `json:"reason"`
}

// Emitter delivers events outward. Implementations must never block the
// simulation tick.
type Emitter interface {
	Emit(t Type, payload any)
}

// NopEmitter discards everything; used in tests.
type NopEmitter struct{}

func (NopEmitter) Emit(Type, any) {}

// BusEmitter JSON-encodes events onto the pub/sub bus.
type BusEmitter struct {
	ps     bus.PubSub
	logger *zap.Logger
}

func NewBusEmitter(ps bus.PubSub, logger *zap.Logger) *BusEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusEmitter{ps: ps, logger: logger}
}

func (e *BusEmitter) Emit(t Type, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error("event marshal failed", zap.String("type", string(t)), zap.Error(err))
		return
	}
	if err := e.ps.Publish(context.Background(), ChannelPrefix+string(t), string(raw)); err != nil {
		e.logger.Error("event publish failed", zap.String("type", string(t)), zap.Error(err))
	}
}

// Recorder captures events in memory; used in tests.
type Recorder struct {
	Events []Recorded
}

type Recorded struct {
	Type    Type
	Payload any
}

func (r *Recorder) Emit(t Type, payload any) {
	r.Events = append(r.Events, Recorded{Type: t, Payload: payload})
}

// ByType returns the recorded payloads of one event type.
func (r *Recorder) ByType(t Type) []any {
	var out []any
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e.Payload)
		}
	}
	return out
}
