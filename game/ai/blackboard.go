package ai

import "github.com/overdrive-game/hordeai/geom"

// Blackboard is per-agent scratch memory used by tree leaves to persist
// state between decision passes (spawn position, wander target, dwell
// countdowns). It is only ever touched from the simulation tick, so it
// carries no lock.
type Blackboard struct {
	m map[string]any
}

func NewBlackboard() *Blackboard {
	return &Blackboard{m: make(map[string]any)}
}

func (b *Blackboard) Set(key string, v any) {
	b.m[key] = v
}

func (b *Blackboard) Get(key string) (any, bool) {
	v, ok := b.m[key]
	return v, ok
}

func (b *Blackboard) Delete(key string) {
	delete(b.m, key)
}

// Float returns the stored float64, or def when absent or mistyped.
func (b *Blackboard) Float(key string, def float64) float64 {
	if v, ok := b.m[key].(float64); ok {
		return v
	}
	return def
}

// Vec returns the stored vector and whether it was present.
func (b *Blackboard) Vec(key string) (geom.Vec3, bool) {
	v, ok := b.m[key].(geom.Vec3)
	return v, ok
}

// Bool returns the stored bool, false when absent or mistyped.
func (b *Blackboard) Bool(key string) bool {
	v, _ := b.m[key].(bool)
	return v
}
