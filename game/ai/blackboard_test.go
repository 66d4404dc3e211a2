package ai

import (
	"testing"

	"github.com/overdrive-game/hordeai/geom"
	"github.com/stretchr/testify/assert"
)

func TestBlackboard_TypedAccessors(t *testing.T) {
	b := NewBlackboard()

	b.Set("dwell", 1.5)
	assert.Equal(t, 1.5, b.Float("dwell", 0))
	assert.Equal(t, 2.0, b.Float("absent", 2.0))

	b.Set("spawn_pos", geom.Vec3{X: 3, Z: 4})
	v, ok := b.Vec("spawn_pos")
	assert.True(t, ok)
	assert.Equal(t, geom.Vec3{X: 3, Z: 4}, v)
	_, ok = b.Vec("dwell") // mistyped
	assert.False(t, ok)

	b.Set("grouped", true)
	assert.True(t, b.Bool("grouped"))
	assert.False(t, b.Bool("absent"))

	b.Delete("dwell")
	_, ok = b.Get("dwell")
	assert.False(t, ok)
}
