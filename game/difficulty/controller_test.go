package difficulty

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func advanceCycles(c *Controller, score float64, cycles int) {
	for i := 0; i < cycles; i++ {
		c.Advance(c.Interval, score)
	}
}

func TestValue_StaysBoundedForArbitraryScores(t *testing.T) {
	c := NewController(zap.NewNop())
	rng := rand.New(rand.NewSource(7))
	scores := []float64{0, 1, 0, 1, 0.5, -3, 42}
	for i := 0; i < 500; i++ {
		score := scores[i%len(scores)]
		if i%3 == 0 {
			score = rng.Float64() * 2
		}
		c.Advance(c.Interval, score)
		v := c.Value()
		assert.GreaterOrEqual(t, v, 0.5)
		assert.LessOrEqual(t, v, 3.0)
	}
}

func TestConvergence_MonotoneWithoutOvershoot(t *testing.T) {
	c := NewController(zap.NewNop())
	target := c.Value() * 1.2 // excellent bucket target from the start value
	prev := c.Value()
	for i := 0; i < 50; i++ {
		c.Advance(c.Interval, 0.9)
		v := c.Value()
		assert.GreaterOrEqual(t, v, prev, "difficulty must rise monotonically")
		prev = v
	}
	// The target itself moves as value rises (multiplier of current), so
	// the trajectory keeps climbing but each step never overshoots the
	// step's own target.
	assert.Greater(t, prev, target*0.99)
}

func TestScenario_HighPerformanceThreeCycles(t *testing.T) {
	c := NewController(zap.NewNop())
	require.Equal(t, 1.0, c.Value())

	values := make([]float64, 0, 3)
	for i := 0; i < 3; i++ {
		c.Advance(5*time.Second, 0.9)
		values = append(values, c.Value())
	}
	assert.Greater(t, values[0], 1.0)
	assert.Greater(t, values[1], values[0])
	assert.Greater(t, values[2], values[1])
	for _, v := range values {
		assert.LessOrEqual(t, v, 3.0)
	}
	// First step: target 1.2, rate 0.1 → 1.0 + 0.1*(1.2-1.0) = 1.02.
	assert.InDelta(t, 1.02, values[0], 1e-9)
}

func TestLowPerformanceLowersDifficulty(t *testing.T) {
	c := NewController(zap.NewNop())
	advanceCycles(c, 0.1, 200)
	assert.InDelta(t, 0.5, c.Value(), 1e-6, "very-poor scores drive toward the floor, never below")
}

func TestEvaluationCadence(t *testing.T) {
	c := NewController(zap.NewNop())
	changed := c.Advance(4*time.Second, 0.9)
	assert.False(t, changed, "no evaluation before the interval elapses")
	changed = c.Advance(time.Second, 0.9)
	assert.True(t, changed)
}

func TestAverageBucketHoldsSteady(t *testing.T) {
	c := NewController(zap.NewNop())
	changed := c.Advance(c.Interval, 0.5)
	assert.False(t, changed, "average bucket targets current difficulty")
	assert.Equal(t, 1.0, c.Value())
}

func TestOverride_ClampsAndBypassesLoop(t *testing.T) {
	c := NewController(zap.NewNop())
	got := c.SetOverride(99)
	assert.Equal(t, 3.0, got)
	assert.Equal(t, 3.0, c.Value())
	assert.True(t, c.Overridden())

	// Loop is bypassed while overridden.
	advanceCycles(c, 0.0, 10)
	assert.Equal(t, 3.0, c.Value())

	c.ClearOverride()
	assert.False(t, c.Overridden())
	assert.Equal(t, 1.0, c.Value(), "underlying value untouched by override")
}

func TestHistory_RecordsReasonsAndStaysBounded(t *testing.T) {
	c := NewController(zap.NewNop())
	advanceCycles(c, 0.9, 150)
	h := c.History()
	assert.Len(t, h, 100)
	last := h[len(h)-1]
	assert.Contains(t, last.Reason, "excellent")
	assert.Equal(t, c.Value(), last.Value)
}
