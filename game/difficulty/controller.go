package difficulty

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultMin        = 0.5
	DefaultMax        = 3.0
	DefaultAdjustRate = 0.1
	DefaultInterval   = 5 * time.Second
	historyCap        = 100
)

// Adjustment is one entry in the bounded difficulty history log.
type Adjustment struct {
	At          time.Duration `json:"at"`
	Value       float64       `json:"value"`
	Performance float64       `json:"performance"`
	Reason      string        `json:"reason"`
}

// Controller converts the smoothed performance score into a bounded
// difficulty scalar. Evaluation happens on a fixed interval of simulation
// time; each evaluation moves the live value a fixed fraction of the
// distance toward the bucket target, never an instant jump.
type Controller struct {
	Min, Max   float64
	AdjustRate float64
	Interval   time.Duration

	value       float64
	override    *float64
	clock       time.Duration
	sinceEval   time.Duration
	history     []Adjustment
	logger      *zap.Logger
}

// NewController starts at difficulty 1.0 inside [DefaultMin, DefaultMax].
func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		Min:        DefaultMin,
		Max:        DefaultMax,
		AdjustRate: DefaultAdjustRate,
		Interval:   DefaultInterval,
		value:      1.0,
		logger:     logger,
	}
}

// Value returns the live difficulty scalar; a manual override wins while
// set. Always within [Min, Max].
func (c *Controller) Value() float64 {
	if c.override != nil {
		return *c.override
	}
	return c.value
}

// Advance accumulates simulation time and reevaluates difficulty when the
// evaluation interval elapses. score is the current smoothed performance
// reading, clamped before use so one anomalous reading cannot push state
// out of bounds. Returns true when the difficulty value changed.
func (c *Controller) Advance(dt time.Duration, score float64) bool {
	if dt <= 0 {
		return false
	}
	c.clock += dt
	c.sinceEval += dt
	if c.sinceEval < c.Interval {
		return false
	}
	c.sinceEval -= c.Interval
	if c.override != nil {
		return false // manual override bypasses the loop until cleared
	}
	return c.evaluate(clamp01(score))
}

func (c *Controller) evaluate(score float64) bool {
	bucket, mult := bucketFor(score)
	target := c.clamp(c.value * mult)
	next := c.clamp(c.value + c.AdjustRate*(target-c.value))
	changed := next != c.value
	c.value = next

	reason := fmt.Sprintf("performance %s (%.2f): moving toward %.2f", bucket, score, target)
	c.record(Adjustment{At: c.clock, Value: c.value, Performance: score, Reason: reason})
	if changed {
		c.logger.Info("difficulty adjusted",
			zap.Float64("value", c.value),
			zap.Float64("performance", score),
			zap.String("bucket", bucket))
	}
	return changed
}

func bucketFor(score float64) (string, float64) {
	switch {
	case score >= 0.80:
		return "excellent", 1.2
	case score >= 0.65:
		return "good", 1.1
	case score >= 0.45:
		return "average", 1.0
	case score >= 0.30:
		return "poor", 0.9
	default:
		return "very poor", 0.8
	}
}

// SetOverride force-sets difficulty for diagnostics, clamped to bounds.
// The closed loop is bypassed until ClearOverride.
func (c *Controller) SetOverride(v float64) float64 {
	clamped := c.clamp(v)
	c.override = &clamped
	c.record(Adjustment{At: c.clock, Value: clamped, Performance: -1, Reason: "manual override"})
	c.logger.Warn("difficulty override set", zap.Float64("value", clamped))
	return clamped
}

// ClearOverride returns control to the closed loop.
func (c *Controller) ClearOverride() {
	if c.override == nil {
		return
	}
	c.override = nil
	c.record(Adjustment{At: c.clock, Value: c.value, Performance: -1, Reason: "override cleared"})
	c.logger.Info("difficulty override cleared", zap.Float64("value", c.value))
}

// Overridden reports whether a manual override is active.
func (c *Controller) Overridden() bool { return c.override != nil }

// History returns a copy of the bounded adjustment log, oldest first.
func (c *Controller) History() []Adjustment {
	out := make([]Adjustment, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Controller) record(a Adjustment) {
	c.history = append(c.history, a)
	if len(c.history) > historyCap {
		c.history = c.history[len(c.history)-historyCap:]
	}
}

func (c *Controller) clamp(v float64) float64 {
	if v < c.Min {
		return c.Min
	}
	if v > c.Max {
		return c.Max
	}
	return v
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
