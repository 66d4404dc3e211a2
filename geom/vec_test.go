package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormZeroVector(t *testing.T) {
	assert.Equal(t, Vec3{}, Vec3{}.Norm())

	n := Vec3{X: 3, Y: 0, Z: 4}.Norm()
	assert.InDelta(t, 1.0, n.Len(), 1e-9)
}

func TestDistXZIgnoresHeight(t *testing.T) {
	a := Vec3{X: 0, Y: 10, Z: 0}
	b := Vec3{X: 3, Y: -5, Z: 4}
	assert.InDelta(t, 5.0, a.DistXZ(b), 1e-9)
	assert.Greater(t, a.Dist(b), a.DistXZ(b))
}

func TestFromAngleXZRoundTrip(t *testing.T) {
	for _, angle := range []float64{0, math.Pi / 3, math.Pi, 1.75 * math.Pi} {
		v := FromAngleXZ(angle)
		assert.InDelta(t, 1.0, v.Len(), 1e-9)
		got := v.HeadingXZ()
		// Compare on the unit circle to sidestep wrap-around.
		assert.InDelta(t, math.Cos(angle), math.Cos(got), 1e-9)
		assert.InDelta(t, math.Sin(angle), math.Sin(got), 1e-9)
	}
}
