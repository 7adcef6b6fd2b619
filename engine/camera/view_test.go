package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewEyeRoundTrip(t *testing.T) {
	eye := mgl32.Vec3{1.5, -2.25, 7}
	v := NewView(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, eye, v.Eye())
}

func TestNewViewNormalizesUp(t *testing.T) {
	v := NewView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 4, 0})
	assert.InDelta(t, 1.0, float64(v.Up().Len()), 1e-6)
}

func TestSphericalAdjustPreservesTarget(t *testing.T) {
	target := mgl32.Vec3{2, 3, -4}
	v := NewView(mgl32.Vec3{2, 3, 46}, target, mgl32.Vec3{0, 1, 0})

	cases := []struct {
		name                     string
		yaw, pitch, roll, radial float32
	}{
		{"yaw only", 0.4, 0, 0, 0},
		{"pitch only", 0, -0.3, 0, 0},
		{"roll only", 0, 0, 1.1, 0},
		{"radial only", 0, 0, 0, 5},
		{"combined", 0.2, 0.1, -0.4, -2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := v.SphericalAdjust(tc.yaw, tc.pitch, tc.roll, tc.radial)
			assert.Equal(t, target, next.Target())
		})
	}
}

func TestSphericalAdjustDoesNotMutateReceiver(t *testing.T) {
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	before := v
	_ = v.SphericalAdjust(0.5, 0.25, 0.1, 3)
	assert.Equal(t, before, v)
}

func TestSphericalAdjustUpStaysUnitAndOrthogonal(t *testing.T) {
	v := NewView(mgl32.Vec3{3, 8, 20}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})

	// Accumulate many adjustments; the Gram-Schmidt step has to hold drift down.
	for i := 0; i < 500; i++ {
		v = v.SphericalAdjust(0.1, 0.07, 0.03, 0)
	}

	up := v.Up()
	forward := v.Target().Sub(v.Eye()).Normalize()
	assert.InDelta(t, 1.0, float64(up.Len()), 1e-4)
	assert.Less(t, math.Abs(float64(up.Dot(forward))), 1e-4)
}

func TestSphericalAdjustRadialClamp(t *testing.T) {
	v := NewView(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	// Dolly in far past the target; the distance must clamp at the near floor.
	next := v.SphericalAdjust(0, 0, 0, 100)
	dist := next.Eye().Sub(next.Target()).Len()
	assert.InDelta(t, minRadialDistance, float64(dist), 1e-6)

	// Repeated dollies never cross the floor either.
	for i := 0; i < 50; i++ {
		next = next.SphericalAdjust(0, 0, 0, 0.3)
	}
	dist = next.Eye().Sub(next.Target()).Len()
	assert.GreaterOrEqual(t, float64(dist), float64(minRadialDistance)-1e-6)
}

func TestSphericalAdjustYawCircle(t *testing.T) {
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	step := mgl32.DegToRad(6)

	next := v.SphericalAdjust(step, 0, 0, 0)

	// Eye stays on the radius-50 circle about the up axis through the target.
	require.Equal(t, mgl32.Vec3{0, 0, 0}, next.Target())
	assert.InDelta(t, 50.0, float64(next.Eye().Len()), 1e-4)
	assert.InDelta(t, 0.0, float64(next.Eye().Y()), 1e-4)

	// No pitch or roll component moved the up vector.
	assert.InDelta(t, 0.0, float64(next.Up().X()), 1e-5)
	assert.InDelta(t, 1.0, float64(next.Up().Y()), 1e-5)
	assert.InDelta(t, 0.0, float64(next.Up().Z()), 1e-5)

	// A full 60-step revolution returns the eye to its start.
	full := v
	for i := 0; i < 60; i++ {
		full = full.SphericalAdjust(step, 0, 0, 0)
	}
	assert.InDelta(t, 0.0, float64(full.Eye().Sub(v.Eye()).Len()), 1e-2)
}

func TestWithEyeRecomputesMatrix(t *testing.T) {
	v := NewView(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	moved := v.WithEye(mgl32.Vec3{10, 0, 0})

	expected := mgl32.LookAtV(mgl32.Vec3{10, 0, 0}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	assert.Equal(t, expected, moved.Matrix())
	assert.Equal(t, v.Target(), moved.Target())
}
