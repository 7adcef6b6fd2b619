package camera

import (
	"testing"

	"github.com/Carmen-Shannon/umbra-go/common"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraViewProjectionComposition(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, 0},
		WithAspect(16.0/9.0),
	)

	expected := DepthRemap.Mul4(cam.ProjectionMatrix()).Mul4(cam.ViewMatrix())
	assert.Equal(t, expected, cam.ViewProjectionMatrix())
}

func TestCameraSettersRecomputeMatrix(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0})

	before := cam.ViewProjectionMatrix()
	cam.SetAspect(2.0)
	after := cam.ViewProjectionMatrix()
	assert.NotEqual(t, before, after)
	assert.Equal(t, DepthRemap.Mul4(cam.ProjectionMatrix()).Mul4(cam.ViewMatrix()), after)

	cam.SetEye(mgl32.Vec3{5, 5, 5})
	assert.Equal(t, mgl32.Vec3{5, 5, 5}, cam.Eye())
	assert.Equal(t, DepthRemap.Mul4(cam.ProjectionMatrix()).Mul4(cam.ViewMatrix()), cam.ViewProjectionMatrix())

	cam.SetFov(60)
	assert.Equal(t, DepthRemap.Mul4(cam.ProjectionMatrix()).Mul4(cam.ViewMatrix()), cam.ViewProjectionMatrix())
}

func TestCameraUniformLayout(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, 0})

	u := cam.Uniform()
	assert.Equal(t, [4]float32{1, 2, 3, 1}, u.ViewPosition)
	assert.Equal(t, cam.ViewProjectionMatrix(), u.ViewProj)
	assert.Equal(t, 80, u.Size())
	assert.Len(t, u.Marshal(), 80)
}

func TestCameraUpdateWithoutController(t *testing.T) {
	cam := NewCamera(mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0})
	assert.False(t, cam.Update())
}

func TestCameraUpdateAppliesControllerTick(t *testing.T) {
	ctrl := NewCameraController()
	cam := NewCamera(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0},
		WithController(ctrl),
	)

	// No intents held: the view must not move.
	require.False(t, cam.Update())
	assert.Equal(t, mgl32.Vec3{0, 0, 50}, cam.Eye())

	// Hold the yaw-left key for one tick.
	ctrl.Press(common.KeyA)
	require.True(t, cam.Update())
	assert.InDelta(t, 50.0, float64(cam.Eye().Len()), 1e-4)
	assert.NotEqual(t, mgl32.Vec3{0, 0, 50}, cam.Eye())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, cam.Target())

	ctrl.Release(common.KeyA)
	assert.False(t, cam.Update())
}

func TestControllerOpposingIntentsCancel(t *testing.T) {
	ctrl := NewCameraController()
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	ctrl.Press(common.KeyA)
	ctrl.Press(common.KeyD)
	next, changed := ctrl.Update(v)
	assert.False(t, changed)
	assert.Equal(t, v, next)
}

func TestControllerDollyUsesRadialStep(t *testing.T) {
	ctrl := NewCameraController(WithRadialStep(2.5))
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	ctrl.Press(common.KeyLeftShift)
	next, changed := ctrl.Update(v)
	require.True(t, changed)
	assert.InDelta(t, 47.5, float64(next.Eye().Sub(next.Target()).Len()), 1e-4)
}

func TestControllerIntentSigns(t *testing.T) {
	step := mgl32.DegToRad(6.0)
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	// Right-handed conventions: D yaws positive and A negative, W pitches
	// positive and S negative, Q rolls positive and E negative, left shift
	// dollies inward.
	cases := []struct {
		name                     string
		key                      int
		yaw, pitch, roll, radial float32
	}{
		{"yaw_right", common.KeyD, step, 0, 0, 0},
		{"yaw_left", common.KeyA, -step, 0, 0, 0},
		{"pitch_up", common.KeyW, 0, step, 0, 0},
		{"pitch_down", common.KeyS, 0, -step, 0, 0},
		{"roll_ccw", common.KeyQ, 0, 0, step, 0},
		{"roll_cw", common.KeyE, 0, 0, -step, 0},
		{"dolly_in", common.KeyLeftShift, 0, 0, 0, 0.3},
		{"dolly_out", common.KeyLeftCtrl, 0, 0, 0, -0.3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := NewCameraController()
			ctrl.Press(tc.key)
			next, changed := ctrl.Update(v)
			require.True(t, changed)
			want := v.SphericalAdjust(tc.yaw, tc.pitch, tc.roll, tc.radial)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, float64(want.Eye()[i]), float64(next.Eye()[i]), 1e-5)
				assert.InDelta(t, float64(want.Up()[i]), float64(next.Up()[i]), 1e-5)
			}
		})
	}
}

func TestControllerIgnoresUnmappedKeys(t *testing.T) {
	ctrl := NewCameraController()
	v := NewView(mgl32.Vec3{0, 0, 50}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})

	ctrl.Press(common.KeyM)
	_, changed := ctrl.Update(v)
	assert.False(t, changed)
}
