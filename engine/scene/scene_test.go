package scene

import (
	"testing"

	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/engine/camera"
	"github.com/Carmen-Shannon/umbra-go/engine/light"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneDefaults(t *testing.T) {
	s := NewScene("main")

	assert.Equal(t, "main", s.Name())
	assert.True(t, s.Active())
	require.NotNil(t, s.Registry())
	require.NotNil(t, s.Baker())
	assert.Empty(t, s.Models())
	assert.Equal(t, 0, s.Registry().Len())
}

func TestAddLightBuildsSpotLight(t *testing.T) {
	s := NewScene("main")

	idx, err := s.AddLight("key", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{5, 10, 5}, mgl32.Vec3{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	l := s.Registry().Get("key")
	require.NotNil(t, l)
	assert.Equal(t, light.LightKindSpot, l.Kind())
	assert.Equal(t, mgl32.Vec3{5, 10, 5}, l.Position())
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, l.Color())
}

func TestAddLightShadowFrustum(t *testing.T) {
	s := NewScene("main")

	_, err := s.AddLight("key", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{5, 10, 5}, mgl32.Vec3{0, 0, 0})
	require.NoError(t, err)

	// Fov is in degrees, like camera.DefaultFov; a radians value here would
	// collapse the shadow frustum to a sliver.
	proj := s.Registry().Get("key").Projection()
	assert.InDelta(t, 60.0, proj.Fov(), 1e-6)
	assert.InDelta(t, 1.0, proj.Aspect(), 1e-6)
	assert.InDelta(t, 0.5, proj.Near(), 1e-6)
	assert.InDelta(t, 100.0, proj.Far(), 1e-6)
}

func TestAddLightPropagatesRegistryErrors(t *testing.T) {
	s := NewScene("main")

	_, err := s.AddLight("key", mgl32.Vec3{1, 1, 1}, mgl32.Vec3{5, 10, 5}, mgl32.Vec3{0, 0, 0})
	require.NoError(t, err)

	_, err = s.AddLight("key", mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-5, 10, 5}, mgl32.Vec3{0, 0, 0})
	assert.ErrorIs(t, err, light.ErrDuplicateName)
}

func TestUpdateOrbitsLightsAboutWorldY(t *testing.T) {
	s := NewScene("main")
	start := mgl32.Vec3{10, 5, 0}
	_, err := s.AddLight("orbiter", mgl32.Vec3{1, 1, 1}, start, mgl32.Vec3{0, 0, 0})
	require.NoError(t, err)

	s.Update(0.016)

	want := mgl32.Rotate3DY(mgl32.DegToRad(1)).Mul3x1(start)
	got := s.Registry().Get("orbiter").Position()
	assert.InDelta(t, want.X(), got.X(), 1e-5)
	assert.InDelta(t, want.Y(), got.Y(), 1e-5)
	assert.InDelta(t, want.Z(), got.Z(), 1e-5)

	// Height above the orbit plane never changes.
	assert.InDelta(t, start.Y(), got.Y(), 1e-5)
}

func TestUpdateOrbitDisabled(t *testing.T) {
	s := NewScene("main", WithLightOrbitStep(0))
	start := mgl32.Vec3{10, 5, 0}
	_, err := s.AddLight("fixed", mgl32.Vec3{1, 1, 1}, start, mgl32.Vec3{0, 0, 0})
	require.NoError(t, err)

	s.Update(0.016)

	assert.Equal(t, start, s.Registry().Get("fixed").Position())
}

func TestHandleKeyDownTogglesMarkers(t *testing.T) {
	s := NewScene("main", WithRegistry(light.NewRegistry(light.WithVisibleMarkers(true))))
	require.True(t, s.Registry().Visible())

	s.HandleKeyDown(uint32(common.KeyL))
	assert.False(t, s.Registry().Visible())

	s.HandleKeyDown(uint32(common.KeyL))
	assert.True(t, s.Registry().Visible())
}

func TestHandleKeyRoutesToController(t *testing.T) {
	cam := camera.NewCamera(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, 0},
		camera.WithController(camera.NewCameraController()),
	)
	s := NewScene("main", WithCamera(cam))

	// A held movement key produces a view change on the next tick.
	s.HandleKeyDown(uint32(common.KeyW))
	assert.True(t, cam.Update())

	// Releasing it stops the movement.
	s.HandleKeyUp(uint32(common.KeyW))
	assert.False(t, cam.Update())
}

func TestHandleKeyWithoutCameraIsSafe(t *testing.T) {
	s := NewScene("main")

	assert.NotPanics(t, func() {
		s.HandleKeyDown(uint32(common.KeyW))
		s.HandleKeyUp(uint32(common.KeyW))
	})
}

func TestInitRequiresRendererAndCamera(t *testing.T) {
	s := NewScene("main")
	err := s.Init(800, 600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no camera")

	cam := camera.NewCamera(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, 0})
	s = NewScene("main", WithCamera(cam))
	err = s.Init(800, 600)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no renderer")
}

func TestRenderFrameInactiveIsNoop(t *testing.T) {
	s := NewScene("main", WithActive(false))
	assert.NoError(t, s.RenderFrame())
}

func TestRenderFrameWithoutRendererIsNoop(t *testing.T) {
	s := NewScene("main")
	assert.NoError(t, s.RenderFrame())
}

func TestSceneAccessors(t *testing.T) {
	s := NewScene("first")

	s.SetName("second")
	assert.Equal(t, "second", s.Name())

	s.SetActive(false)
	assert.False(t, s.Active())

	cam := camera.NewCamera(mgl32.Vec3{0, 5, 10}, mgl32.Vec3{0, 0, 0})
	s.SetCamera(cam)
	assert.Equal(t, cam, s.Camera())
}
