package scene

import (
	"github.com/Carmen-Shannon/umbra-go/engine/camera"
	"github.com/Carmen-Shannon/umbra-go/engine/light"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneImpl)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.active = active
	}
}

// WithCamera sets the scene's camera.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.cam = cam
	}
}

// WithRenderer sets the scene's renderer.
//
// Parameters:
//   - r: the renderer to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.r = r
	}
}

// WithRegistry replaces the scene's light registry. Mostly useful for tests
// that pre-populate a registry before handing it to the scene.
//
// Parameters:
//   - registry: the light registry to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRegistry(registry light.Registry) SceneBuilderOption {
	return func(s *sceneImpl) {
		if registry != nil {
			s.registry = registry
		}
	}
}

// WithBaker replaces the scene's shadow baker.
//
// Parameters:
//   - baker: the shadow baker to use
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBaker(baker light.ShadowBaker) SceneBuilderOption {
	return func(s *sceneImpl) {
		if baker != nil {
			s.baker = baker
		}
	}
}

// WithStagingWorkers sets the number of workers in the instance staging pool.
// Defaults to runtime.NumCPU().
//
// Parameters:
//   - workers: worker count, must be at least 1
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithStagingWorkers(workers int) SceneBuilderOption {
	return func(s *sceneImpl) {
		if workers > 0 {
			s.stagingWorkers = workers
		}
	}
}

// WithLightOrbitStep sets how far every light orbits about the world Y axis
// each Update tick. Defaults to 1 degree; 0 disables the orbit animation.
//
// Parameters:
//   - degrees: orbit step per tick in degrees
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLightOrbitStep(degrees float32) SceneBuilderOption {
	return func(s *sceneImpl) {
		s.orbitStep = mgl32.DegToRad(degrees)
	}
}
