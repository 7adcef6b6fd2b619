package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/go-gl/mathgl/mgl32"
)

// DepthRemap is the fixed matrix that rescales projected depth from the
// symmetric [-1, 1] convention to the [0, 1] convention the surface expects.
// It is a constant; it is never recomputed.
var DepthRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

type cameraImpl struct {
	mu *sync.Mutex

	view       View
	projection Projection

	viewProjectionMatrix mgl32.Mat4

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera pairs a View and a Projection and exposes the combined matrix shaders
// consume. Every setter recomputes the cached view-projection matrix before
// returning, so reads never observe a stale matrix.
type Camera interface {
	// Eye returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: the target position
	Target() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// View returns the current view value.
	//
	// Returns:
	//   - View: the current view
	View() View

	// Projection returns the current projection value.
	//
	// Returns:
	//   - Projection: the current projection
	Projection() Projection

	// ViewMatrix returns the current 4x4 view matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current 4x4 projection matrix (column-major).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns DepthRemap * projection * view, the matrix
	// uploaded to the camera uniform buffer each frame.
	//
	// Returns:
	//   - mgl32.Mat4: the combined view-projection matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	// Returns nil if no controller is attached.
	//
	// Returns:
	//   - CameraController: the attached controller or nil
	Controller() CameraController

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	// Returns nil if not set.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider or nil
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Update runs one controller tick against the current view. When at least
	// one intent is held the adjusted view replaces the current one and the
	// cached matrix is recomputed. Should be called once per frame.
	//
	// Returns:
	//   - bool: true when the view changed and the uniform buffer needs restaging
	Update() bool

	// Uniform lowers the camera state to its GPU record.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform record for the current frame
	Uniform() GPUCameraUniform

	// SetView replaces the view wholesale and recomputes the combined matrix.
	//
	// Parameters:
	//   - v: the new view
	SetView(v View)

	// SetEye moves the camera to a new position, keeping target and up.
	//
	// Parameters:
	//   - eye: the new world-space eye position
	SetEye(eye mgl32.Vec3)

	// SetTarget repoints the camera at a new target, keeping eye and up.
	//
	// Parameters:
	//   - target: the new world-space target
	SetTarget(target mgl32.Vec3)

	// SetUp sets the camera's up vector, keeping eye and target.
	//
	// Parameters:
	//   - up: the new up direction (non-zero)
	SetUp(up mgl32.Vec3)

	// SetAspect rebuilds the projection for a new aspect ratio and recomputes
	// the combined matrix. Called by the engine on window resize.
	//
	// Parameters:
	//   - aspect: the aspect ratio (width / height)
	SetAspect(aspect float32)

	// SetFov rebuilds the projection with a new vertical field of view.
	//
	// Parameters:
	//   - fov: field of view in degrees
	SetFov(fov float32)

	// SetNear rebuilds the projection with a new near clip distance.
	//
	// Parameters:
	//   - near: near plane distance
	SetNear(near float32)

	// SetFar rebuilds the projection with a new far clip distance.
	//
	// Parameters:
	//   - far: far plane distance
	SetFar(far float32)

	// SetController attaches a CameraController to the camera.
	//
	// Parameters:
	//   - ctrl: the controller to attach
	SetController(ctrl CameraController)

	// SetBindGroupProvider sets the camera's bind group provider.
	//
	// Parameters:
	//   - provider: the bind group provider to set
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera looking from eye toward target with default
// perspective settings (45 degree fov, 0.1 near, 100 far, aspect 1).
//
// Parameters:
//   - eye: world-space camera position
//   - target: world-space look-at point
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(eye, target mgl32.Vec3, options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		view:       NewView(eye, target, mgl32.Vec3{0, 1, 0}),
		projection: NewProjection(1.0, DefaultFov, DefaultNear, DefaultFar),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(c)
	}
	c.updateMatrices()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Eye()
}

func (c *cameraImpl) Target() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Target()
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Up()
}

func (c *cameraImpl) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *cameraImpl) Projection() Projection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Matrix()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection.Matrix()
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.controller == nil {
		return false
	}
	next, changed := c.controller.Update(c.view)
	if !changed {
		return false
	}
	c.view = next
	c.updateMatrices()
	return true
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	eye := c.view.Eye()
	return GPUCameraUniform{
		ViewPosition: [4]float32{eye.X(), eye.Y(), eye.Z(), 1},
		ViewProj:     c.viewProjectionMatrix,
	}
}

func (c *cameraImpl) SetView(v View) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = v
	c.updateMatrices()
}

func (c *cameraImpl) SetEye(eye mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = NewView(eye, c.view.Target(), c.view.Up())
	c.updateMatrices()
}

func (c *cameraImpl) SetTarget(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = NewView(c.view.Eye(), target, c.view.Up())
	c.updateMatrices()
}

func (c *cameraImpl) SetUp(up mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = NewView(c.view.Eye(), c.view.Target(), up)
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = c.projection.WithAspect(aspect)
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = NewProjection(c.projection.Aspect(), fov, c.projection.Near(), c.projection.Far())
	c.updateMatrices()
}

func (c *cameraImpl) SetNear(near float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = NewProjection(c.projection.Aspect(), c.projection.Fov(), near, c.projection.Far())
	c.updateMatrices()
}

func (c *cameraImpl) SetFar(far float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = NewProjection(c.projection.Aspect(), c.projection.Fov(), c.projection.Near(), far)
	c.updateMatrices()
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
}

func (c *cameraImpl) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindGroupProvider = provider
}

// updateMatrices recomputes the combined view-projection matrix from the
// current view and projection. Caller must hold the mutex.
func (c *cameraImpl) updateMatrices() {
	c.viewProjectionMatrix = DepthRemap.Mul4(c.projection.Matrix()).Mul4(c.view.Matrix())
}
