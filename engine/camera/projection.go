package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Default perspective parameters shared by cameras and spotlights.
const (
	DefaultFov  = 45.0
	DefaultNear = 0.1
	DefaultFar  = 100.0
)

// Projection is an immutable perspective parameter set with its matrix cached
// at construction time. The matrix uses the symmetric [-1, 1] depth convention;
// the camera composes it with the depth remap constant before handing it to
// shaders. Recreate the value (see WithAspect) instead of mutating it.
type Projection struct {
	aspect float32
	fovY   float32
	near   float32
	far    float32

	matrix mgl32.Mat4
}

// NewProjection creates a perspective Projection and caches its matrix.
// 0 < near < far is a caller obligation; it is not validated and violating it
// yields a garbage matrix rather than an error.
//
// Parameters:
//   - aspect: viewport aspect ratio (width / height)
//   - fovY: vertical field of view in degrees
//   - near: near clip plane distance
//   - far: far clip plane distance
//
// Returns:
//   - Projection: the constructed projection with its matrix cached
func NewProjection(aspect, fovY, near, far float32) Projection {
	return Projection{
		aspect: aspect,
		fovY:   fovY,
		near:   near,
		far:    far,
		matrix: mgl32.Perspective(mgl32.DegToRad(fovY), aspect, near, far),
	}
}

// Aspect returns the aspect ratio (width / height).
//
// Returns:
//   - float32: the aspect ratio
func (p Projection) Aspect() float32 {
	return p.aspect
}

// Fov returns the vertical field of view in degrees.
//
// Returns:
//   - float32: field of view in degrees
func (p Projection) Fov() float32 {
	return p.fovY
}

// Near returns the near clip plane distance.
//
// Returns:
//   - float32: near plane distance
func (p Projection) Near() float32 {
	return p.near
}

// Far returns the far clip plane distance.
//
// Returns:
//   - float32: far plane distance
func (p Projection) Far() float32 {
	return p.far
}

// Matrix returns the cached perspective matrix.
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major, [-1,1] depth)
func (p Projection) Matrix() mgl32.Mat4 {
	return p.matrix
}

// WithAspect returns a copy of the projection rebuilt for a new aspect ratio,
// with the matrix recomputed before returning. Used on window resize.
//
// Parameters:
//   - aspect: the new aspect ratio (width / height)
//
// Returns:
//   - Projection: the rebuilt projection
func (p Projection) WithAspect(aspect float32) Projection {
	return NewProjection(aspect, p.fovY, p.near, p.far)
}
