package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// minRadialDistance is the floor for the eye-to-target distance after a
// spherical adjustment. It matches the default near clip plane so the eye can
// never cross the near plane (or the target itself) while dollying in.
const minRadialDistance = 0.1

// View is an immutable eye/target/up triple with its look-at matrix cached at
// construction time. Camera updates replace the whole value rather than
// mutating it in place; SphericalAdjust produces a new View and leaves the
// receiver untouched.
type View struct {
	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3

	matrix mgl32.Mat4
}

// NewView creates a View looking from eye toward target. The up vector is
// normalized before the look-at matrix is computed. A degenerate (zero) up
// vector is not validated and yields an undefined matrix; callers must pass a
// non-zero up. Orthogonality of up against the viewing direction is not
// required.
//
// Parameters:
//   - eye: world-space camera position
//   - target: world-space look-at point
//   - up: approximate up direction (non-zero)
//
// Returns:
//   - View: the constructed view with its matrix cached
func NewView(eye, target, up mgl32.Vec3) View {
	up = up.Normalize()
	return View{
		eye:    eye,
		target: target,
		up:     up,
		matrix: mgl32.LookAtV(eye, target, up),
	}
}

// Eye returns the world-space eye position.
//
// Returns:
//   - mgl32.Vec3: the eye position
func (v View) Eye() mgl32.Vec3 {
	return v.eye
}

// Target returns the world-space look-at point.
//
// Returns:
//   - mgl32.Vec3: the target position
func (v View) Target() mgl32.Vec3 {
	return v.target
}

// Up returns the normalized up direction.
//
// Returns:
//   - mgl32.Vec3: the up vector
func (v View) Up() mgl32.Vec3 {
	return v.up
}

// Matrix returns the cached look-at matrix.
//
// Returns:
//   - mgl32.Mat4: the view matrix (column-major)
func (v View) Matrix() mgl32.Mat4 {
	return v.matrix
}

// WithEye returns a copy of the view moved to a new eye position, with the
// look-at matrix recomputed before returning. Target and up are carried over
// unchanged. Lights use this to orbit without rebuilding their projection.
//
// Parameters:
//   - eye: the new world-space eye position
//
// Returns:
//   - View: the repositioned view
func (v View) WithEye(eye mgl32.Vec3) View {
	return NewView(eye, v.target, v.up)
}

// SphericalAdjust produces a new View rotated about the target and moved along
// the eye-target axis. The eye offset and the up vector are rotated by three
// axis-angle rotations composed roll, then pitch, then yaw:
//
//   - yaw about the current up axis
//   - pitch about the current right axis (forward x up)
//   - roll about the current forward axis
//
// The rotated offset is then rescaled so the eye sits radial units closer to
// the target (negative radial moves away), clamped so the distance never
// falls below the near clip floor. Finally the rotated up is re-orthogonalized
// against the new forward direction with a single Gram-Schmidt step and
// normalized, countering floating-point drift across repeated adjustments.
//
// The receiver is never mutated and the target is always preserved.
//
// Parameters:
//   - yaw: rotation about up, in radians
//   - pitch: rotation about right, in radians
//   - roll: rotation about forward, in radians
//   - radial: distance to move toward the target, in world units
//
// Returns:
//   - View: the adjusted view
func (v View) SphericalAdjust(yaw, pitch, roll, radial float32) View {
	offset := v.eye.Sub(v.target)
	forward := v.target.Sub(v.eye).Normalize()
	right := forward.Cross(v.up)

	yawQ := mgl32.QuatRotate(yaw, v.up)
	pitchQ := mgl32.QuatRotate(pitch, right)
	rollQ := mgl32.QuatRotate(roll, forward)
	rotation := yawQ.Mul(pitchQ).Mul(rollQ)

	offset = rotation.Rotate(offset)
	up := rotation.Rotate(v.up)

	distance := offset.Len() - radial
	if distance < minRadialDistance {
		distance = minRadialDistance
	}
	offset = offset.Normalize().Mul(distance)

	// Gram-Schmidt: strip the forward component out of up, then renormalize.
	newForward := offset.Mul(-1).Normalize()
	up = up.Sub(newForward.Mul(up.Dot(newForward))).Normalize()

	return NewView(v.target.Add(offset), v.target, up)
}
