package camera

// intent identifies one of the controller's boolean movement intents.
type intent int

const (
	intentUp intent = iota
	intentDown
	intentLeft
	intentRight
	intentForward
	intentBackward
	intentRollCW
	intentRollCCW

	intentCount
)

// CameraController translates discrete press/release key signals into
// spherical camera adjustments. Eight independent boolean intents (pitch
// up/down, yaw left/right, dolly forward/backward, roll cw/ccw) are held
// between Press and Release; each Update tick folds the held intents into one
// SphericalAdjust call on the supplied view.
type CameraController interface {
	// Press sets the intent mapped to the given key code, if any.
	//
	// Parameters:
	//   - key: the virtual key code (see common key code constants)
	Press(key int)

	// Release clears the intent mapped to the given key code, if any.
	//
	// Parameters:
	//   - key: the virtual key code
	Release(key int)

	// Update derives yaw/pitch/roll/radial deltas from the held intents and
	// applies them to the view. When every delta is zero the view is returned
	// untouched and the second result is false; recomputing with all-zero
	// deltas would be a mathematical no-op, so the early exit is purely an
	// optimization.
	//
	// Parameters:
	//   - v: the view to adjust
	//
	// Returns:
	//   - View: the adjusted view (or v unchanged)
	//   - bool: true when at least one intent produced a non-zero delta
	Update(v View) (View, bool)

	// AngleStep returns the per-tick rotation magnitude in radians, applied
	// to whichever of yaw/pitch/roll the held intents select.
	//
	// Returns:
	//   - float32: radians per tick
	AngleStep() float32

	// RadialStep returns the per-tick dolly distance in world units.
	//
	// Returns:
	//   - float32: world units per tick
	RadialStep() float32
}
