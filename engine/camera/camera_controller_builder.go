package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithAngleStep sets the per-tick rotation magnitude applied to yaw, pitch,
// and roll.
//
// Parameters:
//   - radians: rotation per tick in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the angle step
func WithAngleStep(radians float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.angleStep = radians
	}
}

// WithRadialStep sets the per-tick dolly distance.
//
// Parameters:
//   - units: world units per tick
//
// Returns:
//   - CameraControllerOption: functional option to set the radial step
func WithRadialStep(units float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radialStep = units
	}
}

// WithKeyBinding maps a key code to the intent currently bound to
// defaultKey, replacing the default binding. Useful for alternate layouts
// where the default keys are awkward.
//
// Parameters:
//   - defaultKey: the key code whose intent should be rebound
//   - newKey: the key code to bind that intent to
//
// Returns:
//   - CameraControllerOption: functional option to rebind a key
func WithKeyBinding(defaultKey, newKey int) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if in, ok := cc.keymap[defaultKey]; ok {
			delete(cc.keymap, defaultKey)
			cc.keymap[newKey] = in
		}
	}
}
