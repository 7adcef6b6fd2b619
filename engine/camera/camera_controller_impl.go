package camera

import (
	"sync"

	"github.com/Carmen-Shannon/umbra-go/common"

	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Intents are held as booleans between Press and Release; opposing intents
// cancel out to a zero delta rather than fighting each other.
type cameraControllerImpl struct {
	mu *sync.Mutex

	intents [intentCount]bool
	keymap  map[int]intent

	angleStep  float32 // radians per tick
	radialStep float32 // world units per tick
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a camera controller with the default key map
// (W/S pitch, A/D yaw, left shift/ctrl dolly, E/Q roll) and default step
// sizes: 6 degrees of rotation and 0.3 world units of dolly per tick.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},
		keymap: map[int]intent{
			common.KeyW:         intentUp,
			common.KeyS:         intentDown,
			common.KeyA:         intentLeft,
			common.KeyD:         intentRight,
			common.KeyLeftShift: intentForward,
			common.KeyLeftCtrl:  intentBackward,
			common.KeyE:         intentRollCW,
			common.KeyQ:         intentRollCCW,
		},
		angleStep:  mgl32.DegToRad(6.0),
		radialStep: 0.3,
	}

	for _, option := range options {
		option(cc)
	}

	return cc
}

func (cc *cameraControllerImpl) Press(key int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if in, ok := cc.keymap[key]; ok {
		cc.intents[in] = true
	}
}

func (cc *cameraControllerImpl) Release(key int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if in, ok := cc.keymap[key]; ok {
		cc.intents[in] = false
	}
}

func (cc *cameraControllerImpl) Update(v View) (View, bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var yaw, pitch, roll, radial float32
	if cc.intents[intentRight] {
		yaw += cc.angleStep
	}
	if cc.intents[intentLeft] {
		yaw -= cc.angleStep
	}
	if cc.intents[intentUp] {
		pitch += cc.angleStep
	}
	if cc.intents[intentDown] {
		pitch -= cc.angleStep
	}
	if cc.intents[intentRollCCW] {
		roll += cc.angleStep
	}
	if cc.intents[intentRollCW] {
		roll -= cc.angleStep
	}
	if cc.intents[intentForward] {
		radial += cc.radialStep
	}
	if cc.intents[intentBackward] {
		radial -= cc.radialStep
	}

	if yaw == 0 && pitch == 0 && roll == 0 && radial == 0 {
		return v, false
	}
	return v.SphericalAdjust(yaw, pitch, roll, radial), true
}

func (cc *cameraControllerImpl) AngleStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.angleStep
}

func (cc *cameraControllerImpl) RadialStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radialStep
}
