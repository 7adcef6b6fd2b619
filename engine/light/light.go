package light

import (
	"sync"

	"github.com/Carmen-Shannon/umbra-go/engine/camera"

	"github.com/go-gl/mathgl/mgl32"
)

// LightKind identifies the kind of light source. The set of kinds is closed
// and small, so record construction switches on the tag rather than
// dispatching through an interface per kind.
type LightKind int

const (
	// LightKindSpot is a shadow-casting light that looks at a target through a
	// perspective projection, like a flashlight aimed at the scene.
	LightKindSpot LightKind = iota
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	name string
	kind LightKind

	view       camera.View
	projection camera.Projection
	color      mgl32.Vec3

	record  GPULightRecord
	visible bool

	// onChange is installed by the registry so setter-driven record changes
	// reach the packed GPU buffer before the setter returns.
	onChange func(l *lightImpl)
}

// Light is one entry of the lighting registry. Each light pairs a View and a
// Projection into its own view-projection matrix (no depth remap; only the
// camera's matrix feeds the screen surface) and lowers itself to the 96-byte
// GPU record stored in the registry's packed array buffer.
//
// Position and color setters recompute the record and push it to the GPU
// before returning, so the packed buffer never lags the CPU state within a
// frame.
type Light interface {
	// Name returns the registry key the light was added under.
	//
	// Returns:
	//   - string: the light's name
	Name() string

	// Kind returns the light kind tag.
	//
	// Returns:
	//   - LightKind: the kind of light
	Kind() LightKind

	// Position returns the light's world-space position (the view's eye).
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Color returns the light's RGB color.
	//
	// Returns:
	//   - mgl32.Vec3: the color
	Color() mgl32.Vec3

	// View returns the light's view value.
	//
	// Returns:
	//   - camera.View: the current view
	View() camera.View

	// Projection returns the light's projection value.
	//
	// Returns:
	//   - camera.Projection: the projection
	Projection() camera.Projection

	// ViewProjection returns projection * view for the light. Unlike the
	// camera there is no depth remap; shadow comparisons happen in the
	// light's own clip space.
	//
	// Returns:
	//   - mgl32.Mat4: the light view-projection matrix
	ViewProjection() mgl32.Mat4

	// Record returns the current 96-byte GPU record.
	//
	// Returns:
	//   - GPULightRecord: the GPU-aligned record
	Record() GPULightRecord

	// Visible reports whether the marker pass draws this light's marker mesh.
	//
	// Returns:
	//   - bool: true when the marker is drawn
	Visible() bool

	// SetPosition moves the light, recomputes its view-projection and record,
	// and re-uploads the record to its slot of the packed array buffer before
	// returning.
	//
	// Parameters:
	//   - position: the new world-space position
	SetPosition(position mgl32.Vec3)

	// SetColor recolors the light, recomputes its record, and re-uploads it
	// before returning.
	//
	// Parameters:
	//   - color: the new RGB color
	SetColor(color mgl32.Vec3)

	// SetVisible toggles the marker for this light.
	//
	// Parameters:
	//   - visible: true to draw the marker
	SetVisible(visible bool)
}

var _ Light = &lightImpl{}

// newLight constructs a light and its initial record. Only the registry
// creates lights; callers go through Registry.AddLight.
func newLight(name string, kind LightKind, color mgl32.Vec3, projection camera.Projection, view camera.View) *lightImpl {
	l := &lightImpl{
		mu:         &sync.Mutex{},
		name:       name,
		kind:       kind,
		view:       view,
		projection: projection,
		color:      color,
		visible:    true,
	}
	l.rebuildRecord()
	return l
}

func (l *lightImpl) Name() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.name
}

func (l *lightImpl) Kind() LightKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.kind
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view.Eye()
}

func (l *lightImpl) Color() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) View() camera.View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view
}

func (l *lightImpl) Projection() camera.Projection {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.projection
}

func (l *lightImpl) ViewProjection() mgl32.Mat4 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.projection.Matrix().Mul4(l.view.Matrix())
}

func (l *lightImpl) Record() GPULightRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.record
}

func (l *lightImpl) Visible() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.visible
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	l.view = l.view.WithEye(position)
	l.rebuildRecord()
	onChange := l.onChange
	l.mu.Unlock()
	if onChange != nil {
		onChange(l)
	}
}

func (l *lightImpl) SetColor(color mgl32.Vec3) {
	l.mu.Lock()
	l.color = color
	l.rebuildRecord()
	onChange := l.onChange
	l.mu.Unlock()
	if onChange != nil {
		onChange(l)
	}
}

func (l *lightImpl) SetVisible(visible bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visible = visible
}

// rebuildRecord lowers the light state to its GPU record. Record construction
// switches on the kind tag; every kind currently shares the position + color +
// view-projection layout. Caller must hold the mutex.
func (l *lightImpl) rebuildRecord() {
	eye := l.view.Eye()
	switch l.kind {
	case LightKindSpot:
		l.record = GPULightRecord{
			Position: [3]float32{eye.X(), eye.Y(), eye.Z()},
			Color:    [3]float32{l.color.X(), l.color.Y(), l.color.Z()},
			ViewProj: l.projection.Matrix().Mul4(l.view.Matrix()),
		}
	}
}
