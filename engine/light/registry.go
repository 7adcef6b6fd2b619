package light

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/umbra-go/engine/camera"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/go-gl/mathgl/mgl32"
)

// Binding slots within the registry's combined bind group.
const (
	CountBinding = 0
	ArrayBinding = 1
)

var (
	// ErrRegistryFull is returned by AddLight once the registry holds its
	// maximum number of lights.
	ErrRegistryFull = errors.New("light registry is full")

	// ErrDuplicateName is returned by AddLight when a light already exists
	// under the requested name. Silently overwriting would leak the prior
	// light's slot in the packed buffer, so duplicates are rejected.
	ErrDuplicateName = errors.New("light name already registered")
)

// BufferWriter pushes staged buffer writes to the GPU queue. The renderer
// satisfies this; tests run the registry without one and inspect the staged
// writes directly.
type BufferWriter interface {
	// WriteBuffers executes the queued buffer writes.
	//
	// Parameters:
	//   - writes: the buffer writes to execute
	WriteBuffers(writes []bind_group_provider.BufferWrite)
}

// registryCount is an atomic counter used to generate unique bind group provider names for each registry instance.
var registryCount atomic.Uint64

type registryImpl struct {
	mu *sync.Mutex

	lights map[string]*lightImpl
	order  []*lightImpl

	visible bool

	bindGroupProvider bind_group_provider.BindGroupProvider
	writer            BufferWriter
	pending           []bind_group_provider.BufferWrite
}

// Registry is the bounded, named collection of scene lights. It owns the
// packed array buffer (MaxLights records), the 4-byte active-count buffer,
// and the combined bind group the lit and marker passes consume at slot 1
// (binding 0 = count, binding 1 = array).
//
// A light's index in the packed buffer equals its insertion order at the time
// of addition; lights are never removed or compacted, so indices stay stable
// for the life of the registry.
type Registry interface {
	// AddLight constructs a spotlight from the given color, projection, and
	// view, registers it under name, and stages two GPU writes: the light's
	// record at byte offset index * RecordSize of the array buffer, and the
	// new active count. Fails with ErrRegistryFull once MaxLights - 1 lights
	// are held (one slot of headroom stays reserved) and with
	// ErrDuplicateName when the name is taken; the registry is unchanged on
	// either failure.
	//
	// Parameters:
	//   - name: the registry key for the new light
	//   - color: the light's RGB color
	//   - projection: the light's perspective projection
	//   - view: the light's view (eye is the light position)
	//
	// Returns:
	//   - int: the light's stable index in the packed array buffer
	//   - error: ErrRegistryFull or ErrDuplicateName on failure
	AddLight(name string, color mgl32.Vec3, projection camera.Projection, view camera.View) (int, error)

	// Get retrieves a light by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the registry key to look up
	//
	// Returns:
	//   - Light: the light or nil
	Get(name string) Light

	// Lights returns the lights in insertion order. The returned slice is a
	// copy; the lights themselves are shared.
	//
	// Returns:
	//   - []Light: lights in insertion order
	Lights() []Light

	// Len returns the number of registered lights.
	//
	// Returns:
	//   - int: the light count
	Len() int

	// Visible reports the registry-level marker toggle. The marker pass runs
	// only when this is set; per-light Visible flags then gate each marker.
	//
	// Returns:
	//   - bool: true when light markers are drawn
	Visible() bool

	// SetVisible sets the registry-level marker toggle.
	//
	// Parameters:
	//   - visible: true to draw light markers
	SetVisible(visible bool)

	// ToggleVisible flips the registry-level marker toggle. Wired to the L
	// key by the input layer.
	ToggleVisible()

	// BindGroupProvider returns the provider describing the combined
	// count+array bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the lights bind group provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetWriter attaches the GPU write path. Writes staged before a writer
	// was attached are flushed through it immediately; afterward every staged
	// write reaches the queue before the staging call returns.
	//
	// Parameters:
	//   - w: the buffer writer (typically the renderer)
	SetWriter(w BufferWriter)

	// PendingWrites drains and returns writes staged while no writer was
	// attached.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the drained writes
	PendingWrites() []bind_group_provider.BufferWrite
}

var _ Registry = &registryImpl{}

// NewRegistry creates an empty light registry with its combined bind group
// provider. GPU buffers are created when the scene initializes the provider
// against the renderer.
//
// Parameters:
//   - options: functional options to configure the registry
//
// Returns:
//   - Registry: the newly created registry
func NewRegistry(options ...RegistryOption) Registry {
	r := &registryImpl{
		mu:     &sync.Mutex{},
		lights: make(map[string]*lightImpl),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"lights_" + strconv.FormatUint(registryCount.Load(), 10),
		),
	}
	for _, option := range options {
		option(r)
	}
	registryCount.Add(1)
	return r
}

func (r *registryImpl) AddLight(name string, color mgl32.Vec3, projection camera.Projection, view camera.View) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) >= MaxLights-1 {
		return 0, ErrRegistryFull
	}
	if _, exists := r.lights[name]; exists {
		return 0, ErrDuplicateName
	}

	l := newLight(name, LightKindSpot, color, projection, view)
	index := len(r.order)
	l.onChange = func(changed *lightImpl) {
		rec := changed.Record()
		r.mu.Lock()
		defer r.mu.Unlock()
		r.flush(bind_group_provider.BufferWrite{
			Provider: r.bindGroupProvider,
			Binding:  ArrayBinding,
			Offset:   uint64(index) * RecordSize,
			Data:     rec.Marshal(),
		})
	}
	r.lights[name] = l
	r.order = append(r.order, l)

	rec := l.record
	r.flush(
		bind_group_provider.BufferWrite{
			Provider: r.bindGroupProvider,
			Binding:  ArrayBinding,
			Offset:   uint64(index) * RecordSize,
			Data:     rec.Marshal(),
		},
		bind_group_provider.BufferWrite{
			Provider: r.bindGroupProvider,
			Binding:  CountBinding,
			Offset:   0,
			Data:     MarshalCount(uint32(index + 1)),
		},
	)
	return index, nil
}

func (r *registryImpl) Get(name string) Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.lights[name]
	if !ok {
		return nil
	}
	return l
}

func (r *registryImpl) Lights() []Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Light, len(r.order))
	for i, l := range r.order {
		out[i] = l
	}
	return out
}

func (r *registryImpl) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

func (r *registryImpl) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

func (r *registryImpl) SetVisible(visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = visible
}

func (r *registryImpl) ToggleVisible() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = !r.visible
}

func (r *registryImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bindGroupProvider
}

func (r *registryImpl) SetWriter(w BufferWriter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writer = w
	if w != nil && len(r.pending) > 0 {
		w.WriteBuffers(r.pending)
		r.pending = nil
	}
}

func (r *registryImpl) PendingWrites() []bind_group_provider.BufferWrite {
	r.mu.Lock()
	defer r.mu.Unlock()
	writes := r.pending
	r.pending = nil
	return writes
}

// flush hands writes to the attached writer, or queues them until one is
// attached. Caller must hold the mutex.
func (r *registryImpl) flush(writes ...bind_group_provider.BufferWrite) {
	if r.writer != nil {
		r.writer.WriteBuffers(writes)
		return
	}
	r.pending = append(r.pending, writes...)
}
