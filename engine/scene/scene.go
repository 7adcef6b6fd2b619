package scene

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/common/logger"
	"github.com/Carmen-Shannon/umbra-go/engine/camera"
	"github.com/Carmen-Shannon/umbra-go/engine/light"
	"github.com/Carmen-Shannon/umbra-go/engine/model"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Canonical pipeline keys registered by the scene. Loaders default meshes to
// the lit mesh pipeline; the marker and shadow pipelines are internal to the
// scene's frame orchestration.
const (
	MeshPipelineKey   = "mesh"
	MarkerPipelineKey = "light_marker"
	ShadowPipelineKey = "shadow"
)

// Spot light frustum defaults used by AddLight. The shadow map layers are
// square so the projection aspect is fixed at 1; fovY is in degrees like
// camera.DefaultFov.
const (
	spotAspect = 1.0
	spotFovY   = 60.0
	spotNear   = 0.5
	spotFar    = 100.0
)

// Scene owns a Camera, a light Registry with its ShadowBaker, and the set of
// Models to draw. It registers the engine's render pipelines, wires every GPU
// bind group the shaders declare, and orchestrates the per-frame shadow bake
// followed by the lit main pass and the optional light marker pass.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// Registry returns the scene's light registry.
	Registry() light.Registry

	// Baker returns the scene's shadow baker.
	Baker() light.ShadowBaker

	// Init compiles the shader set, registers the mesh, light marker, and
	// shadow pipelines, creates the camera, lights, and shadow caster bind
	// groups, and allocates the layered shadow map with its comparison
	// sampler. Must be called once, after the renderer has a device and
	// before the first frame.
	//
	// Parameters:
	//   - width: surface width in pixels, used to size the shadow map
	//   - height: surface height in pixels, used to size the shadow map
	//
	// Returns:
	//   - error: an error if any pipeline or GPU resource fails to initialize
	Init(width, height int) error

	// AddModel registers a model for rendering, uploads its current instance
	// data, and hooks future instance changes so they restage through the
	// scene's worker pool. The model's mesh buffers must already be
	// initialized (the loader does this).
	//
	// Parameters:
	//   - m: the model to add
	AddModel(m model.Model)

	// Models returns the registered models in insertion order.
	//
	// Returns:
	//   - []model.Model: a snapshot of the registered models
	Models() []model.Model

	// AddLight registers a named spot light shining from position toward
	// target, with the scene's default shadow frustum. The light's GPU record
	// is staged immediately.
	//
	// Parameters:
	//   - name: unique light name
	//   - color: linear RGB light color
	//   - position: world-space light position
	//   - target: world-space point the light shines at
	//
	// Returns:
	//   - int: the light's stable registry index
	//   - error: light.ErrRegistryFull or light.ErrDuplicateName
	AddLight(name string, color, position, target mgl32.Vec3) (int, error)

	// SetMarkerModel sets the model drawn once per light during the marker
	// pass. The marker shader positions each instance at its light's record,
	// so the model needs no instance data of its own.
	//
	// Parameters:
	//   - m: the marker model, or nil to disable the pass
	SetMarkerModel(m model.Model)

	// Update advances the scene one tick: the camera controller folds held
	// key intents into the view, restaging the camera uniform when it
	// changed, and every registered light orbits one step about the world Y
	// axis.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last tick in seconds
	Update(deltaTime float32)

	// RenderFrame bakes the shadow map for every light, then records the main
	// pass (all models with the lit mesh pipeline) and the marker pass (when
	// the registry's visibility toggle is on), and presents.
	// Failure to acquire the surface texture is unrecoverable and halts the
	// process after logging.
	//
	// Returns:
	//   - error: an error if the shadow bake or a draw call fails
	RenderFrame() error

	// Resize reconfigures the surface, updates the camera's aspect ratio, and
	// recreates the shadow map array at the new dimensions.
	//
	// Parameters:
	//   - width: new surface width in pixels
	//   - height: new surface height in pixels
	Resize(width, height int)

	// HandleKeyDown routes a key press: L toggles the light marker pass,
	// everything else feeds the camera controller.
	//
	// Parameters:
	//   - keyCode: the virtual key code from the window
	HandleKeyDown(keyCode uint32)

	// HandleKeyUp routes a key release to the camera controller.
	//
	// Parameters:
	//   - keyCode: the virtual key code from the window
	HandleKeyUp(keyCode uint32)
}

type sceneImpl struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam      camera.Camera
	r        renderer.Renderer
	registry light.Registry
	baker    light.ShadowBaker

	models      []model.Model
	markerModel model.Model

	// shadowProvider carries the depth array view and comparison sampler the
	// mesh fragment shader samples shadows from (bind group 2).
	shadowProvider bind_group_provider.BindGroupProvider
	shadowTexture  *wgpu.Texture

	// stagingPool manages a bounded set of reusable goroutines for pushing
	// per-mesh instance buffers when a model's instances change.
	stagingPool    worker.DynamicWorkerPool
	stagingWorkers int
	taskID         atomic.Uint64

	// orbitStep is the per-tick rotation applied to every light's position
	// about the world Y axis, in radians.
	orbitStep float32

	initialized bool
}

// Compile-time interface compliance check
var _ Scene = &sceneImpl{}

// NewScene creates a scene with its own light registry and shadow baker. A
// camera and renderer must be supplied through options before Init is called.
//
// Parameters:
//   - name: the scene's identifier
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &sceneImpl{
		mu:             &sync.RWMutex{},
		name:           name,
		active:         true,
		registry:       light.NewRegistry(),
		baker:          light.NewShadowBaker(),
		stagingWorkers: runtime.NumCPU(),
		orbitStep:      mgl32.DegToRad(1.0),
	}

	for _, option := range options {
		option(s)
	}

	s.stagingPool = worker.NewDynamicWorkerPool(s.stagingWorkers, 256, 1*time.Second)
	return s
}

func (s *sceneImpl) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *sceneImpl) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *sceneImpl) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *sceneImpl) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *sceneImpl) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *sceneImpl) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *sceneImpl) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *sceneImpl) Registry() light.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

func (s *sceneImpl) Baker() light.ShadowBaker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baker
}

func (s *sceneImpl) Init(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cam == nil {
		return fmt.Errorf("scene %q has no camera", s.name)
	}
	if s.r == nil {
		return fmt.Errorf("scene %q has no renderer", s.name)
	}
	if s.initialized {
		return fmt.Errorf("scene %q already initialized", s.name)
	}

	set, err := shader.CompileShaderSet()
	if err != nil {
		return fmt.Errorf("failed to compile shader set: %w", err)
	}

	meshPipe := pipeline.NewPipeline(MeshPipelineKey,
		pipeline.WithVertexShader(set.MeshVertex),
		pipeline.WithFragmentShader(set.MeshFragment),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	markerPipe := pipeline.NewPipeline(MarkerPipelineKey,
		pipeline.WithVertexShader(set.MarkerVertex),
		pipeline.WithFragmentShader(set.MarkerFragment),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
	shadowPipe := pipeline.NewPipeline(ShadowPipelineKey,
		pipeline.WithVertexShader(set.ShadowVertex),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithDepthBias(light.ShadowDepthBias, light.ShadowDepthBiasSlope),
	)
	if err := s.r.RegisterPipelines(meshPipe, markerPipe, shadowPipe); err != nil {
		return fmt.Errorf("failed to register pipelines: %w", err)
	}

	// Camera uniform (group 0), staged with the current view so the first
	// frame renders from the right eye.
	if err := s.r.InitBindGroup(s.cam.BindGroupProvider(), shader.CameraBindGroupLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init camera bind group: %w", err)
	}
	s.stageCameraUniformLocked()

	// Light count + record array (group 1). The record array is also the
	// copy source for the shadow baker's scratch uniform, so it needs
	// CopySrc on top of the layout's usage.
	usage := map[int]wgpu.BufferUsage{light.ArrayBinding: wgpu.BufferUsageCopySrc}
	if err := s.r.InitBindGroup(s.registry.BindGroupProvider(), shader.LightsBindGroupLayout(), usage, nil); err != nil {
		return fmt.Errorf("failed to init lights bind group: %w", err)
	}
	s.registry.SetWriter(s.r)

	// Shadow caster scratch uniform (group 0 of the depth-only pipeline).
	if err := s.r.InitBindGroup(s.baker.ScratchBindGroupProvider(), shader.ShadowCasterBindGroupLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init shadow caster bind group: %w", err)
	}
	s.baker.SetPipelineKey(ShadowPipelineKey)

	if err := s.initShadowMapLocked(width, height); err != nil {
		return err
	}

	s.initialized = true
	return nil
}

// initShadowMapLocked (re)creates the layered shadow map, its comparison
// sampler, and the shadow sampling bind group. Caller must hold s.mu.
func (s *sceneImpl) initShadowMapLocked(width, height int) error {
	layerViews, arrayView, tex, err := s.r.CreateShadowMapArray(width, height, light.MaxLights)
	if err != nil {
		return fmt.Errorf("failed to create shadow map array: %w", err)
	}

	sampler, err := s.r.CreateComparisonSampler()
	if err != nil {
		return fmt.Errorf("failed to create comparison sampler: %w", err)
	}

	s.baker.SetShadowMap(layerViews, arrayView, sampler)

	if s.shadowTexture != nil {
		s.shadowTexture.Release()
	}
	s.shadowTexture = tex

	if s.shadowProvider == nil {
		s.shadowProvider = bind_group_provider.NewBindGroupProvider(s.name + "_shadow_map")
	}
	s.shadowProvider.SetTextureView(0, arrayView)
	s.shadowProvider.SetSampler(1, sampler)
	if err := s.r.InitBindGroup(s.shadowProvider, shader.ShadowMapBindGroupLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init shadow map bind group: %w", err)
	}
	return nil
}

func (s *sceneImpl) AddModel(m model.Model) {
	s.mu.Lock()
	s.models = append(s.models, m)
	s.mu.Unlock()

	m.SetOnInstancesChanged(s.stageInstances)
	if m.InstanceCount() > 0 {
		s.stageInstances(m)
	}
}

func (s *sceneImpl) Models() []model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Model, len(s.models))
	copy(out, s.models)
	return out
}

func (s *sceneImpl) AddLight(name string, color, position, target mgl32.Vec3) (int, error) {
	proj := camera.NewProjection(spotAspect, spotFovY, spotNear, spotFar)
	view := camera.NewView(position, target, mgl32.Vec3{0, 1, 0})
	return s.Registry().AddLight(name, color, proj, view)
}

func (s *sceneImpl) SetMarkerModel(m model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markerModel = m
}

func (s *sceneImpl) Update(_ float32) {
	s.mu.RLock()
	cam := s.cam
	registry := s.registry
	orbitStep := s.orbitStep
	s.mu.RUnlock()

	if cam != nil && cam.Update() {
		s.mu.RLock()
		s.stageCameraUniformLocked()
		s.mu.RUnlock()
	}

	if orbitStep != 0 {
		rot := mgl32.Rotate3DY(orbitStep)
		for _, l := range registry.Lights() {
			l.SetPosition(rot.Mul3x1(l.Position()))
		}
	}
}

// stageCameraUniformLocked pushes the camera's current uniform block to the
// GPU. Caller must hold s.mu (read or write).
func (s *sceneImpl) stageCameraUniformLocked() {
	if s.r == nil || s.cam == nil {
		return
	}
	uniform := s.cam.Uniform()
	s.r.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: s.cam.BindGroupProvider(),
		Binding:  0,
		Data:     uniform.Marshal(),
	}})
}

// stageInstances uploads a model's instance data to every mesh's instance
// buffer through the staging pool. Workers are reused across calls; a
// WaitGroup provides the completion barrier so callers observe fully staged
// buffers on return.
func (s *sceneImpl) stageInstances(m model.Model) {
	s.mu.RLock()
	r := s.r
	s.mu.RUnlock()
	if r == nil {
		return
	}

	data := m.InstanceData()

	var wg sync.WaitGroup
	for _, mesh := range m.Meshes() {
		wg.Add(1)
		provider := mesh.Provider
		meshName := mesh.Name
		s.stagingPool.SubmitTask(worker.Task{
			ID: int(s.taskID.Add(1)),
			Do: func() (any, error) {
				defer wg.Done()
				if err := r.WriteInstanceBuffer(provider, data); err != nil {
					logger.Log.Error("failed to stage instance buffer",
						zap.String("mesh", meshName),
						zap.Error(err),
					)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func (s *sceneImpl) RenderFrame() error {
	s.mu.RLock()
	active := s.active
	r := s.r
	cam := s.cam
	registry := s.registry
	baker := s.baker
	markerModel := s.markerModel
	shadowProvider := s.shadowProvider
	models := make([]model.Model, len(s.models))
	copy(models, s.models)
	s.mu.RUnlock()

	if !active || r == nil || cam == nil {
		return nil
	}

	if err := baker.Bake(r, registry, models); err != nil {
		return fmt.Errorf("shadow bake failed: %w", err)
	}

	if err := r.BeginFrame(); err != nil {
		// No surface texture means nothing can be presented this frame or
		// any after it; treat it as unrecoverable.
		logger.Log.Fatal("failed to acquire surface texture", zap.Error(err))
	}

	camProvider := cam.BindGroupProvider()
	lightsProvider := registry.BindGroupProvider()

	for _, m := range models {
		count := uint32(m.InstanceCount())
		if count == 0 {
			continue
		}
		mats := m.RenderMaterials()
		for _, mesh := range m.Meshes() {
			key := MeshPipelineKey
			var matProvider bind_group_provider.BindGroupProvider
			if mesh.MaterialIndex >= 0 && mesh.MaterialIndex < len(mats) {
				mat := mats[mesh.MaterialIndex]
				matProvider = mat.BindGroupProvider()
				if k := mat.PipelineKey(); k != "" {
					key = k
				}
			}
			bindGroups := []bind_group_provider.BindGroupProvider{camProvider, lightsProvider, shadowProvider, matProvider}
			if err := r.DrawCall(key, mesh.Provider, count, bindGroups); err != nil {
				r.EndFrame()
				return fmt.Errorf("draw failed for mesh %q: %w", mesh.Name, err)
			}
		}
	}

	if registry.Visible() && markerModel != nil && registry.Len() > 0 {
		// One instance per light; the marker vertex shader reads each
		// instance's transform straight from the light record array.
		count := uint32(registry.Len())
		bindGroups := []bind_group_provider.BindGroupProvider{camProvider, lightsProvider}
		for _, mesh := range markerModel.Meshes() {
			if err := r.DrawCall(MarkerPipelineKey, mesh.Provider, count, bindGroups); err != nil {
				r.EndFrame()
				return fmt.Errorf("marker draw failed for mesh %q: %w", mesh.Name, err)
			}
		}
	}

	r.EndFrame()
	r.Present()
	return nil
}

func (s *sceneImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return
	}
	s.r.Resize(width, height)

	if s.cam != nil {
		s.cam.SetAspect(float32(width) / float32(height))
		s.stageCameraUniformLocked()
	}

	if s.initialized {
		if err := s.initShadowMapLocked(width, height); err != nil {
			logger.Log.Error("failed to recreate shadow map on resize",
				zap.Int("width", width),
				zap.Int("height", height),
				zap.Error(err),
			)
		}
	}
}

func (s *sceneImpl) HandleKeyDown(keyCode uint32) {
	if int(keyCode) == common.KeyL {
		s.Registry().ToggleVisible()
		return
	}
	if cam := s.Camera(); cam != nil && cam.Controller() != nil {
		cam.Controller().Press(int(keyCode))
	}
}

func (s *sceneImpl) HandleKeyUp(keyCode uint32) {
	if cam := s.Camera(); cam != nil && cam.Controller() != nil {
		cam.Controller().Release(int(keyCode))
	}
}
