package light

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/umbra-go/engine/model"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
)

// ScratchBinding is the binding slot of the baker's scratch uniform inside its
// bind group, matching @group(0) @binding(0) of the shadow vertex shader.
const ScratchBinding = 0

// Depth bias applied to the shadow pipeline's rasterizer state. Constant units
// plus a slope-scaled term keep shadow acne down without visibly detaching the
// shadows.
const (
	ShadowDepthBias      = 2
	ShadowDepthBiasSlope = 2.0
)

// ShadowRenderer is the slice of the renderer the baker drives. Copies and
// passes are recorded into one command stream per bake, so pass i+1 never
// observes the scratch buffer before pass i has consumed it.
type ShadowRenderer interface {
	// BeginShadowFrame opens the shadow command encoder for this frame.
	//
	// Returns:
	//   - error: error if the encoder could not be created
	BeginShadowFrame() error

	// CopyBufferToBuffer records a buffer-to-buffer copy on the shadow
	// encoder. Must be called outside a shadow pass.
	//
	// Parameters:
	//   - src: the provider owning the source buffer
	//   - srcBinding: the source buffer's binding slot
	//   - srcOffset: byte offset into the source buffer
	//   - dst: the provider owning the destination buffer
	//   - dstBinding: the destination buffer's binding slot
	//   - dstOffset: byte offset into the destination buffer
	//   - size: number of bytes to copy
	//
	// Returns:
	//   - error: error if either buffer is missing
	CopyBufferToBuffer(src bind_group_provider.BindGroupProvider, srcBinding int, srcOffset uint64, dst bind_group_provider.BindGroupProvider, dstBinding int, dstOffset, size uint64) error

	// BeginShadowPass opens a depth-only render pass targeting the given
	// depth view, clearing depth to 1.0.
	//
	// Parameters:
	//   - depthView: the depth texture view to render into
	BeginShadowPass(depthView *wgpu.TextureView)

	// ShadowDrawCall issues an instanced indexed draw into the current shadow pass.
	//
	// Parameters:
	//   - pipelineKey: the registered shadow pipeline to bind
	//   - meshProvider: provider holding vertex/index/instance buffers
	//   - instanceCount: number of instances to draw
	//   - bindGroups: bind groups in slot order
	//
	// Returns:
	//   - error: error if the pipeline or buffers are missing
	ShadowDrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndShadowPass closes the current shadow pass.
	EndShadowPass()

	// EndShadowFrame submits the shadow command stream to the queue.
	EndShadowFrame()
}

type shadowBakerImpl struct {
	mu *sync.Mutex

	scratch     bind_group_provider.BindGroupProvider
	pipelineKey string

	layerViews []*wgpu.TextureView
	arrayView  *wgpu.TextureView
	sampler    *wgpu.Sampler
}

// ShadowBaker renders one depth-only pass per registered light each frame,
// populating one layer of the shadow map array per light. It owns a single
// 96-byte scratch uniform buffer that is reloaded from the registry's packed
// array buffer between passes, so every pass binds the same bind group.
type ShadowBaker interface {
	// ScratchBindGroupProvider returns the provider for the scratch uniform
	// bound at slot 0 of every shadow pass.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the scratch provider
	ScratchBindGroupProvider() bind_group_provider.BindGroupProvider

	// PipelineKey returns the registered shadow pipeline key.
	//
	// Returns:
	//   - string: the pipeline key, empty until SetPipelineKey
	PipelineKey() string

	// SetPipelineKey records the key of the registered depth-only pipeline.
	//
	// Parameters:
	//   - key: the pipeline key
	SetPipelineKey(key string)

	// SetShadowMap stores the shadow map array resources created by the
	// renderer: one depth view per array layer for baking, the combined
	// array view and comparison sampler for the lit pass.
	//
	// Parameters:
	//   - layerViews: per-layer depth views (MaxLights entries)
	//   - arrayView: the texture_depth_2d_array view
	//   - sampler: the comparison sampler
	SetShadowMap(layerViews []*wgpu.TextureView, arrayView *wgpu.TextureView, sampler *wgpu.Sampler)

	// ArrayView returns the depth array view the lit pass samples.
	//
	// Returns:
	//   - *wgpu.TextureView: the array view or nil
	ArrayView() *wgpu.TextureView

	// Sampler returns the comparison sampler for shadow lookups.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler or nil
	Sampler() *wgpu.Sampler

	// Bake records and submits the shadow pass sequence for every light in
	// registry order: copy the light's record into the scratch buffer, open a
	// depth-only pass on the light's array layer, and draw every mesh of
	// every model instanced. Every light is baked unconditionally; there is
	// no dirty tracking.
	//
	// Parameters:
	//   - r: the shadow renderer to record into
	//   - registry: the light registry to bake
	//   - models: the scene models to draw into each shadow map
	//
	// Returns:
	//   - error: error if recording fails
	Bake(r ShadowRenderer, registry Registry, models []model.Model) error
}

var _ ShadowBaker = &shadowBakerImpl{}

// NewShadowBaker creates a ShadowBaker with its scratch bind group provider.
// GPU resources (scratch buffer, shadow map array, pipeline) are created when
// the scene initializes the baker against the renderer.
//
// Returns:
//   - ShadowBaker: the newly created baker
func NewShadowBaker() ShadowBaker {
	return &shadowBakerImpl{
		mu:      &sync.Mutex{},
		scratch: bind_group_provider.NewBindGroupProvider("shadow_scratch"),
	}
}

func (b *shadowBakerImpl) ScratchBindGroupProvider() bind_group_provider.BindGroupProvider {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scratch
}

func (b *shadowBakerImpl) PipelineKey() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pipelineKey
}

func (b *shadowBakerImpl) SetPipelineKey(key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pipelineKey = key
}

func (b *shadowBakerImpl) SetShadowMap(layerViews []*wgpu.TextureView, arrayView *wgpu.TextureView, sampler *wgpu.Sampler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.layerViews = layerViews
	b.arrayView = arrayView
	b.sampler = sampler
}

func (b *shadowBakerImpl) ArrayView() *wgpu.TextureView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.arrayView
}

func (b *shadowBakerImpl) Sampler() *wgpu.Sampler {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sampler
}

func (b *shadowBakerImpl) Bake(r ShadowRenderer, registry Registry, models []model.Model) error {
	b.mu.Lock()
	scratch := b.scratch
	pipelineKey := b.pipelineKey
	layerViews := b.layerViews
	b.mu.Unlock()

	lights := registry.Lights()
	if len(lights) == 0 || pipelineKey == "" {
		return nil
	}
	if len(layerViews) < len(lights) {
		return fmt.Errorf("shadow map has %d layers for %d lights", len(layerViews), len(lights))
	}

	if err := r.BeginShadowFrame(); err != nil {
		return fmt.Errorf("failed to begin shadow frame: %w", err)
	}

	src := registry.BindGroupProvider()
	bindGroups := []bind_group_provider.BindGroupProvider{scratch}
	for i := range lights {
		if err := r.CopyBufferToBuffer(src, ArrayBinding, uint64(i)*RecordSize, scratch, ScratchBinding, 0, RecordSize); err != nil {
			// The frame encoder is already open; finish it so the next bake
			// can start cleanly.
			r.EndShadowFrame()
			return fmt.Errorf("failed to copy light record %d into scratch buffer: %w", i, err)
		}

		r.BeginShadowPass(layerViews[i])
		for _, m := range models {
			count := uint32(m.InstanceCount())
			if count == 0 {
				continue
			}
			for _, mesh := range m.Meshes() {
				if err := r.ShadowDrawCall(pipelineKey, mesh.Provider, count, bindGroups); err != nil {
					r.EndShadowPass()
					r.EndShadowFrame()
					return fmt.Errorf("shadow draw failed for mesh %q: %w", mesh.Name, err)
				}
			}
		}
		r.EndShadowPass()
	}

	r.EndShadowFrame()
	return nil
}
