package material

import (
	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"
	"github.com/google/uuid"
)

// material is the implementation of the Material interface.
type material struct {
	id                uuid.UUID
	name              string
	diffuseColor      [4]float32
	diffuseTexture    *common.ImportedTexture
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material, encapsulating the surface
// properties imported from an MTL definition and the GPU resource bindings needed
// for draw calls.
//
// Surface properties (name, diffuse color, diffuse texture) are set at load time
// and are read-only through this interface. GPU resource references (pipeline key,
// bind group provider) are mutable so they can be configured after construction
// during the Loader GPU-init phase. Materials without a diffuse texture get a
// generated solid-color texture built from the diffuse color, so every material
// binds the same texture-and-sampler group shape.
type Material interface {
	// ID retrieves the loader-assigned identity for this material.
	//
	// Returns:
	//   - uuid.UUID: the material ID
	ID() uuid.UUID

	// Name retrieves the material identifier from the source file.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// DiffuseColor retrieves the diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the diffuse color as RGBA values
	DiffuseColor() [4]float32

	// DiffuseTexture retrieves the diffuse texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		id:           uuid.New(),
		diffuseColor: [4]float32{1, 1, 1, 1},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) ID() uuid.UUID {
	return m.id
}

func (m *material) Name() string {
	return m.name
}

func (m *material) DiffuseColor() [4]float32 {
	return m.diffuseColor
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
