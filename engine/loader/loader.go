package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/common/logger"
	"github.com/Carmen-Shannon/umbra-go/engine/model"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/material"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ/MTL loader backend.
	BackendTypeOBJ LoaderBackendType = iota
)

// fallbackTextureSize is the edge length of generated noise textures for
// models imported without a material library.
const fallbackTextureSize = 256

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	renderer renderer.Renderer

	pipelineKey string

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format behind a generic backend and manages a cache of
// previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.obj → OBJ backend).
	// When a Renderer is set, mesh buffers and material GPU resources (textures,
	// samplers, bind groups) are initialized during the import.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	// Material library references cannot be resolved from a stream, so the model
	// gets a generated fallback material.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// InitMaterialGPU initializes GPU resources (texture, sampler, bind group)
	// for a render material against the engine's material bind group layout.
	// This is required for procedural/hand-built models that bypass the Load
	// pipeline but need to render with lit fragment shaders. Materials without
	// a diffuse texture get a generated solid-color texture built from the
	// diffuse color.
	//
	// Parameters:
	//   - mat: the Material to initialize GPU resources on
	//   - providerName: a unique name for the material's bind group provider
	//
	// Returns:
	//   - error: error if GPU resource creation fails
	InitMaterialGPU(mat material.Material, providerName string) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeOBJ)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:          sync.RWMutex{},
		pipelineKey: "mesh",
		modelCache:  make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeOBJ:
		l.backend = newOBJLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	imported, err := l.backend.LoadReader(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m, err := l.importedToModel(imported)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) InitMaterialGPU(mat material.Material, providerName string) error {
	if l.renderer == nil {
		return fmt.Errorf("loader: cannot InitMaterialGPU without a Renderer")
	}
	return l.initMaterialGPU(mat, providerName)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only Wavefront OBJ is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".obj":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// importedToModel converts an ImportedModel (CPU data) into a Model (engine-ready).
// Each imported mesh gets its own BindGroupProvider with vertex and index buffers
// uploaded via InitMeshBuffers when a Renderer is available, and each imported
// material becomes a render-ready Material with GPU resources. Models imported
// without any materials get a generated noise-textured fallback material so
// every mesh can bind the material group.
//
// Parameters:
//   - imported: the CPU-side ImportedModel containing mesh and material data
//
// Returns:
//   - model.Model: the engine-ready Model with GPU mesh resources
//   - error: error if GPU resource creation fails
func (l *loader) importedToModel(imported *ImportedModel) (model.Model, error) {
	importedMats := imported.Materials
	if len(importedMats) == 0 {
		// No material library at all: bake a noise texture so the model
		// doesn't render as a flat fill.
		logger.Log.Info("model has no materials, generating fallback", zap.String("model", imported.Name))
		staging := NoiseTexture(fallbackTextureSize, int64(len(imported.Meshes)))
		importedMats = []common.ImportedMaterial{{
			Name:         imported.Name + "_fallback",
			DiffuseColor: [4]float32{1, 1, 1, 1},
			DiffuseTexture: &common.ImportedTexture{
				Name:   imported.Name + "_noise",
				Pixels: staging.Pixels,
				Width:  int(staging.Width),
				Height: int(staging.Height),
			},
		}}
	}

	materialIndex := make(map[string]int, len(importedMats))
	for i, mat := range importedMats {
		materialIndex[mat.Name] = i
	}

	meshes := make([]model.Mesh, 0, len(imported.Meshes))
	for i, im := range imported.Meshes {
		idx, ok := materialIndex[im.MaterialName]
		if !ok {
			if im.MaterialName != "" {
				logger.Log.Warn("mesh references unknown material",
					zap.String("mesh", im.Name),
					zap.String("material", im.MaterialName))
			}
			idx = 0
		}

		mesh := model.Mesh{
			ID:            uuid.New(),
			Name:          im.Name,
			MaterialIndex: idx,
			VertexData:    model.MarshalVertices(im.Vertices),
			IndexData:     model.MarshalIndices(im.Indices),
			IndexCount:    len(im.Indices),
			Provider:      bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_mesh_%d", imported.Name, i)),
		}

		if l.renderer != nil {
			if err := l.renderer.InitMeshBuffers(mesh.Provider, mesh.VertexData, mesh.IndexData, mesh.IndexCount, nil); err != nil {
				return nil, fmt.Errorf("failed to init mesh buffers for %q: %w", im.Name, err)
			}
		}

		meshes = append(meshes, mesh)
	}

	// Convert imported materials into render-ready Materials with GPU resources.
	renderMats := make([]material.Material, len(importedMats))
	for i, imp := range importedMats {
		mat := material.NewMaterial(
			material.WithName(imp.Name),
			material.WithDiffuseColor(imp.DiffuseColor),
			material.WithDiffuseTexture(imp.DiffuseTexture),
			material.WithPipelineKey(l.pipelineKey),
		)

		if l.renderer != nil {
			providerName := fmt.Sprintf("%s_material_%d", imported.Name, i)
			if err := l.initMaterialGPU(mat, providerName); err != nil {
				return nil, fmt.Errorf("failed to init material GPU resources for %q material %d: %w", imported.Name, i, err)
			}
		}

		renderMats[i] = mat
	}

	mdl := model.NewModel(
		model.WithName(imported.Name),
		model.WithMeshes(meshes...),
		model.WithImportedMaterials(importedMats),
		model.WithRenderMaterials(renderMats...),
	)

	return mdl, nil
}

// initMaterialGPU creates GPU resources (texture, sampler, bind group) for a
// single Material against the engine's material bind group layout: the diffuse
// texture at binding 0 and its filtering sampler at binding 1. Materials
// without a diffuse texture get a 1x1 solid-color texture built from the
// diffuse color so the bind group shape stays uniform across materials.
//
// Parameters:
//   - mat: the Material to initialize GPU resources on
//   - providerName: a unique name for the material's bind group provider
//
// Returns:
//   - error: error if GPU resource creation fails
func (l *loader) initMaterialGPU(mat material.Material, providerName string) error {
	provider := bind_group_provider.NewBindGroupProvider(providerName)

	staging := SolidColorTexture(mat.DiffuseColor())
	samplerData := common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}

	if tex := mat.DiffuseTexture(); tex != nil {
		if len(tex.Pixels) > 0 {
			// Generated texture: already raw RGBA, no decode needed.
			staging = common.TextureStagingData{
				Pixels: tex.Pixels,
				Width:  uint32(tex.Width),
				Height: uint32(tex.Height),
			}
		} else {
			pixels, width, height, err := tex.Decode()
			if err != nil {
				logger.Log.Warn("failed to decode diffuse texture, falling back to solid color",
					zap.String("material", mat.Name()),
					zap.Error(err))
			} else {
				staging = common.TextureStagingData{
					Pixels: pixels,
					Width:  width,
					Height: height,
				}
			}
		}
		if tex.SamplerData != nil {
			samplerData = *tex.SamplerData
		}
	}

	if err := l.renderer.InitTextureView(provider, 0, staging); err != nil {
		return fmt.Errorf("failed to init diffuse texture view: %w", err)
	}
	if err := l.renderer.InitSampler(provider, 1, samplerData); err != nil {
		return fmt.Errorf("failed to init diffuse sampler: %w", err)
	}
	if err := l.renderer.InitBindGroup(provider, shader.MaterialBindGroupLayout(), nil, nil); err != nil {
		return fmt.Errorf("failed to init material bind group: %w", err)
	}

	mat.SetBindGroupProvider(provider)
	return nil
}
