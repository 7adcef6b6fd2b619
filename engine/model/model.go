package model

import (
	"sync"

	"github.com/Carmen-Shannon/umbra-go/common"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/material"
)

// model is the implementation of the Model interface.
type model struct {
	mu                 *sync.Mutex
	name               string
	meshes             []Mesh
	importedMaterials  []common.ImportedMaterial
	renderMaterials    []material.Material
	instances          []Instance
	instanceData       []byte
	onInstancesChanged func(Model)
}

// Model defines the interface for a loaded 3D model.
// A Model is a GPU-ready container holding one or more meshes, the materials
// imported alongside them, and the set of world-space instances the model is
// drawn at. It is produced by the Loader after importing a model file.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Meshes retrieves the drawable meshes of this model. Each mesh carries
	// its own vertex/index data and GPU provider.
	//
	// Returns:
	//   - []Mesh: the model meshes
	Meshes() []Mesh

	// ImportedMaterials retrieves the raw material properties imported from the model file.
	//
	// Returns:
	//   - []common.ImportedMaterial: the imported materials
	ImportedMaterials() []common.ImportedMaterial

	// RenderMaterials retrieves the render-ready materials for this model.
	// These are GPU-configured Material instances used during DrawCalls,
	// as opposed to the raw common.ImportedMaterial data from the loader.
	//
	// Returns:
	//   - []material.Material: the render-ready materials
	RenderMaterials() []material.Material

	// SetRenderMaterials replaces the render-ready material list for this model.
	//
	// Parameters:
	//   - mats: the render-ready materials to set
	SetRenderMaterials(mats []material.Material)

	// Instances retrieves a copy of the world-space instances this model is drawn at.
	//
	// Returns:
	//   - []Instance: the model instances
	Instances() []Instance

	// InstanceCount returns the number of instances this model is drawn at.
	// A model with zero instances is skipped by all render passes.
	//
	// Returns:
	//   - int: the instance count
	InstanceCount() int

	// SetInstances replaces the instance list, recomputes the packed
	// per-instance GPU stream, and notifies the change hook so the renderer
	// can re-upload the instance buffers.
	//
	// Parameters:
	//   - instances: the instances to set
	SetInstances(instances []Instance)

	// InstanceData retrieves the packed per-instance GPU stream (one
	// GPUInstanceData record per instance, in instance order).
	//
	// Returns:
	//   - []byte: the instance data
	InstanceData() []byte

	// SetOnInstancesChanged installs the hook invoked after SetInstances has
	// recomputed the instance stream. The scene uses this to stage the
	// instance buffer upload.
	//
	// Parameters:
	//   - fn: the change hook, or nil to clear it
	SetOnInstancesChanged(fn func(Model))
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mu: &sync.Mutex{},
	}
	for _, opt := range options {
		opt(m)
	}
	m.instanceData = MarshalInstances(m.instances)
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Meshes() []Mesh {
	return m.meshes
}

func (m *model) ImportedMaterials() []common.ImportedMaterial {
	return m.importedMaterials
}

func (m *model) RenderMaterials() []material.Material {
	return m.renderMaterials
}

func (m *model) SetRenderMaterials(mats []material.Material) {
	m.renderMaterials = mats
}

func (m *model) Instances() []Instance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Instance, len(m.instances))
	copy(out, m.instances)
	return out
}

func (m *model) InstanceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.instances)
}

func (m *model) SetInstances(instances []Instance) {
	m.mu.Lock()
	m.instances = instances
	m.instanceData = MarshalInstances(instances)
	onChange := m.onInstancesChanged
	m.mu.Unlock()
	if onChange != nil {
		onChange(m)
	}
}

func (m *model) InstanceData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instanceData
}

func (m *model) SetOnInstancesChanged(fn func(Model)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onInstancesChanged = fn
}
