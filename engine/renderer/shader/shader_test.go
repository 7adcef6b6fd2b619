package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShaderValidatesEmbeddedSources(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		shaderType ShaderType
		source     string
		entryPoint string
	}{
		{"mesh vertex", "mesh_vs", ShaderTypeVertex, MeshShaderSource, "vs_main"},
		{"mesh fragment", "mesh_fs", ShaderTypeFragment, MeshShaderSource, "fs_main"},
		{"marker vertex", "marker_vs", ShaderTypeVertex, LightMarkerShaderSource, "vs_main"},
		{"marker fragment", "marker_fs", ShaderTypeFragment, LightMarkerShaderSource, "fs_main"},
		{"shadow vertex", "shadow_vs", ShaderTypeVertex, ShadowShaderSource, "vs_main"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShader(tt.key, tt.shaderType, tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.key, s.Key())
			assert.Equal(t, tt.entryPoint, s.EntryPoint())
			assert.Equal(t, tt.shaderType, s.ShaderType())
			require.NotNil(t, s.Module())
			assert.Equal(t, tt.source, s.Module().WGSLDescriptor.Code)
		})
	}
}

func TestNewShaderRejectsInvalidSource(t *testing.T) {
	_, err := NewShader("broken", ShaderTypeVertex, "fn vs_main( {")
	assert.Error(t, err)
}

func TestNewShaderRejectsMissingEntryPoint(t *testing.T) {
	// The shadow caster shader has no fragment stage.
	_, err := NewShader("shadow_fs", ShaderTypeFragment, ShadowShaderSource)
	assert.Error(t, err)
}

func TestShaderLayoutOptions(t *testing.T) {
	s, err := NewShader("mesh_vs", ShaderTypeVertex, MeshShaderSource,
		WithBindGroupLayout(0, CameraBindGroupLayout()),
		WithBindGroupLayout(1, LightsBindGroupLayout()),
		WithVertexLayouts(MeshVertexBufferLayout(), InstanceVertexBufferLayout()),
	)
	require.NoError(t, err)

	assert.Len(t, s.BindGroupLayoutDescriptors(), 2)
	assert.Equal(t, "camera_bind_group_layout", s.BindGroupLayoutDescriptor(0).Label)

	layouts := s.VertexLayouts()
	require.Len(t, layouts, 2)
	assert.Equal(t, uint64(32), layouts[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layouts[0].StepMode)
	assert.Equal(t, uint64(100), layouts[1].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, layouts[1].StepMode)
}

func TestVertexLayoutOffsets(t *testing.T) {
	mesh := MeshVertexBufferLayout()
	require.Len(t, mesh.Attributes, 3)
	assert.Equal(t, uint64(12), mesh.Attributes[1].Offset)
	assert.Equal(t, uint64(20), mesh.Attributes[2].Offset)

	instance := InstanceVertexBufferLayout()
	require.Len(t, instance.Attributes, 7)
	assert.Equal(t, uint64(64), instance.Attributes[4].Offset)
	assert.Equal(t, uint32(9), instance.Attributes[6].ShaderLocation)
}

func TestCompileShaderSet(t *testing.T) {
	set, err := CompileShaderSet()
	require.NoError(t, err)

	assert.Equal(t, "vs_main", set.MeshVertex.EntryPoint())
	assert.Equal(t, "fs_main", set.MeshFragment.EntryPoint())
	assert.Equal(t, "vs_main", set.MarkerVertex.EntryPoint())
	assert.Equal(t, "fs_main", set.MarkerFragment.EntryPoint())
	assert.Equal(t, "vs_main", set.ShadowVertex.EntryPoint())

	// The lit mesh pipeline binds four groups; the depth-only caster binds one.
	assert.Len(t, set.MeshFragment.BindGroupLayoutDescriptors(), 4)
	assert.Len(t, set.ShadowVertex.BindGroupLayoutDescriptors(), 1)

	// Shadow and mesh vertex stages share the same two vertex buffer slots.
	require.Len(t, set.ShadowVertex.VertexLayouts(), 2)
	assert.Equal(t, set.MeshVertex.VertexLayouts()[1].ArrayStride, set.ShadowVertex.VertexLayouts()[1].ArrayStride)
}
