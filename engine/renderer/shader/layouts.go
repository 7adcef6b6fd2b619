package shader

import "github.com/cogentcore/webgpu/wgpu"

// The functions below declare the engine's canonical bind group layouts and
// vertex buffer layouts. Pipelines that share a group index must use the same
// descriptor so their bind groups stay interchangeable across draw calls.

// CameraBindGroupLayout is the layout for group 0: a single uniform buffer
// holding the camera view position and view-projection matrix.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the camera group layout
func CameraBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "camera_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 80,
				},
			},
		},
	}
}

// LightsBindGroupLayout is the layout for group 1: the active light count at
// binding 0 and the fixed-capacity light record array at binding 1.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the lights group layout
func LightsBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "lights_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 4,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 960, // 10 records x 96 bytes
				},
			},
		},
	}
}

// ShadowMapBindGroupLayout is the layout for group 2: the layered shadow depth
// texture and its comparison sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the shadow map group layout
func ShadowMapBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "shadow_map_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeDepth,
					ViewDimension: wgpu.TextureViewDimension2DArray,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeComparison,
				},
			},
		},
	}
}

// MaterialBindGroupLayout is the layout for the per-mesh material group: the
// diffuse texture and its filtering sampler.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the material group layout
func MaterialBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "material_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// ShadowCasterBindGroupLayout is the layout for group 0 of the depth-only
// shadow pipeline: a single uniform buffer holding one light record.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the shadow caster group layout
func ShadowCasterBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "shadow_caster_bind_group_layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 96,
				},
			},
		},
	}
}

// MeshVertexBufferLayout is the per-vertex stream layout for buffer slot 0:
// position, texture coordinate, and normal packed into 32 bytes.
//
// Returns:
//   - wgpu.VertexBufferLayout: the mesh vertex layout
func MeshVertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 32,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 20, ShaderLocation: 2},
		},
	}
}

// InstanceVertexBufferLayout is the per-instance stream layout for buffer slot 1:
// the model matrix across four Float32x4 attributes and the normal matrix across
// three Float32x3 attributes, packed into 100 bytes, advancing once per instance.
//
// Returns:
//   - wgpu.VertexBufferLayout: the instance layout
func InstanceVertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 100,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 3},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 4},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 32, ShaderLocation: 5},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 48, ShaderLocation: 6},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 64, ShaderLocation: 7},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 76, ShaderLocation: 8},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 88, ShaderLocation: 9},
		},
	}
}
