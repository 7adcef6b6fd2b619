package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithBindGroupLayout declares the bind group layout descriptor for one group index
// referenced by the shader source. The renderer creates the GPU layout object from
// this descriptor during pipeline creation.
//
// Parameters:
//   - group: the bind group index (@group(N) in the source)
//   - descriptor: the layout descriptor for every binding in the group
//
// Returns:
//   - ShaderBuilderOption: a function that applies the layout option to a shader
func WithBindGroupLayout(group int, descriptor wgpu.BindGroupLayoutDescriptor) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = descriptor
	}
}

// WithVertexLayouts declares the vertex buffer layouts this shader's vertex stage
// consumes, in buffer slot order.
//
// Parameters:
//   - layouts: the vertex buffer layouts to declare
//
// Returns:
//   - ShaderBuilderOption: a function that applies the vertex layout option to a shader
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}
