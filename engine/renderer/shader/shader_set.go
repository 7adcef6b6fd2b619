package shader

import "fmt"

// Canonical shader keys used by the pipeline registry.
const (
	MeshVertexShaderKey     = "mesh_vertex"
	MeshFragmentShaderKey   = "mesh_fragment"
	MarkerVertexShaderKey   = "light_marker_vertex"
	MarkerFragmentShaderKey = "light_marker_fragment"
	ShadowVertexShaderKey   = "shadow_vertex"
)

// ShaderSet holds every compiled shader the engine's pipelines need. The set is
// built once at startup by CompileShaderSet and treated as immutable afterwards;
// pipeline registration consumes it directly.
type ShaderSet struct {
	// MeshVertex and MeshFragment are the two stages of the lit mesh shader.
	MeshVertex   Shader
	MeshFragment Shader

	// MarkerVertex and MarkerFragment are the two stages of the unlit light
	// marker shader.
	MarkerVertex   Shader
	MarkerFragment Shader

	// ShadowVertex is the depth-only shadow caster stage.
	ShadowVertex Shader
}

// CompileShaderSet parses, lowers, and validates every embedded shader source
// and returns the complete set with the engine's canonical bind group and
// vertex buffer layouts attached. Any validation failure aborts the whole set,
// so a successful return means every pipeline the engine registers is backed
// by a shader that already passed front-end validation.
//
// Returns:
//   - *ShaderSet: the compiled shader set
//   - error: an error if any source fails to parse or validate
func CompileShaderSet() (*ShaderSet, error) {
	meshVertex, err := NewShader(MeshVertexShaderKey, ShaderTypeVertex, MeshShaderSource,
		WithBindGroupLayout(0, CameraBindGroupLayout()),
		WithVertexLayouts(MeshVertexBufferLayout(), InstanceVertexBufferLayout()),
	)
	if err != nil {
		return nil, fmt.Errorf("mesh vertex shader: %w", err)
	}

	meshFragment, err := NewShader(MeshFragmentShaderKey, ShaderTypeFragment, MeshShaderSource,
		WithBindGroupLayout(0, CameraBindGroupLayout()),
		WithBindGroupLayout(1, LightsBindGroupLayout()),
		WithBindGroupLayout(2, ShadowMapBindGroupLayout()),
		WithBindGroupLayout(3, MaterialBindGroupLayout()),
	)
	if err != nil {
		return nil, fmt.Errorf("mesh fragment shader: %w", err)
	}

	markerVertex, err := NewShader(MarkerVertexShaderKey, ShaderTypeVertex, LightMarkerShaderSource,
		WithBindGroupLayout(0, CameraBindGroupLayout()),
		WithBindGroupLayout(1, LightsBindGroupLayout()),
		WithVertexLayouts(MeshVertexBufferLayout()),
	)
	if err != nil {
		return nil, fmt.Errorf("light marker vertex shader: %w", err)
	}

	markerFragment, err := NewShader(MarkerFragmentShaderKey, ShaderTypeFragment, LightMarkerShaderSource)
	if err != nil {
		return nil, fmt.Errorf("light marker fragment shader: %w", err)
	}

	shadowVertex, err := NewShader(ShadowVertexShaderKey, ShaderTypeVertex, ShadowShaderSource,
		WithBindGroupLayout(0, ShadowCasterBindGroupLayout()),
		WithVertexLayouts(MeshVertexBufferLayout(), InstanceVertexBufferLayout()),
	)
	if err != nil {
		return nil, fmt.Errorf("shadow vertex shader: %w", err)
	}

	return &ShaderSet{
		MeshVertex:     meshVertex,
		MeshFragment:   meshFragment,
		MarkerVertex:   markerVertex,
		MarkerFragment: markerFragment,
		ShadowVertex:   shadowVertex,
	}, nil
}
