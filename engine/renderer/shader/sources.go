package shader

import _ "embed"

// MeshShaderSource is the lit mesh shader: instanced geometry shaded by every
// registered light with hard shadows from the layered shadow map. Provides
// both the vs_main and fs_main entry points.
//
//go:embed assets/mesh.wgsl
var MeshShaderSource string

// LightMarkerShaderSource is the unlit light marker shader: one small instanced
// copy of the marker mesh per registered light, colored by the light's color.
//
//go:embed assets/light_marker.wgsl
var LightMarkerShaderSource string

// ShadowShaderSource is the depth-only shadow caster shader: vertex stage only,
// projecting instanced geometry through the light record bound at group 0.
//
//go:embed assets/shadow.wgsl
var ShadowShaderSource string
