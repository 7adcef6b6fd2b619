package model

import (
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Mesh is one drawable chunk of a model: a vertex/index range with a single
// material. The loader assigns each mesh a stable ID and a provider that the
// renderer fills with vertex, index, and instance buffers.
type Mesh struct {
	// ID is the loader-assigned identity for this mesh.
	ID uuid.UUID

	// Name is the mesh identifier from the source file (object/group name).
	Name string

	// MaterialIndex selects the model material this mesh is drawn with.
	MaterialIndex int

	// VertexData is the packed GPUVertex stream (32 bytes per vertex).
	VertexData []byte

	// IndexData is the packed little-endian uint32 index stream.
	IndexData []byte

	// IndexCount is the number of indices in IndexData.
	IndexCount int

	// Provider holds the GPU buffers for this mesh after renderer init.
	Provider bind_group_provider.BindGroupProvider
}

// Instance is one placed copy of a model: a position and rotation lowered to
// the raw model matrix plus the precomputed normal matrix the vertex shader
// consumes.
type Instance struct {
	// Position is the instance's world-space translation.
	Position mgl32.Vec3

	// Rotation is the instance's orientation.
	Rotation mgl32.Quat
}

// ModelMatrix builds the instance's model-to-world matrix (translation after
// rotation).
//
// Returns:
//   - mgl32.Mat4: the model matrix
func (i Instance) ModelMatrix() mgl32.Mat4 {
	return mgl32.Translate3D(i.Position.X(), i.Position.Y(), i.Position.Z()).Mul4(i.Rotation.Mat4())
}

// GPUData lowers the instance to its GPU record. The normal matrix is the
// inverse-transpose of the model matrix's upper-left 3x3, computed here on
// the CPU so the vertex shader doesn't invert a matrix per vertex.
//
// Returns:
//   - GPUInstanceData: the per-instance vertex stream record
func (i Instance) GPUData() GPUInstanceData {
	m := i.ModelMatrix()
	n := m.Mat3().Inv().Transpose()
	return GPUInstanceData{
		Model:  m,
		Normal: [9]float32(n),
	}
}

// GridInstances lays out count x count instances spaced apart on the XZ plane,
// centered on the origin, each rotated 45 degrees about its own position
// direction so the grid doesn't read as a wall of identical copies. An
// instance at the exact center gets the identity rotation, since a zero
// position can't serve as a rotation axis.
//
// Parameters:
//   - count: instances per side of the grid
//   - spacing: distance between neighboring instances in world units
//
// Returns:
//   - []Instance: the count*count placed instances
func GridInstances(count int, spacing float32) []Instance {
	half := spacing * float32(count-1) / 2
	instances := make([]Instance, 0, count*count)
	for z := 0; z < count; z++ {
		for x := 0; x < count; x++ {
			position := mgl32.Vec3{
				float32(x)*spacing - half,
				0,
				float32(z)*spacing - half,
			}

			rotation := mgl32.QuatIdent()
			if position.Len() > 0 {
				rotation = mgl32.QuatRotate(mgl32.DegToRad(45), position.Normalize())
			}

			instances = append(instances, Instance{Position: position, Rotation: rotation})
		}
	}
	return instances
}
