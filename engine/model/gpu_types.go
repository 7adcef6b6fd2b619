package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUVertex layout exactly (32 bytes, tightly packed vertex stream).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 32 bytes, vertex-buffer packed (no padding).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (@location(0))
	TexCoord [2]float32 // offset 12: UV texture coordinate (@location(1))
	Normal   [3]float32 // offset 20: vertex normal for lighting (@location(2))
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (32)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.TexCoord[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Normal[2]))
	return buf
}

// MarshalVertices packs a vertex slice into one contiguous buffer for upload.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: the packed vertex stream
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*32)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices packs an index slice into a little-endian uint32 buffer.
//
// Parameters:
//   - indices: the triangle indices to pack
//
// Returns:
//   - []byte: the packed index stream
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// GPUInstanceDataSource is the canonical WGSL definition of the InstanceInput struct.
// Matches GPUInstanceData layout exactly (100 bytes, vertex-buffer packed).
//
//go:embed assets/instance.wgsl
var GPUInstanceDataSource string

// GPUInstanceData is the per-instance vertex stream record: the model matrix
// across @location(3)-@location(6) and the normal matrix columns across
// @location(7)-@location(9). The buffer it lives in advances once per
// instance (step mode Instance), not per vertex.
// Size: 100 bytes, vertex-buffer packed (no padding).
type GPUInstanceData struct {
	Model  mgl32.Mat4 // offset  0: model-to-world transform (4 x Float32x4)
	Normal [9]float32 // offset 64: inverse-transpose upper-left 3x3, column-major (3 x Float32x3)
}

// Size returns the size of the GPUInstanceData struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (100)
func (g *GPUInstanceData) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstanceData struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 100-byte buffer ready for GPU upload
func (g *GPUInstanceData) Marshal() []byte {
	buf := make([]byte, 100)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 9 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	return buf
}

// MarshalInstances lowers an instance slice to the packed per-instance stream.
//
// Parameters:
//   - instances: the instances to lower
//
// Returns:
//   - []byte: the packed instance stream
func MarshalInstances(instances []Instance) []byte {
	buf := make([]byte, 0, len(instances)*100)
	for i := range instances {
		data := instances[i].GPUData()
		buf = append(buf, data.Marshal()...)
	}
	return buf
}
