package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the number of slots in the packed light array buffer and the
// layer count of the shadow map array texture. The registry's usable capacity
// is one below this (see Registry).
const MaxLights = 10

// GPULightRecordSource is the canonical WGSL definition of the Light struct.
// Matches GPULightRecord layout exactly (96 bytes, std140 aligned).
//
//go:embed assets/light_record.wgsl
var GPULightRecordSource string

// GPULightRecord is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightRecordSource).
// Size: 96 bytes (std140 / WGSL aligned).
type GPULightRecord struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	_pad0    float32    // offset 12: padding to 16-byte alignment
	Color    [3]float32 // offset 16: RGB color (vec3<f32>)
	_pad1    float32    // offset 28: padding to 16-byte alignment
	ViewProj mgl32.Mat4 // offset 32: light view-projection matrix (mat4x4<f32>)
}

// Size returns the size of the GPULightRecord struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPULightRecord) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightRecord struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPULightRecord) Marshal() []byte {
	buf := make([]byte, 96)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], 0) // padding
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], 0) // padding
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(g.ViewProj[i]))
	}
	return buf
}

// RecordSize is the marshaled size of one GPULightRecord in the packed array
// buffer. A light's record lives at byte offset index * RecordSize.
const RecordSize = 96

// CountSize is the size of the active-count uniform buffer in bytes.
const CountSize = 4

// MarshalCount serializes the active light count into the 4-byte buffer the
// count uniform expects.
//
// Parameters:
//   - count: the number of lights in the registry
//
// Returns:
//   - []byte: 4-byte little-endian buffer ready for GPU upload
func MarshalCount(count uint32) []byte {
	buf := make([]byte, CountSize)
	binary.LittleEndian.PutUint32(buf, count)
	return buf
}
