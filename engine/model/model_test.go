package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float32At(t *testing.T, buf []byte, offset int) float32 {
	t.Helper()
	require.LessOrEqual(t, offset+4, len(buf))
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUVertexLayout(t *testing.T) {
	v := GPUVertex{
		Position: [3]float32{1, 2, 3},
		TexCoord: [2]float32{0.25, 0.75},
		Normal:   [3]float32{0, 1, 0},
	}
	assert.Equal(t, 32, v.Size())

	buf := v.Marshal()
	require.Len(t, buf, 32)
	assert.Equal(t, float32(1), float32At(t, buf, 0))
	assert.Equal(t, float32(3), float32At(t, buf, 8))
	assert.Equal(t, float32(0.25), float32At(t, buf, 12))
	assert.Equal(t, float32(0.75), float32At(t, buf, 16))
	assert.Equal(t, float32(1), float32At(t, buf, 24))
}

func TestGPUInstanceDataLayout(t *testing.T) {
	inst := Instance{
		Position: mgl32.Vec3{10, 0, -5},
		Rotation: mgl32.QuatIdent(),
	}
	data := inst.GPUData()
	assert.Equal(t, 100, data.Size())

	buf := data.Marshal()
	require.Len(t, buf, 100)

	// Column-major model matrix: translation lands in the fourth column.
	assert.Equal(t, float32(10), float32At(t, buf, 12*4))
	assert.Equal(t, float32(0), float32At(t, buf, 13*4))
	assert.Equal(t, float32(-5), float32At(t, buf, 14*4))
	assert.Equal(t, float32(1), float32At(t, buf, 15*4))

	// Identity rotation lowers to the identity normal matrix.
	assert.Equal(t, float32(1), float32At(t, buf, 64))
	assert.Equal(t, float32(0), float32At(t, buf, 64+4))
	assert.Equal(t, float32(1), float32At(t, buf, 64+4*4))
	assert.Equal(t, float32(1), float32At(t, buf, 64+8*4))
}

func TestInstanceNormalMatrixIsInverseTranspose(t *testing.T) {
	inst := Instance{
		Position: mgl32.Vec3{3, 1, -2},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0}),
	}

	data := inst.GPUData()
	expected := inst.ModelMatrix().Mat3().Inv().Transpose()
	for i := range 9 {
		assert.InDelta(t, expected[i], data.Normal[i], 1e-6, "normal matrix element %d", i)
	}

	// For a pure rotation the inverse-transpose equals the rotation itself.
	rotation := inst.Rotation.Mat4().Mat3()
	for i := range 9 {
		assert.InDelta(t, rotation[i], data.Normal[i], 1e-5, "rotation element %d", i)
	}
}

func TestMarshalVerticesAndIndices(t *testing.T) {
	vertices := []GPUVertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	assert.Len(t, MarshalVertices(vertices), 96)

	indices := MarshalIndices([]uint32{0, 1, 2})
	require.Len(t, indices, 12)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(indices[8:]))
}

func TestGridInstances(t *testing.T) {
	instances := GridInstances(5, 3.0)
	require.Len(t, instances, 25)

	// A grid with an odd side length has an instance at the exact center,
	// which keeps the identity rotation.
	center := instances[12]
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, center.Position)
	assert.Equal(t, mgl32.QuatIdent(), center.Rotation)

	// Corners sit at +-half the grid extent on the XZ plane.
	assert.Equal(t, mgl32.Vec3{-6, 0, -6}, instances[0].Position)
	assert.Equal(t, mgl32.Vec3{6, 0, 6}, instances[24].Position)

	// Off-center instances rotate 45 degrees about their position direction.
	corner := instances[0]
	axis := corner.Position.Normalize()
	expected := mgl32.QuatRotate(mgl32.DegToRad(45), axis)
	assert.InDelta(t, expected.W, corner.Rotation.W, 1e-6)
	for i := range 3 {
		assert.InDelta(t, expected.V[i], corner.Rotation.V[i], 1e-6)
	}
}

func TestModelInstanceUpdates(t *testing.T) {
	m := NewModel(
		WithName("crate"),
		WithInstances(
			Instance{Position: mgl32.Vec3{0, 0, 0}, Rotation: mgl32.QuatIdent()},
			Instance{Position: mgl32.Vec3{2, 0, 0}, Rotation: mgl32.QuatIdent()},
		),
	)

	assert.Equal(t, "crate", m.Name())
	assert.Equal(t, 2, m.InstanceCount())
	assert.Len(t, m.InstanceData(), 200)

	var notified Model
	m.SetOnInstancesChanged(func(changed Model) {
		notified = changed
	})

	m.SetInstances([]Instance{
		{Position: mgl32.Vec3{0, 5, 0}, Rotation: mgl32.QuatIdent()},
	})
	assert.Equal(t, 1, m.InstanceCount())
	assert.Len(t, m.InstanceData(), 100)
	assert.Same(t, m, notified)

	// The instance stream carries the new translation.
	assert.Equal(t, float32(5), float32At(t, m.InstanceData(), 13*4))
}

func TestInstancesReturnsCopy(t *testing.T) {
	m := NewModel(WithInstances(Instance{Position: mgl32.Vec3{1, 2, 3}, Rotation: mgl32.QuatIdent()}))

	got := m.Instances()
	require.Len(t, got, 1)
	got[0].Position = mgl32.Vec3{9, 9, 9}

	assert.Equal(t, mgl32.Vec3{1, 2, 3}, m.Instances()[0].Position)
}
