package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLightViewProjectionComposition(t *testing.T) {
	proj := testProjection()
	view := testView(mgl32.Vec3{5, 10, 5})
	l := newLight("spot", LightKindSpot, mgl32.Vec3{1, 1, 1}, proj, view)

	// Lights skip the camera's depth remap; clip space is the light's own.
	expected := proj.Matrix().Mul4(view.Matrix())
	assert.Equal(t, expected, l.ViewProjection())
	assert.Equal(t, expected, l.Record().ViewProj)
}

func TestLightRecordLayout(t *testing.T) {
	l := newLight("spot", LightKindSpot, mgl32.Vec3{0.25, 0.5, 0.75}, testProjection(), testView(mgl32.Vec3{1, 2, 3}))
	rec := l.Record()

	require.Equal(t, 96, rec.Size())
	buf := rec.Marshal()
	require.Len(t, buf, 96)

	readF32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	assert.Equal(t, float32(1), readF32(0))
	assert.Equal(t, float32(2), readF32(4))
	assert.Equal(t, float32(3), readF32(8))
	assert.Equal(t, float32(0), readF32(12)) // padding
	assert.Equal(t, float32(0.25), readF32(16))
	assert.Equal(t, float32(0.5), readF32(20))
	assert.Equal(t, float32(0.75), readF32(24))
	assert.Equal(t, float32(0), readF32(28)) // padding
	vp := l.ViewProjection()
	for i := 0; i < 16; i++ {
		assert.Equal(t, vp[i], readF32(32+i*4))
	}
}

func TestLightSetPositionRebuildsRecord(t *testing.T) {
	l := newLight("spot", LightKindSpot, mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	before := l.Record()

	l.SetPosition(mgl32.Vec3{-5, 10, 5})

	after := l.Record()
	assert.Equal(t, [3]float32{-5, 10, 5}, after.Position)
	assert.NotEqual(t, before.ViewProj, after.ViewProj)
	// Target is preserved when the light orbits.
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, l.View().Target())
}

func TestMarshalCount(t *testing.T) {
	buf := MarshalCount(7)
	require.Len(t, buf, CountSize)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf))
}
