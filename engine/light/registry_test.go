package light

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/umbra-go/engine/camera"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProjection() camera.Projection {
	return camera.NewProjection(1.0, 45, 0.1, 100)
}

func testView(eye mgl32.Vec3) camera.View {
	return camera.NewView(eye, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
}

func TestAddLightCapacity(t *testing.T) {
	reg := NewRegistry()

	// One slot of headroom stays reserved, so adds succeed MaxLights-1 times.
	for i := 0; i < MaxLights-1; i++ {
		idx, err := reg.AddLight(fmt.Sprintf("light_%d", i), mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
		require.NoError(t, err)
		assert.Equal(t, i, idx)
	}
	require.Equal(t, MaxLights-1, reg.Len())

	_, err := reg.AddLight("one_too_many", mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	assert.ErrorIs(t, err, ErrRegistryFull)
	assert.Equal(t, MaxLights-1, reg.Len())
}

func TestAddLightDuplicateName(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.AddLight("sun", mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	require.NoError(t, err)

	_, err = reg.AddLight("sun", mgl32.Vec3{1, 0, 0}, testProjection(), testView(mgl32.Vec3{-5, 10, 5}))
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, reg.Len())

	// The original light is untouched.
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, reg.Get("sun").Color())
}

func TestAddLightStagesRecordAndCount(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.AddLight("a", mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	require.NoError(t, err)
	idx, err := reg.AddLight("b", mgl32.Vec3{0, 0, 1}, testProjection(), testView(mgl32.Vec3{-5, 10, 5}))
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	writes := reg.PendingWrites()
	require.Len(t, writes, 4)

	// Second light's record lands at index * RecordSize in the array buffer.
	rec := writes[2]
	assert.Equal(t, ArrayBinding, rec.Binding)
	assert.Equal(t, uint64(RecordSize), rec.Offset)
	assert.Len(t, rec.Data, RecordSize)

	// And the count buffer reads index + 1.
	count := writes[3]
	assert.Equal(t, CountBinding, count.Binding)
	assert.Equal(t, uint64(0), count.Offset)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(count.Data))

	// Draining left nothing behind.
	assert.Empty(t, reg.PendingWrites())
}

type captureWriter struct {
	writes []bind_group_provider.BufferWrite
}

func (c *captureWriter) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	c.writes = append(c.writes, writes...)
}

func TestSetWriterFlushesPending(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.AddLight("a", mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	require.NoError(t, err)

	w := &captureWriter{}
	reg.SetWriter(w)
	assert.Len(t, w.writes, 2)
	assert.Empty(t, reg.PendingWrites())

	// Subsequent adds reach the writer directly.
	_, err = reg.AddLight("b", mgl32.Vec3{0, 1, 0}, testProjection(), testView(mgl32.Vec3{0, 10, 0}))
	require.NoError(t, err)
	assert.Len(t, w.writes, 4)
}

func TestLightSetterReuploadsRecord(t *testing.T) {
	reg := NewRegistry()
	w := &captureWriter{}
	reg.SetWriter(w)

	idx, err := reg.AddLight("orbiter", mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
	require.NoError(t, err)
	w.writes = nil

	l := reg.Get("orbiter")
	require.NotNil(t, l)
	l.SetPosition(mgl32.Vec3{0, 10, 7})

	require.Len(t, w.writes, 1)
	assert.Equal(t, ArrayBinding, w.writes[0].Binding)
	assert.Equal(t, uint64(idx)*RecordSize, w.writes[0].Offset)
	assert.Len(t, w.writes[0].Data, RecordSize)
	assert.Equal(t, mgl32.Vec3{0, 10, 7}, l.Position())

	l.SetColor(mgl32.Vec3{0.5, 0.25, 1})
	require.Len(t, w.writes, 2)
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 1}, l.Color())
}

func TestLightsInsertionOrder(t *testing.T) {
	reg := NewRegistry()
	names := []string{"first", "second", "third"}
	for _, n := range names {
		_, err := reg.AddLight(n, mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
		require.NoError(t, err)
	}

	lights := reg.Lights()
	require.Len(t, lights, 3)
	for i, l := range lights {
		assert.Equal(t, names[i], l.Name())
	}
}

func TestGetMissingLight(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.Get("nope"))
}

func TestVisibilityToggle(t *testing.T) {
	reg := NewRegistry(WithVisibleMarkers(true))
	assert.True(t, reg.Visible())
	reg.ToggleVisible()
	assert.False(t, reg.Visible())
	reg.ToggleVisible()
	assert.True(t, reg.Visible())
}
