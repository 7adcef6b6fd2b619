package light

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/umbra-go/engine/model"
	"github.com/Carmen-Shannon/umbra-go/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCopy struct {
	srcBinding int
	srcOffset  uint64
	dstBinding int
	dstOffset  uint64
	size       uint64
}

// fakeShadowRenderer records the shadow protocol calls Bake makes so tests
// can assert on ordering without a GPU.
type fakeShadowRenderer struct {
	ops      []string
	copies   []recordedCopy
	draws    []uint32
	beginErr error
	copyErr  error
	drawErr  error
}

func (f *fakeShadowRenderer) BeginShadowFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.ops = append(f.ops, "begin_frame")
	return nil
}

func (f *fakeShadowRenderer) CopyBufferToBuffer(_ bind_group_provider.BindGroupProvider, srcBinding int, srcOffset uint64, _ bind_group_provider.BindGroupProvider, dstBinding int, dstOffset, size uint64) error {
	if f.copyErr != nil {
		return f.copyErr
	}
	f.ops = append(f.ops, "copy")
	f.copies = append(f.copies, recordedCopy{srcBinding, srcOffset, dstBinding, dstOffset, size})
	return nil
}

func (f *fakeShadowRenderer) BeginShadowPass(_ *wgpu.TextureView) {
	f.ops = append(f.ops, "begin_pass")
}

func (f *fakeShadowRenderer) ShadowDrawCall(_ string, _ bind_group_provider.BindGroupProvider, instanceCount uint32, _ []bind_group_provider.BindGroupProvider) error {
	if f.drawErr != nil {
		return f.drawErr
	}
	f.ops = append(f.ops, "draw")
	f.draws = append(f.draws, instanceCount)
	return nil
}

func (f *fakeShadowRenderer) EndShadowPass() {
	f.ops = append(f.ops, "end_pass")
}

func (f *fakeShadowRenderer) EndShadowFrame() {
	f.ops = append(f.ops, "end_frame")
}

func testModel(name string, instances int) model.Model {
	m := model.NewModel(
		model.WithName(name),
		model.WithMeshes(model.Mesh{
			Name:     name + "_mesh",
			Provider: bind_group_provider.NewBindGroupProvider(name + "_mesh"),
		}),
	)
	insts := make([]model.Instance, instances)
	for i := range insts {
		insts[i] = model.Instance{Rotation: mgl32.QuatIdent()}
	}
	m.SetInstances(insts)
	return m
}

func bakerWithLayers(layers int) ShadowBaker {
	b := NewShadowBaker()
	b.SetPipelineKey("shadow")
	views := make([]*wgpu.TextureView, layers)
	for i := range views {
		views[i] = new(wgpu.TextureView)
	}
	b.SetShadowMap(views, new(wgpu.TextureView), nil)
	return b
}

func registryWithLights(n int) Registry {
	reg := NewRegistry()
	for i := 0; i < n; i++ {
		_, err := reg.AddLight(fmt.Sprintf("light_%d", i), mgl32.Vec3{1, 1, 1}, testProjection(), testView(mgl32.Vec3{5, 10, 5}))
		if err != nil {
			panic(err)
		}
	}
	return reg
}

func TestBakeNoLightsIsNoop(t *testing.T) {
	b := bakerWithLayers(MaxLights)
	r := &fakeShadowRenderer{}

	err := b.Bake(r, NewRegistry(), []model.Model{testModel("cube", 1)})
	require.NoError(t, err)
	assert.Empty(t, r.ops)
}

func TestBakeWithoutPipelineKeyIsNoop(t *testing.T) {
	b := NewShadowBaker()
	r := &fakeShadowRenderer{}

	err := b.Bake(r, registryWithLights(1), nil)
	require.NoError(t, err)
	assert.Empty(t, r.ops)
}

func TestBakeRejectsTooFewLayers(t *testing.T) {
	b := bakerWithLayers(1)
	r := &fakeShadowRenderer{}

	err := b.Bake(r, registryWithLights(2), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "layers")
}

func TestBakePropagatesBeginFrameError(t *testing.T) {
	b := bakerWithLayers(MaxLights)
	boom := errors.New("device lost")
	r := &fakeShadowRenderer{beginErr: boom}

	err := b.Bake(r, registryWithLights(1), nil)
	assert.ErrorIs(t, err, boom)
}

func TestBakeCopiesEachRecordBeforeItsPass(t *testing.T) {
	b := bakerWithLayers(MaxLights)
	r := &fakeShadowRenderer{}
	models := []model.Model{
		testModel("drawn", 3),
		testModel("empty", 0), // zero instances, never drawn
	}

	err := b.Bake(r, registryWithLights(2), models)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"begin_frame",
		"copy", "begin_pass", "draw", "end_pass",
		"copy", "begin_pass", "draw", "end_pass",
		"end_frame",
	}, r.ops)

	// Each copy pulls one full record from the light's slot in the packed
	// array into the start of the scratch buffer.
	require.Len(t, r.copies, 2)
	for i, c := range r.copies {
		assert.Equal(t, ArrayBinding, c.srcBinding)
		assert.Equal(t, uint64(i)*RecordSize, c.srcOffset)
		assert.Equal(t, ScratchBinding, c.dstBinding)
		assert.Equal(t, uint64(0), c.dstOffset)
		assert.Equal(t, uint64(RecordSize), c.size)
	}

	assert.Equal(t, []uint32{3, 3}, r.draws)
}

func TestBakeFinishesFrameOnCopyError(t *testing.T) {
	b := bakerWithLayers(MaxLights)
	boom := errors.New("copy rejected")
	r := &fakeShadowRenderer{copyErr: boom}

	err := b.Bake(r, registryWithLights(2), []model.Model{testModel("cube", 1)})
	assert.ErrorIs(t, err, boom)

	// The frame encoder must be finished even though the copy failed, so the
	// next bake can begin a fresh frame.
	assert.Equal(t, []string{"begin_frame", "end_frame"}, r.ops)
}

func TestBakeClosesPassAndFrameOnDrawError(t *testing.T) {
	b := bakerWithLayers(MaxLights)
	boom := errors.New("draw rejected")
	r := &fakeShadowRenderer{drawErr: boom}

	err := b.Bake(r, registryWithLights(2), []model.Model{testModel("cube", 1)})
	assert.ErrorIs(t, err, boom)

	// A failed draw leaves an open pass inside an open frame; both must be
	// closed before returning.
	assert.Equal(t, []string{"begin_frame", "copy", "begin_pass", "end_pass", "end_frame"}, r.ops)
}
