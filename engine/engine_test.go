package engine

import (
	"testing"

	"github.com/Carmen-Shannon/umbra-go/engine/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneRegistration(t *testing.T) {
	e := NewEngine()

	first := scene.NewScene("first")
	second := scene.NewScene("second")

	e.AddScene(0, first)
	e.AddScene(1, second)

	assert.Equal(t, first, e.Scene(0))
	assert.Equal(t, second, e.Scene(1))
	assert.Nil(t, e.Scene(2))

	e.RemoveScene(0)
	assert.Nil(t, e.Scene(0))
}

func TestWithSceneOption(t *testing.T) {
	s := scene.NewScene("main")
	e := NewEngine(WithScene(3, s))

	require.Equal(t, s, e.Scene(3))
}

func TestScenesReturnsCopy(t *testing.T) {
	s := scene.NewScene("main")
	e := NewEngine(WithScene(0, s))

	scenes := e.Scenes()
	delete(scenes, 0)

	// Mutating the copy must not unregister the scene.
	assert.Equal(t, s, e.Scene(0))
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine()

	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})
}
