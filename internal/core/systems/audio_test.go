package systems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/scene"
)

type fakeEngine struct {
	volumes map[string]float64
}

func newFakeEngine() *fakeEngine { return &fakeEngine{volumes: map[string]float64{}} }

func (f *fakeEngine) PlaySound(soundID string, volume, pitch float64, loop bool) error { return nil }
func (f *fakeEngine) StopSound(soundID string) error                                   { return nil }
func (f *fakeEngine) SetVolume(soundID string, volume float64) error {
	f.volumes[soundID] = volume
	return nil
}
func (f *fakeEngine) IsPlaying(soundID string) bool                        { return false }
func (f *fakeEngine) SetListenerPosition(position components.Vector2) error { return nil }

func Test_AudioSystem_PushesVolumeToEngine(t *testing.T) {
	s := scene.New[entity.Avl]()
	e := s.CreateEntity(nil)
	audio := entity.Ensure1[entity.Avl, components.AudioComponent](e)
	*audio = *components.NewAudioComponent("theme")
	audio.Play()

	engine := newFakeEngine()
	as := NewAudioSystem()
	as.SetEngine(engine)
	require.NoError(t, as.Update(s, 0))

	assert.Equal(t, 1.0, engine.volumes["theme"])
}

func Test_AudioSystem_SkipsInactiveSounds(t *testing.T) {
	s := scene.New[entity.Avl]()
	e := s.CreateEntity(nil)
	audio := entity.Ensure1[entity.Avl, components.AudioComponent](e)
	*audio = *components.NewAudioComponent("theme")

	engine := newFakeEngine()
	as := NewAudioSystem()
	as.SetEngine(engine)
	require.NoError(t, as.Update(s, 0))

	_, ok := engine.volumes["theme"]
	assert.False(t, ok)
}

func Test_AudioSystem_AttenuatesByDistanceFor3DSounds(t *testing.T) {
	s := scene.New[entity.Avl]()
	e := s.CreateEntity(nil)
	transform, audio := entity.Ensure2[entity.Avl, components.TransformComponent, components.AudioComponent](e)
	*transform = *components.NewTransformComponent()
	*audio = *components.NewAudioComponent("explosion")
	audio.Play()
	audio.Set3D(true, 100, 0, 1)
	transform.SetPosition(components.Vector2{X: 100, Y: 0})

	engine := newFakeEngine()
	as := NewAudioSystem()
	as.SetEngine(engine)
	require.NoError(t, as.Update(s, 0))

	assert.Equal(t, 0.0, engine.volumes["explosion"])
}

func Test_AudioSystem_MasterVolumeScalesOutput(t *testing.T) {
	s := scene.New[entity.Avl]()
	e := s.CreateEntity(nil)
	audio := entity.Ensure1[entity.Avl, components.AudioComponent](e)
	*audio = *components.NewAudioComponent("theme")
	audio.Play()

	engine := newFakeEngine()
	as := NewAudioSystem()
	as.SetEngine(engine)
	as.SetMasterVolume(0.5)
	require.NoError(t, as.Update(s, 0))

	assert.Equal(t, 0.5, engine.volumes["theme"])
}
