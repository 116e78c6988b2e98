package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AudioComponent_CreateAndInitialize(t *testing.T) {
	ac := NewAudioComponent("explosion")

	assert.Equal(t, "explosion", ac.SoundID)
	assert.Equal(t, 1.0, ac.Volume)
	assert.Equal(t, 1.0, ac.Pitch)
	assert.False(t, ac.IsPlaying)
}

func Test_AudioComponent_PlayPauseResumeStop(t *testing.T) {
	ac := NewAudioComponent("music")

	ac.Play()
	assert.True(t, ac.IsActive())

	ac.Pause()
	assert.False(t, ac.IsActive())

	ac.Resume()
	assert.True(t, ac.IsActive())

	ac.Stop()
	assert.False(t, ac.IsPlaying)
	assert.Equal(t, 0.0, ac.PlaybackPosition)
}

func Test_AudioComponent_SetVolumeClamps(t *testing.T) {
	ac := NewAudioComponent("sfx")

	ac.SetVolume(-1)
	assert.Equal(t, 0.0, ac.Volume)

	ac.SetVolume(2)
	assert.Equal(t, 1.0, ac.Volume)
}

func Test_AudioComponent_GetEffectiveVolume_FadeIn(t *testing.T) {
	ac := NewAudioComponent("sfx")
	ac.FadeIn = 2.0

	assert.InDelta(t, 0.5, ac.GetEffectiveVolume(1.0), 1e-9)
	assert.InDelta(t, 1.0, ac.GetEffectiveVolume(3.0), 1e-9)
}

func Test_AudioComponent_Validate(t *testing.T) {
	ac := NewAudioComponent("sfx")
	assert.NoError(t, ac.Validate())

	ac.SoundID = ""
	assert.Error(t, ac.Validate())
}
