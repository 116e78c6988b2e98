package components

import "errors"

// AudioComponent drives 3D positional audio and sound-effect playback for
// an entity, with distance-based attenuation and simple fade control.
type AudioComponent struct {
	SoundID string

	Volume    float64
	Pitch     float64
	IsPlaying bool
	IsLoop    bool
	IsPaused  bool

	Is3D        bool
	MaxDistance float64
	MinDistance float64
	Rolloff     float64

	PlaybackPosition float64
	FadeIn           float64
	FadeOut          float64

	Priority   int
	AudioGroup string
}

// NewAudioComponent returns an audio component bound to soundID at full
// volume, normal pitch, non-3D, in the "sfx" group.
func NewAudioComponent(soundID string) *AudioComponent {
	return &AudioComponent{
		SoundID:     soundID,
		Volume:      1.0,
		Pitch:       1.0,
		MaxDistance: 100.0,
		MinDistance: 1.0,
		Rolloff:     1.0,
		AudioGroup:  "sfx",
	}
}

// Play starts or resumes playback, clearing any paused state.
// PlaybackPosition is left unchanged.
func (ac *AudioComponent) Play() {
	ac.IsPlaying = true
	ac.IsPaused = false
}

// Stop halts playback and resets PlaybackPosition.
func (ac *AudioComponent) Stop() {
	ac.IsPlaying = false
	ac.IsPaused = false
	ac.PlaybackPosition = 0
}

// Pause suspends playback without resetting PlaybackPosition.
func (ac *AudioComponent) Pause() { ac.IsPaused = true }

// Resume un-pauses playback.
func (ac *AudioComponent) Resume() { ac.IsPaused = false }

// SetVolume sets Volume, clamped to [0, 1].
func (ac *AudioComponent) SetVolume(volume float64) {
	switch {
	case volume < 0:
		ac.Volume = 0
	case volume > 1:
		ac.Volume = 1
	default:
		ac.Volume = volume
	}
}

// SetPitch sets Pitch if positive; a non-positive pitch is rejected
// silently, matching SetVolume's clamp-don't-error style.
func (ac *AudioComponent) SetPitch(pitch float64) {
	if pitch > 0 {
		ac.Pitch = pitch
	}
}

// Set3D enables or disables 3D positional audio and its distance
// parameters.
func (ac *AudioComponent) Set3D(enable bool, maxDistance, minDistance, rolloff float64) {
	ac.Is3D = enable
	if enable {
		ac.MaxDistance = maxDistance
		ac.MinDistance = minDistance
		ac.Rolloff = rolloff
	}
}

// IsActive reports whether the sound is playing and not paused.
func (ac *AudioComponent) IsActive() bool { return ac.IsPlaying && !ac.IsPaused }

// GetEffectiveVolume returns Volume adjusted for an in-progress fade-in at
// currentTime.
func (ac *AudioComponent) GetEffectiveVolume(currentTime float64) float64 {
	volume := ac.Volume
	if ac.FadeIn > 0 && currentTime < ac.FadeIn {
		volume *= currentTime / ac.FadeIn
	}
	return volume
}

// Validate reports whether ac's fields are in a usable state.
func (ac *AudioComponent) Validate() error {
	if ac.SoundID == "" {
		return errors.New("AudioComponent: SoundID cannot be empty")
	}
	if ac.Volume < 0 || ac.Volume > 1 {
		return errors.New("AudioComponent: Volume must be between 0 and 1")
	}
	if ac.Pitch <= 0 {
		return errors.New("AudioComponent: Pitch must be greater than 0")
	}
	if ac.MaxDistance <= 0 {
		return errors.New("AudioComponent: MaxDistance must be greater than 0")
	}
	if ac.MinDistance < 0 || ac.MinDistance > ac.MaxDistance {
		return errors.New("AudioComponent: MinDistance must be between 0 and MaxDistance")
	}
	return nil
}
