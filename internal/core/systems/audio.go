package systems

import (
	"math"

	"github.com/ariaforge/ecsforge/internal/core/components"
	"github.com/ariaforge/ecsforge/internal/core/ecs/entity"
	"github.com/ariaforge/ecsforge/internal/core/scene"
)

// AudioEngine abstracts sound playback so AudioSystem can be driven without
// a real audio backend in tests.
type AudioEngine interface {
	PlaySound(soundID string, volume, pitch float64, loop bool) error
	StopSound(soundID string) error
	SetVolume(soundID string, volume float64) error
	IsPlaying(soundID string) bool
	SetListenerPosition(position components.Vector2) error
}

// AudioSystem drives playback for every AudioComponent, applying 3D
// distance attenuation against entities that also carry a
// TransformComponent.
type AudioSystem struct {
	*BaseSystem

	listenerPosition components.Vector2
	masterVolume     float64
	engine           AudioEngine
}

// NewAudioSystem returns an audio system with no engine attached; volume
// pushes silently no-op until SetEngine is called, matching the teacher's
// "no audio engine available" fallback.
func NewAudioSystem() *AudioSystem {
	return &AudioSystem{
		BaseSystem:   newBaseSystem("audio", AudioPriority),
		masterVolume: 1.0,
	}
}

// SetEngine attaches the audio backend.
func (as *AudioSystem) SetEngine(engine AudioEngine) { as.engine = engine }

// Engine returns the attached audio backend, or nil.
func (as *AudioSystem) Engine() AudioEngine { return as.engine }

// SetListener sets the listener position used for 3D attenuation.
func (as *AudioSystem) SetListener(position components.Vector2) {
	as.listenerPosition = position
	if as.engine != nil {
		as.engine.SetListenerPosition(position)
	}
}

// Listener returns the current listener position.
func (as *AudioSystem) Listener() components.Vector2 { return as.listenerPosition }

// SetMasterVolume sets the global volume multiplier, clamped to [0, 1].
func (as *AudioSystem) SetMasterVolume(volume float64) {
	as.masterVolume = math.Max(0.0, math.Min(1.0, volume))
}

// MasterVolume returns the current master volume.
func (as *AudioSystem) MasterVolume() float64 { return as.masterVolume }

// Update advances every active AudioComponent's playback position, computes
// its effective volume (fade-in and, for 3D sounds, distance attenuation),
// and pushes the result to the attached engine.
func (as *AudioSystem) Update(s *scene.Scene[entity.Avl], dt float64) error {
	if !as.Enabled() {
		return nil
	}

	entities := s.Entities()
	return as.recordRun(len(entities), func() error {
		for _, e := range entities {
			audio := entity.Ptr1[entity.Avl, components.AudioComponent](e)
			if audio == nil || !audio.IsActive() {
				continue
			}

			audio.PlaybackPosition += dt
			volume := audio.GetEffectiveVolume(audio.PlaybackPosition) * as.masterVolume

			if audio.Is3D {
				transform := entity.Ptr1[entity.Avl, components.TransformComponent](e)
				if transform != nil {
					volume *= as.distanceAttenuation(transform.Position, audio.MaxDistance, audio.MinDistance)
				}
			}

			if as.engine != nil {
				if err := as.engine.SetVolume(audio.SoundID, volume); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// distanceAttenuation scales to 0 at maxDistance and 1 at minDistance or
// closer, using linear falloff.
func (as *AudioSystem) distanceAttenuation(sourcePos components.Vector2, maxDistance, minDistance float64) float64 {
	dx := sourcePos.X - as.listenerPosition.X
	dy := sourcePos.Y - as.listenerPosition.Y
	distance := math.Sqrt(dx*dx + dy*dy)

	if distance <= minDistance {
		return 1.0
	}
	if distance >= maxDistance {
		return 0.0
	}
	return 1.0 - (distance-minDistance)/(maxDistance-minDistance)
}
