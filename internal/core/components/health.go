package components

import (
	"errors"
	"time"
)

// HealthComponent tracks entity health, shield, and temporary status
// effects. The StatusEffects slice holds a backing-array pointer, so like
// SpriteComponent and TransformComponent this belongs on an AVL-backed
// entity.
type HealthComponent struct {
	CurrentHealth    int
	MaxHealth        int
	Shield           int
	IsInvincible     bool
	LastDamageTime   time.Time
	RegenerationRate float64
	StatusEffects    []StatusEffect
}

// NewHealthComponent returns a health component at full health.
func NewHealthComponent(maxHealth int) *HealthComponent {
	return &HealthComponent{
		CurrentHealth: maxHealth,
		MaxHealth:     maxHealth,
	}
}

// TakeDamage applies damage (after shield absorption) and returns the
// amount actually subtracted from CurrentHealth.
func (h *HealthComponent) TakeDamage(damage int) int {
	if h.IsInvincible || damage <= 0 {
		return 0
	}

	actual := damage
	if h.Shield > 0 {
		if h.Shield >= damage {
			h.Shield -= damage
			return 0
		}
		actual = damage - h.Shield
		h.Shield = 0
	}

	if h.CurrentHealth < actual {
		actual = h.CurrentHealth
	}
	h.CurrentHealth -= actual
	h.LastDamageTime = time.Now()
	return actual
}

// Heal restores health, capped at MaxHealth, and returns the amount
// actually restored.
func (h *HealthComponent) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if h.CurrentHealth+amount > h.MaxHealth {
		actual = h.MaxHealth - h.CurrentHealth
	}
	h.CurrentHealth += actual
	return actual
}

// UpdateRegeneration applies RegenerationRate over dt.
func (h *HealthComponent) UpdateRegeneration(dt float64) {
	if h.RegenerationRate <= 0 || h.CurrentHealth >= h.MaxHealth {
		return
	}
	next := float64(h.CurrentHealth) + h.RegenerationRate*dt
	if next > float64(h.MaxHealth) {
		next = float64(h.MaxHealth)
	}
	h.CurrentHealth = int(next)
}

// IsDead reports whether CurrentHealth has reached zero.
func (h *HealthComponent) IsDead() bool { return h.CurrentHealth <= 0 }

// AddStatusEffect adds effect, replacing any existing effect of the same
// Type.
func (h *HealthComponent) AddStatusEffect(effect StatusEffect) {
	for i, existing := range h.StatusEffects {
		if existing.Type == effect.Type {
			h.StatusEffects[i] = effect
			return
		}
	}
	effect.StartTime = time.Now()
	h.StatusEffects = append(h.StatusEffects, effect)
}

// RemoveStatusEffect removes the effect of the given type, if present.
func (h *HealthComponent) RemoveStatusEffect(effectType StatusType) {
	for i, effect := range h.StatusEffects {
		if effect.Type == effectType {
			h.StatusEffects = append(h.StatusEffects[:i], h.StatusEffects[i+1:]...)
			return
		}
	}
}

// UpdateStatusEffects ages every active effect by dt and drops expired ones.
func (h *HealthComponent) UpdateStatusEffects(dt float64) {
	remaining := make([]StatusEffect, 0, len(h.StatusEffects))
	for _, effect := range h.StatusEffects {
		effect.Duration -= dt
		if effect.Duration > 0 {
			remaining = append(remaining, effect)
		}
	}
	h.StatusEffects = remaining
}

// HasStatusEffect reports whether the given effect type is currently
// active.
func (h *HealthComponent) HasStatusEffect(effectType StatusType) bool {
	for _, effect := range h.StatusEffects {
		if effect.Type == effectType {
			return true
		}
	}
	return false
}

// Validate reports whether h's fields are in a usable state.
func (h *HealthComponent) Validate() error {
	if h.CurrentHealth < 0 {
		return errors.New("current health cannot be negative")
	}
	if h.MaxHealth <= 0 {
		return errors.New("max health must be positive")
	}
	if h.Shield < 0 {
		return errors.New("shield cannot be negative")
	}
	if h.RegenerationRate < 0 {
		return errors.New("regeneration rate cannot be negative")
	}
	return nil
}
