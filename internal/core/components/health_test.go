package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_HealthComponent_CreateAndInitialize(t *testing.T) {
	h := NewHealthComponent(100)

	assert.Equal(t, 100, h.CurrentHealth)
	assert.Equal(t, 100, h.MaxHealth)
	assert.False(t, h.IsDead())
}

func Test_HealthComponent_TakeDamage(t *testing.T) {
	h := NewHealthComponent(100)

	actual := h.TakeDamage(30)

	assert.Equal(t, 30, actual)
	assert.Equal(t, 70, h.CurrentHealth)
}

func Test_HealthComponent_TakeDamage_ShieldAbsorbsFirst(t *testing.T) {
	h := NewHealthComponent(100)
	h.Shield = 20

	actual := h.TakeDamage(30)

	assert.Equal(t, 10, actual)
	assert.Equal(t, 0, h.Shield)
	assert.Equal(t, 90, h.CurrentHealth)
}

func Test_HealthComponent_TakeDamage_InvincibleIgnoresDamage(t *testing.T) {
	h := NewHealthComponent(100)
	h.IsInvincible = true

	actual := h.TakeDamage(50)

	assert.Equal(t, 0, actual)
	assert.Equal(t, 100, h.CurrentHealth)
}

func Test_HealthComponent_Heal_CapsAtMax(t *testing.T) {
	h := NewHealthComponent(100)
	h.CurrentHealth = 90

	actual := h.Heal(50)

	assert.Equal(t, 10, actual)
	assert.Equal(t, 100, h.CurrentHealth)
}

func Test_HealthComponent_IsDead(t *testing.T) {
	h := NewHealthComponent(10)
	h.TakeDamage(10)
	assert.True(t, h.IsDead())
}

func Test_HealthComponent_StatusEffectLifecycle(t *testing.T) {
	h := NewHealthComponent(100)
	h.AddStatusEffect(StatusEffect{Type: StatusTypePoison, Duration: 1.0})

	assert.True(t, h.HasStatusEffect(StatusTypePoison))

	h.UpdateStatusEffects(0.5)
	assert.True(t, h.HasStatusEffect(StatusTypePoison))

	h.UpdateStatusEffects(0.6)
	assert.False(t, h.HasStatusEffect(StatusTypePoison))
}

func Test_HealthComponent_RemoveStatusEffect(t *testing.T) {
	h := NewHealthComponent(100)
	h.AddStatusEffect(StatusEffect{Type: StatusTypeBurn, Duration: 5})

	h.RemoveStatusEffect(StatusTypeBurn)

	assert.False(t, h.HasStatusEffect(StatusTypeBurn))
}

func Test_HealthComponent_Validate(t *testing.T) {
	h := NewHealthComponent(100)
	assert.NoError(t, h.Validate())

	h.MaxHealth = 0
	assert.Error(t, h.Validate())
}
