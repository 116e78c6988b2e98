package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

type cTraitComponent struct{ V int }

func TestParseAndLookup(t *testing.T) {
	doc := []byte(`
traits:
  - name: Transform
    preferred_id: 1
    preferred_name: transform
  - name: Sprite
    preferred_id: 2
`)
	tt, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, tt.Traits, 2)

	tr, ok := tt.Lookup("Transform")
	require.True(t, ok)
	assert.Equal(t, registry.Key(1), tr.PreferredID)
	assert.Equal(t, "transform", tr.PreferredName)

	_, ok = tt.Lookup("Missing")
	assert.False(t, ok)
}

func TestPreferByNameAppliesBeforeFirstUse(t *testing.T) {
	doc := []byte(`
traits:
  - name: cTraitComponent
    preferred_id: 42
    preferred_name: traited
`)
	tt, err := Parse(doc)
	require.NoError(t, err)

	reg := registry.New()
	PreferByName[cTraitComponent](tt, reg, "cTraitComponent")

	key := registry.KeyFor[cTraitComponent](reg)
	assert.Equal(t, registry.Key(42), key)

	desc, ok := reg.DescriptorFor(key)
	require.True(t, ok)
	assert.Equal(t, "traited", desc.Name)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load("/nonexistent/path/traits.yaml")
	assert.Error(t, err)
}
