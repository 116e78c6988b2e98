// Package config loads host type-trait documents: a host may pin a
// component type's registry key and diagnostic name ahead of first use, so
// that keys stay stable across builds (e.g. for a save format that embeds
// them) instead of being assigned by registration order.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

// Trait is one component's preferred id/name pair, keyed by a host-chosen
// lookup name (typically the Go type name) so YAML documents stay
// human-editable without importing the component package.
type Trait struct {
	Name          string       `yaml:"name"`
	PreferredID   registry.Key `yaml:"preferred_id"`
	PreferredName string       `yaml:"preferred_name"`
}

// TypeTraits is the top-level document: an ordered list of traits, one per
// component type the host wants to pin.
type TypeTraits struct {
	Traits []Trait `yaml:"traits"`
}

// Load reads and parses a TypeTraits document from path.
func Load(path string) (*TypeTraits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a TypeTraits document from raw YAML bytes.
func Parse(data []byte) (*TypeTraits, error) {
	var tt TypeTraits
	if err := yaml.Unmarshal(data, &tt); err != nil {
		return nil, fmt.Errorf("config: parsing type traits: %w", err)
	}
	return &tt, nil
}

// Lookup returns the trait registered under name, if any.
func (tt *TypeTraits) Lookup(name string) (Trait, bool) {
	for _, tr := range tt.Traits {
		if tr.Name == name {
			return tr, true
		}
	}
	return Trait{}, false
}

// PreferByName applies the trait registered under name (if present) to reg
// via registry.Prefer[T]. Call this before T's first use (KeyFor/Insert);
// a later call is a silent no-op, matching registry.Prefer's own contract.
func PreferByName[T any](tt *TypeTraits, reg *registry.Registry, name string) {
	tr, ok := tt.Lookup(name)
	if !ok {
		return
	}
	registry.Prefer[T](reg, tr.PreferredID, tr.PreferredName)
}
