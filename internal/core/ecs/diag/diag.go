// Package diag exposes point-in-time statistics for the two component
// container backends. It carries no logging of its own, matching the
// teacher's approach of reporting typed stats structs by value rather than
// writing through a logging library; a host wires these into whatever
// observability stack it already has.
package diag

import (
	"time"

	"github.com/ariaforge/ecsforge/internal/core/ecs/avlcontainer"
	"github.com/ariaforge/ecsforge/internal/core/ecs/hashcontainer"
)

// AvlContainerStats reports a snapshot of one avlcontainer.Container.
type AvlContainerStats struct {
	ComponentCount int       `json:"component_count"`
	Height         int       `json:"height"`
	IsBalanced     bool      `json:"is_balanced"`
	Timestamp      time.Time `json:"timestamp"`
}

// HashContainerStats reports a snapshot of one hashcontainer.Container.
type HashContainerStats struct {
	ComponentCount int       `json:"component_count"`
	BucketCount    int       `json:"bucket_count"`
	LoadFactor     float64   `json:"load_factor"`
	IsValid        bool      `json:"is_valid"`
	Generation     uint64    `json:"generation"`
	Timestamp      time.Time `json:"timestamp"`
}

// now is a seam so tests can avoid depending on wall-clock time; production
// callers get real timestamps.
var now = time.Now

// CollectAvl snapshots c's size, tree height, and balance invariant.
func CollectAvl(c *avlcontainer.Container) AvlContainerStats {
	return AvlContainerStats{
		ComponentCount: c.Len(),
		Height:         c.Height(),
		IsBalanced:     c.IsAVL(),
		Timestamp:      now(),
	}
}

// CollectHash snapshots c's size, bucket count, load factor, and probe-chain
// invariant.
func CollectHash(c *hashcontainer.Container) HashContainerStats {
	return HashContainerStats{
		ComponentCount: c.Len(),
		BucketCount:    c.BucketCount(),
		LoadFactor:     c.LoadFactor(),
		IsValid:        c.IsValid(),
		Generation:     c.Generation(),
		Timestamp:      now(),
	}
}
