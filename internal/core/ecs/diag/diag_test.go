package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariaforge/ecsforge/internal/core/ecs/avlcontainer"
	"github.com/ariaforge/ecsforge/internal/core/ecs/hashcontainer"
	"github.com/ariaforge/ecsforge/internal/core/ecs/registry"
)

type dA struct{ V int }
type dB struct{ V int }

func TestCollectAvlReportsSizeAndBalance(t *testing.T) {
	reg := registry.New()
	c := avlcontainer.New(reg)
	_, err := avlcontainer.Insert(c, dA{})
	require.NoError(t, err)
	_, err = avlcontainer.Insert(c, dB{})
	require.NoError(t, err)

	stats := CollectAvl(c)
	assert.Equal(t, 2, stats.ComponentCount)
	assert.True(t, stats.IsBalanced)
	assert.False(t, stats.Timestamp.IsZero())
}

func TestCollectHashReportsLoadFactorAndValidity(t *testing.T) {
	reg := registry.New()
	c := hashcontainer.New(reg)
	_, err := hashcontainer.Insert(c, dA{})
	require.NoError(t, err)

	stats := CollectHash(c)
	assert.Equal(t, 1, stats.ComponentCount)
	assert.True(t, stats.BucketCount > 0)
	assert.True(t, stats.IsValid)
	assert.Equal(t, c.Generation(), stats.Generation)
}
