package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/moesi-sim/cache"
	"github.com/example/moesi-sim/coherence"
)

func TestLookupMissOnFreshCache(t *testing.T) {
	c := cache.New(64, 4)
	_, hit := c.Lookup(4)
	assert.False(t, hit)
}

func TestLookupHitAfterSetLineAt(t *testing.T) {
	c := cache.New(64, 4)
	idx := c.Index(4)
	c.SetLineAt(idx, coherence.Line{Tag: 4, Value: 0x1111, State: coherence.Shared})

	gotIdx, hit := c.Lookup(4)
	assert.True(t, hit)
	assert.Equal(t, idx, gotIdx)
}

func TestIndexIsDirectMappedModulo(t *testing.T) {
	c := cache.New(64, 4)
	assert.Equal(t, c.Index(4), c.Index(0x104))
}

func TestIndexPanicsOnMisalignedAddress(t *testing.T) {
	c := cache.New(64, 4)
	assert.Panics(t, func() { c.Index(5) })
}
