package coherence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/moesi-sim/coherence"
)

func TestSnoopBusRdTransitions(t *testing.T) {
	cases := []struct {
		state     coherence.State
		wantNext  coherence.State
		wantSupp  bool
	}{
		{coherence.Modified, coherence.Owned, true},
		{coherence.Owned, coherence.Owned, true},
		{coherence.Exclusive, coherence.Shared, true},
		{coherence.Shared, coherence.Shared, false},
	}
	for _, c := range cases {
		out, ok := coherence.Snoop(coherence.BusRd, c.state)
		assert.True(t, ok)
		assert.Equal(t, c.wantNext, out.NextState)
		assert.Equal(t, c.wantSupp, out.Supplies)
	}
}

func TestSnoopBusRdXInvalidatesEveryMatchingState(t *testing.T) {
	for _, st := range []coherence.State{coherence.Modified, coherence.Owned, coherence.Exclusive, coherence.Shared} {
		out, ok := coherence.Snoop(coherence.BusRdX, st)
		assert.True(t, ok)
		assert.Equal(t, coherence.Invalid, out.NextState)
	}
	out, _ := coherence.Snoop(coherence.BusRdX, coherence.Shared)
	assert.False(t, out.Supplies)
}

func TestSnoopInvalidNeverMatches(t *testing.T) {
	_, ok := coherence.Snoop(coherence.BusRd, coherence.Invalid)
	assert.False(t, ok)
}

func TestSnoopBusWBHasNoSnooperEntry(t *testing.T) {
	_, ok := coherence.Snoop(coherence.BusWB, coherence.Modified)
	assert.False(t, ok)
}
