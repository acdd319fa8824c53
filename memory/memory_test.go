package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/moesi-sim/memory"
)

func TestReadWriteRoundTrip(t *testing.T) {
	m := memory.New(16, 4)
	m.Write(8, 0xCAFE)
	assert.Equal(t, 0xCAFE, m.Read(8))
}

func TestMisalignedAddressPanics(t *testing.T) {
	m := memory.New(16, 4)
	assert.Panics(t, func() { m.Read(3) })
}

func TestOutOfBoundsAddressPanics(t *testing.T) {
	m := memory.New(4, 4)
	assert.Panics(t, func() { m.Read(100) })
}

func TestSnapshotIsACopy(t *testing.T) {
	m := memory.New(4, 4)
	m.Write(0, 1)
	snap := m.Snapshot()
	snap[0] = 99
	assert.Equal(t, 1, m.Read(0))
}
