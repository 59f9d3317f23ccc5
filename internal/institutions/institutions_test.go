package institutions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	inst, ok := Lookup("uio")
	require.True(t, ok)
	assert.Equal(t, "UiO", inst.ShortName)
	assert.Equal(t, "1110", inst.Code)

	_, ok = Lookup("hogwarts")
	assert.False(t, ok)
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	a, ok := Lookup("NTNU")
	require.True(t, ok)
	b, ok := Lookup(" ntnu ")
	require.True(t, ok)
	assert.Equal(t, a, b)
}

func TestRegistryIsConsistent(t *testing.T) {
	all := All()
	assert.GreaterOrEqual(t, len(all), 35)

	tags := make(map[string]bool)
	codes := make(map[string]bool)
	for _, inst := range all {
		assert.NotEmpty(t, inst.Tag)
		assert.NotEmpty(t, inst.Name)
		assert.NotEmpty(t, inst.Code)
		assert.False(t, tags[inst.Tag], "duplicate tag %s", inst.Tag)
		assert.False(t, codes[inst.Code], "duplicate code %s", inst.Code)
		tags[inst.Tag] = true
		codes[inst.Code] = true
	}
}

func TestAllReturnsACopy(t *testing.T) {
	all := All()
	all[0].Tag = "mutated"
	fresh := All()
	assert.NotEqual(t, "mutated", fresh[0].Tag)
}
