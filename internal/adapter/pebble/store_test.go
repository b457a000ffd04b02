package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put(map[string]string{
		"cart/items": `[{"menuitem_id":1}]`,
		"cart/total": "6.4",
	}))

	v, ok, err := s.Get("cart/total")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "6.4", v)

	require.NoError(t, s.Delete("cart/items", "cart/total", "cart/tax"))

	_, ok, err = s.Get("cart/items")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(map[string]string{"cart/tax": "0.528"}))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get("cart/tax")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.528", v)
}
