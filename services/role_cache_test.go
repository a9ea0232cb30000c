package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerysysbackend/models"
)

func TestRoleCachePutAndGet(t *testing.T) {
	cache := NewRoleCache()

	_, ok := cache.Get("s1", "bob")
	assert.False(t, ok)

	cache.Put("s1", "bob", []models.Role{{Name: "Viewers"}})
	roles, ok := cache.Get("s1", "bob")
	require.True(t, ok)
	require.Len(t, roles, 1)
	assert.Equal(t, "Viewers", roles[0].Name)

	// a miss for the same user under another context
	_, ok = cache.Get("s2", "bob")
	assert.False(t, ok)
}

func TestRoleCacheCachesEmptyResolution(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("s1", "ghost", nil)

	roles, ok := cache.Get("s1", "ghost")
	assert.True(t, ok, "a user with no roles is still a cache hit")
	assert.Empty(t, roles)
}

func TestRoleCacheInvalidate(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("s1", "bob", nil)
	cache.Put("s2", "bob", nil)

	cache.Invalidate("s1", "bob")
	_, ok := cache.Get("s1", "bob")
	assert.False(t, ok)
	_, ok = cache.Get("s2", "bob")
	assert.True(t, ok)
}

func TestRoleCacheInvalidateUser(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("s1", "bob", nil)
	cache.Put("s2", "bob", nil)
	cache.Put("s1", "carol", nil)

	cache.InvalidateUser("bob")
	_, ok := cache.Get("s1", "bob")
	assert.False(t, ok)
	_, ok = cache.Get("s2", "bob")
	assert.False(t, ok)
	_, ok = cache.Get("s1", "carol")
	assert.True(t, ok)
}

func TestRoleCacheInvalidateContext(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("s1", "bob", nil)
	cache.Put("s1", "carol", nil)
	cache.Put("s2", "bob", nil)

	cache.InvalidateContext("s1")
	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get("s2", "bob")
	assert.True(t, ok)
}

func TestRoleCacheFlush(t *testing.T) {
	cache := NewRoleCache()
	cache.Put("s1", "bob", nil)
	cache.Put("s2", "carol", nil)

	cache.Flush()
	assert.Zero(t, cache.Len())
}
