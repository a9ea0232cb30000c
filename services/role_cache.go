package services

import (
	"sync"

	"github.com/camden-git/gallerysysbackend/models"
)

type cacheKey struct {
	ContextID string
	Username  string
}

// RoleCache memoizes the resolved role collection per (session context, user).
// Entries live until explicitly invalidated: on role mutation affecting the
// user, or on teardown of the session context. There is no TTL.
type RoleCache struct {
	mu      sync.Mutex
	entries map[cacheKey][]models.Role
}

// NewRoleCache creates an empty RoleCache.
func NewRoleCache() *RoleCache {
	return &RoleCache{entries: make(map[cacheKey][]models.Role)}
}

// Get returns the cached roles for the (contextID, username) pair, if present.
func (c *RoleCache) Get(contextID, username string) ([]models.Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	roles, ok := c.entries[cacheKey{ContextID: contextID, Username: username}]
	return roles, ok
}

// Put stores the resolved roles for the (contextID, username) pair.
func (c *RoleCache) Put(contextID, username string, roles []models.Role) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{ContextID: contextID, Username: username}] = roles
}

// Invalidate evicts a single (contextID, username) entry. Called on logon and
// logoff of that context.
func (c *RoleCache) Invalidate(contextID, username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey{ContextID: contextID, Username: username})
}

// InvalidateUser evicts the user's entries across every context. Called when
// a role the user belongs to is mutated.
func (c *RoleCache) InvalidateUser(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Username == username {
			delete(c.entries, key)
		}
	}
}

// InvalidateContext evicts every entry belonging to a session context.
func (c *RoleCache) InvalidateContext(contextID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.ContextID == contextID {
			delete(c.entries, key)
		}
	}
}

// Flush drops every entry.
func (c *RoleCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey][]models.Role)
}

// Len reports the number of live entries (used by tests and the debug surface).
func (c *RoleCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
