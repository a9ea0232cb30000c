package services

import (
	"errors"
	"log"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

// CacheInvalidationObserver drops resolved-role cache entries when role
// mutations make them stale. It registers with the RoleStore as a RoleObserver.
type CacheInvalidationObserver struct {
	cache *RoleCache
	roles repository.RoleRepository
}

// NewCacheInvalidationObserver creates an observer bound to the given cache.
func NewCacheInvalidationObserver(cache *RoleCache, roles repository.RoleRepository) *CacheInvalidationObserver {
	return &CacheInvalidationObserver{cache: cache, roles: roles}
}

// RoleSaved invalidates the cached roles of every member of the saved role.
func (o *CacheInvalidationObserver) RoleSaved(oldRole, newRole *models.Role) {
	members, err := o.roles.FindUsersByRoleName(newRole.Name)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("warning: failed to resolve members of role %q for cache invalidation: %v", newRole.Name, err)
		}
		// membership unknown, drop everything rather than serve stale roles
		o.cache.Flush()
		return
	}
	for i := range members {
		o.cache.InvalidateUser(members[i].Username)
	}
}

// RoleDeleted flushes the cache: the role's membership rows are gone with it,
// so the affected users can no longer be enumerated.
func (o *CacheInvalidationObserver) RoleDeleted(role *models.Role) {
	o.cache.Flush()
}

// RoleMembershipChanged invalidates just the affected user.
func (o *CacheInvalidationObserver) RoleMembershipChanged(role *models.Role, username string) {
	o.cache.InvalidateUser(username)
}
