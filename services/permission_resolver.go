package services

import (
	"errors"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/permissions"
	"github.com/camden-git/gallerysysbackend/repository"
)

// PermissionResolver answers read-only permission questions: which albums a
// user's roles reach, and the shallowest album in a gallery where the user
// may perform an action. It never mutates roles and takes no locks; the
// RoleCache it consults is internally synchronized.
type PermissionResolver struct {
	users repository.UserRepository
	cache *RoleCache
	tree  *AlbumTree
}

// NewPermissionResolver creates a resolver over the given collaborators.
func NewPermissionResolver(users repository.UserRepository, cache *RoleCache, tree *AlbumTree) *PermissionResolver {
	return &PermissionResolver{users: users, cache: cache, tree: tree}
}

// RolesForUser returns the user's roles, resolving through the cache. An
// unknown user resolves to no roles rather than an error.
func (r *PermissionResolver) RolesForUser(contextID, username string) ([]models.Role, error) {
	if roles, ok := r.cache.Get(contextID, username); ok {
		return roles, nil
	}

	user, err := r.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.cache.Put(contextID, username, nil)
			return nil, nil
		}
		return nil, wrapPersistence("load user", err)
	}

	roles := make([]models.Role, 0, len(user.Roles))
	for _, rolePtr := range user.Roles {
		if rolePtr != nil {
			roles = append(roles, *rolePtr)
		}
	}
	r.cache.Put(contextID, username, roles)
	return roles, nil
}

// AlbumIDsWithPermission unions the derived album sets of every role the
// user holds that satisfies the criteria.
func (r *PermissionResolver) AlbumIDsWithPermission(contextID, username string, criteria permissions.Criteria) (map[uint]struct{}, error) {
	roles, err := r.RolesForUser(contextID, username)
	if err != nil {
		return nil, err
	}

	albumIDs := make(map[uint]struct{})
	for i := range roles {
		role := &roles[i]
		if !criteria(role) {
			continue
		}
		for _, id := range role.AllAlbumIDs {
			albumIDs[id] = struct{}{}
		}
	}
	return albumIDs, nil
}

// HighestPermittedAlbum returns the shallowest album in the gallery for which
// the user holds a role satisfying the criteria, and false when no album in
// the gallery qualifies.
//
// Candidates outside the gallery are dropped, as is any candidate with an
// ancestor that is itself a candidate (the shallower grant already covers
// it). The remaining set is searched breadth-first from the gallery root,
// across each level before descending, so ties within a level resolve to the
// deterministic child order of AlbumTree.Children.
func (r *PermissionResolver) HighestPermittedAlbum(contextID string, galleryID uint, criteria permissions.Criteria, username string) (uint, bool, error) {
	candidates, err := r.AlbumIDsWithPermission(contextID, username, criteria)
	if err != nil {
		return 0, false, err
	}
	if len(candidates) == 0 {
		return 0, false, nil
	}

	// keep only candidates inside the requested gallery
	inGallery := make(map[uint]struct{}, len(candidates))
	for id := range candidates {
		album, err := r.tree.Get(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return 0, false, wrapPersistence("load candidate album", err)
		}
		if album.GalleryID == galleryID {
			inGallery[id] = struct{}{}
		}
	}
	if len(inGallery) == 0 {
		return 0, false, nil
	}

	// drop candidates shadowed by a shallower candidate on their ancestor chain
	reduced := make(map[uint]struct{}, len(inGallery))
	for id := range inGallery {
		ancestors, err := r.tree.AncestorIDs(id)
		if err != nil {
			return 0, false, wrapPersistence("walk candidate ancestors", err)
		}
		shadowed := false
		for _, ancestorID := range ancestors {
			if _, ok := inGallery[ancestorID]; ok {
				shadowed = true
				break
			}
		}
		if !shadowed {
			reduced[id] = struct{}{}
		}
	}

	rootID, err := r.tree.GalleryRootID(galleryID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, wrapPersistence("resolve gallery root", err)
	}

	// level-order search from the root: across before down
	visited := map[uint]bool{rootID: true}
	queue := []uint{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if _, ok := reduced[current]; ok {
			return current, true, nil
		}

		children, err := r.tree.Children(current)
		if err != nil {
			return 0, false, wrapPersistence("enumerate children", err)
		}
		for i := range children {
			if !visited[children[i].ID] {
				visited[children[i].ID] = true
				queue = append(queue, children[i].ID)
			}
		}
	}
	return 0, false, nil
}
