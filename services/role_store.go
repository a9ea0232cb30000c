package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

// RoleObserver is notified synchronously after a successful role mutation.
// Observers must not mutate roles themselves.
type RoleObserver interface {
	// RoleSaved receives the previous state (nil on creation) and the state
	// that was committed.
	RoleSaved(oldRole, newRole *models.Role)
	// RoleDeleted receives the role as it was before deletion.
	RoleDeleted(role *models.Role)
	// RoleMembershipChanged fires when a single user is added to or removed
	// from the role.
	RoleMembershipChanged(role *models.Role, username string)
}

// RoleStore owns role persistence. Every mutation passes through the
// validation guard first, recomputes the derived album set, and is serialized
// by a single mutex so check-then-act creation cannot race a duplicate name.
type RoleStore struct {
	mu        sync.Mutex
	roles     repository.RoleRepository
	albums    repository.AlbumRepositoryInterface
	users     repository.UserRepository
	tree      *AlbumTree
	guard     *ValidationGuard
	observers []RoleObserver
}

// NewRoleStore creates a RoleStore over the given collaborators.
func NewRoleStore(
	roles repository.RoleRepository,
	albums repository.AlbumRepositoryInterface,
	users repository.UserRepository,
	tree *AlbumTree,
	guard *ValidationGuard,
) *RoleStore {
	return &RoleStore{
		roles:  roles,
		albums: albums,
		users:  users,
		tree:   tree,
		guard:  guard,
	}
}

// Register adds an observer; not safe to call concurrently with mutations.
func (s *RoleStore) Register(observer RoleObserver) {
	s.observers = append(s.observers, observer)
}

// Save validates and commits a role with the given explicit album grants,
// recomputing the derived AllAlbumIDs set:
//   - administer-site roles cover the root album of every gallery
//   - administer-gallery roles cover the gallery root above each grant
//   - all other roles cover the grants and every album beneath them
//
// For an owner role, albums dropped from the grants have their ownership
// fields cleared so no album keeps pointing at a role that no longer covers it.
func (s *RoleStore) Save(role *models.Role, rootAlbumIDs []uint, actingUser string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role.Name == "" {
		return fmt.Errorf("role name is required")
	}
	if len(role.Name) > models.MaxRoleNameLength {
		return fmt.Errorf("role name exceeds %d characters", models.MaxRoleNameLength)
	}

	existing, err := s.roles.GetByName(role.Name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return wrapPersistence("load existing role", err)
		}
		existing = nil
	}

	if err := s.guard.BeforeSave(role, existing, actingUser); err != nil {
		return err
	}

	allAlbumIDs, err := s.computeAllAlbumIDs(role, rootAlbumIDs)
	if err != nil {
		return err
	}

	if existing != nil && existing.IsOwnerRole() {
		if err := s.clearDroppedOwnerAlbums(existing, rootAlbumIDs); err != nil {
			return err
		}
	}

	role.RootAlbumIDs = rootAlbumIDs
	role.AllAlbumIDs = allAlbumIDs

	if existing != nil {
		role.ID = existing.ID
		role.CreatedAt = existing.CreatedAt
		if err := s.roles.Update(role); err != nil {
			return wrapPersistence("update role", err)
		}
	} else {
		if err := s.roles.Create(role); err != nil {
			return wrapPersistence("create role", err)
		}
	}

	s.notifySaved(existing, role)
	return nil
}

// Delete validates and removes a role by name. Deleting an owner role clears
// the ownership fields on every album that referenced it.
func (s *RoleStore) Delete(name string, actingUser string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, err := s.roles.GetByName(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return wrapPersistence("load role", err)
	}

	if err := s.guard.BeforeDelete(role, actingUser); err != nil {
		return err
	}

	if role.IsOwnerRole() {
		owned, err := s.albums.ListByOwnerRole(role.Name)
		if err != nil {
			return wrapPersistence("list owned albums", err)
		}
		for i := range owned {
			if err := s.albums.ClearOwnership(owned[i].ID); err != nil {
				return wrapPersistence("clear album ownership", err)
			}
		}
	}

	if err := s.roles.DeleteByName(name); err != nil {
		return wrapPersistence("delete role", err)
	}

	s.notifyDeleted(role)
	return nil
}

// AddMember ensures the named user is a member of the named role. Adding an
// existing member is a no-op. Observers are notified so caches drop the
// user's resolved roles.
func (s *RoleStore) AddMember(roleName, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, err := s.roles.GetByName(roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return wrapPersistence("load role", err)
	}
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return wrapPersistence("load user", err)
	}

	if err := s.roles.AddUserToRole(user.ID, role.ID); err != nil {
		return wrapPersistence("add role member", err)
	}

	s.notifyMembershipChanged(role, username)
	return nil
}

// RemoveMember removes the named user from the named role. Observers are
// notified so caches drop the user's resolved roles.
func (s *RoleStore) RemoveMember(roleName, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, err := s.roles.GetByName(roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return wrapPersistence("load role", err)
	}
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return wrapPersistence("load user", err)
	}

	if err := s.roles.RemoveUserFromRole(user.ID, role.ID); err != nil {
		return wrapPersistence("remove role member", err)
	}

	s.notifyMembershipChanged(role, username)
	return nil
}

// Exists reports whether a role with the given name exists.
func (s *RoleStore) Exists(name string) (bool, error) {
	_, err := s.roles.GetByName(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, wrapPersistence("load role", err)
	}
	return true, nil
}

// Get retrieves a role by name, or ErrNotFound.
func (s *RoleStore) Get(name string) (*models.Role, error) {
	role, err := s.roles.GetByName(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapPersistence("load role", err)
	}
	return role, nil
}

// AllRoles lists every role, optionally filtering out the system-managed
// owner roles.
func (s *RoleStore) AllRoles(includeOwnerRoles bool) ([]models.Role, error) {
	roles, err := s.roles.ListAll()
	if err != nil {
		return nil, wrapPersistence("list roles", err)
	}
	if includeOwnerRoles {
		return roles, nil
	}
	filtered := make([]models.Role, 0, len(roles))
	for i := range roles {
		if !roles[i].IsOwnerRole() {
			filtered = append(filtered, roles[i])
		}
	}
	return filtered, nil
}

func (s *RoleStore) computeAllAlbumIDs(role *models.Role, rootAlbumIDs []uint) ([]uint, error) {
	switch {
	case role.CanAdministerSite:
		roots, err := s.tree.GalleryRootIDs()
		if err != nil {
			return nil, wrapPersistence("list gallery roots", err)
		}
		return roots, nil

	case role.CanAdministerGallery:
		seen := map[uint]bool{}
		var roots []uint
		for _, albumID := range rootAlbumIDs {
			rootID, err := s.tree.RootAncestorID(albumID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, wrapPersistence("resolve gallery root", err)
			}
			if !seen[rootID] {
				seen[rootID] = true
				roots = append(roots, rootID)
			}
		}
		return roots, nil

	default:
		seen := map[uint]bool{}
		var all []uint
		for _, albumID := range rootAlbumIDs {
			if _, err := s.tree.Get(albumID); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return nil, wrapPersistence("load granted album", err)
			}
			if !seen[albumID] {
				seen[albumID] = true
				all = append(all, albumID)
			}
			descendants, err := s.tree.DescendantIDs(albumID)
			if err != nil {
				return nil, wrapPersistence("expand album grants", err)
			}
			for _, id := range descendants {
				if !seen[id] {
					seen[id] = true
					all = append(all, id)
				}
			}
		}
		return all, nil
	}
}

// clearDroppedOwnerAlbums clears the ownership fields of every album removed
// from an owner role's grants whose binding still points at this role.
func (s *RoleStore) clearDroppedOwnerAlbums(existing *models.Role, newRootAlbumIDs []uint) error {
	kept := map[uint]bool{}
	for _, id := range newRootAlbumIDs {
		kept[id] = true
	}
	for _, albumID := range existing.RootAlbumIDs {
		if kept[albumID] {
			continue
		}
		album, err := s.albums.GetByID(albumID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return wrapPersistence("load album", err)
		}
		if album.OwnerRoleName != nil && *album.OwnerRoleName == existing.Name {
			if err := s.albums.ClearOwnership(albumID); err != nil {
				return wrapPersistence("clear album ownership", err)
			}
		}
	}
	return nil
}

func (s *RoleStore) notifySaved(oldRole, newRole *models.Role) {
	for _, observer := range s.observers {
		observer.RoleSaved(oldRole, newRole)
	}
}

func (s *RoleStore) notifyDeleted(role *models.Role) {
	for _, observer := range s.observers {
		observer.RoleDeleted(role)
	}
}

func (s *RoleStore) notifyMembershipChanged(role *models.Role, username string) {
	for _, observer := range s.observers {
		observer.RoleMembershipChanged(role, username)
	}
}
