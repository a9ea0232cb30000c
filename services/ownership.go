package services

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

const (
	ellipsis = "..."

	// minTitleLength is the floor below which the album title is no longer
	// shortened; any remaining excess comes out of the username instead.
	minTitleLength = 10
)

// OwnershipManager maintains the synthetic owner roles binding an album to
// its owning user. All role mutations go through the RoleStore (and therefore
// the validation guard) as the system actor.
type OwnershipManager struct {
	store  *RoleStore
	albums repository.AlbumRepositoryInterface
}

// NewOwnershipManager creates a manager over the given store and repository.
func NewOwnershipManager(store *RoleStore, albums repository.AlbumRepositoryInterface) *OwnershipManager {
	return &OwnershipManager{store: store, albums: albums}
}

// AssignOwner makes username the owner of the album, creating or extending
// the album's owner role as needed, and returns the owner role name. An
// empty username clears the current owner instead, deleting the owner role.
// Assigning the same owner twice is a no-op with the same result.
func (m *OwnershipManager) AssignOwner(albumID uint, username string) (string, error) {
	album, err := m.albums.GetByID(albumID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", wrapPersistence("load album", err)
	}

	if username == "" {
		return "", m.clearOwner(album)
	}

	roleName, err := GenerateOwnerRoleName(models.OwnerRoleNamePrefix, username, album.Name, album.ID)
	if err != nil {
		return "", err
	}

	// reassignment: detach the album from its previous owner role first
	if album.OwnerRoleName != nil && *album.OwnerRoleName != "" && *album.OwnerRoleName != roleName {
		if err := m.releaseFromRole(album.ID, *album.OwnerRoleName); err != nil {
			return "", err
		}
	}

	role, err := m.store.Get(roleName)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		role = newOwnerRoleTemplate(roleName)
		if err := m.store.Save(role, []uint{album.ID}, SystemActor); err != nil {
			return "", err
		}
	} else if !containsID(role.RootAlbumIDs, album.ID) {
		grants := append(append([]uint{}, role.RootAlbumIDs...), album.ID)
		if err := m.store.Save(role, grants, SystemActor); err != nil {
			return "", err
		}
	}

	if err := m.store.AddMember(roleName, username); err != nil {
		return "", err
	}

	if err := m.albums.SetOwnership(album.ID, username, roleName); err != nil {
		return "", wrapPersistence("set album ownership", err)
	}
	return roleName, nil
}

// clearOwner removes the album's owner binding. The owner role is deleted
// (which clears the ownership fields of every album it still covered); an
// album with an owner but no surviving role just has its fields cleared.
func (m *OwnershipManager) clearOwner(album *models.Album) error {
	if album.OwnerRoleName != nil && *album.OwnerRoleName != "" {
		err := m.store.Delete(*album.OwnerRoleName, SystemActor)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	if album.HasOwner() {
		if err := m.albums.ClearOwnership(album.ID); err != nil {
			return wrapPersistence("clear album ownership", err)
		}
	}
	return nil
}

// releaseFromRole removes one album from an owner role's grants; a role left
// with no grants is destroyed outright.
func (m *OwnershipManager) releaseFromRole(albumID uint, roleName string) error {
	role, err := m.store.Get(roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	remaining := make([]uint, 0, len(role.RootAlbumIDs))
	for _, id := range role.RootAlbumIDs {
		if id != albumID {
			remaining = append(remaining, id)
		}
	}
	if len(remaining) == 0 {
		return m.store.Delete(roleName, SystemActor)
	}
	return m.store.Save(role, remaining, SystemActor)
}

// newOwnerRoleTemplate builds the owner-role permission set: every flag
// except the two administrative ones.
func newOwnerRoleTemplate(name string) *models.Role {
	return &models.Role{
		Name:                 name,
		CanView:              true,
		CanViewOriginal:      true,
		CanAddMediaObject:    true,
		CanAddChildAlbum:     true,
		CanEditMediaObject:   true,
		CanEditAlbum:         true,
		CanDeleteMediaObject: true,
		CanDeleteChildAlbum:  true,
		CanSynchronize:       true,
		CanAdministerSite:    false,
		CanAdministerGallery: false,
		HideWatermark:        true,
	}
}

// GenerateOwnerRoleName builds the owner role name
// "{prefix} - {username} - {title} (album {id})" and shortens it to fit the
// role-name budget when needed. The title is trimmed first, down to a
// 10-character floor; only then is the username trimmed by whatever excess
// remains. Each trimmed part ends in "...". A username that cannot absorb
// the remaining excess yields a NamingError.
func GenerateOwnerRoleName(prefix, username, title string, albumID uint) (string, error) {
	build := func(user, albumTitle string) string {
		return fmt.Sprintf("%s - %s - %s (album %d)", prefix, user, albumTitle, albumID)
	}

	name := build(username, title)
	excess := utf8.RuneCountInString(name) - models.MaxRoleNameLength
	if excess <= 0 {
		return name, nil
	}

	// budgets count characters, so all slicing happens on rune boundaries
	titleRunes := []rune(title)
	if len(titleRunes)-excess >= minTitleLength {
		// trimming the title alone closes the gap exactly
		title = string(titleRunes[:len(titleRunes)-excess-len(ellipsis)]) + ellipsis
	} else {
		// title goes down to the floor; the username absorbs the rest
		remaining := excess
		if len(titleRunes) > minTitleLength {
			remaining -= len(titleRunes) - minTitleLength
			title = string(titleRunes[:minTitleLength-len(ellipsis)]) + ellipsis
		}

		userRunes := []rune(username)
		keep := len(userRunes) - remaining - len(ellipsis)
		if keep <= 0 {
			return "", &NamingError{Username: username, AlbumID: albumID, Length: models.MaxRoleNameLength}
		}
		username = string(userRunes[:keep]) + ellipsis
	}

	name = build(username, title)
	if utf8.RuneCountInString(name) > models.MaxRoleNameLength {
		return "", &NamingError{Username: username, AlbumID: albumID, Length: models.MaxRoleNameLength}
	}
	return name, nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
