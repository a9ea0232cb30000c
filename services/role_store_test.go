package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerysysbackend/models"
)

func TestSaveDerivesGalleryRootForGalleryAdmin(t *testing.T) {
	f := newFixture()
	galleryID, rootID := f.addGallery("Main")
	albumA := f.addAlbum(galleryID, rootID, "A")
	albumA1 := f.addAlbum(galleryID, albumA, "A1")

	role := galleryAdminRole("GalleryAdmins")
	require.NoError(t, f.store.Save(role, []uint{albumA1}, SystemActor))

	saved, err := f.store.Get("GalleryAdmins")
	require.NoError(t, err)
	assert.Equal(t, []uint{albumA1}, saved.RootAlbumIDs)
	assert.Equal(t, []uint{rootID}, saved.AllAlbumIDs, "a gallery admin grant resolves to the gallery root above it")
}

func TestSaveDerivesGalleryRootsDeduped(t *testing.T) {
	f := newFixture()
	galleryID, rootID := f.addGallery("Main")
	albumA := f.addAlbum(galleryID, rootID, "A")
	albumB := f.addAlbum(galleryID, rootID, "B")

	role := galleryAdminRole("GalleryAdmins")
	require.NoError(t, f.store.Save(role, []uint{albumA, albumB}, SystemActor))

	saved, err := f.store.Get("GalleryAdmins")
	require.NoError(t, err)
	assert.Equal(t, []uint{rootID}, saved.AllAlbumIDs, "grants under the same gallery collapse to one root")
}

func TestSaveDerivesAllGalleryRootsForSiteAdmin(t *testing.T) {
	f := newFixture()
	_, rootOne := f.addGallery("One")
	_, rootTwo := f.addGallery("Two")

	role := siteAdminRole("Admins")
	require.NoError(t, f.store.Save(role, nil, SystemActor))

	saved, err := f.store.Get("Admins")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{rootOne, rootTwo}, saved.AllAlbumIDs)
}

func TestSaveExpandsGrantsToDescendants(t *testing.T) {
	f := newFixture()
	galleryID, rootID := f.addGallery("Main")
	albumA := f.addAlbum(galleryID, rootID, "A")
	albumA1 := f.addAlbum(galleryID, albumA, "A1")
	albumA2 := f.addAlbum(galleryID, albumA, "A2")
	albumA1a := f.addAlbum(galleryID, albumA1, "A1a")
	f.addAlbum(galleryID, rootID, "B") // outside the grant

	role := &models.Role{Name: "Viewers", CanView: true}
	require.NoError(t, f.store.Save(role, []uint{albumA}, SystemActor))

	saved, err := f.store.Get("Viewers")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{albumA, albumA1, albumA2, albumA1a}, saved.AllAlbumIDs)
}

func TestSaveRejectsBadNames(t *testing.T) {
	f := newFixture()

	err := f.store.Save(&models.Role{Name: ""}, nil, SystemActor)
	assert.Error(t, err)

	err = f.store.Save(&models.Role{Name: strings.Repeat("x", models.MaxRoleNameLength+1)}, nil, SystemActor)
	assert.Error(t, err)
}

func TestSavePreservesIdentityOnUpdate(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")

	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))
	original, err := f.store.Get("Editors")
	require.NoError(t, err)

	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true, CanEditAlbum: true}, nil, SystemActor))
	updated, err := f.store.Get("Editors")
	require.NoError(t, err)

	assert.Equal(t, original.ID, updated.ID)
	assert.True(t, updated.CanEditAlbum)
}

func TestSaveOwnerRoleClearsDroppedAlbums(t *testing.T) {
	f := newFixture()
	galleryID, rootID := f.addGallery("Main")
	albumA := f.addAlbum(galleryID, rootID, "A")
	albumB := f.addAlbum(galleryID, rootID, "B")

	name := models.OwnerRoleNamePrefix + " - dave - A (album 2)"
	role := newOwnerRoleTemplate(name)
	require.NoError(t, f.store.Save(role, []uint{albumA, albumB}, SystemActor))
	require.NoError(t, f.albumRepo.SetOwnership(albumA, "dave", name))
	require.NoError(t, f.albumRepo.SetOwnership(albumB, "dave", name))

	kept, err := f.store.Get(name)
	require.NoError(t, err)
	require.NoError(t, f.store.Save(kept, []uint{albumB}, SystemActor))

	albumAState, err := f.albumRepo.GetByID(albumA)
	require.NoError(t, err)
	assert.False(t, albumAState.HasOwner(), "album dropped from the owner role loses its owner binding")

	albumBState, err := f.albumRepo.GetByID(albumB)
	require.NoError(t, err)
	assert.True(t, albumBState.HasOwner())
}

func TestDeleteOwnerRoleClearsOwnership(t *testing.T) {
	f := newFixture()
	galleryID, rootID := f.addGallery("Main")
	albumA := f.addAlbum(galleryID, rootID, "A")

	name := models.OwnerRoleNamePrefix + " - dave - A (album 2)"
	require.NoError(t, f.store.Save(newOwnerRoleTemplate(name), []uint{albumA}, SystemActor))
	require.NoError(t, f.albumRepo.SetOwnership(albumA, "dave", name))

	require.NoError(t, f.store.Delete(name, SystemActor))

	album, err := f.albumRepo.GetByID(albumA)
	require.NoError(t, err)
	assert.False(t, album.HasOwner())

	_, err = f.store.Get(name)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveRejectedByGuardLeavesRoleUntouched(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	aliceID := f.addUser("alice")
	f.seedRole(siteAdminRole("Admins"), aliceID)

	demoted := &models.Role{Name: "Admins", CanView: true}
	err := f.store.Save(demoted, nil, "alice")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, ReasonLastAdminRemoval, verr.Reason)

	kept, getErr := f.store.Get("Admins")
	require.NoError(t, getErr)
	assert.True(t, kept.CanAdministerSite, "rejected save must not persist")
}

func TestSaveInvalidatesMemberCacheEntries(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	f.addUser("bob")

	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))
	require.NoError(t, f.store.AddMember("Editors", "bob"))

	f.cache.Put("session-1", "bob", nil)
	f.cache.Put("session-2", "bob", nil)
	f.cache.Put("session-1", "carol", nil)

	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true, CanEditAlbum: true}, nil, SystemActor))

	_, ok := f.cache.Get("session-1", "bob")
	assert.False(t, ok)
	_, ok = f.cache.Get("session-2", "bob")
	assert.False(t, ok)
	_, ok = f.cache.Get("session-1", "carol")
	assert.True(t, ok, "non-members keep their cached roles")
}

func TestMembershipChangeInvalidatesUser(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	f.addUser("bob")
	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))
	require.NoError(t, f.store.AddMember("Editors", "bob"))

	f.cache.Put("session-1", "bob", nil)
	require.NoError(t, f.store.RemoveMember("Editors", "bob"))

	_, ok := f.cache.Get("session-1", "bob")
	assert.False(t, ok, "the removed member's entry is dropped even though they can no longer be enumerated")

	members, err := f.roleRepo.FindUsersByRoleName("Editors")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestDeleteFlushesCache(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))

	f.cache.Put("session-1", "bob", nil)
	require.NoError(t, f.store.Delete("Editors", SystemActor))
	assert.Zero(t, f.cache.Len())
}

func TestAddMemberUnknownRoleOrUser(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	f.addUser("bob")

	assert.ErrorIs(t, f.store.AddMember("Missing", "bob"), ErrNotFound)

	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))
	assert.ErrorIs(t, f.store.AddMember("Editors", "nobody"), ErrNotFound)
}

func TestAllRolesFiltersOwnerRoles(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))
	require.NoError(t, f.store.Save(newOwnerRoleTemplate(models.OwnerRoleNamePrefix+" - dave - A (album 2)"), nil, SystemActor))

	visible, err := f.store.AllRoles(false)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "Editors", visible[0].Name)

	all, err := f.store.AllRoles(true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExists(t *testing.T) {
	f := newFixture()
	f.addGallery("Main")
	require.NoError(t, f.store.Save(&models.Role{Name: "Editors", CanView: true}, nil, SystemActor))

	ok, err := f.store.Exists("Editors")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.store.Exists("Missing")
	require.NoError(t, err)
	assert.False(t, ok)
}
