package services

import (
	"fmt"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

// memBackend is the shared in-memory state behind the fake repositories.
type memBackend struct {
	albums      map[uint]*models.Album
	media       map[uint]*models.MediaObject
	galleries   map[uint]*models.Gallery
	roles       map[uint]*models.Role
	users       map[uint]*models.User
	memberships map[uint]map[uint]bool // roleID -> set of userIDs

	nextAlbumID   uint
	nextMediaID   uint
	nextGalleryID uint
	nextRoleID    uint
	nextUserID    uint
}

func newMemBackend() *memBackend {
	return &memBackend{
		albums:      map[uint]*models.Album{},
		media:       map[uint]*models.MediaObject{},
		galleries:   map[uint]*models.Gallery{},
		roles:       map[uint]*models.Role{},
		users:       map[uint]*models.User{},
		memberships: map[uint]map[uint]bool{},
	}
}

func copyRole(role *models.Role) *models.Role {
	dup := *role
	dup.RootAlbumIDs = append([]uint{}, role.RootAlbumIDs...)
	dup.AllAlbumIDs = append([]uint{}, role.AllAlbumIDs...)
	dup.Users = nil
	return &dup
}

func (b *memBackend) roleByName(name string) *models.Role {
	for _, role := range b.roles {
		if role.Name == name {
			return role
		}
	}
	return nil
}

func (b *memBackend) userRolesOf(userID uint) []*models.Role {
	var roles []*models.Role
	for roleID, members := range b.memberships {
		if members[userID] {
			if role, ok := b.roles[roleID]; ok {
				roles = append(roles, copyRole(role))
			}
		}
	}
	return roles
}

// --- album repository ---

type fakeAlbumRepo struct {
	b              *memBackend
	failPrivacyFor map[uint]bool
}

func (r *fakeAlbumRepo) Create(album *models.Album) error {
	r.b.nextAlbumID++
	album.ID = r.b.nextAlbumID
	dup := *album
	r.b.albums[album.ID] = &dup
	return nil
}

func (r *fakeAlbumRepo) GetByID(id uint) (*models.Album, error) {
	album, ok := r.b.albums[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *album
	return &dup, nil
}

func (r *fakeAlbumRepo) ListChildren(parentID uint) ([]models.Album, error) {
	var children []models.Album
	for id := uint(1); id <= r.b.nextAlbumID; id++ {
		album, ok := r.b.albums[id]
		if !ok || album.ParentID == nil || *album.ParentID != parentID {
			continue
		}
		children = append(children, *album)
	}
	return children, nil
}

func (r *fakeAlbumRepo) ListByGallery(galleryID uint) ([]models.Album, error) {
	var albums []models.Album
	for id := uint(1); id <= r.b.nextAlbumID; id++ {
		if album, ok := r.b.albums[id]; ok && album.GalleryID == galleryID {
			albums = append(albums, *album)
		}
	}
	return albums, nil
}

func (r *fakeAlbumRepo) ListByOwnerRole(roleName string) ([]models.Album, error) {
	var albums []models.Album
	for id := uint(1); id <= r.b.nextAlbumID; id++ {
		album, ok := r.b.albums[id]
		if ok && album.OwnerRoleName != nil && *album.OwnerRoleName == roleName {
			albums = append(albums, *album)
		}
	}
	return albums, nil
}

func (r *fakeAlbumRepo) Update(album *models.Album) error {
	if _, ok := r.b.albums[album.ID]; !ok {
		return repository.ErrNotFound
	}
	dup := *album
	r.b.albums[album.ID] = &dup
	return nil
}

func (r *fakeAlbumRepo) SetPrivacy(albumID uint, isPrivate bool) error {
	if r.failPrivacyFor[albumID] {
		return fmt.Errorf("simulated storage failure for album %d", albumID)
	}
	album, ok := r.b.albums[albumID]
	if !ok {
		return repository.ErrNotFound
	}
	album.IsPrivate = isPrivate
	return nil
}

func (r *fakeAlbumRepo) SetOwnership(albumID uint, ownerUsername, ownerRoleName string) error {
	album, ok := r.b.albums[albumID]
	if !ok {
		return repository.ErrNotFound
	}
	album.OwnerUsername = &ownerUsername
	album.OwnerRoleName = &ownerRoleName
	return nil
}

func (r *fakeAlbumRepo) ClearOwnership(albumID uint) error {
	album, ok := r.b.albums[albumID]
	if !ok {
		return repository.ErrNotFound
	}
	album.OwnerUsername = nil
	album.OwnerRoleName = nil
	return nil
}

func (r *fakeAlbumRepo) Delete(id uint) error {
	if _, ok := r.b.albums[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.b.albums, id)
	return nil
}

// --- media object repository ---

type fakeMediaRepo struct {
	b              *memBackend
	failPrivacyFor map[uint]bool
}

func (r *fakeMediaRepo) Create(mediaObject *models.MediaObject) error {
	r.b.nextMediaID++
	mediaObject.ID = r.b.nextMediaID
	dup := *mediaObject
	r.b.media[mediaObject.ID] = &dup
	return nil
}

func (r *fakeMediaRepo) GetByID(id uint) (*models.MediaObject, error) {
	mediaObject, ok := r.b.media[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *mediaObject
	return &dup, nil
}

func (r *fakeMediaRepo) ListByAlbum(albumID uint) ([]models.MediaObject, error) {
	var mediaObjects []models.MediaObject
	for id := uint(1); id <= r.b.nextMediaID; id++ {
		if mediaObject, ok := r.b.media[id]; ok && mediaObject.AlbumID == albumID {
			mediaObjects = append(mediaObjects, *mediaObject)
		}
	}
	return mediaObjects, nil
}

func (r *fakeMediaRepo) SetPrivacy(mediaObjectID uint, isPrivate bool) error {
	if r.failPrivacyFor[mediaObjectID] {
		return fmt.Errorf("simulated storage failure for media object %d", mediaObjectID)
	}
	mediaObject, ok := r.b.media[mediaObjectID]
	if !ok {
		return repository.ErrNotFound
	}
	mediaObject.IsPrivate = isPrivate
	return nil
}

func (r *fakeMediaRepo) Delete(id uint) error {
	if _, ok := r.b.media[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.b.media, id)
	return nil
}

// --- gallery repository ---

type fakeGalleryRepo struct {
	b *memBackend
}

func (r *fakeGalleryRepo) Create(gallery *models.Gallery) error {
	r.b.nextGalleryID++
	gallery.ID = r.b.nextGalleryID
	dup := *gallery
	r.b.galleries[gallery.ID] = &dup
	return nil
}

func (r *fakeGalleryRepo) GetByID(id uint) (*models.Gallery, error) {
	gallery, ok := r.b.galleries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *gallery
	return &dup, nil
}

func (r *fakeGalleryRepo) Update(gallery *models.Gallery) error {
	if _, ok := r.b.galleries[gallery.ID]; !ok {
		return repository.ErrNotFound
	}
	dup := *gallery
	r.b.galleries[gallery.ID] = &dup
	return nil
}

func (r *fakeGalleryRepo) ListAll() ([]models.Gallery, error) {
	var galleries []models.Gallery
	for id := uint(1); id <= r.b.nextGalleryID; id++ {
		if gallery, ok := r.b.galleries[id]; ok {
			galleries = append(galleries, *gallery)
		}
	}
	return galleries, nil
}

// --- role repository ---

type fakeRoleRepo struct {
	b *memBackend
}

func (r *fakeRoleRepo) Create(role *models.Role) error {
	if r.b.roleByName(role.Name) != nil {
		return fmt.Errorf("role name %q already exists", role.Name)
	}
	r.b.nextRoleID++
	role.ID = r.b.nextRoleID
	r.b.roles[role.ID] = copyRole(role)
	return nil
}

func (r *fakeRoleRepo) GetByID(id uint) (*models.Role, error) {
	role, ok := r.b.roles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyRole(role), nil
}

func (r *fakeRoleRepo) GetByName(name string) (*models.Role, error) {
	role := r.b.roleByName(name)
	if role == nil {
		return nil, repository.ErrNotFound
	}
	return copyRole(role), nil
}

func (r *fakeRoleRepo) ListAll() ([]models.Role, error) {
	var roles []models.Role
	for id := uint(1); id <= r.b.nextRoleID; id++ {
		if role, ok := r.b.roles[id]; ok {
			roles = append(roles, *copyRole(role))
		}
	}
	return roles, nil
}

func (r *fakeRoleRepo) Update(role *models.Role) error {
	if _, ok := r.b.roles[role.ID]; !ok {
		return repository.ErrNotFound
	}
	r.b.roles[role.ID] = copyRole(role)
	return nil
}

func (r *fakeRoleRepo) DeleteByName(name string) error {
	role := r.b.roleByName(name)
	if role == nil {
		return repository.ErrNotFound
	}
	delete(r.b.memberships, role.ID)
	delete(r.b.roles, role.ID)
	return nil
}

func (r *fakeRoleRepo) FindUsersByRoleName(name string) ([]models.User, error) {
	role := r.b.roleByName(name)
	if role == nil {
		return nil, repository.ErrNotFound
	}
	var users []models.User
	for userID := range r.b.memberships[role.ID] {
		if user, ok := r.b.users[userID]; ok {
			dup := *user
			dup.Roles = nil
			users = append(users, dup)
		}
	}
	return users, nil
}

func (r *fakeRoleRepo) AddUserToRole(userID, roleID uint) error {
	if _, ok := r.b.roles[roleID]; !ok {
		return repository.ErrNotFound
	}
	if r.b.memberships[roleID] == nil {
		r.b.memberships[roleID] = map[uint]bool{}
	}
	r.b.memberships[roleID][userID] = true
	return nil
}

func (r *fakeRoleRepo) RemoveUserFromRole(userID, roleID uint) error {
	delete(r.b.memberships[roleID], userID)
	return nil
}

// --- user repository ---

type fakeUserRepo struct {
	b *memBackend
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.b.nextUserID++
	user.ID = r.b.nextUserID
	dup := *user
	dup.Roles = nil
	r.b.users[user.ID] = &dup
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	user, ok := r.b.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	dup := *user
	dup.Roles = r.b.userRolesOf(id)
	return &dup, nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	for id, user := range r.b.users {
		if user.Username == username {
			dup := *user
			dup.Roles = r.b.userRolesOf(id)
			return &dup, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ListAll() ([]models.User, error) {
	var users []models.User
	for id := uint(1); id <= r.b.nextUserID; id++ {
		if user, ok := r.b.users[id]; ok {
			dup := *user
			dup.Roles = r.b.userRolesOf(id)
			users = append(users, dup)
		}
	}
	return users, nil
}

func (r *fakeUserRepo) GetUserRoles(userID uint) ([]models.Role, error) {
	if _, ok := r.b.users[userID]; !ok {
		return nil, repository.ErrNotFound
	}
	var roles []models.Role
	for _, role := range r.b.userRolesOf(userID) {
		roles = append(roles, *role)
	}
	return roles, nil
}

// --- fixture ---

// fixture wires fake repositories into the full service graph for tests.
type fixture struct {
	backend   *memBackend
	albumRepo *fakeAlbumRepo
	mediaRepo *fakeMediaRepo
	roleRepo  *fakeRoleRepo
	userRepo  *fakeUserRepo

	tree      *AlbumTree
	guard     *ValidationGuard
	cache     *RoleCache
	store     *RoleStore
	resolver  *PermissionResolver
	cascade   *CascadeSynchronizer
	ownership *OwnershipManager
}

func newFixture() *fixture {
	backend := newMemBackend()
	albumRepo := &fakeAlbumRepo{b: backend, failPrivacyFor: map[uint]bool{}}
	mediaRepo := &fakeMediaRepo{b: backend, failPrivacyFor: map[uint]bool{}}
	galleryRepo := &fakeGalleryRepo{b: backend}
	roleRepo := &fakeRoleRepo{b: backend}
	userRepo := &fakeUserRepo{b: backend}

	tree := NewAlbumTree(albumRepo, galleryRepo)
	guard := NewValidationGuard(roleRepo, userRepo, tree)
	cache := NewRoleCache()
	store := NewRoleStore(roleRepo, albumRepo, userRepo, tree, guard)
	store.Register(NewCacheInvalidationObserver(cache, roleRepo))

	return &fixture{
		backend:   backend,
		albumRepo: albumRepo,
		mediaRepo: mediaRepo,
		roleRepo:  roleRepo,
		userRepo:  userRepo,
		tree:      tree,
		guard:     guard,
		cache:     cache,
		store:     store,
		resolver:  NewPermissionResolver(userRepo, cache, tree),
		cascade:   NewCascadeSynchronizer(albumRepo, mediaRepo),
		ownership: NewOwnershipManager(store, albumRepo),
	}
}

// addGallery creates a gallery plus its root album and returns both ids.
func (f *fixture) addGallery(name string) (galleryID, rootAlbumID uint) {
	f.backend.nextGalleryID++
	galleryID = f.backend.nextGalleryID

	root := &models.Album{GalleryID: galleryID, Name: name + " root"}
	_ = f.albumRepo.Create(root)

	f.backend.galleries[galleryID] = &models.Gallery{ID: galleryID, Name: name, RootAlbumID: root.ID}
	return galleryID, root.ID
}

// addAlbum creates an album under the given parent and returns its id.
func (f *fixture) addAlbum(galleryID, parentID uint, name string) uint {
	album := &models.Album{GalleryID: galleryID, ParentID: &parentID, Name: name}
	_ = f.albumRepo.Create(album)
	return album.ID
}

// addMedia creates a media object in the given album and returns its id.
func (f *fixture) addMedia(galleryID, albumID uint, fileName string) uint {
	mediaObject := &models.MediaObject{GalleryID: galleryID, AlbumID: albumID, FileName: fileName}
	_ = f.mediaRepo.Create(mediaObject)
	return mediaObject.ID
}

// addUser creates a user and returns its id.
func (f *fixture) addUser(username string) uint {
	user := &models.User{Username: username, PasswordHash: "x"}
	_ = f.userRepo.Create(user)
	return user.ID
}

// seedRole persists a role directly (bypassing the guard) and enrolls the
// given users; used to establish preconditions.
func (f *fixture) seedRole(role *models.Role, memberIDs ...uint) *models.Role {
	_ = f.roleRepo.Create(role)
	for _, userID := range memberIDs {
		_ = f.roleRepo.AddUserToRole(userID, role.ID)
	}
	return role
}

func siteAdminRole(name string) *models.Role {
	return &models.Role{Name: name, CanView: true, CanAdministerSite: true}
}

func galleryAdminRole(name string, rootAlbumIDs ...uint) *models.Role {
	return &models.Role{
		Name:                 name,
		CanView:              true,
		CanAdministerGallery: true,
		RootAlbumIDs:         rootAlbumIDs,
		AllAlbumIDs:          rootAlbumIDs,
	}
}
