package services

import (
	"fmt"

	"github.com/camden-git/gallerysysbackend/repository"
)

// CascadeSynchronizer pushes a privacy change from an album down its entire
// subtree, persisting every affected album and media object one by one. It
// provides no atomicity: a persistence failure mid-walk aborts immediately
// and leaves the nodes already written in their new state. Callers needing
// all-or-nothing semantics must wrap the call in a storage transaction.
type CascadeSynchronizer struct {
	albums repository.AlbumRepositoryInterface
	media  repository.MediaObjectRepositoryInterface
}

// NewCascadeSynchronizer creates a synchronizer over the given repositories.
func NewCascadeSynchronizer(albums repository.AlbumRepositoryInterface, media repository.MediaObjectRepositoryInterface) *CascadeSynchronizer {
	return &CascadeSynchronizer{albums: albums, media: media}
}

// SetPrivacyRecursive sets the privacy flag on the album, its media objects,
// and every descendant album and media object beneath it.
func (c *CascadeSynchronizer) SetPrivacyRecursive(albumID uint, isPrivate bool) error {
	visited := map[uint]bool{}
	return c.setPrivacy(albumID, isPrivate, visited)
}

func (c *CascadeSynchronizer) setPrivacy(albumID uint, isPrivate bool, visited map[uint]bool) error {
	if visited[albumID] {
		return fmt.Errorf("cycle detected in album tree at album %d", albumID)
	}
	visited[albumID] = true

	if err := c.albums.SetPrivacy(albumID, isPrivate); err != nil {
		return wrapPersistence("set album privacy", err)
	}

	// media objects are leaves: set and persist, no further recursion
	mediaObjects, err := c.media.ListByAlbum(albumID)
	if err != nil {
		return wrapPersistence("list album media", err)
	}
	for i := range mediaObjects {
		if err := c.media.SetPrivacy(mediaObjects[i].ID, isPrivate); err != nil {
			return wrapPersistence("set media privacy", err)
		}
	}

	children, err := c.albums.ListChildren(albumID)
	if err != nil {
		return wrapPersistence("list child albums", err)
	}
	for i := range children {
		if err := c.setPrivacy(children[i].ID, isPrivate, visited); err != nil {
			return err
		}
	}
	return nil
}
