package services

import (
	"fmt"
	"sort"

	"github.com/facette/natsort"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

// AlbumTree is a read model over the album forest. One tree instance serves
// every gallery; gallery roots are the albums galleries point at via
// RootAlbumID.
type AlbumTree struct {
	albums    repository.AlbumRepositoryInterface
	galleries repository.GalleryRepositoryInterface
}

// NewAlbumTree creates a new AlbumTree over the given repositories.
func NewAlbumTree(albums repository.AlbumRepositoryInterface, galleries repository.GalleryRepositoryInterface) *AlbumTree {
	return &AlbumTree{albums: albums, galleries: galleries}
}

// Get retrieves a single album node.
func (t *AlbumTree) Get(albumID uint) (*models.Album, error) {
	return t.albums.GetByID(albumID)
}

// Parent returns the parent album, or nil for a gallery root.
func (t *AlbumTree) Parent(albumID uint) (*models.Album, error) {
	album, err := t.albums.GetByID(albumID)
	if err != nil {
		return nil, err
	}
	if album.ParentID == nil {
		return nil, nil
	}
	return t.albums.GetByID(*album.ParentID)
}

// Children returns the direct children of an album in natural name order with
// ID tie-breaks. This ordering is what makes the breadth-first search
// deterministic, so every traversal must go through it.
func (t *AlbumTree) Children(albumID uint) ([]models.Album, error) {
	children, err := t.albums.ListChildren(albumID)
	if err != nil {
		return nil, err
	}
	sortAlbumsNaturally(children)
	return children, nil
}

// AncestorIDs walks from the album's parent up to its gallery root and
// returns the ids encountered, nearest first. The walk tracks visited ids so
// corrupt parent pointers fail instead of looping.
func (t *AlbumTree) AncestorIDs(albumID uint) ([]uint, error) {
	visited := map[uint]bool{albumID: true}
	var ancestors []uint

	current, err := t.albums.GetByID(albumID)
	if err != nil {
		return nil, err
	}
	for current.ParentID != nil {
		parentID := *current.ParentID
		if visited[parentID] {
			return nil, fmt.Errorf("cycle detected in album tree at album %d", parentID)
		}
		visited[parentID] = true
		ancestors = append(ancestors, parentID)

		current, err = t.albums.GetByID(parentID)
		if err != nil {
			return nil, err
		}
	}
	return ancestors, nil
}

// RootAncestorID returns the gallery root above the album. An album that is
// itself a gallery root is its own root ancestor.
func (t *AlbumTree) RootAncestorID(albumID uint) (uint, error) {
	ancestors, err := t.AncestorIDs(albumID)
	if err != nil {
		return 0, err
	}
	if len(ancestors) == 0 {
		return albumID, nil
	}
	return ancestors[len(ancestors)-1], nil
}

// DescendantIDs returns every album id strictly below the given album,
// breadth-first, using the deterministic child ordering.
func (t *AlbumTree) DescendantIDs(albumID uint) ([]uint, error) {
	visited := map[uint]bool{albumID: true}
	var descendants []uint

	queue := []uint{albumID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		children, err := t.Children(current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if visited[child.ID] {
				return nil, fmt.Errorf("cycle detected in album tree at album %d", child.ID)
			}
			visited[child.ID] = true
			descendants = append(descendants, child.ID)
			queue = append(queue, child.ID)
		}
	}
	return descendants, nil
}

// GalleryRootIDs returns the root album id of every gallery.
func (t *AlbumTree) GalleryRootIDs() ([]uint, error) {
	galleries, err := t.galleries.ListAll()
	if err != nil {
		return nil, err
	}
	roots := make([]uint, len(galleries))
	for i, gallery := range galleries {
		roots[i] = gallery.RootAlbumID
	}
	return roots, nil
}

// GalleryRootID returns the root album id of one gallery.
func (t *AlbumTree) GalleryRootID(galleryID uint) (uint, error) {
	gallery, err := t.galleries.GetByID(galleryID)
	if err != nil {
		return 0, err
	}
	return gallery.RootAlbumID, nil
}

// sortAlbumsNaturally orders albums the way a person expects ("Album 2"
// before "Album 10"), with ID as tie-break for identical names.
func sortAlbumsNaturally(albums []models.Album) {
	names := make([]string, 0, len(albums))
	seen := map[string]bool{}
	for _, album := range albums {
		if !seen[album.Name] {
			seen[album.Name] = true
			names = append(names, album.Name)
		}
	}
	natsort.Sort(names)

	rank := make(map[string]int, len(names))
	for i, name := range names {
		rank[name] = i
	}

	sort.SliceStable(albums, func(i, j int) bool {
		ri, rj := rank[albums[i].Name], rank[albums[j].Name]
		if ri != rj {
			return ri < rj
		}
		return albums[i].ID < albums[j].ID
	})
}
