package services

import (
	"errors"
	"fmt"

	"github.com/camden-git/gallerysysbackend/models"
	"github.com/camden-git/gallerysysbackend/repository"
)

// SystemActor is the acting-user value used for internally triggered
// mutations (owner-role maintenance). It bypasses the scoped-admin and
// self-lockout checks but never the last-administrator check.
const SystemActor = ""

// ValidationGuard runs the ordered pre-save and pre-delete checks that keep
// the system administrable: no edit may remove the last site administrator,
// lock the acting user out of their own administrative scope, or let a
// gallery-scoped administrator reach into galleries they do not control.
// All checks are pure reads against the repositories; the first failing check
// aborts with its specific error.
type ValidationGuard struct {
	roles repository.RoleRepository
	users repository.UserRepository
	tree  *AlbumTree
}

// NewValidationGuard creates a guard over the given repositories.
func NewValidationGuard(roles repository.RoleRepository, users repository.UserRepository, tree *AlbumTree) *ValidationGuard {
	return &ValidationGuard{roles: roles, users: users, tree: tree}
}

// BeforeSave validates a proposed role save. existing is nil when the role is
// being created.
func (g *ValidationGuard) BeforeSave(newRole, existing *models.Role, actingUser string) error {
	// 1. admin-permission removal: the administer-site flag may only be
	// dropped while another populated site-admin role survives
	if existing != nil && existing.CanAdministerSite && !newRole.CanAdministerSite {
		if err := g.requireAnotherSiteAdmin(existing.Name); err != nil {
			return err
		}
	}

	// 2. scoped-admin escalation
	if actingUser != SystemActor {
		siteAdmin, err := g.isSiteAdmin(actingUser)
		if err != nil {
			return err
		}
		if !siteAdmin {
			if newRole.CanAdministerSite && (existing == nil || !existing.CanAdministerSite) {
				return &ValidationError{
					Reason:  ReasonEscalationDenied,
					Message: fmt.Sprintf("user %q cannot grant site administration", actingUser),
				}
			}
			if existing != nil {
				if err := g.requireGalleryScope(existing, actingUser, ReasonEscalationDenied); err != nil {
					return err
				}
			}
		}
	}

	// 3. self-lockout
	if actingUser != SystemActor && existing != nil {
		member, err := g.isMember(existing.Name, actingUser)
		if err != nil {
			return err
		}
		if member {
			losingSite := existing.CanAdministerSite && !newRole.CanAdministerSite
			losingGallery := existing.CanAdministerGallery && !newRole.CanAdministerGallery
			if losingSite {
				if err := g.requireAlternateAdminRole(actingUser, existing.Name, true); err != nil {
					return err
				}
			}
			if losingGallery && !newRole.CanAdministerSite {
				if err := g.requireAlternateAdminRole(actingUser, existing.Name, false); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// BeforeDelete validates a proposed role deletion.
func (g *ValidationGuard) BeforeDelete(role *models.Role, actingUser string) error {
	// 1. last global admin
	if role.CanAdministerSite {
		if err := g.requireAnotherSiteAdmin(role.Name); err != nil {
			return err
		}
	}

	if actingUser == SystemActor {
		return nil
	}

	// 2. self-lockout
	member, err := g.isMember(role.Name, actingUser)
	if err != nil {
		return err
	}
	if member {
		if role.CanAdministerSite {
			if err := g.requireAlternateAdminRole(actingUser, role.Name, true); err != nil {
				return err
			}
		} else if role.CanAdministerGallery {
			if err := g.requireAlternateAdminRole(actingUser, role.Name, false); err != nil {
				return err
			}
		}
	}

	// 3. cross-gallery scope; owner roles are exempt so owners can be
	// reassigned by any gallery's administrator
	if !role.IsOwnerRole() {
		siteAdmin, err := g.isSiteAdmin(actingUser)
		if err != nil {
			return err
		}
		if !siteAdmin {
			if err := g.requireGalleryScope(role, actingUser, ReasonCrossGalleryScope); err != nil {
				return err
			}
		}
	}

	return nil
}

// requireAnotherSiteAdmin checks that at least one role other than
// excludeName carries the administer-site flag and has at least one member.
func (g *ValidationGuard) requireAnotherSiteAdmin(excludeName string) error {
	roles, err := g.roles.ListAll()
	if err != nil {
		return wrapPersistence("list roles", err)
	}
	for i := range roles {
		role := &roles[i]
		if role.Name == excludeName || !role.CanAdministerSite {
			continue
		}
		members, err := g.roles.FindUsersByRoleName(role.Name)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return wrapPersistence("list role members", err)
		}
		if len(members) > 0 {
			return nil
		}
	}
	return &ValidationError{
		Reason:  ReasonLastAdminRemoval,
		Message: "no other role with site administration and at least one member would remain",
	}
}

// requireAlternateAdminRole checks that the acting user keeps administrative
// capability through some role other than excludeName. When siteScope is
// true only administer-site qualifies; otherwise administer-site or
// administer-gallery does.
func (g *ValidationGuard) requireAlternateAdminRole(actingUser, excludeName string, siteScope bool) error {
	roles, err := g.userRoles(actingUser)
	if err != nil {
		return err
	}
	for i := range roles {
		role := &roles[i]
		if role.Name == excludeName {
			continue
		}
		if role.CanAdministerSite {
			return nil
		}
		if !siteScope && role.CanAdministerGallery {
			return nil
		}
	}
	scope := "gallery"
	if siteScope {
		scope = "site"
	}
	return &ValidationError{
		Reason:  ReasonSelfLockout,
		Message: fmt.Sprintf("user %q would lose %s administration with no alternate role", actingUser, scope),
	}
}

// requireGalleryScope checks that the acting user administers every gallery
// the role touches. A role carrying site administration touches all of them,
// so it is never in scope for a gallery-bound administrator.
func (g *ValidationGuard) requireGalleryScope(role *models.Role, actingUser string, reason ValidationReason) error {
	if role.CanAdministerSite {
		return &ValidationError{
			Reason:  reason,
			Message: fmt.Sprintf("user %q does not administer the site-wide scope of role %q", actingUser, role.Name),
		}
	}
	galleryIDs, err := g.galleriesTouchedByRole(role)
	if err != nil {
		return err
	}
	for _, galleryID := range galleryIDs {
		ok, err := g.administersGallery(actingUser, galleryID)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{
				Reason:  reason,
				Message: fmt.Sprintf("user %q does not administer gallery %d touched by role %q", actingUser, galleryID, role.Name),
			}
		}
	}
	return nil
}

// galleriesTouchedByRole resolves the distinct galleries of the role's
// explicit album grants. Grants pointing at deleted albums are skipped.
func (g *ValidationGuard) galleriesTouchedByRole(role *models.Role) ([]uint, error) {
	seen := map[uint]bool{}
	var galleryIDs []uint
	for _, albumID := range role.RootAlbumIDs {
		album, err := g.tree.Get(albumID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, wrapPersistence("resolve role gallery scope", err)
		}
		if !seen[album.GalleryID] {
			seen[album.GalleryID] = true
			galleryIDs = append(galleryIDs, album.GalleryID)
		}
	}
	return galleryIDs, nil
}

// administersGallery reports whether the user holds site administration, or
// gallery administration whose derived set contains the gallery's root album.
func (g *ValidationGuard) administersGallery(username string, galleryID uint) (bool, error) {
	roles, err := g.userRoles(username)
	if err != nil {
		return false, err
	}
	rootID, err := g.tree.GalleryRootID(galleryID)
	if err != nil {
		return false, wrapPersistence("resolve gallery root", err)
	}
	for i := range roles {
		role := &roles[i]
		if role.CanAdministerSite {
			return true, nil
		}
		if role.CanAdministerGallery && role.AppliesToAlbum(rootID) {
			return true, nil
		}
	}
	return false, nil
}

func (g *ValidationGuard) isSiteAdmin(username string) (bool, error) {
	roles, err := g.userRoles(username)
	if err != nil {
		return false, err
	}
	for i := range roles {
		if roles[i].CanAdministerSite {
			return true, nil
		}
	}
	return false, nil
}

func (g *ValidationGuard) isMember(roleName, username string) (bool, error) {
	members, err := g.roles.FindUsersByRoleName(roleName)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, wrapPersistence("list role members", err)
	}
	for i := range members {
		if members[i].Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (g *ValidationGuard) userRoles(username string) ([]models.Role, error) {
	user, err := g.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, wrapPersistence("load acting user", err)
	}
	roles := make([]models.Role, 0, len(user.Roles))
	for _, rolePtr := range user.Roles {
		if rolePtr != nil {
			roles = append(roles, *rolePtr)
		}
	}
	return roles, nil
}
