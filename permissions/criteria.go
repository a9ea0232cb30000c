package permissions

import "github.com/camden-git/gallerysysbackend/models"

// Criteria is a predicate over a role's permission flags. The resolver unions
// the album sets of every role a user holds that satisfies the criteria.
type Criteria func(role *models.Role) bool

// Named criteria for each permission flag.
var (
	RequireView = func(r *models.Role) bool { return r.CanView }

	RequireViewOriginal = func(r *models.Role) bool { return r.CanViewOriginal }

	RequireAddMediaObject = func(r *models.Role) bool { return r.CanAddMediaObject }

	RequireAddChildAlbum = func(r *models.Role) bool { return r.CanAddChildAlbum }

	RequireEditMediaObject = func(r *models.Role) bool { return r.CanEditMediaObject }

	RequireEditAlbum = func(r *models.Role) bool { return r.CanEditAlbum }

	RequireDeleteMediaObject = func(r *models.Role) bool { return r.CanDeleteMediaObject }

	RequireDeleteChildAlbum = func(r *models.Role) bool { return r.CanDeleteChildAlbum }

	RequireSynchronize = func(r *models.Role) bool { return r.CanSynchronize }

	RequireAdministerSite = func(r *models.Role) bool { return r.CanAdministerSite }

	RequireAdministerGallery = func(r *models.Role) bool { return r.CanAdministerGallery }
)

// RequireAnyAdminister is satisfied by site-wide or gallery-scoped
// administrative roles.
var RequireAnyAdminister = Any(RequireAdministerSite, RequireAdministerGallery)

// All combines criteria conjunctively.
func All(criteria ...Criteria) Criteria {
	return func(r *models.Role) bool {
		for _, c := range criteria {
			if !c(r) {
				return false
			}
		}
		return true
	}
}

// Any combines criteria disjunctively.
func Any(criteria ...Criteria) Criteria {
	return func(r *models.Role) bool {
		for _, c := range criteria {
			if c(r) {
				return true
			}
		}
		return false
	}
}
