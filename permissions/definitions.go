package permissions

import "github.com/camden-git/gallerysysbackend/models"

// PermissionDefinition describes a single permission flag so a UI can render
// assignment forms without hardcoding the flag list.
type PermissionDefinition struct {
	Key         string   `json:"key"`         // unique key, e.g., "album.addChild"
	Name        string   `json:"name"`        // friendly name, e.g., "Add Child Album"
	Description string   `json:"description"` // detailed description of what the flag allows
	Criteria    Criteria `json:"-"`           // predicate matching roles that carry the flag
}

// DefinedPermissions holds all statically defined permission flags, in the
// order they should be presented.
var DefinedPermissions = []PermissionDefinition{
	{
		Key:         "album.view",
		Name:        "View Albums and Media",
		Description: "Allows viewing albums and the media objects they contain.",
		Criteria:    RequireView,
	},
	{
		Key:         "media.viewOriginal",
		Name:        "View Original Media Files",
		Description: "Allows viewing or downloading the original, full-resolution media file.",
		Criteria:    RequireViewOriginal,
	},
	{
		Key:         "media.add",
		Name:        "Add Media Objects",
		Description: "Allows uploading new media objects to an album.",
		Criteria:    RequireAddMediaObject,
	},
	{
		Key:         "album.addChild",
		Name:        "Add Child Albums",
		Description: "Allows creating new albums beneath a permitted album.",
		Criteria:    RequireAddChildAlbum,
	},
	{
		Key:         "media.edit",
		Name:        "Edit Media Objects",
		Description: "Allows editing media object titles and metadata.",
		Criteria:    RequireEditMediaObject,
	},
	{
		Key:         "album.edit",
		Name:        "Edit Albums",
		Description: "Allows editing album names, descriptions and settings.",
		Criteria:    RequireEditAlbum,
	},
	{
		Key:         "media.delete",
		Name:        "Delete Media Objects",
		Description: "Allows deleting media objects from an album.",
		Criteria:    RequireDeleteMediaObject,
	},
	{
		Key:         "album.deleteChild",
		Name:        "Delete Child Albums",
		Description: "Allows deleting albums beneath a permitted album.",
		Criteria:    RequireDeleteChildAlbum,
	},
	{
		Key:         "album.synchronize",
		Name:        "Synchronize Albums",
		Description: "Allows synchronizing an album's contents with the underlying storage.",
		Criteria:    RequireSynchronize,
	},
	{
		Key:         "site.administer",
		Name:        "Administer Site",
		Description: "Grants every permission in every gallery, including role management.",
		Criteria:    RequireAdministerSite,
	},
	{
		Key:         "gallery.administer",
		Name:        "Administer Gallery",
		Description: "Grants every permission within the galleries reachable from the role's album grants.",
		Criteria:    RequireAdministerGallery,
	},
	{
		Key:         "media.hideWatermark",
		Name:        "Hide Watermark",
		Description: "Suppresses the watermark overlay on rendered media.",
		Criteria:    func(r *models.Role) bool { return r.HideWatermark },
	},
}

var definitionsByKey map[string]PermissionDefinition

func init() {
	definitionsByKey = make(map[string]PermissionDefinition, len(DefinedPermissions))
	for _, def := range DefinedPermissions {
		definitionsByKey[def.Key] = def
	}
}

// GetPermissionDefinition retrieves a specific permission definition by its key.
// Returns the definition and true if found, otherwise an empty definition and false.
func GetPermissionDefinition(key string) (PermissionDefinition, bool) {
	def, ok := definitionsByKey[key]
	return def, ok
}

// GetAllPermissionKeys returns a slice of all defined permission keys.
func GetAllPermissionKeys() []string {
	keys := make([]string, len(DefinedPermissions))
	for i, def := range DefinedPermissions {
		keys[i] = def.Key
	}
	return keys
}
