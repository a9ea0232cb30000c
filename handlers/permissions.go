package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/camden-git/gallerysysbackend/permissions"
)

// ListPermissions returns every defined permission flag so the admin UI can
// render role editing forms.
func ListPermissions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(permissions.DefinedPermissions)
}
