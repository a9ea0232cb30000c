package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerysysbackend/services"
)

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) APIErrorDetail {
	t.Helper()
	var resp APIErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Errors, 1)
	return resp.Errors[0]
}

func TestWriteServiceErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, &services.ValidationError{
		Reason:  services.ReasonLastAdminRemoval,
		Message: "no other admin role would remain",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	detail := decodeAPIError(t, rec)
	assert.Equal(t, "last-admin-removal", detail.Code)
}

func TestWriteServiceErrorNaming(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, &services.NamingError{Username: "bob", AlbumID: 3, Length: 256})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	detail := decodeAPIError(t, rec)
	assert.Equal(t, "owner-role-name", detail.Code)
}

func TestWriteServiceErrorNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, services.ErrNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWriteServiceErrorWrappedPersistence(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteServiceError(rec, &services.PersistenceError{Op: "update role", Err: errors.New("disk full")})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	detail := decodeAPIError(t, rec)
	assert.Equal(t, "internal", detail.Code)
}
