package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/gallerysysbackend/services"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	resp := APIErrorResponse{
		Errors: []APIErrorDetail{
			{
				Code:   code,
				Status: strconv.Itoa(httpStatus),
				Detail: detail,
			},
		},
	}

	_ = json.NewEncoder(w).Encode(resp)
}

// WriteServiceError maps a service-layer error onto the API error format.
// Validation rejections become 409, naming failures 422, missing records 404,
// anything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		WriteAPIError(w, http.StatusConflict, string(verr.Reason), verr.Message)
		return
	}

	var nerr *services.NamingError
	if errors.As(err, &nerr) {
		WriteAPIError(w, http.StatusUnprocessableEntity, "owner-role-name", nerr.Error())
		return
	}

	if errors.Is(err, services.ErrNotFound) {
		WriteAPIError(w, http.StatusNotFound, "not-found", "the requested resource does not exist")
		return
	}

	WriteAPIError(w, http.StatusInternalServerError, "internal", err.Error())
}
