package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/weatherdash/internal/common"
)

type statusResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type accountResponse struct {
	Status   string `json:"status"`
	Username string `json:"username"`
}

type favouriteMutationResponse struct {
	Status     string   `json:"status"`
	Message    string   `json:"message"`
	Favourites []string `json:"favourites"`
}

type favouritesResponse struct {
	Status              string   `json:"status"`
	FavouritedLocations []string `json:"favourited_locations"`
}

type lengthResponse struct {
	Status           string `json:"status"`
	FavouritesLength int    `json:"favourites_length"`
}

type weatherResponse struct {
	Status  string `json:"status"`
	Weather any    `json:"weather"`
}

type dbCheckResponse struct {
	DatabaseStatus string `json:"database_status"`
	Message        string `json:"message,omitempty"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates a service error into an HTTP status and a JSON
// error body. Unrecognized errors are logged and hidden behind a 500.
func (h *handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(ctx, "unexpected error", "error", err.Error())
		message = "internal error"
	}

	writeJSON(w, status, errorResponse{Status: "error", Message: message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidDate),
		errors.Is(err, common.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrNotAFavourite),
		errors.Is(err, common.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrDuplicateAccount):
		return http.StatusConflict
	case errors.Is(err, common.ErrUpstreamUnavailable),
		errors.Is(err, common.ErrPartialFailure):
		return http.StatusBadGateway
	case errors.Is(err, common.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
