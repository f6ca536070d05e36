package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/logging"
)

type handler struct {
	accounts   AccountService
	favourites FavouriteService
	dashboard  DashboardService
	db         Pinger
	validate   *validator.Validate
	logger     logging.Logger
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type favouriteRequest struct {
	Username string `json:"username" validate:"required"`
	Location string `json:"location" validate:"required"`
}

type usernameRequest struct {
	Username string `json:"username" validate:"required"`
}

// decodeAndValidate reads a JSON body into v and checks its validate tags.
// Malformed bodies and missing fields both surface as invalid input.
func (h *handler) decodeAndValidate(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrInvalidInput)
	}
	if err := h.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}

// queryParam extracts a required query string parameter.
func queryParam(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: missing query parameter %q", common.ErrInvalidInput, name)
	}
	return v, nil
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "healthy"})
}

func (h *handler) dbCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn(r.Context(), "database ping failed", "error", err.Error())
		writeJSON(w, http.StatusServiceUnavailable, dbCheckResponse{
			DatabaseStatus: "unhealthy",
			Message:        err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, dbCheckResponse{DatabaseStatus: "healthy"})
}

func (h *handler) createAccount(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	account, err := h.accounts.Create(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Status: "success", Username: account.Username})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	if err := h.accounts.VerifyLogin(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Status: "success", Username: req.Username})
}

func (h *handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	if err := h.accounts.UpdatePassword(r.Context(), req.Username, req.Password); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, accountResponse{Status: "success", Username: req.Username})
}

func (h *handler) clearUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.ClearAll(r.Context()); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "success"})
}

func (h *handler) addFavourite(w http.ResponseWriter, r *http.Request) {
	var req favouriteRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	favourites, err := h.favourites.Add(r.Context(), req.Username, req.Location)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, favouriteMutationResponse{
		Status:     "success",
		Message:    fmt.Sprintf("%s added to favourites", req.Location),
		Favourites: favourites,
	})
}

func (h *handler) removeFavourite(w http.ResponseWriter, r *http.Request) {
	var req favouriteRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	favourites, err := h.favourites.Remove(r.Context(), req.Username, req.Location)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, favouriteMutationResponse{
		Status:     "success",
		Message:    fmt.Sprintf("%s removed from favourites", req.Location),
		Favourites: favourites,
	})
}

func (h *handler) clearFavourites(w http.ResponseWriter, r *http.Request) {
	var req usernameRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	if err := h.favourites.Clear(r.Context(), req.Username); err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Status: "success", Message: "favourites cleared"})
}

func (h *handler) listFavourites(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	favourites, err := h.favourites.List(r.Context(), username)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, favouritesResponse{Status: "success", FavouritedLocations: favourites})
}

func (h *handler) favouritesLength(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	count, err := h.favourites.Count(r.Context(), username)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, lengthResponse{Status: "success", FavouritesLength: count})
}

func (h *handler) weatherForFavourite(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	location, err := queryParam(r, "location")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	weather, err := h.dashboard.WeatherForFavourite(r.Context(), username, location)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{Status: "success", Weather: weather})
}

func (h *handler) allFavouriteWeathers(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	weathers, err := h.dashboard.AllFavouriteWeathers(r.Context(), username)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{Status: "success", Weather: weathers})
}

func (h *handler) historicalForFavourite(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	location, err := queryParam(r, "location")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	date, err := queryParam(r, "date")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	day, err := h.dashboard.HistoricalForFavourite(r.Context(), username, location, date)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{Status: "success", Weather: day})
}

func (h *handler) forecastForFavourite(w http.ResponseWriter, r *http.Request) {
	username, err := queryParam(r, "username")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	location, err := queryParam(r, "location")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}
	daysParam, err := queryParam(r, "days")
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	days, err := strconv.Atoi(daysParam)
	if err != nil {
		h.writeError(r.Context(), w, fmt.Errorf("%w: days must be an integer", common.ErrInvalidInput))
		return
	}

	forecast, err := h.dashboard.ForecastForFavourite(r.Context(), username, location, days)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, weatherResponse{Status: "success", Weather: forecast})
}
