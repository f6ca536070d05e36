package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/logging"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
)

// FavouritesRegistry is the slice of the favourites service the orchestrator
// needs: membership checks and the full set.
type FavouritesRegistry interface {
	List(ctx context.Context, username string) ([]string, error)
	IsFavourite(ctx context.Context, username, location string) (bool, error)
}

// WeatherGateway fetches normalized weather records from the upstream
// provider. Implementations surface provider failures using the common error
// taxonomy and perform no retries.
type WeatherGateway interface {
	Current(ctx context.Context, location string) (*models.CurrentWeather, error)
	Historical(ctx context.Context, location, date string) (*models.DayWeather, error)
	Forecast(ctx context.Context, location string, days int) ([]models.DayWeather, error)
}

// DashboardService composes the favourites registry with the weather
// gateway: a weather lookup is only performed for locations the account has
// actually favourited.
type DashboardService struct {
	favourites FavouritesRegistry
	gateway    WeatherGateway
	logger     logging.Logger
}

func NewDashboardService(favourites FavouritesRegistry, gateway WeatherGateway, logger logging.Logger) *DashboardService {
	return &DashboardService{
		favourites: favourites,
		gateway:    gateway,
		logger:     logger.With("module", "dashboard"),
	}
}

// checkMembership is the business-rule gate: ErrNotAFavourite is distinct
// from the gateway's ErrLocationNotFound, and the gateway is never called
// for a non-member location.
func (s *DashboardService) checkMembership(ctx context.Context, username, location string) error {
	ok, err := s.favourites.IsFavourite(ctx, username, location)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", common.ErrNotAFavourite, location)
	}
	return nil
}

// WeatherForFavourite returns the current weather for one of the account's
// favourite locations.
func (s *DashboardService) WeatherForFavourite(ctx context.Context, username, location string) (*models.CurrentWeather, error) {

	if err := s.checkMembership(ctx, username, location); err != nil {
		return nil, err
	}

	return s.gateway.Current(ctx, location)
}

// AllFavouriteWeathers returns the current weather for every favourite of
// the account, in set order. The operation is all-or-nothing: if any single
// lookup fails, the whole call fails with a PartialFailureError naming the
// location that broke it.
func (s *DashboardService) AllFavouriteWeathers(ctx context.Context, username string) ([]models.CurrentWeather, error) {

	locations, err := s.favourites.List(ctx, username)
	if err != nil {
		return nil, err
	}

	weathers := make([]models.CurrentWeather, 0, len(locations))
	for _, location := range locations {
		w, err := s.gateway.Current(ctx, location)
		if err != nil {
			s.logger.Error(ctx, "favourite weather lookup failed", "username", username, "location", location, "error", err.Error())
			return nil, &common.PartialFailureError{Location: location, Err: err}
		}
		weathers = append(weathers, *w)
	}

	return weathers, nil
}

// HistoricalForFavourite returns the historical weather on the given date
// for one of the account's favourite locations.
func (s *DashboardService) HistoricalForFavourite(ctx context.Context, username, location, date string) (*models.DayWeather, error) {

	if err := s.checkMembership(ctx, username, location); err != nil {
		return nil, err
	}

	return s.gateway.Historical(ctx, location, date)
}

// ForecastForFavourite returns the forecast for the next days (1..10) for
// one of the account's favourite locations, chronologically ascending.
func (s *DashboardService) ForecastForFavourite(ctx context.Context, username, location string, days int) ([]models.DayWeather, error) {

	if err := s.checkMembership(ctx, username, location); err != nil {
		return nil, err
	}

	return s.gateway.Forecast(ctx, location, days)
}
