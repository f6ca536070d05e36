package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/dmitrijs2005/weatherdash/internal/common"
	"github.com/dmitrijs2005/weatherdash/internal/server/models"
)

type fakeRegistry struct {
	locations []string
	err       error
}

func (f *fakeRegistry) List(ctx context.Context, username string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.locations, nil
}

func (f *fakeRegistry) IsFavourite(ctx context.Context, username, location string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, l := range f.locations {
		if l == location {
			return true, nil
		}
	}
	return false, nil
}

type fakeGateway struct {
	// failFor maps a location to the error its lookup returns.
	failFor map[string]error

	current  map[string]*models.CurrentWeather
	day      *models.DayWeather
	forecast []models.DayWeather

	calls []string
}

func (f *fakeGateway) Current(ctx context.Context, location string) (*models.CurrentWeather, error) {
	f.calls = append(f.calls, location)
	if err, ok := f.failFor[location]; ok {
		return nil, err
	}
	if w, ok := f.current[location]; ok {
		return w, nil
	}
	return &models.CurrentWeather{Name: location}, nil
}

func (f *fakeGateway) Historical(ctx context.Context, location, date string) (*models.DayWeather, error) {
	f.calls = append(f.calls, location)
	if err, ok := f.failFor[location]; ok {
		return nil, err
	}
	return f.day, nil
}

func (f *fakeGateway) Forecast(ctx context.Context, location string, days int) ([]models.DayWeather, error) {
	f.calls = append(f.calls, location)
	if err, ok := f.failFor[location]; ok {
		return nil, err
	}
	return f.forecast, nil
}

func TestWeatherForFavourite_Member(t *testing.T) {
	gw := &fakeGateway{current: map[string]*models.CurrentWeather{
		"Boston": {Name: "Boston", Condition: "Sunny", Temperature: 21},
	}}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston"}}, gw, testLogger())

	got, err := svc.WeatherForFavourite(context.Background(), "bob", "Boston")
	if err != nil {
		t.Fatalf("WeatherForFavourite error: %v", err)
	}
	if got.Condition != "Sunny" {
		t.Fatalf("unexpected weather: %+v", got)
	}
}

func TestWeatherForFavourite_NotAFavourite(t *testing.T) {
	gw := &fakeGateway{}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston"}}, gw, testLogger())

	_, err := svc.WeatherForFavourite(context.Background(), "bob", "Paris")
	if !errors.Is(err, common.ErrNotAFavourite) {
		t.Fatalf("want common.ErrNotAFavourite, got %v", err)
	}
	if len(gw.calls) != 0 {
		t.Fatalf("gateway must not be called for a non-member location")
	}
}

func TestWeatherForFavourite_UnknownAccount(t *testing.T) {
	svc := NewDashboardService(&fakeRegistry{err: common.ErrNotFound}, &fakeGateway{}, testLogger())

	_, err := svc.WeatherForFavourite(context.Background(), "ghost", "Boston")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestAllFavouriteWeathers_OrderPreserved(t *testing.T) {
	gw := &fakeGateway{current: map[string]*models.CurrentWeather{
		"Boston": {Name: "Boston", Temperature: 18},
		"London": {Name: "London", Temperature: 12},
		"Riga":   {Name: "Riga", Temperature: 7},
	}}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston", "London", "Riga"}}, gw, testLogger())

	got, err := svc.AllFavouriteWeathers(context.Background(), "bob")
	if err != nil {
		t.Fatalf("AllFavouriteWeathers error: %v", err)
	}

	names := make([]string, 0, len(got))
	for _, w := range got {
		names = append(names, w.Name)
	}
	if !reflect.DeepEqual(names, []string{"Boston", "London", "Riga"}) {
		t.Fatalf("favourite order must be preserved, got %v", names)
	}
}

func TestAllFavouriteWeathers_EmptySet(t *testing.T) {
	svc := NewDashboardService(&fakeRegistry{locations: []string{}}, &fakeGateway{}, testLogger())

	got, err := svc.AllFavouriteWeathers(context.Background(), "bob")
	if err != nil {
		t.Fatalf("AllFavouriteWeathers error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty result, got %v", got)
	}
}

func TestAllFavouriteWeathers_OneFailureFailsAll(t *testing.T) {
	gw := &fakeGateway{failFor: map[string]error{
		"London": fmt.Errorf("%w: timeout", common.ErrUpstreamUnavailable),
	}}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston", "London", "Riga"}}, gw, testLogger())

	_, err := svc.AllFavouriteWeathers(context.Background(), "bob")
	if !errors.Is(err, common.ErrPartialFailure) {
		t.Fatalf("want common.ErrPartialFailure, got %v", err)
	}

	var pf *common.PartialFailureError
	if !errors.As(err, &pf) {
		t.Fatalf("want *common.PartialFailureError, got %T", err)
	}
	if pf.Location != "London" {
		t.Fatalf("failure must name the broken location, got %q", pf.Location)
	}
	if !errors.Is(pf, common.ErrUpstreamUnavailable) {
		t.Fatalf("cause must stay inspectable, got %v", pf.Err)
	}
}

func TestHistoricalForFavourite(t *testing.T) {
	gw := &fakeGateway{day: &models.DayWeather{Name: "Boston", Date: "2025-06-01"}}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston"}}, gw, testLogger())

	got, err := svc.HistoricalForFavourite(context.Background(), "bob", "Boston", "2025-06-01")
	if err != nil {
		t.Fatalf("HistoricalForFavourite error: %v", err)
	}
	if got.Date != "2025-06-01" {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := svc.HistoricalForFavourite(context.Background(), "bob", "Paris", "2025-06-01"); !errors.Is(err, common.ErrNotAFavourite) {
		t.Fatalf("want common.ErrNotAFavourite, got %v", err)
	}
}

func TestForecastForFavourite(t *testing.T) {
	gw := &fakeGateway{forecast: []models.DayWeather{
		{Name: "Boston", Date: "2025-06-16"},
		{Name: "Boston", Date: "2025-06-17"},
	}}
	svc := NewDashboardService(&fakeRegistry{locations: []string{"Boston"}}, gw, testLogger())

	got, err := svc.ForecastForFavourite(context.Background(), "bob", "Boston", 2)
	if err != nil {
		t.Fatalf("ForecastForFavourite error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 days, got %d", len(got))
	}

	if _, err := svc.ForecastForFavourite(context.Background(), "bob", "Paris", 2); !errors.Is(err, common.ErrNotAFavourite) {
		t.Fatalf("want common.ErrNotAFavourite, got %v", err)
	}
}
