package models

// CurrentWeather is the normalized shape for a present-moment observation
// returned by the weather gateway. Field names are the wire contract.
// Records are transient and never persisted.
type CurrentWeather struct {
	Name          string  `json:"name"`
	Condition     string  `json:"condition"`
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      float64 `json:"humidity"`
	Cloud         float64 `json:"cloud"`
	Precipitation float64 `json:"precipitation"`
	PressureMb    float64 `json:"pressure_mb"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection string  `json:"wind_direction"`
}

// DayWeather is the normalized per-day shape shared by forecast and
// historical lookups: daily aggregates plus rain/snow chances.
type DayWeather struct {
	Name                 string  `json:"name"`
	Date                 string  `json:"date"`
	Condition            string  `json:"condition"`
	MinTemp              float64 `json:"min_temp"`
	MaxTemp              float64 `json:"max_temp"`
	AvgTemp              float64 `json:"avg_temp"`
	AvgHumidity          float64 `json:"avg_humidity"`
	AvgVisibility        float64 `json:"avg_visibility"`
	MaxWindSpeed         float64 `json:"max_wind_speed"`
	ChanceOfRain         float64 `json:"chance_of_rain"`
	ChanceOfSnow         float64 `json:"chance_of_snow"`
	TotalPrecipitationMm float64 `json:"total_precipitation_mm"`
	TotalSnowCm          float64 `json:"total_snow_cm"`
}
