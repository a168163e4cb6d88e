package domain

import (
	"context"
	"log/slog"
)

// EnrichWithGeocoding names the station location of a sounding. A nil
// geocoder leaves the sounding untouched; a failed lookup is recorded in
// GeoSource and never fails the sounding.
func EnrichWithGeocoding(ctx context.Context, s Sounding, geocoder Geocoder, logger *slog.Logger) Sounding {
	if geocoder == nil {
		return s
	}

	loc := s.Station.Location
	if loc == nil {
		s.GeoSource = "original"
		return s
	}

	result, err := geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"sounding_id", s.ID,
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err,
		)
		s.GeoSource = "failed"
		return s
	}
	if result.FormattedAddress == "" {
		s.GeoSource = "original"
		return s
	}

	s.FormattedAddress = result.FormattedAddress
	s.PlaceName = result.PlaceName
	s.GeoSource = "reverse"
	return s
}
