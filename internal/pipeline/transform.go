package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/bufkit-etl/internal/domain"
)

// BufkitTransformer implements Transformer by parsing the file, stamping each
// sounding and, when a geocoder is set, naming its station.
type BufkitTransformer struct {
	geocoder domain.Geocoder
	logger   *slog.Logger
}

// NewTransformer creates a BufkitTransformer. Pass a nil geocoder to disable
// geocoding enrichment.
func NewTransformer(geocoder domain.Geocoder, logger *slog.Logger) *BufkitTransformer {
	return &BufkitTransformer{
		geocoder: geocoder,
		logger:   logger,
	}
}

func (t *BufkitTransformer) Transform(ctx context.Context, raw domain.RawEvent) (domain.ParsedFile, error) {
	parsed, err := domain.ParseRawEvent(raw)
	if err != nil {
		return parsed, err
	}

	for i, s := range parsed.Soundings {
		s = domain.EnrichSounding(s)
		parsed.Soundings[i] = domain.EnrichWithGeocoding(ctx, s, t.geocoder, t.logger)
	}
	return parsed, nil
}
