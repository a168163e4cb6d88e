package domain

import "fmt"

// UpperAir is one upper-air record: the station preamble, the stability
// indexes and the vertical profile valid at one forecast time.
type UpperAir struct {
	StationInfo
	Indexes
	Profile
}

// ParseUpperAir decodes the text of one record. The three parts are separated
// by blank lines.
func ParseUpperAir(text string) (UpperAir, error) {
	brk, ok := findSectionBoundary(text)
	if !ok {
		return UpperAir{}, fmt.Errorf("station info: %w", ErrUnterminatedBlock)
	}
	stationText, rest := text[:brk], text[brk:]

	brk, ok = findSectionBoundary(rest)
	if !ok {
		return UpperAir{}, fmt.Errorf("indexes: %w", ErrUnterminatedBlock)
	}
	indexText, profileText := rest[:brk], rest[brk:]

	info, err := ParseStationInfo(stationText)
	if err != nil {
		return UpperAir{}, fmt.Errorf("station info: %w", err)
	}
	profile, err := ParseProfile(profileText)
	if err != nil {
		return UpperAir{}, fmt.Errorf("profile: %w", err)
	}

	ua := UpperAir{
		StationInfo: info,
		Indexes:     ParseIndexes(indexText),
		Profile:     profile,
	}
	if err := ua.Validate(); err != nil {
		return UpperAir{}, err
	}
	return ua, nil
}

// Validate checks that the profile has at least one level and that every
// other profile array is either absent or as long as the pressure array.
func (ua UpperAir) Validate() error {
	levels := len(ua.Pressure)
	if levels == 0 {
		return fmt.Errorf("%w: no pressure levels", ErrInconsistentProfileLength)
	}

	for _, c := range []struct {
		name string
		n    int
	}{
		{"temperature", len(ua.Temperature)},
		{"wet bulb", len(ua.WetBulb)},
		{"dew point", len(ua.DewPoint)},
		{"theta-e", len(ua.ThetaE)},
		{"wind", len(ua.Wind)},
		{"omega", len(ua.Omega)},
		{"height", len(ua.Height)},
		{"cloud fraction", len(ua.CloudFraction)},
	} {
		if c.n != 0 && c.n != levels {
			return fmt.Errorf("%w: %s has %d levels, pressure has %d",
				ErrInconsistentProfileLength, c.name, c.n, levels)
		}
	}
	return nil
}
