package domain

import (
	"fmt"
	"strconv"
	"strings"
)

type profileColumn int

const (
	colPRES profileColumn = iota // pressure (hPa)
	colTMPC                      // temperature (C)
	colTMWC                      // wet bulb temperature (C)
	colDWPC                      // dew point (C)
	colTHTE                      // equivalent potential temperature (K)
	colDRCT                      // wind direction (degrees)
	colSKNT                      // wind speed (knots)
	colOMEG                      // vertical velocity (Pa/s)
	colCFRL                      // cloud fraction (percent)
	colHGHT                      // geopotential height (m)
)

// The profile vocabulary is closed: any other header token is an error.
var profileVocabulary = map[string]profileColumn{
	"PRES": colPRES,
	"TMPC": colTMPC,
	"TMWC": colTMWC,
	"DWPC": colDWPC,
	"THTE": colTHTE,
	"DRCT": colDRCT,
	"SKNT": colSKNT,
	"OMEG": colOMEG,
	"CFRL": colCFRL,
	"HGHT": colHGHT,
}

// GFS soundings carry 64 levels.
const profileCapacity = 64

// Profile holds the per-level arrays of one upper-air record. An array is
// empty when its column is not in the file's layout.
type Profile struct {
	Pressure      []*HectoPascal
	Temperature   []*Celsius
	WetBulb       []*Celsius
	DewPoint      []*Celsius
	ThetaE        []*Kelvin
	Wind          []*WindSpdDir
	Omega         []*PaPS
	Height        []*Meters
	CloudFraction []*float64
}

// ParseProfile decodes a column header followed by rows of numbers. Rows may
// wrap across lines; values are assigned to columns by position modulo the
// column count.
func ParseProfile(text string) (Profile, error) {
	header, values := splitProfileHeader(text)
	cols, err := parseProfileColumns(header)
	if err != nil {
		return Profile{}, err
	}
	return parseProfileValues(values, cols)
}

// splitProfileHeader splits at the first digit or minus sign.
func splitProfileHeader(text string) (header, values string) {
	idx := strings.IndexFunc(text, isNumberStart)
	if idx < 0 {
		return text, ""
	}
	return text[:idx], text[idx:]
}

func parseProfileColumns(header string) ([]profileColumn, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty profile header", ErrMissingRequiredColumn)
	}

	cols := make([]profileColumn, 0, len(fields))
	for _, name := range fields {
		col, ok := profileVocabulary[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnrecognizedColumn, name)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func parseProfileValues(values string, cols []profileColumn) (Profile, error) {
	p := Profile{
		Pressure:      make([]*HectoPascal, 0, profileCapacity),
		Temperature:   make([]*Celsius, 0, profileCapacity),
		WetBulb:       make([]*Celsius, 0, profileCapacity),
		DewPoint:      make([]*Celsius, 0, profileCapacity),
		ThetaE:        make([]*Kelvin, 0, profileCapacity),
		Omega:         make([]*PaPS, 0, profileCapacity),
		Height:        make([]*Meters, 0, profileCapacity),
		CloudFraction: make([]*float64, 0, profileCapacity),
	}
	direction := make([]*float64, 0, profileCapacity)
	speed := make([]*Knots, 0, profileCapacity)

	for i, token := range strings.Fields(values) {
		raw, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Profile{}, fmt.Errorf("%w: profile value %q", ErrInvalidNumber, token)
		}

		switch cols[i%len(cols)] {
		case colPRES:
			p.Pressure = append(p.Pressure, optional[HectoPascal](raw))
		case colTMPC:
			p.Temperature = append(p.Temperature, optional[Celsius](raw))
		case colTMWC:
			p.WetBulb = append(p.WetBulb, optional[Celsius](raw))
		case colDWPC:
			p.DewPoint = append(p.DewPoint, optional[Celsius](raw))
		case colTHTE:
			p.ThetaE = append(p.ThetaE, optional[Kelvin](raw))
		case colDRCT:
			direction = append(direction, optional[float64](raw))
		case colSKNT:
			speed = append(speed, optional[Knots](raw))
		case colOMEG:
			p.Omega = append(p.Omega, optional[PaPS](raw))
		case colCFRL:
			p.CloudFraction = append(p.CloudFraction, optional[float64](raw))
		case colHGHT:
			p.Height = append(p.Height, optional[Meters](raw))
		}
	}

	levels := min(len(direction), len(speed))
	p.Wind = make([]*WindSpdDir, levels)
	for i := range levels {
		p.Wind[i] = combineSpdDir(direction[i], speed[i])
	}

	return p, nil
}
