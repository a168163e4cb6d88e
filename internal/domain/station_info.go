package domain

import (
	"fmt"
	"time"
	"unicode"
)

// StationInfo is the key-value preamble of one upper-air record.
type StationInfo struct {
	ID        *string // alphanumeric identifier, e.g. KMSO
	Num       int     // numeric station identifier, e.g. 727730
	ValidTime time.Time
	LeadTime  int // forecast hours since model initialization
	Lat       *float64
	Lon       *float64
	Elevation *Meters
}

// ParseStationInfo decodes a station-info preamble. Keys are expected in file
// order (STID STNM TIME SLAT SLON SELV STIM) and each search resumes where the
// previous one stopped. STNM, TIME and STIM are required.
func ParseStationInfo(text string) (StationInfo, error) {
	var si StationInfo

	// "STID = STNM = 727730" has no identifier: the first token after STID is
	// the next key, so the cursor must not move past it.
	cursor := text
	if id, rest, err := findKeyValue(text, "STID", isAlphaNum, unicode.IsSpace); err == nil && id != "STNM" {
		si.ID = &id
		cursor = rest
	}

	num, cursor, err := parseIntKV(cursor, "STNM")
	if err != nil {
		return StationInfo{}, fmt.Errorf("%w: STNM: %w", ErrMissingRequiredField, err)
	}
	si.Num = num

	validTime, cursor, err := parseValidTimeKV(cursor, "TIME")
	if err != nil {
		return StationInfo{}, fmt.Errorf("%w: TIME: %w", ErrMissingRequiredField, err)
	}
	si.ValidTime = validTime

	var raw float64
	if raw, cursor, err = parseFloatKV(cursor, "SLAT"); err == nil {
		si.Lat = optional[float64](raw)
	}
	if raw, cursor, err = parseFloatKV(cursor, "SLON"); err == nil {
		si.Lon = optional[float64](raw)
	}
	if raw, cursor, err = parseFloatKV(cursor, "SELV"); err == nil {
		si.Elevation = optional[Meters](raw)
	}

	lead, _, err := parseIntKV(cursor, "STIM")
	if err != nil {
		return StationInfo{}, fmt.Errorf("%w: STIM: %w", ErrMissingRequiredField, err)
	}
	si.LeadTime = lead

	return si, nil
}

func isAlphaNum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
