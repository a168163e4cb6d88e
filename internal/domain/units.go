package domain

import "math"

// MissingValue is the BUFKIT "no data" sentinel. Model postprocessors write it
// verbatim, so comparisons are exact.
const MissingValue = -9999.0

// missingInt is the integer form of MissingValue.
const missingInt = -9999

// msToKnots converts m/s to knots.
const msToKnots = 1.94384

// Physical unit wrappers. Values are only constructed from decoded scalars that
// passed the missing-value check.
type (
	HectoPascal float64 // pressure (hPa)
	Celsius     float64 // temperature (C)
	CelsiusDiff float64 // temperature difference (C), e.g. lifted index
	Kelvin      float64 // temperature (K)
	Knots       float64 // speed (kt)
	MetersPSec  float64 // speed (m/s)
	Meters      float64 // height or elevation (m)
	Mm          float64 // precipitation or precipitable water (mm)
	PaPS        float64 // pressure vertical velocity (Pa/s)
	JpKg        float64 // energy (J/kg)
	KgPerM2     float64 // snowfall mass (kg/m^2)
	Percent     float64 // 0-100
	Km          float64 // visibility (km)
)

// WindSpdDir is a polar wind vector. Direction is meteorological: the bearing
// in degrees the wind blows from.
type WindSpdDir struct {
	Direction float64 `json:"direction"`
	Speed     Knots   `json:"speed"`
}

// WindUV is a Cartesian wind vector; U is positive toward the east, V toward
// the north.
type WindUV struct {
	U MetersPSec `json:"u"`
	V MetersPSec `json:"v"`
}

// IsMissing reports whether raw is the missing-value sentinel.
func IsMissing(raw float64) bool {
	return raw == MissingValue
}

// optional converts a raw decoded scalar into an optional unit value.
func optional[T ~float64](raw float64) *T {
	if IsMissing(raw) {
		return nil
	}
	v := T(raw)
	return &v
}

// optionalInt applies the integer sentinel check.
func optionalInt(raw int) *int {
	if raw == missingInt {
		return nil
	}
	return &raw
}

// combineSpdDir builds a wind vector only when both components are present.
func combineSpdDir(dir *float64, spd *Knots) *WindSpdDir {
	if dir == nil || spd == nil {
		return nil
	}
	return &WindSpdDir{Direction: *dir, Speed: *spd}
}

// combineUV builds a U/V vector only when both components are present.
func combineUV(u, v *MetersPSec) *WindUV {
	if u == nil || v == nil {
		return nil
	}
	return &WindUV{U: *u, V: *v}
}

// ToSpdDir converts a U/V vector to speed in knots and the direction the wind
// is blowing from, in [0, 360).
func (w WindUV) ToSpdDir() WindSpdDir {
	u, v := float64(w.U), float64(w.V)
	speed := math.Hypot(u, v)
	if speed == 0 {
		return WindSpdDir{}
	}
	dir := math.Atan2(-u, -v) * 180 / math.Pi
	if dir < 0 {
		dir += 360
	}
	if dir >= 360 {
		dir -= 360
	}
	return WindSpdDir{Direction: dir, Speed: Knots(speed * msToKnots)}
}
