package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type surfaceColumn int

const (
	sfcIgnore    surfaceColumn = iota // unrecognized, value checked then dropped
	sfcSTN                            // 6-digit station number
	sfcValidTime                      // YYMMDD/HHMM
	sfcPMSL                           // mean sea level pressure (hPa)
	sfcPRES                           // station pressure (hPa)
	sfcSKTC                           // skin temperature (C)
	sfcSTC1                           // layer 1 soil temperature (K)
	sfcSNFL                           // 1-hour accumulated snowfall (kg/m^2)
	sfcWTNS                           // soil moisture availability (percent)
	sfcP01M                           // 1-hour total precipitation (mm)
	sfcC01M                           // 1-hour convective precipitation (mm)
	sfcP03M                           // 3-hour total precipitation (mm)
	sfcC03M                           // 3-hour convective precipitation (mm)
	sfcSTC2                           // layer 2 soil temperature (K)
	sfcLCLD                           // low cloud coverage (percent)
	sfcMCLD                           // middle cloud coverage (percent)
	sfcHCLD                           // high cloud coverage (percent)
	sfcSNRA                           // snow ratio (percent)
	sfcUWND                           // 10-meter U wind (m/s)
	sfcVWND                           // 10-meter V wind (m/s)
	sfcR01M                           // 1-hour surface runoff (mm)
	sfcBFGR                           // 1-hour baseflow-groundwater runoff (mm)
	sfcT2MS                           // 2-meter temperature (C)
	sfcQ2MS                           // 2-meter specific humidity
	sfcWXTS                           // snow precipitation type (1=snow)
	sfcWXTP                           // ice pellets precipitation type
	sfcWXTZ                           // freezing rain precipitation type
	sfcWXTR                           // rain precipitation type
	sfcUSTM                           // U storm motion (m/s)
	sfcVSTM                           // V storm motion (m/s)
	sfcHLCY                           // storm relative helicity (m^2/s^2)
	sfcSLLH                           // 1-hour surface evaporation (mm)
	sfcWSYM                           // weather type symbol number
	sfcCDBP                           // pressure at cloud base (hPa)
	sfcVSBK                           // visibility (km)
	sfcTD2M                           // 2-meter dew point (C)
)

var surfaceVocabulary = map[string]surfaceColumn{
	"STN":         sfcSTN,
	"YYMMDD/HHMM": sfcValidTime,
	"PMSL":        sfcPMSL,
	"PRES":        sfcPRES,
	"SKTC":        sfcSKTC,
	"STC1":        sfcSTC1,
	"SNFL":        sfcSNFL,
	"WTNS":        sfcWTNS,
	"P01M":        sfcP01M,
	"C01M":        sfcC01M,
	"P03M":        sfcP03M,
	"C03M":        sfcC03M,
	"STC2":        sfcSTC2,
	"LCLD":        sfcLCLD,
	"MCLD":        sfcMCLD,
	"HCLD":        sfcHCLD,
	"SNRA":        sfcSNRA,
	"UWND":        sfcUWND,
	"VWND":        sfcVWND,
	"R01M":        sfcR01M,
	"BFGR":        sfcBFGR,
	"T2MS":        sfcT2MS,
	"Q2MS":        sfcQ2MS,
	"WXTS":        sfcWXTS,
	"WXTP":        sfcWXTP,
	"WXTZ":        sfcWXTZ,
	"WXTR":        sfcWXTR,
	"USTM":        sfcUSTM,
	"VSTM":        sfcVSTM,
	"HLCY":        sfcHLCY,
	"SLLH":        sfcSLLH,
	"WSYM":        sfcWSYM,
	"CDBP":        sfcCDBP,
	"VSBK":        sfcVSBK,
	"TD2M":        sfcTD2M,
}

// SurfaceColumns is the column layout of a surface table, in header order.
type SurfaceColumns struct {
	cols []surfaceColumn
}

// Len returns the number of columns, which is also the token count of a row.
func (c SurfaceColumns) Len() int { return len(c.cols) }

// Ignored returns how many header tags were not recognized.
func (c SurfaceColumns) Ignored() int {
	n := 0
	for _, col := range c.cols {
		if col == sfcIgnore {
			n++
		}
	}
	return n
}

// ParseSurfaceColumns decodes a surface table header. Unrecognized tags become
// ignored columns; the station number and valid time columns are required.
func ParseSurfaceColumns(header string) (SurfaceColumns, error) {
	fields := strings.Fields(header)
	cols := make([]surfaceColumn, 0, len(fields))
	var hasSTN, hasTime bool
	for _, name := range fields {
		col := surfaceVocabulary[name]
		switch col {
		case sfcSTN:
			hasSTN = true
		case sfcValidTime:
			hasTime = true
		}
		cols = append(cols, col)
	}

	if !hasSTN {
		return SurfaceColumns{}, fmt.Errorf("%w: STN", ErrMissingRequiredColumn)
	}
	if !hasTime {
		return SurfaceColumns{}, fmt.Errorf("%w: YYMMDD/HHMM", ErrMissingRequiredColumn)
	}
	return SurfaceColumns{cols: cols}, nil
}

// Surface is one row of the surface table.
type Surface struct {
	StationNum int
	ValidTime  time.Time

	MSLP            *HectoPascal
	StationPressure *HectoPascal
	SkinTemp        *Celsius
	Layer1SoilTemp  *Kelvin
	Snow1Hr         *KgPerM2
	SoilMoisture    *Percent
	Precip1Hr       *Mm
	ConvPrecip1Hr   *Mm
	Precip3Hr       *Mm
	ConvPrecip3Hr   *Mm
	Layer2SoilTemp  *Kelvin
	LowCloud        *Percent
	MidCloud        *Percent
	HighCloud       *Percent
	SnowRatio       *Percent
	Wind            *WindUV
	Runoff1Hr       *Mm
	Baseflow1Hr     *Mm
	Temperature     *Celsius
	SpecHumidity    *float64
	SnowType        *bool
	IcePelletsType  *bool
	FreezingRain    *bool
	RainType        *bool
	StormMotion     *WindUV
	SRH             *float64
	Evaporation1Hr  *Mm
	WxSymbol        *float64
	CloudBasePres   *HectoPascal
	Visibility      *Km
	DewPoint        *Celsius
}

// DecodeRow decodes one row of exactly Len() whitespace-separated tokens.
// Every token must parse, including those of ignored columns.
func (c SurfaceColumns) DecodeRow(row string) (Surface, error) {
	tokens := strings.Fields(row)
	if len(tokens) != len(c.cols) {
		return Surface{}, fmt.Errorf("%w: %d tokens for %d columns", ErrRowDecode, len(tokens), len(c.cols))
	}

	var sd Surface
	var u, v, ustm, vstm *MetersPSec
	for i, token := range tokens {
		col := c.cols[i]

		switch col {
		case sfcSTN:
			n, err := strconv.Atoi(token)
			if err != nil {
				return Surface{}, fmt.Errorf("%w: STN %q", ErrRowDecode, token)
			}
			sd.StationNum = n
			continue
		case sfcValidTime:
			t, err := parseValidTime(token)
			if err != nil {
				return Surface{}, fmt.Errorf("%w: %w", ErrRowDecode, err)
			}
			sd.ValidTime = t
			continue
		}

		raw, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return Surface{}, fmt.Errorf("%w: column %d value %q", ErrRowDecode, i, token)
		}

		switch col {
		case sfcPMSL:
			sd.MSLP = optional[HectoPascal](raw)
		case sfcPRES:
			sd.StationPressure = optional[HectoPascal](raw)
		case sfcSKTC:
			sd.SkinTemp = optional[Celsius](raw)
		case sfcSTC1:
			sd.Layer1SoilTemp = optional[Kelvin](raw)
		case sfcSNFL:
			sd.Snow1Hr = optional[KgPerM2](raw)
		case sfcWTNS:
			sd.SoilMoisture = optional[Percent](raw)
		case sfcP01M:
			sd.Precip1Hr = optional[Mm](raw)
		case sfcC01M:
			sd.ConvPrecip1Hr = optional[Mm](raw)
		case sfcP03M:
			sd.Precip3Hr = optional[Mm](raw)
		case sfcC03M:
			sd.ConvPrecip3Hr = optional[Mm](raw)
		case sfcSTC2:
			sd.Layer2SoilTemp = optional[Kelvin](raw)
		case sfcLCLD:
			sd.LowCloud = optional[Percent](raw)
		case sfcMCLD:
			sd.MidCloud = optional[Percent](raw)
		case sfcHCLD:
			sd.HighCloud = optional[Percent](raw)
		case sfcSNRA:
			sd.SnowRatio = optional[Percent](raw)
		case sfcUWND:
			u = optional[MetersPSec](raw)
		case sfcVWND:
			v = optional[MetersPSec](raw)
		case sfcR01M:
			sd.Runoff1Hr = optional[Mm](raw)
		case sfcBFGR:
			sd.Baseflow1Hr = optional[Mm](raw)
		case sfcT2MS:
			sd.Temperature = optional[Celsius](raw)
		case sfcQ2MS:
			sd.SpecHumidity = optional[float64](raw)
		case sfcWXTS:
			sd.SnowType = optionalFlag(raw)
		case sfcWXTP:
			sd.IcePelletsType = optionalFlag(raw)
		case sfcWXTZ:
			sd.FreezingRain = optionalFlag(raw)
		case sfcWXTR:
			sd.RainType = optionalFlag(raw)
		case sfcUSTM:
			ustm = optional[MetersPSec](raw)
		case sfcVSTM:
			vstm = optional[MetersPSec](raw)
		case sfcHLCY:
			sd.SRH = optional[float64](raw)
		case sfcSLLH:
			sd.Evaporation1Hr = optional[Mm](raw)
		case sfcWSYM:
			sd.WxSymbol = optional[float64](raw)
		case sfcCDBP:
			sd.CloudBasePres = optional[HectoPascal](raw)
		case sfcVSBK:
			sd.Visibility = optional[Km](raw)
		case sfcTD2M:
			sd.DewPoint = optional[Celsius](raw)
		}
	}

	sd.Wind = combineUV(u, v)
	sd.StormMotion = combineUV(ustm, vstm)
	return sd, nil
}

// optionalFlag decodes a 1/0 precipitation type column.
func optionalFlag(raw float64) *bool {
	if IsMissing(raw) {
		return nil
	}
	b := raw != 0
	return &b
}
