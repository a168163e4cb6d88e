package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// soundingNamespace scopes the name-based UUIDs of soundings.
var soundingNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/couchcryptid/bufkit-etl/sounding"))

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Station identifies where a sounding was taken or forecast for.
type Station struct {
	Num       *int         `json:"num,omitempty"`
	ID        *string      `json:"id,omitempty"`
	Location  *Coordinates `json:"location,omitempty"`
	Elevation *Meters      `json:"elevation_m,omitempty"`
}

// Sounding is the analysis-facing record built from one upper-air record and
// the surface row valid at the same time.
type Sounding struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Station   Station   `json:"station"`
	ValidTime time.Time `json:"valid_time"`
	LeadTime  *int      `json:"lead_time,omitempty"`

	// Profile, one entry per level, surface first.
	Pressure      []*HectoPascal `json:"pressure_hpa"`
	Temperature   []*Celsius     `json:"temperature_c,omitempty"`
	WetBulb       []*Celsius     `json:"wet_bulb_c,omitempty"`
	DewPoint      []*Celsius     `json:"dew_point_c,omitempty"`
	ThetaE        []*Kelvin      `json:"theta_e_k,omitempty"`
	Wind          []*WindSpdDir  `json:"wind,omitempty"`
	Omega         []*PaPS        `json:"omega_pa_s,omitempty"`
	Height        []*Meters      `json:"height_m,omitempty"`
	CloudFraction []*float64     `json:"cloud_fraction,omitempty"`

	// Surface
	MSLP            *HectoPascal `json:"mslp_hpa,omitempty"`
	StationPressure *HectoPascal `json:"station_pressure_hpa,omitempty"`
	LowCloud        *Percent     `json:"low_cloud_pct,omitempty"`
	MidCloud        *Percent     `json:"mid_cloud_pct,omitempty"`
	HighCloud       *Percent     `json:"high_cloud_pct,omitempty"`
	SfcTemperature  *Celsius     `json:"sfc_temperature_c,omitempty"`
	SfcDewPoint     *Celsius     `json:"sfc_dew_point_c,omitempty"`
	SfcWind         *WindSpdDir  `json:"sfc_wind,omitempty"`

	// Indexes holds the stability indexes and the remaining surface fields by
	// name, for consumers that want them as a flat map.
	Indexes map[string]float64 `json:"indexes,omitempty"`

	// Geocoding enrichment fields.
	PlaceName        string `json:"place_name,omitempty"`
	FormattedAddress string `json:"formatted_address,omitempty"`
	GeoSource        string `json:"geo_source,omitempty"` // "reverse", "original", "failed"

	ProcessedAt time.Time `json:"processed_at"`
}

// combine merges an upper-air record and a surface row with the same valid
// time.
func combine(ua UpperAir, sd Surface, source string) Sounding {
	station := Station{
		Num:       optionalInt(ua.Num),
		ID:        ua.ID,
		Elevation: ua.Elevation,
	}
	if ua.Lat != nil && ua.Lon != nil {
		station.Location = &Coordinates{Lat: *ua.Lat, Lon: *ua.Lon}
	}

	snd := Sounding{
		ID:        generateID(ua.Num, ua.ValidTime, source),
		Source:    source,
		Station:   station,
		ValidTime: ua.ValidTime,
		LeadTime:  optionalInt(ua.LeadTime),

		Pressure:      ua.Pressure,
		Temperature:   ua.Temperature,
		WetBulb:       ua.WetBulb,
		DewPoint:      ua.DewPoint,
		ThetaE:        ua.ThetaE,
		Wind:          ua.Wind,
		Omega:         ua.Omega,
		Height:        ua.Height,
		CloudFraction: ua.CloudFraction,

		MSLP:            sd.MSLP,
		StationPressure: sd.StationPressure,
		LowCloud:        sd.LowCloud,
		MidCloud:        sd.MidCloud,
		HighCloud:       sd.HighCloud,
		SfcTemperature:  sd.Temperature,
		SfcDewPoint:     sd.DewPoint,

		Indexes: auxIndexes(ua.Indexes, sd),
	}
	if sd.Wind != nil {
		w := sd.Wind.ToSpdDir()
		snd.SfcWind = &w
	}
	return snd
}

// generateID derives a UUIDv5 from station, valid time and source so that
// reprocessing a file yields the same IDs.
func generateID(num int, validTime time.Time, source string) string {
	name := fmt.Sprintf("%d|%s|%s", num, validTime.UTC().Format(time.RFC3339), source)
	return uuid.NewSHA1(soundingNamespace, []byte(name)).String()
}

func auxIndexes(idx Indexes, sd Surface) map[string]float64 {
	m := make(map[string]float64, 32)
	put := func(key string, v *float64) {
		if v != nil {
			m[key] = *v
		}
	}
	flag := func(key string, v *bool) {
		if v == nil {
			return
		}
		if *v {
			m[key] = 1
		} else {
			m[key] = 0
		}
	}

	put("Showalter", unwrap(idx.Showalter))
	put("SWeT", idx.SWeT)
	put("K", unwrap(idx.KIndex))
	put("LI", unwrap(idx.LiftedIdx))
	put("LCL", unwrap(idx.LCLPres))
	put("PWAT", unwrap(idx.PWAT))
	put("TotalTotals", idx.TotalTotal)
	put("CAPE", unwrap(idx.CAPE))
	put("CIN", unwrap(idx.CIN))
	put("LCLTemperature", unwrap(idx.LCLTemp))
	put("EquilibriumLevel", unwrap(idx.EqLevel))
	put("LFC", unwrap(idx.LFC))
	put("BulkRichardsonNumber", idx.BulkRich)

	put("SkinTemperature", unwrap(sd.SkinTemp))
	put("Layer1SoilTemp", unwrap(sd.Layer1SoilTemp))
	put("SnowFall1HourKgPerMeterSquared", unwrap(sd.Snow1Hr))
	put("Precipitation1HrMm", unwrap(sd.Precip1Hr))
	put("ConvectivePrecip1HrMm", unwrap(sd.ConvPrecip1Hr))
	put("Precipitation3HrMm", unwrap(sd.Precip3Hr))
	put("ConvectivePrecip3HrMm", unwrap(sd.ConvPrecip3Hr))
	put("Layer2SoilTemp", unwrap(sd.Layer2SoilTemp))
	put("SnowRatio", unwrap(sd.SnowRatio))
	put("VisibilityKm", unwrap(sd.Visibility))
	put("StormRelativeHelicity", sd.SRH)
	put("WxSymbolCode", sd.WxSymbol)
	flag("PrecipTypeSnow", sd.SnowType)
	flag("PrecipTypeRain", sd.RainType)
	flag("PrecipTypeFreezingRain", sd.FreezingRain)
	flag("PrecipTypeIcePellets", sd.IcePelletsType)

	if sd.StormMotion != nil {
		m["StormMotionUMps"] = float64(sd.StormMotion.U)
		m["StormMotionVMps"] = float64(sd.StormMotion.V)
	}
	return m
}

// unwrap converts an optional unit value.
func unwrap[T ~float64](v *T) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}
