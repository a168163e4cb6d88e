package domain

// Indexes are the stability indexes reported with each upper-air record.
type Indexes struct {
	Showalter  *CelsiusDiff // SHOW
	LiftedIdx  *CelsiusDiff // LIFT
	SWeT       *float64     // SWET, severe weather threat
	KIndex     *Celsius     // KINX
	LCLPres    *HectoPascal // LCLP, pressure at the lifting condensation level
	PWAT       *Mm          // PWAT, precipitable water
	TotalTotal *float64     // TOTL
	CAPE       *JpKg        // CAPE
	LCLTemp    *Kelvin      // LCLT, temperature at the LCL
	CIN        *JpKg        // CINS
	EqLevel    *HectoPascal // EQLV, equilibrium level
	LFC        *HectoPascal // LFCT, level of free convection
	BulkRich   *float64     // BRCH, bulk Richardson number
}

// ParseIndexes decodes an indexes block. Files carry different subsets of
// indexes, so a key that is absent or unparseable leaves that index nil and the
// scan continues from the same position.
func ParseIndexes(text string) Indexes {
	cursor := text
	next := func(key string) float64 {
		raw, rest, err := parseFloatKV(cursor, key)
		if err != nil {
			return MissingValue
		}
		cursor = rest
		return raw
	}

	// Order matters: each key is searched for after the previous one.
	return Indexes{
		Showalter:  optional[CelsiusDiff](next("SHOW")),
		LiftedIdx:  optional[CelsiusDiff](next("LIFT")),
		SWeT:       optional[float64](next("SWET")),
		KIndex:     optional[Celsius](next("KINX")),
		LCLPres:    optional[HectoPascal](next("LCLP")),
		PWAT:       optional[Mm](next("PWAT")),
		TotalTotal: optional[float64](next("TOTL")),
		CAPE:       optional[JpKg](next("CAPE")),
		LCLTemp:    optional[Kelvin](next("LCLT")),
		CIN:        optional[JpKg](next("CINS")),
		EqLevel:    optional[HectoPascal](next("EQLV")),
		LFC:        optional[HectoPascal](next("LFCT")),
		BulkRich:   optional[float64](next("BRCH")),
	}
}
