package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndexes = `SHOW = 8.12 LIFT = 8.00 SWET = 39.08 KINX = 14.88
LCLP = 780.77 PWAT = 9.28 TOTL = 39.55 CAPE = 0.00
LCLT = 272.88 CINS = -12.50 EQLV = -9999.00 LFCT = -9999.00
BRCH = 0.00
`

func TestParseIndexes(t *testing.T) {
	idx := ParseIndexes(testIndexes)

	require.NotNil(t, idx.Showalter)
	assert.Equal(t, CelsiusDiff(8.12), *idx.Showalter)
	require.NotNil(t, idx.LiftedIdx)
	assert.Equal(t, CelsiusDiff(8.0), *idx.LiftedIdx)
	require.NotNil(t, idx.SWeT)
	assert.Equal(t, 39.08, *idx.SWeT)
	require.NotNil(t, idx.KIndex)
	assert.Equal(t, Celsius(14.88), *idx.KIndex)
	require.NotNil(t, idx.LCLPres)
	assert.Equal(t, HectoPascal(780.77), *idx.LCLPres)
	require.NotNil(t, idx.PWAT)
	assert.Equal(t, Mm(9.28), *idx.PWAT)
	require.NotNil(t, idx.TotalTotal)
	assert.Equal(t, 39.55, *idx.TotalTotal)
	require.NotNil(t, idx.CAPE)
	assert.Equal(t, JpKg(0), *idx.CAPE)
	require.NotNil(t, idx.LCLTemp)
	assert.Equal(t, Kelvin(272.88), *idx.LCLTemp)
	require.NotNil(t, idx.CIN)
	assert.Equal(t, JpKg(-12.5), *idx.CIN)
	assert.Nil(t, idx.EqLevel)
	assert.Nil(t, idx.LFC)
	require.NotNil(t, idx.BulkRich)
	assert.Equal(t, 0.0, *idx.BulkRich)
}

func TestParseIndexes_SubsetOfKeys(t *testing.T) {
	// NAM files written by older postprocessors omit SWET and BRCH.
	idx := ParseIndexes("SHOW = 1.5 LIFT = -2.0 KINX = 30.1\nCAPE = 1200.0 CINS = -35.0\n")

	require.NotNil(t, idx.Showalter)
	require.NotNil(t, idx.LiftedIdx)
	assert.Equal(t, CelsiusDiff(-2.0), *idx.LiftedIdx)
	assert.Nil(t, idx.SWeT)
	require.NotNil(t, idx.KIndex)
	assert.Equal(t, Celsius(30.1), *idx.KIndex)
	assert.Nil(t, idx.LCLPres)
	require.NotNil(t, idx.CAPE)
	assert.Equal(t, JpKg(1200), *idx.CAPE)
	require.NotNil(t, idx.CIN)
	assert.Nil(t, idx.BulkRich)
}

func TestParseIndexes_Empty(t *testing.T) {
	assert.Equal(t, Indexes{}, ParseIndexes("\n\n"))
}
