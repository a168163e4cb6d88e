package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptional(t *testing.T) {
	assert.Nil(t, optional[Celsius](-9999.0))
	assert.Nil(t, optional[Celsius](-9999))

	for _, v := range []float64{0, -9998.99, -9999.01, 12.5, -40} {
		got := optional[Celsius](v)
		if assert.NotNil(t, got) {
			assert.Equal(t, Celsius(v), *got)
		}
	}

	assert.Nil(t, optionalInt(-9999))
	assert.Equal(t, 727730, *optionalInt(727730))
}

func TestWindUV_ToSpdDir(t *testing.T) {
	tests := []struct {
		name    string
		wind    WindUV
		wantDir float64
		wantKt  float64
	}{
		{"from the west", WindUV{U: 10, V: 0}, 270, 10 * msToKnots},
		{"from the south", WindUV{U: 0, V: 10}, 180, 10 * msToKnots},
		{"from the east", WindUV{U: -10, V: 0}, 90, 10 * msToKnots},
		{"from the southwest", WindUV{U: 3, V: 3}, 225, 4.242640687119285 * msToKnots},
		{"calm", WindUV{}, 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.wind.ToSpdDir()
			assert.InDelta(t, tc.wantDir, got.Direction, 1e-9)
			assert.InDelta(t, tc.wantKt, float64(got.Speed), 1e-9)
		})
	}
}

func TestCombineSpdDir(t *testing.T) {
	dir, spd := 270.0, Knots(15)
	assert.Equal(t, &WindSpdDir{Direction: 270, Speed: 15}, combineSpdDir(&dir, &spd))
	assert.Nil(t, combineSpdDir(nil, &spd))
	assert.Nil(t, combineSpdDir(&dir, nil))
}
