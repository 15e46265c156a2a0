package engine

import "math"

// Monetary amounts are rounded to the currency's minor unit. The exponent is
// the number of minor-unit digits (0 for LAK/IDR, 2 for USD/EUR).

func roundHalfUp(value float64, exponent int) float64 {
	scale := math.Pow(10, float64(exponent))
	return math.Floor(value*scale+0.5) / scale
}

// ceilToMinorUnit rounds up so a split never under-collects. The epsilon
// keeps float noise on exact quotients from bumping a whole extra unit.
func ceilToMinorUnit(value float64, exponent int) float64 {
	scale := math.Pow(10, float64(exponent))
	return math.Ceil(value*scale-1e-9) / scale
}
