package risk

import "math"

func roundTo(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}

func round2(x float64) float64 { return roundTo(x, 2) }
func round4(x float64) float64 { return roundTo(x, 4) }
func round6(x float64) float64 { return roundTo(x, 6) }
