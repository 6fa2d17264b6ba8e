package common

import "math"

// MinGain is the linear floor used before converting to decibels so that
// silence maps to a finite value.
const MinGain = 0.001

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}

// LinearToDecibels clamps linear to [MinGain, 1] and returns 20*log10(linear).
func LinearToDecibels(linear float64) float64 {
	return 20 * math.Log10(Clamp(linear, MinGain, 1))
}

func DecibelsToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}
