package format

// Speeds are stored in knots and distances in meters.
const (
	knotsToKmh  = 1.852
	knotsToMph  = 1.15078
	metersToMi  = 0.000621371
	metersToNmi = 0.000539957
)

func speedFromKnots(v float64, unit string) (float64, string) {
	switch unit {
	case "kmh":
		return v * knotsToKmh, "sharedKmh"
	case "mph":
		return v * knotsToMph, "sharedMph"
	default:
		return v, "sharedKn"
	}
}

func distanceFromMeters(v float64, unit string) (float64, string) {
	switch unit {
	case "mi":
		return v * metersToMi, "sharedMi"
	case "nmi":
		return v * metersToNmi, "sharedNmi"
	default:
		return v / 1000, "sharedKm"
	}
}
