// README: Localized string lookup. Real catalogs are supplied by the client;
// English is the built-in fallback.
package i18n

type Translator interface {
	T(key string) string
}

// Catalog is a map-backed Translator that falls back to the key itself.
type Catalog map[string]string

func (c Catalog) T(key string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return key
}

var English = Catalog{
	"sharedGeofence":       "Geofence",
	"sharedCreateGeofence": "Create Geofence",
	"sharedYes":            "Yes",
	"sharedNo":             "No",
	"sharedKn":             "kn",
	"sharedKmh":            "km/h",
	"sharedMph":            "mph",
	"sharedKm":             "km",
	"sharedMi":             "mi",
	"sharedNmi":            "nmi",
	"sharedShowAddress":    "Show Address",
	"sharedShowDetails":    "More Details",
	"sharedExtra":          "Extra",
	"sharedRemoveCard":     "Close",
	"sharedEdit":           "Edit",
	"sharedRemove":         "Remove",
	"reportReplay":         "Replay",
	"commandTitle":         "Command",
	"linkGoogleMaps":       "Google Maps",
	"linkAppleMaps":        "Apple Maps",
	"linkStreetView":       "Street View",
	"deviceShare":          "Share Device",
}
