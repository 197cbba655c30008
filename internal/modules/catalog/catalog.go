// Package catalog is the closed registry of position fields the status card
// knows how to present: where a field lives and how it is rendered.
package catalog

// Style is the display-style tag that selects a formatter branch.
type Style int

const (
	StyleGeneric Style = iota
	StyleTime
	StyleLocation
	StyleSpeed
	StyleDistance
)

func (s Style) String() string {
	switch s {
	case StyleTime:
		return "time"
	case StyleLocation:
		return "location"
	case StyleSpeed:
		return "speed"
	case StyleDistance:
		return "distance"
	default:
		return "generic"
	}
}

// Source is the data-source class of a field.
type Source int

const (
	SourceUnknown Source = iota
	SourceFirstClass
	SourceAttribute
)

func (s Source) String() string {
	switch s {
	case SourceFirstClass:
		return "first_class"
	case SourceAttribute:
		return "attribute"
	default:
		return "unknown"
	}
}

type Entry struct {
	Key    string
	Source Source
	Style  Style
	Icon   string // empty for fields rendered without an icon
}

var entries = map[string]Entry{
	"fixTime":       {Key: "fixTime", Source: SourceFirstClass, Style: StyleTime, Icon: "access_time"},
	"address":       {Key: "address", Source: SourceFirstClass, Style: StyleLocation, Icon: "location_pin"},
	"speed":         {Key: "speed", Source: SourceFirstClass, Style: StyleSpeed, Icon: "speed"},
	"totalDistance": {Key: "totalDistance", Source: SourceAttribute, Style: StyleDistance, Icon: "route"},
	"deviceTime":    {Key: "deviceTime", Source: SourceFirstClass, Style: StyleTime},
	"serverTime":    {Key: "serverTime", Source: SourceFirstClass, Style: StyleTime},
	"distance":      {Key: "distance", Source: SourceAttribute, Style: StyleDistance},
	"odometer":      {Key: "odometer", Source: SourceAttribute, Style: StyleDistance},
}

// Lookup returns the registered entry for key. Unknown keys get a generic
// attribute entry with no icon and ok=false.
func Lookup(key string) (Entry, bool) {
	if e, ok := entries[key]; ok {
		return e, true
	}
	return Entry{Key: key, Source: SourceUnknown, Style: StyleGeneric}, false
}
