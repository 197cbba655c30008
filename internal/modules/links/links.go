// Package links builds deep links into external map and navigation apps.
package links

import (
	"strconv"
	"strings"
)

const (
	googleMapsBase = "https://www.google.com/maps/search/?api=1&query="
	appleMapsBase  = "http://maps.apple.com/?ll="
	streetViewBase = "https://www.google.com/maps/@?api=1&map_action=pano&viewpoint="
)

// Link is one external target offered in the card's extra menu.
type Link struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Coord formats a decimal-degree coordinate without trailing zeros.
func Coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func GoogleMaps(lat, lng float64) string {
	return googleMapsBase + Coord(lat) + "%2C" + Coord(lng)
}

// GoogleMapsDirections is the header shortcut; it keeps a literal comma.
func GoogleMapsDirections(lat, lng float64) string {
	return googleMapsBase + Coord(lat) + "," + Coord(lng)
}

func AppleMaps(lat, lng float64) string {
	return appleMapsBase + Coord(lat) + "," + Coord(lng)
}

func StreetView(lat, lng, course float64) string {
	return streetViewBase + Coord(lat) + "%2C" + Coord(lng) + "&heading=" + Coord(course)
}

// NavigationApp substitutes {latitude} and {longitude} in the user's
// template. ok is false unless both template and title are configured.
func NavigationApp(template, title string, lat, lng float64) (string, bool) {
	if template == "" || title == "" {
		return "", false
	}
	r := strings.NewReplacer("{latitude}", Coord(lat), "{longitude}", Coord(lng))
	return r.Replace(template), true
}

// Menu returns the external links in menu order.
func Menu(titles func(string) string, lat, lng, course float64, navTemplate, navTitle string) []Link {
	out := []Link{
		{Name: "googleMaps", Title: titles("linkGoogleMaps"), URL: GoogleMaps(lat, lng)},
		{Name: "appleMaps", Title: titles("linkAppleMaps"), URL: AppleMaps(lat, lng)},
		{Name: "streetView", Title: titles("linkStreetView"), URL: StreetView(lat, lng, course)},
	}
	if url, ok := NavigationApp(navTemplate, navTitle, lat, lng); ok {
		out = append(out, Link{Name: "navigationApp", Title: navTitle, URL: url})
	}
	return out
}
