// README: Coordinate value object in decimal degrees.
package types

type Point struct {
	Lat float64
	Lng float64
}
