// README: Common identifier value object used across modules.
package types

import "strconv"

// ID is the numeric identifier the tracking server assigns to devices,
// positions, geofences and users.
type ID int64

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
