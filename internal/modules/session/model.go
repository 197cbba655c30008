// README: Session state of the signed-in user: permission flags and
// preference attributes inherited from the server.
package session

import (
	"strconv"

	"fleetcard/internal/types"
)

type Server struct {
	Readonly       bool
	DeviceReadonly bool
	Attributes     map[string]any
}

type User struct {
	ID             types.ID
	Email          string
	Administrator  bool
	Readonly       bool
	DeviceReadonly bool
	Temporary      bool
	Attributes     map[string]any
}

type State struct {
	Server Server
	User   User
}

// DeviceReadonly reports whether the user may not modify devices.
// Administrators are never restricted.
func (s State) DeviceReadonly() bool {
	if s.User.Administrator {
		return false
	}
	return s.Server.Readonly || s.User.Readonly || s.Server.DeviceReadonly || s.User.DeviceReadonly
}

func (s State) ShareDisabled() bool {
	return attrBool(s.Server.Attributes["disableShare"])
}

// Preference returns the user attribute, then the server attribute, then def.
func (s State) Preference(key, def string) string {
	if v, ok := attrString(s.User.Attributes[key]); ok {
		return v
	}
	if v, ok := attrString(s.Server.Attributes[key]); ok {
		return v
	}
	return def
}

func (s State) PreferenceBool(key string) bool {
	if v, ok := s.User.Attributes[key]; ok {
		return attrBool(v)
	}
	return attrBool(s.Server.Attributes[key])
}

func attrString(v any) (string, bool) {
	switch tv := v.(type) {
	case string:
		return tv, tv != ""
	case bool:
		return strconv.FormatBool(tv), true
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64), true
	}
	return "", false
}

func attrBool(v any) bool {
	switch tv := v.(type) {
	case bool:
		return tv
	case string:
		b, _ := strconv.ParseBool(tv)
		return b
	}
	return false
}
