// README: Desktop padding is a CSS length. Bare numbers are pixels.
package overlay

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Padding holds a CSS length such as "360px" or "20rem". Empty means none.
type Padding string

var paddingPattern = regexp.MustCompile(`^(\d+(\.\d+)?)(px|em|rem|vw|vh|%)?$`)

// Pixels returns a Padding of n CSS pixels.
func Pixels(n int) Padding {
	return Padding(strconv.Itoa(n) + "px")
}

func (p *Padding) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Padding(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Padding(n.String() + "px")
	return nil
}

// Valid reports whether p is empty or a non-negative CSS length.
func (p Padding) Valid() bool {
	return p == "" || paddingPattern.MatchString(string(p))
}

// CSS returns the value with bare numbers normalized to pixels.
func (p Padding) CSS() string {
	m := paddingPattern.FindStringSubmatch(string(p))
	if m == nil || m[3] != "" {
		return string(p)
	}
	return string(p) + "px"
}
