package edits

import (
	"encoding/json"
	"strings"
)

// Flag is the culling decision for an image.
type Flag string

const (
	FlagNone   Flag = "none"
	FlagPick   Flag = "pick"
	FlagReject Flag = "reject"
)

// ParseFlag maps any input onto a valid Flag; unrecognized values become FlagNone.
func ParseFlag(s string) Flag {
	switch Flag(strings.ToLower(strings.TrimSpace(s))) {
	case FlagPick:
		return FlagPick
	case FlagReject:
		return FlagReject
	default:
		return FlagNone
	}
}

// String returns the wire name of the flag.
func (f Flag) String() string {
	if f == "" {
		return string(FlagNone)
	}
	return string(f)
}

// UnmarshalJSON accepts any string and collapses unknown values to FlagNone.
// Non-string JSON (numbers, null) also decodes to FlagNone.
func (f *Flag) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*f = FlagNone
		return nil
	}
	*f = ParseFlag(s)
	return nil
}

// Rotation is a clockwise quarter-turn applied after all pixel edits.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// ParseRotation maps degrees onto a Rotation. Anything other than
// 0/90/180/270 becomes Rotate0.
func ParseRotation(deg int) Rotation {
	switch Rotation(deg) {
	case Rotate90, Rotate180, Rotate270:
		return Rotation(deg)
	default:
		return Rotate0
	}
}

// UnmarshalJSON accepts a number of degrees; invalid values decode to Rotate0.
func (r *Rotation) UnmarshalJSON(data []byte) error {
	var deg float64
	if err := json.Unmarshal(data, &deg); err != nil {
		*r = Rotate0
		return nil
	}
	if deg != float64(int(deg)) {
		*r = Rotate0
		return nil
	}
	*r = ParseRotation(int(deg))
	return nil
}
