// Package format maps container-agnostic pixel formats to the numeric format
// codes stored in TEX headers on each target platform.
//
// The same pixel format may carry a different code per platform, and a
// cubemap of a format may carry yet another one. The mapping is a pure
// function of (descriptor, cubemap, platform); there is no package state
// beyond the read-only table.
package format

import "fmt"

// Platform identifies the hardware a TEX file targets.
type Platform uint8

const (
	PC Platform = iota
	PS3
	Xbox360
	Switch
)

// AllPlatforms lists every platform in table order.
var AllPlatforms = []Platform{PC, PS3, Xbox360, Switch}

func (p Platform) String() string {
	switch p {
	case PC:
		return "pc"
	case PS3:
		return "ps3"
	case Xbox360:
		return "xbox360"
	case Switch:
		return "switch"
	default:
		return fmt.Sprintf("platform(%d)", uint8(p))
	}
}

// Valid reports whether p is one of the known platforms.
func (p Platform) Valid() bool {
	return p <= Switch
}
