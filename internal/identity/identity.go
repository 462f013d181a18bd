// Package identity models who a player is across storefronts and how that
// identity travels on the wire.
//
// The lobby trusts the storefront-issued id string as-is; there is no
// credential check here. Identity only has to be stable (map keys, room
// ownership) and serializable (the CombinedID blob the game uses for
// peer-to-peer rendezvous).
package identity

import (
	"strings"
)

// Storefront is the platform that issued a player id.
type Storefront int32

const (
	StorefrontNone Storefront = iota
	StorefrontSteam
	StorefrontEpic
	StorefrontGOG
)

var storefrontNames = map[Storefront]string{
	StorefrontNone:  "none",
	StorefrontSteam: "steam",
	StorefrontEpic:  "epic",
	StorefrontGOG:   "gog",
}

// String returns the lowercase canonical name.
func (s Storefront) String() string {
	if name, ok := storefrontNames[s]; ok {
		return name
	}
	return "none"
}

// ParseStorefront matches a storefront name case-insensitively. Unknown
// names map to StorefrontNone.
func ParseStorefront(s string) Storefront {
	switch strings.ToLower(s) {
	case "steam":
		return StorefrontSteam
	case "epic":
		return StorefrontEpic
	case "gog":
		return StorefrontGOG
	default:
		return StorefrontNone
	}
}

// PlayerID identifies a player. Equality is over storefront and id; the
// display name is presentation only and excluded from the canonical form.
type PlayerID struct {
	Storefront  Storefront
	ID          string
	DisplayName string
}

// ParsePlayerID parses the canonical form "storefront:id". A missing or
// unrecognized prefix yields StorefrontNone with the whole input as the id,
// so unknown prefixes survive a round-trip unchanged.
func ParsePlayerID(s string) PlayerID {
	if prefix, rest, ok := strings.Cut(s, ":"); ok {
		if sf := ParseStorefront(prefix); sf != StorefrontNone {
			return PlayerID{Storefront: sf, ID: rest}
		}
	}
	return PlayerID{Storefront: StorefrontNone, ID: s}
}

// String returns the canonical form: "storefront:id", or the bare id when
// no storefront is set.
func (p PlayerID) String() string {
	if p.Storefront == StorefrontNone {
		return p.ID
	}
	return p.Storefront.String() + ":" + p.ID
}

// Key is the map-key form of the identity. Display names are excluded, so
// the same player under two display names keys identically.
func (p PlayerID) Key() string { return p.String() }

// Name returns the display name, falling back to the canonical form when
// the player never sent one.
func (p PlayerID) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.String()
}

// IsZero reports whether the identity is unset.
func (p PlayerID) IsZero() bool {
	return p.ID == "" && p.Storefront == StorefrontNone
}
