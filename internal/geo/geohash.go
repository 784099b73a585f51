// Package geo holds the spatial primitives used by the proximity subsystem:
// geohash grid tokens, neighbor cells, coordinate rounding and noise.
//
// A grid token is a base-32 string built by bisecting the longitude and
// latitude ranges bit by bit (longitude first) and packing 5 bits per
// character. Tokens that share a prefix share a cell at that prefix length:
//
//	4 → ~39 x 20 km   5 → ~4.9 x 4.9 km   6 → ~1.2 x 0.6 km   7 → ~153 x 153 m
//
// Nothing in this package performs I/O or keeps state between calls.
package geo

import (
	"math"
	"strings"
)

const (
	base32 = "0123456789bcdefghjkmnpqrstuvwxyz"

	// MaxPrecision is the longest token the record store accepts.
	MaxPrecision = 12
	// DefaultPrecision is the precision used for ledger storage.
	DefaultPrecision = 6
)

var base32Index [256]int8

func init() {
	for i := range base32Index {
		base32Index[i] = -1
	}
	for i := 0; i < len(base32); i++ {
		base32Index[base32[i]] = int8(i)
	}
}

// Encode converts latitude and longitude to a grid token of the given
// precision. Precision <= 0 selects DefaultPrecision and values above
// MaxPrecision are capped.
func Encode(lat, lon float64, precision int) string {
	if precision <= 0 {
		precision = DefaultPrecision
	}
	if precision > MaxPrecision {
		precision = MaxPrecision
	}

	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0

	var hash strings.Builder
	hash.Grow(precision)
	isEven := true
	bit := 0
	ch := 0

	for hash.Len() < precision {
		if isEven {
			mid := (minLon + maxLon) / 2
			if lon >= mid {
				ch |= 1 << (4 - bit)
				minLon = mid
			} else {
				maxLon = mid
			}
		} else {
			mid := (minLat + maxLat) / 2
			if lat >= mid {
				ch |= 1 << (4 - bit)
				minLat = mid
			} else {
				maxLat = mid
			}
		}
		isEven = !isEven
		bit++
		if bit == 5 {
			hash.WriteByte(base32[ch])
			bit = 0
			ch = 0
		}
	}

	return hash.String()
}

// Box is the rectangle covered by a grid token.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Center returns the midpoint of the box.
func (b Box) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Bounds replays the subdivision encoded in hash. Characters outside the
// alphabet are skipped.
func Bounds(hash string) Box {
	box := Box{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
	isEven := true

	for i := 0; i < len(hash); i++ {
		c := hash[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		cd := base32Index[c]
		if cd < 0 {
			continue
		}
		for j := 4; j >= 0; j-- {
			bit := (cd >> j) & 1
			if isEven {
				mid := (box.MinLon + box.MaxLon) / 2
				if bit == 1 {
					box.MinLon = mid
				} else {
					box.MaxLon = mid
				}
			} else {
				mid := (box.MinLat + box.MaxLat) / 2
				if bit == 1 {
					box.MinLat = mid
				} else {
					box.MaxLat = mid
				}
			}
			isEven = !isEven
		}
	}

	return box
}

// Decode returns the center of the cell encoded by hash.
func Decode(hash string) (lat, lon float64) {
	return Bounds(hash).Center()
}

// Direction names one of the four adjacent cells.
type Direction int

const (
	West Direction = iota
	East
	North
	South
)

// Adjacent returns the token of the same precision next to hash in the given
// direction. Longitude wraps at the antimeridian; there is no cell beyond a
// pole, in which case ok is false.
func Adjacent(hash string, dir Direction) (string, bool) {
	if hash == "" {
		return "", false
	}
	box := Bounds(hash)
	lat, lon := box.Center()
	height := box.MaxLat - box.MinLat
	width := box.MaxLon - box.MinLon

	switch dir {
	case West:
		lon -= width
	case East:
		lon += width
	case North:
		lat += height
	case South:
		lat -= height
	}

	if lat > 90 || lat < -90 {
		return "", false
	}
	lon = WrapLongitude(lon)

	return Encode(lat, lon, len(hash)), true
}

// Neighbors returns hash followed by its west, east, north and south cells.
// Cells that do not exist (beyond a pole) are left out, so the result holds
// between 4 and 5 distinct tokens.
func Neighbors(hash string) []string {
	out := []string{hash}
	if hash == "" {
		return out
	}
	for _, dir := range []Direction{West, East, North, South} {
		n, ok := Adjacent(hash, dir)
		if !ok || n == hash {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Prefix truncates token to precision characters.
func Prefix(token string, precision int) string {
	if precision <= 0 || precision >= len(token) {
		return token
	}
	return token[:precision]
}

// Valid reports whether token is a non-empty grid token of at most
// MaxPrecision characters.
func Valid(token string) bool {
	if token == "" || len(token) > MaxPrecision {
		return false
	}
	for i := 0; i < len(token); i++ {
		if base32Index[token[i]] < 0 {
			return false
		}
	}
	return true
}

// WrapLongitude maps lon into [-180, 180]. Values already in range are
// returned unchanged.
func WrapLongitude(lon float64) float64 {
	if lon >= -180 && lon <= 180 {
		return lon
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
