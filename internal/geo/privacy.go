package geo

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

const (
	// DefaultRoundDecimals keeps ~110 m of resolution.
	DefaultRoundDecimals = 3
	// DefaultNoiseDegrees is the half-width of the uniform noise band (~220 m).
	DefaultNoiseDegrees = 0.002

	earthRadiusKm = 6371.0
)

// RoundCoordinates reduces both axes to the given number of decimal places.
func RoundCoordinates(lat, lon float64, decimals int) (float64, float64) {
	if decimals < 0 {
		decimals = 0
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(lat*p) / p, math.Round(lon*p) / p
}

// RandSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// Noiser perturbs coordinates with independent uniform noise on each axis.
// The source is guarded so one Noiser can be shared between requests.
type Noiser struct {
	mu        sync.Mutex
	src       RandSource
	magnitude float64
}

// NewNoiser builds a Noiser drawing from src. A nil src falls back to a
// time-seeded math/rand generator; magnitude <= 0 uses DefaultNoiseDegrees.
func NewNoiser(src RandSource, magnitude float64) *Noiser {
	if src == nil {
		src = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if magnitude <= 0 {
		magnitude = DefaultNoiseDegrees
	}
	return &Noiser{src: src, magnitude: magnitude}
}

// Magnitude returns the noise half-width in degrees.
func (n *Noiser) Magnitude() float64 {
	return n.magnitude
}

// AddNoise returns lat and lon each shifted by a fresh draw from
// [-magnitude, +magnitude). Latitude is clamped to the valid range and
// longitude wrapped.
func (n *Noiser) AddNoise(lat, lon float64) (float64, float64) {
	n.mu.Lock()
	dLat := (n.src.Float64()*2 - 1) * n.magnitude
	dLon := (n.src.Float64()*2 - 1) * n.magnitude
	n.mu.Unlock()

	lat += dLat
	if lat > 90 {
		lat = 90
	} else if lat < -90 {
		lat = -90
	}
	return lat, WrapLongitude(lon + dLon)
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// TokenDistanceKm is the distance between the centers of two cells.
func TokenDistanceKm(a, b string) float64 {
	lat1, lon1 := Decode(a)
	lat2, lon2 := Decode(b)
	return Haversine(lat1, lon1, lat2, lon2)
}

// CellWidthKm approximates the east-west extent of a cell at the equator.
func CellWidthKm(precision int) float64 {
	if precision <= 0 {
		return 2 * math.Pi * earthRadiusKm
	}
	lonBits := (5*precision + 1) / 2
	return 2 * math.Pi * earthRadiusKm / math.Pow(2, float64(lonBits))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
