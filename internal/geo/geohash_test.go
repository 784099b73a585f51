package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name      string
		lat       float64
		lon       float64
		precision int
		want      string
	}{
		{name: "San Francisco", lat: 37.7749, lon: -122.4194, precision: 6, want: "9q8yyk"},
		{name: "New York", lat: 40.7128, lon: -74.0060, precision: 6, want: "dr5reg"},
		{name: "London", lat: 51.5074, lon: -0.1278, precision: 6, want: "gcpvj0"},
		{name: "Default precision", lat: 37.7749, lon: -122.4194, precision: 0, want: "9q8yyk"},
		{name: "Shorter precision is a prefix", lat: 37.7749, lon: -122.4194, precision: 4, want: "9q8y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.lat, tt.lon, tt.precision))
		})
	}
}

func TestEncode_DeterministicAndSized(t *testing.T) {
	points := [][2]float64{
		{12.9716, 77.5946},
		{-33.8688, 151.2093},
		{0, 0},
		{90, 180},
		{-90, -180},
	}
	for _, p := range points {
		for precision := 1; precision <= MaxPrecision; precision++ {
			a := Encode(p[0], p[1], precision)
			b := Encode(p[0], p[1], precision)
			assert.Equal(t, a, b)
			assert.Len(t, a, precision)
			assert.True(t, Valid(a))
		}
	}
}

func TestEncode_ClampsPrecision(t *testing.T) {
	assert.Len(t, Encode(1, 1, 40), MaxPrecision)
}

func TestEncode_OutOfRangeDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		Encode(1000, -1000, 6)
		Encode(math.MaxFloat64, -math.MaxFloat64, 6)
	})
}

func TestDecodeRoundTrip(t *testing.T) {
	points := [][2]float64{
		{37.7749, -122.4194},
		{40.7128, -74.0060},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
		{35.6762, 139.6503},
	}
	for _, p := range points {
		lat, lon := Decode(Encode(p[0], p[1], 8))
		assert.InDelta(t, p[0], lat, 0.001)
		assert.InDelta(t, p[1], lon, 0.001)
	}
}

func TestBounds_ContainsPoint(t *testing.T) {
	token := Encode(12.9716, 77.5946, 6)
	box := Bounds(token)
	assert.True(t, box.MinLat <= 12.9716 && 12.9716 <= box.MaxLat)
	assert.True(t, box.MinLon <= 77.5946 && 77.5946 <= box.MaxLon)
	assert.Equal(t, box, Bounds(strings.ToUpper(token)))
}

func TestAdjacent_RoundTrip(t *testing.T) {
	center := Encode(37.7749, -122.4194, 6)

	east, ok := Adjacent(center, East)
	require.True(t, ok)
	back, ok := Adjacent(east, West)
	require.True(t, ok)
	assert.Equal(t, center, back)

	north, ok := Adjacent(center, North)
	require.True(t, ok)
	back, ok = Adjacent(north, South)
	require.True(t, ok)
	assert.Equal(t, center, back)
}

func TestAdjacent_SharesEdge(t *testing.T) {
	center := Encode(51.5074, -0.1278, 7)
	box := Bounds(center)

	east, _ := Adjacent(center, East)
	assert.InDelta(t, box.MaxLon, Bounds(east).MinLon, 1e-9)

	north, _ := Adjacent(center, North)
	assert.InDelta(t, box.MaxLat, Bounds(north).MinLat, 1e-9)

	west, _ := Adjacent(center, West)
	assert.InDelta(t, box.MinLon, Bounds(west).MaxLon, 1e-9)

	south, _ := Adjacent(center, South)
	assert.InDelta(t, box.MinLat, Bounds(south).MaxLat, 1e-9)
}

func TestAdjacent_WrapsAntimeridian(t *testing.T) {
	center := Encode(10, 179.999, 5)
	east, ok := Adjacent(center, East)
	require.True(t, ok)
	_, lon := Decode(east)
	assert.Less(t, lon, -179.0)
}

func TestAdjacent_NoCellBeyondPole(t *testing.T) {
	_, ok := Adjacent(Encode(89.999, 0, 6), North)
	assert.False(t, ok)
	_, ok = Adjacent(Encode(-89.999, 0, 6), South)
	assert.False(t, ok)
}

func TestNeighbors(t *testing.T) {
	center := Encode(37.7749, -122.4194, 6)
	got := Neighbors(center)

	require.Len(t, got, 5)
	assert.Equal(t, center, got[0])

	seen := map[string]bool{}
	for _, n := range got {
		assert.Len(t, n, len(center))
		assert.False(t, seen[n], "duplicate neighbor %s", n)
		seen[n] = true
	}

	polar := Neighbors(Encode(89.999, 0, 6))
	assert.Len(t, polar, 4)
}

func TestPrefixAndValid(t *testing.T) {
	assert.Equal(t, "9q8yy", Prefix("9q8yyk", 5))
	assert.Equal(t, "9q8yyk", Prefix("9q8yyk", 9))
	assert.True(t, Valid("9q8yyk"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("9q8yya"))
	assert.False(t, Valid("0123456789bcd"))
}

func BenchmarkEncode(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Encode(37.7749, -122.4194, 6)
	}
}

func TestWrapLongitude(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{181, -179},
		{-181, 179},
		{540, -180},
		{725, 5},
		{-725, -5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, WrapLongitude(tt.in), 1e-9, "WrapLongitude(%v)", tt.in)
	}

	for _, lon := range []float64{1e16, -1e16, 1e300, math.MaxFloat64, -math.MaxFloat64} {
		got := WrapLongitude(lon)
		assert.GreaterOrEqual(t, got, -180.0, "WrapLongitude(%v)", lon)
		assert.LessOrEqual(t, got, 180.0, "WrapLongitude(%v)", lon)
	}
}
