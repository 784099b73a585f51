package area

import "github.com/gdugdh24/proximity-backend/internal/domain"

// Builtin is a small centroid list for setups without an areas table.
func Builtin() []domain.Area {
	return []domain.Area{
		{ID: 1, Name: "Bengaluru", Lat: 12.9716, Lon: 77.5946},
		{ID: 2, Name: "Mumbai", Lat: 19.0760, Lon: 72.8777},
		{ID: 3, Name: "Delhi", Lat: 28.6139, Lon: 77.2090},
		{ID: 4, Name: "Chennai", Lat: 13.0827, Lon: 80.2707},
		{ID: 5, Name: "Hyderabad", Lat: 17.3850, Lon: 78.4867},
		{ID: 6, Name: "Moscow", Lat: 55.7558, Lon: 37.6173},
		{ID: 7, Name: "Saint Petersburg", Lat: 59.9343, Lon: 30.3351},
		{ID: 8, Name: "Helsinki", Lat: 60.1699, Lon: 24.9384},
		{ID: 9, Name: "London", Lat: 51.5074, Lon: -0.1278},
		{ID: 10, Name: "Berlin", Lat: 52.5200, Lon: 13.4050},
		{ID: 11, Name: "New York", Lat: 40.7128, Lon: -74.0060},
		{ID: 12, Name: "San Francisco", Lat: 37.7749, Lon: -122.4194},
	}
}
