package domain

// Area is a reference point ("city") a location resolves to.
type Area struct {
	ID   int     `json:"id" db:"id"`
	Name string  `json:"name" db:"name"`
	Lat  float64 `json:"lat" db:"lat"`
	Lon  float64 `json:"lon" db:"lon"`
}
