// Package area resolves coordinates to the nearest known area centroid.
package area

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gdugdh24/proximity-backend/internal/domain"
	"github.com/gdugdh24/proximity-backend/internal/geo"
	"github.com/gdugdh24/proximity-backend/internal/repository"
)

const (
	// bucketPrecision cells span 1.40625 degrees on both axes.
	bucketPrecision = 3

	kmPerDegreeLat = 6371.0 * math.Pi / 180

	DefaultMaxDistanceKm = 50.0
)

// Resolver answers nearest-area lookups from an in-memory index loaded from
// an AreaRepository. The index is built lazily on first use.
type Resolver struct {
	repo          repository.AreaRepository
	maxDistanceKm float64

	mu      sync.RWMutex
	loaded  bool
	buckets map[string][]*domain.Area
	byID    map[int]*domain.Area
}

func NewResolver(repo repository.AreaRepository, maxDistanceKm float64) *Resolver {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}
	return &Resolver{repo: repo, maxDistanceKm: maxDistanceKm}
}

// Load (re)builds the index from the repository.
func (r *Resolver) Load(ctx context.Context) error {
	areas, err := r.repo.List(ctx)
	if err != nil {
		return domain.Unavailable("load areas", err)
	}

	buckets := make(map[string][]*domain.Area)
	byID := make(map[int]*domain.Area, len(areas))
	for _, a := range areas {
		key := geo.Encode(a.Lat, a.Lon, bucketPrecision)
		buckets[key] = append(buckets[key], a)
		byID[a.ID] = a
	}

	r.mu.Lock()
	r.buckets = buckets
	r.byID = byID
	r.loaded = true
	r.mu.Unlock()
	return nil
}

func (r *Resolver) ensureLoaded(ctx context.Context) error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()
	if loaded {
		return nil
	}
	return r.Load(ctx)
}

// Resolve returns the id of the nearest area within the configured distance.
// The bool is false when nothing is close enough.
func (r *Resolver) Resolve(ctx context.Context, lat, lon float64) (int, bool, error) {
	if err := r.ensureLoaded(ctx); err != nil {
		return 0, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best     *domain.Area
		bestDist float64
	)
	for _, cell := range r.coveringCells(lat, lon) {
		for _, a := range r.buckets[cell] {
			d := geo.Haversine(lat, lon, a.Lat, a.Lon)
			if d > r.maxDistanceKm {
				continue
			}
			if best == nil || d < bestDist || (d == bestDist && a.ID < best.ID) {
				best, bestDist = a, d
			}
		}
	}
	if best == nil {
		return 0, false, nil
	}
	return best.ID, true, nil
}

// coveringCells lists every bucket that intersects the lat/lon box enclosing
// the maxDistanceKm circle around the point.
func (r *Resolver) coveringCells(lat, lon float64) []string {
	dLat := r.maxDistanceKm / kmPerDegreeLat
	minLat := math.Max(lat-dLat, -90)
	maxLat := math.Min(lat+dLat, 90)

	// Parallels shrink towards the poles, so size the longitude span at the
	// box edge nearest to one.
	dLon := 180.0
	if edge := math.Max(math.Abs(minLat), math.Abs(maxLat)); edge < 89.99 {
		dLon = math.Min(dLat/math.Cos(edge*math.Pi/180), 180)
	}

	box := geo.Bounds(geo.Encode(lat, lon, bucketPrecision))
	cellH := box.MaxLat - box.MinLat
	cellW := box.MaxLon - box.MinLon
	rows := int(math.Ceil((maxLat-minLat)/cellH)) + 1
	cols := int(math.Ceil(2*dLon/cellW)) + 1

	seen := make(map[string]struct{}, rows*cols)
	cells := make([]string, 0, rows*cols)
	for i := 0; i < rows; i++ {
		y := math.Min(minLat+float64(i)*cellH, maxLat)
		for j := 0; j < cols; j++ {
			x := math.Min(lon-dLon+float64(j)*cellW, lon+dLon)
			cell := geo.Encode(y, geo.WrapLongitude(x), bucketPrecision)
			if _, ok := seen[cell]; ok {
				continue
			}
			seen[cell] = struct{}{}
			cells = append(cells, cell)
		}
	}
	return cells
}

// Name returns the display name of an area, or "" when unknown.
func (r *Resolver) Name(ctx context.Context, id int) (string, error) {
	if id == 0 {
		return "", nil
	}
	if err := r.ensureLoaded(ctx); err != nil {
		return "", err
	}
	r.mu.RLock()
	a, ok := r.byID[id]
	r.mu.RUnlock()
	if ok {
		return a.Name, nil
	}

	// Areas added after the index was built.
	a, err := r.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrAreaNotFound) {
			return "", nil
		}
		return "", domain.Unavailable("get area", fmt.Errorf("failed to get area %d: %w", id, err))
	}
	return a.Name, nil
}
