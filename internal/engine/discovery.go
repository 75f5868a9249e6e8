package engine

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

type sample struct {
	lat float64
	lon float64
	ts  time.Time
}

// PlaceDiscoverer accumulates location samples that matched no known place and
// clusters them into discovery candidates. The buffer is in-memory and
// per-owner; clustering is recomputed on demand and is idempotent over the
// same sample set because seeding order is timestamp ascending.
type PlaceDiscoverer struct {
	mu      sync.RWMutex
	samples map[string][]sample

	places PlaceStore
	cfg    Config
}

// NewPlaceDiscoverer creates a place discoverer.
func NewPlaceDiscoverer(places PlaceStore, cfg Config) *PlaceDiscoverer {
	return &PlaceDiscoverer{
		samples: make(map[string][]sample),
		places:  places,
		cfg:     cfg,
	}
}

// Ingest records an unmatched sample. Malformed coordinates are dropped
// silently; discovery never errors on bad historical data.
func (d *PlaceDiscoverer) Ingest(uid string, lat, lon float64, ts time.Time) {
	if uid == "" || !spatial.ValidCoordinate(lat, lon) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cutoff := time.Now().AddDate(0, 0, -d.cfg.DiscoveryWindowDays)
	kept := d.samples[uid][:0]
	for _, s := range d.samples[uid] {
		if s.ts.After(cutoff) {
			kept = append(kept, s)
		}
	}
	d.samples[uid] = append(kept, sample{lat: lat, lon: lon, ts: ts})
}

// SampleCount returns the number of buffered samples for an owner.
func (d *PlaceDiscoverer) SampleCount(uid string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.samples[uid])
}

type cluster struct {
	lats      []float64
	lons      []float64
	centerLat float64
	centerLon float64
	days      map[string]struct{}
	firstSeen time.Time
	lastSeen  time.Time
}

// ListCandidates clusters the owner's buffered samples from the last daysBack
// days and returns the clusters seen on at least minVisits distinct days. The
// distinct-day threshold is what separates a genuinely repeated location from
// a single long stay.
func (d *PlaceDiscoverer) ListCandidates(uid string, minVisits, daysBack int) []models.DiscoveryCandidate {
	if minVisits < 1 {
		minVisits = d.cfg.DiscoveryMinDays
	}
	if daysBack < 1 {
		daysBack = d.cfg.DiscoveryWindowDays
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	d.mu.RLock()
	window := make([]sample, 0, len(d.samples[uid]))
	for _, s := range d.samples[uid] {
		if s.ts.After(cutoff) {
			window = append(window, s)
		}
	}
	d.mu.RUnlock()

	// Seeding order defines the clustering; timestamp ascending keeps
	// repeated runs over the same samples deterministic.
	sort.Slice(window, func(i, j int) bool { return window[i].ts.Before(window[j].ts) })

	var clusters []*cluster
	for _, s := range window {
		best := -1
		bestDist := d.cfg.MergeDistanceMeters
		for i, c := range clusters {
			dist := spatial.HaversineDistance(s.lat, s.lon, c.centerLat, c.centerLon)
			if dist <= bestDist {
				best = i
				bestDist = dist
			}
		}
		if best < 0 {
			clusters = append(clusters, &cluster{
				lats:      []float64{s.lat},
				lons:      []float64{s.lon},
				centerLat: s.lat,
				centerLon: s.lon,
				days:      map[string]struct{}{s.ts.Format("2006-01-02"): {}},
				firstSeen: s.ts,
				lastSeen:  s.ts,
			})
			continue
		}
		c := clusters[best]
		c.lats = append(c.lats, s.lat)
		c.lons = append(c.lons, s.lon)
		c.centerLat, c.centerLon = spatial.Centroid(c.lats, c.lons)
		c.days[s.ts.Format("2006-01-02")] = struct{}{}
		if s.ts.Before(c.firstSeen) {
			c.firstSeen = s.ts
		}
		if s.ts.After(c.lastSeen) {
			c.lastSeen = s.ts
		}
	}

	var out []models.DiscoveryCandidate
	for _, c := range clusters {
		if len(c.days) < minVisits {
			continue
		}
		radius := 0.0
		for i := range c.lats {
			if dist := spatial.HaversineDistance(c.centerLat, c.centerLon, c.lats[i], c.lons[i]); dist > radius {
				radius = dist
			}
		}
		if radius < d.cfg.DefaultPlaceRadiusMeters {
			radius = d.cfg.DefaultPlaceRadiusMeters
		}
		out = append(out, models.DiscoveryCandidate{
			Latitude:     c.centerLat,
			Longitude:    c.centerLon,
			SampleCount:  len(c.lats),
			DistinctDays: len(c.days),
			RadiusMeters: radius,
			FirstSeen:    c.firstSeen.Unix(),
			LastSeen:     c.lastSeen.Unix(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SampleCount > out[j].SampleCount })
	return out
}

// Confirm persists a discovered location as a saved place and drains the
// samples the new geofence absorbs. The caller supplies the coordinate, which
// may come from a listed candidate or anywhere else.
func (d *PlaceDiscoverer) Confirm(ctx context.Context, uid string, lat, lon float64, name string, category models.PlaceCategory) (*models.Place, error) {
	if !spatial.ValidCoordinate(lat, lon) {
		return nil, &InvalidInputError{Field: "coordinate", Reason: "latitude must be in [-90,90] and longitude in [-180,180]"}
	}
	if name == "" {
		return nil, &InvalidInputError{Field: "name", Reason: "must not be empty"}
	}
	if category == "" {
		category = models.CategoryOther
	}
	if !category.IsValid() {
		return nil, &InvalidInputError{Field: "category", Reason: "unknown category " + string(category)}
	}

	place := &models.Place{
		ID:             uuid.NewString(),
		UID:            uid,
		Name:           name,
		Latitude:       lat,
		Longitude:      lon,
		RadiusMeters:   d.cfg.DefaultPlaceRadiusMeters,
		Category:       category,
		IsAutoDetected: false,
		IsConfirmed:    true,
	}
	if err := d.places.CreatePlace(ctx, place); err != nil {
		return nil, err
	}

	d.mu.Lock()
	kept := d.samples[uid][:0]
	dropped := 0
	for _, s := range d.samples[uid] {
		if spatial.HaversineDistance(s.lat, s.lon, lat, lon) <= place.RadiusMeters {
			dropped++
			continue
		}
		kept = append(kept, s)
	}
	d.samples[uid] = kept
	d.mu.Unlock()

	log.Printf("[PlaceDiscoverer] confirmed place %q for owner %s, absorbed %d buffered samples", name, uid, dropped)
	return place, nil
}
