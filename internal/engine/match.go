package engine

import (
	"sort"
	"sync"

	"github.com/jengzang/places-backend-go/internal/models"
	"github.com/jengzang/places-backend-go/internal/spatial"
)

// matchPlace picks the place containing the coordinate, or nil. When the
// coordinate is inside several geofences, the smallest radius wins (most
// specific place); on equal radii the most recently visited wins.
func matchPlace(places []models.Place, lat, lon float64) *models.Place {
	var inside []models.Place
	for _, p := range places {
		if spatial.HaversineDistance(lat, lon, p.Latitude, p.Longitude) <= p.RadiusMeters {
			inside = append(inside, p)
		}
	}
	if len(inside) == 0 {
		return nil
	}
	sort.SliceStable(inside, func(i, j int) bool {
		if inside[i].RadiusMeters != inside[j].RadiusMeters {
			return inside[i].RadiusMeters < inside[j].RadiusMeters
		}
		return lastVisitedUnix(&inside[i]) > lastVisitedUnix(&inside[j])
	})
	return &inside[0]
}

func lastVisitedUnix(p *models.Place) int64 {
	if p.LastVisited == nil {
		return 0
	}
	return *p.LastVisited
}

// ownerLocks hands out one mutex per owner so that samples for the same owner
// are serialized while different owners proceed in parallel.
type ownerLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newOwnerLocks() *ownerLocks {
	return &ownerLocks{locks: make(map[string]*sync.Mutex)}
}

func (o *ownerLocks) get(uid string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	l, ok := o.locks[uid]
	if !ok {
		l = &sync.Mutex{}
		o.locks[uid] = l
	}
	return l
}
