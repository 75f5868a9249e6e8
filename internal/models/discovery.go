package models

// DiscoveryCandidate is an unconfirmed cluster of location samples that looks
// like an unsaved place. Candidates live in memory until confirmed or aged out.
type DiscoveryCandidate struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	SampleCount  int     `json:"sampleCount"`
	DistinctDays int     `json:"distinctDays"`
	RadiusMeters float64 `json:"radiusMeters"` // estimated spread of the cluster
	FirstSeen    int64   `json:"firstSeen"`    // Unix timestamp
	LastSeen     int64   `json:"lastSeen"`     // Unix timestamp
}

// ConfirmDiscoveryRequest converts a discovered location into a saved place
type ConfirmDiscoveryRequest struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Name      string        `json:"name" binding:"required"`
	Category  PlaceCategory `json:"category"`
}
