package engine

// Config holds the tuning knobs for the place intelligence engine. The
// defaults mirror the product's original heuristics; deployments override
// them through the environment (see internal/config).
type Config struct {
	// SearchRadiusMeters bounds the candidate lookup around a location sample.
	SearchRadiusMeters float64
	// DefaultPlaceRadiusMeters is the geofence radius for places created
	// without an explicit one (quick-add, confirmed discoveries).
	DefaultPlaceRadiusMeters float64
	// NearbyRadiusMeters bounds the "nearby places" part of a context snapshot.
	NearbyRadiusMeters float64

	// MergeDistanceMeters is how close an unmatched sample must be to an
	// existing cluster to join it instead of seeding a new one.
	MergeDistanceMeters float64
	// DiscoveryWindowDays is how long unmatched samples are retained.
	DiscoveryWindowDays int
	// DiscoveryMinDays is the default distinct-day threshold for a cluster to
	// qualify as a suggestion.
	DiscoveryMinDays int

	// RoutineWindowDays is the default look-back for routine detection.
	RoutineWindowDays int
	// RoutineMinOccurrences is the distinct-date threshold for a
	// (place, weekday, hour-bucket) slot to count as a routine.
	RoutineMinOccurrences int
	// RoutineBucketHours is the width of an hour-of-day bucket.
	RoutineBucketHours int
	// DeviationMinConfidence is the minimum routine confidence before a
	// mismatch is reported as a deviation.
	DeviationMinConfidence float64

	// DefaultCooldownMinutes applies to triggers created without a cooldown.
	DefaultCooldownMinutes int64
}

// DefaultConfig returns the stock engine tuning.
func DefaultConfig() Config {
	return Config{
		SearchRadiusMeters:       200,
		DefaultPlaceRadiusMeters: 100,
		NearbyRadiusMeters:       200,
		MergeDistanceMeters:      100,
		DiscoveryWindowDays:      30,
		DiscoveryMinDays:         3,
		RoutineWindowDays:        28,
		RoutineMinOccurrences:    3,
		RoutineBucketHours:       2,
		DeviationMinConfidence:   0.6,
		DefaultCooldownMinutes:   60,
	}
}
