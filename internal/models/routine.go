package models

// RoutinePattern is a recurring (place, day-of-week, hour-bucket) visit
// pattern extracted from history.
type RoutinePattern struct {
	PlaceID     string  `json:"placeId"`
	PlaceName   string  `json:"placeName"`
	DayOfWeek   int     `json:"dayOfWeek"`  // 0=Sunday .. 6=Saturday
	HourBucket  int     `json:"hourBucket"` // bucket index, each spans two hours
	Occurrences int     `json:"occurrences"`
	Confidence  float64 `json:"confidence"` // occurrence ratio over the look-back window, 0..1
}

// DeviationReport describes a mismatch between the routine expected for the
// current time slot and the observed state.
type DeviationReport struct {
	IsDeviation       bool    `json:"isDeviation"`
	ExpectedPlaceID   string  `json:"expectedPlaceId"`
	ExpectedPlaceName string  `json:"expectedPlaceName"`
	ActualPlaceID     *string `json:"actualPlaceId,omitempty"` // nil when not at any known place
	DayOfWeek         int     `json:"dayOfWeek"`
	HourBucket        int     `json:"hourBucket"`
	Confidence        float64 `json:"confidence"`
}

// PlaceContext is the snapshot consumed by presentation layers
type PlaceContext struct {
	CurrentPlace        *Place   `json:"currentPlace,omitempty"`
	IsAtKnownPlace      bool     `json:"isAtKnownPlace"`
	PlaceCategory       string   `json:"placeCategory,omitempty"`
	TimeAtCurrentPlace  *int64   `json:"timeAtCurrentPlaceMinutes,omitempty"`
	NearbyPlaces        []Place  `json:"nearbyPlaces"`
	MostVisitedToday    string   `json:"mostVisitedToday,omitempty"`
	TypicalPlaceForTime string   `json:"typicalPlaceForTime,omitempty"`
	CurrentPlaceTags    []string `json:"currentPlaceTags"`
	CurrentPlaceLists   []string `json:"currentPlaceLists"`
}
