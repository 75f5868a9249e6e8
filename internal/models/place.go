package models

// PlaceCategory classifies a saved place. The set is closed; anything the
// client sends outside of it is rejected at the service boundary.
type PlaceCategory string

const (
	CategoryHome       PlaceCategory = "home"
	CategoryWork       PlaceCategory = "work"
	CategorySchool     PlaceCategory = "school"
	CategoryGym        PlaceCategory = "gym"
	CategoryRestaurant PlaceCategory = "restaurant"
	CategoryShopping   PlaceCategory = "shopping"
	CategoryMedical    PlaceCategory = "medical"
	CategoryFamily     PlaceCategory = "family"
	CategoryFriend     PlaceCategory = "friend"
	CategoryOther      PlaceCategory = "other"
)

// IsValid reports whether c is one of the known categories.
func (c PlaceCategory) IsValid() bool {
	switch c {
	case CategoryHome, CategoryWork, CategorySchool, CategoryGym,
		CategoryRestaurant, CategoryShopping, CategoryMedical,
		CategoryFamily, CategoryFriend, CategoryOther:
		return true
	}
	return false
}

// Label returns the display label for a category.
func (c PlaceCategory) Label() string {
	switch c {
	case CategoryHome:
		return "Home"
	case CategoryWork:
		return "Work"
	case CategorySchool:
		return "School"
	case CategoryGym:
		return "Gym"
	case CategoryRestaurant:
		return "Restaurant"
	case CategoryShopping:
		return "Shopping"
	case CategoryMedical:
		return "Medical"
	case CategoryFamily:
		return "Family"
	case CategoryFriend:
		return "Friend"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// Place represents a saved geofenced location for a user
type Place struct {
	ID           string  `json:"id" db:"id"`
	UID          string  `json:"uid" db:"uid"`
	Name         string  `json:"name" db:"name"`
	Latitude     float64 `json:"latitude" db:"latitude"`
	Longitude    float64 `json:"longitude" db:"longitude"`
	RadiusMeters float64 `json:"radiusMeters" db:"radius_meters"`

	Category PlaceCategory `json:"category" db:"category"`
	Address  string        `json:"address,omitempty" db:"address"`

	IsAutoDetected bool `json:"isAutoDetected" db:"is_auto_detected"`
	IsConfirmed    bool `json:"isConfirmed" db:"is_confirmed"`

	// Aggregates maintained on visit close
	VisitCount        int64 `json:"visitCount" db:"visit_count"`
	TotalDwellMinutes int64 `json:"totalDwellMinutes" db:"total_dwell_minutes"`

	FirstVisited *int64 `json:"firstVisited,omitempty" db:"first_visited"` // Unix timestamp
	LastVisited  *int64 `json:"lastVisited,omitempty" db:"last_visited"`  // Unix timestamp

	Metadata map[string]interface{} `json:"metadata,omitempty" db:"metadata"`

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt string `json:"updatedAt,omitempty" db:"updated_at"`
}

// PlaceCreate is the payload for creating a place
type PlaceCreate struct {
	Name           string                 `json:"name" binding:"required"`
	Latitude       float64                `json:"latitude"`
	Longitude      float64                `json:"longitude"`
	RadiusMeters   float64                `json:"radiusMeters"`
	Category       PlaceCategory          `json:"category"`
	Address        string                 `json:"address"`
	IsAutoDetected bool                   `json:"isAutoDetected"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// PlaceUpdate is the payload for partial place updates; nil fields are unchanged
type PlaceUpdate struct {
	Name         *string                `json:"name"`
	Latitude     *float64               `json:"latitude"`
	Longitude    *float64               `json:"longitude"`
	RadiusMeters *float64               `json:"radiusMeters"`
	Category     *PlaceCategory         `json:"category"`
	Address      *string                `json:"address"`
	IsConfirmed  *bool                  `json:"isConfirmed"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// QuickAddRequest creates a place from the current location with minimal info
type QuickAddRequest struct {
	Latitude  float64       `json:"latitude"`
	Longitude float64       `json:"longitude"`
	Name      string        `json:"name"`
	Category  PlaceCategory `json:"category"`
	Tags      []string      `json:"tags"`
}

// PlaceStats summarizes visit history for one place
type PlaceStats struct {
	PlaceID           string  `json:"placeId"`
	Name              string  `json:"name"`
	Category          string  `json:"category"`
	VisitCount        int64   `json:"visitCount"`
	TotalDwellMinutes int64   `json:"totalDwellMinutes"`
	AvgDwellMinutes   float64 `json:"avgDwellMinutes"`
	FirstVisited      *int64  `json:"firstVisited,omitempty"`
	LastVisited       *int64  `json:"lastVisited,omitempty"`
}
