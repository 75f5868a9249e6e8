package models

// Tag is a user-defined label shared across places. Name is unique per user.
type Tag struct {
	ID    string `json:"id" db:"id"`
	UID   string `json:"uid" db:"uid"`
	Name  string `json:"name" db:"name"`
	Color string `json:"color,omitempty" db:"color"`

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// PlaceList is a named, ordered collection of places. Name is unique per user.
type PlaceList struct {
	ID          string `json:"id" db:"id"`
	UID         string `json:"uid" db:"uid"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`
	Icon        string `json:"icon,omitempty" db:"icon"`
	Color       string `json:"color,omitempty" db:"color"`

	// PlaceCount is filled by queries, not stored
	PlaceCount int64 `json:"placeCount" db:"-"`

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// PlaceListCreate is the payload for creating a place list
type PlaceListCreate struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// TagCreate is the payload for creating a tag
type TagCreate struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}
