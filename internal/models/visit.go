package models

// Visit represents one dwell session at a place. ExitedAt is nil while the
// session is open; DwellMinutes is derived when the session closes.
type Visit struct {
	ID      string `json:"id" db:"id"`
	UID     string `json:"uid" db:"uid"`
	PlaceID string `json:"placeId" db:"place_id"`

	EnteredAt int64  `json:"enteredAt" db:"entered_at"` // Unix timestamp
	ExitedAt  *int64 `json:"exitedAt,omitempty" db:"exited_at"`

	DwellMinutes *int64 `json:"dwellMinutes,omitempty" db:"dwell_minutes"`
	DayOfWeek    int    `json:"dayOfWeek" db:"day_of_week"` // 0=Sunday .. 6=Saturday
	IsRoutine    bool   `json:"isRoutine" db:"is_routine"`

	CreatedAt string `json:"createdAt,omitempty" db:"created_at"`
}

// Open reports whether the visit session is still open.
func (v *Visit) Open() bool {
	return v.ExitedAt == nil
}
