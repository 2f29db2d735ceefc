package models

import "time"

// Goal is a free-text aspiration. Pass-through storage, no derived state.
type Goal struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckIn records the user's mood for one calendar day.
type CheckIn struct {
	Day       string    `json:"day"` // day key, YYYY-MM-DD
	Mood      string    `json:"mood"`
	CreatedAt time.Time `json:"created_at"`
}
