package models

import "time"

// Round is one match day within a tournament. Round ids scope both
// fixtures and the ranking's per-round weighting.
type Round struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Date *time.Time `json:"date,omitempty"`
}

type Tournament struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rounds    []Round   `json:"rounds,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
