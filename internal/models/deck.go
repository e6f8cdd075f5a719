package models

import "time"

type Deck struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckStats is the cached per-deck aggregate refreshed in the background
// after study mutations.
type DeckStats struct {
	DeckID           int64     `json:"deck_id"`
	CardCount        int       `json:"card_count"`
	StudiedCardCount int       `json:"studied_card_count"`
	AvgMastery       float64   `json:"avg_mastery"`
	RefreshedAt      time.Time `json:"refreshed_at"`
}
