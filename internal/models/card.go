package models

import "time"

type Card struct {
	ID           int64      `json:"id"`
	DeckID       int64      `json:"deck_id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	StudiedCount int        `json:"studied_count"`
	LastStudied  *time.Time `json:"last_studied"`
	MasteryLevel int        `json:"mastery_level"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
