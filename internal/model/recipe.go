package model

import "time"

type Recipe struct {
	ID              int64        `json:"id"`
	UserID          int64        `json:"user_id"`
	Name            string       `json:"name"`
	Instructions    string       `json:"instructions"`
	PrepTimeMinutes int          `json:"prep_time_minutes"`
	CookTimeMinutes int          `json:"cook_time_minutes"`
	DietTags        []string     `json:"diet_tags"`
	Ingredients     []Ingredient `json:"ingredients,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}
