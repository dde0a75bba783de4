package models

// UserStats summarizes one user's collection.
type UserStats struct {
	TotalCards           int `json:"total_cards"`
	UniqueCards          int `json:"unique_cards"`
	CompletionPercentage int `json:"completion_percentage"`
}

// RankingEntry is one row of the completion leaderboard. Derived, not persisted.
type RankingEntry struct {
	UserID               string `json:"user_id"`
	Username             string `json:"username"`
	TotalCards           int    `json:"total_cards"`
	UniqueCards          int    `json:"unique_cards"`
	CompletionPercentage int    `json:"completion_percentage"`
	Position             int    `json:"position"`
}
