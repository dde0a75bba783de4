package models

import "time"

// UserCard is an ownership record linking a user to a card.
// The (user_id, card_id) pair is unique: owning the same card twice
// increments Quantity instead of creating a second record.
type UserCard struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_card"`
	CardID     string    `json:"card_id" gorm:"not null;uniqueIndex:idx_user_card"`
	Quantity   int       `json:"quantity" gorm:"not null;default:1"`
	ObtainedAt time.Time `json:"obtained_at" gorm:"autoCreateTime"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
	Card *Card `json:"card,omitempty" gorm:"foreignKey:CardID"`
}
