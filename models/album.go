package models

// Album groups cards of a single generation.
//
// TotalCards is denormalized: it must equal the live count of cards
// referencing the album after every card create/delete. The card service
// recounts it inside the same transaction as the mutation, and the
// reconciliation job repairs drift from out-of-band writes.
type Album struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"index"`
	Description *string `json:"description,omitempty"`
	Generation  int     `json:"generation" gorm:"not null"`
	TotalCards  int64   `json:"total_cards" gorm:"default:0"`
	ImageURL    *string `json:"image_url,omitempty"`
	CreatedByID *string `json:"created_by_id,omitempty" gorm:"index"`

	Cards []Card `json:"cards,omitempty" gorm:"foreignKey:AlbumID"`

	Timestamps
}
