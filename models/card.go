package models

const (
	RarityCommon    = "COMMON"
	RarityUncommon  = "UNCOMMON"
	RarityRare      = "RARE"
	RarityHolo      = "HOLO"
	RarityLegendary = "LEGENDARY"
)

// ValidRarity reports whether r is one of the known rarity values.
func ValidRarity(r string) bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityHolo, RarityLegendary:
		return true
	}
	return false
}

// Card is a collectible belonging to exactly one album.
// The (album_id, number) pair is unique.
type Card struct {
	ID          string  `json:"id" gorm:"primaryKey"`
	Name        string  `json:"name" gorm:"not null"`
	Number      int     `json:"number" gorm:"not null;uniqueIndex:idx_album_card_number"`
	Rarity      string  `json:"rarity" gorm:"not null"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	AlbumID     string  `json:"album_id" gorm:"not null;index;uniqueIndex:idx_album_card_number"`

	Album *Album `json:"album,omitempty" gorm:"foreignKey:AlbumID"`

	Timestamps
}
