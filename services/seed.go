package services

import (
	"log"

	"card-collection-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

// SeedDatabase wipes all data and repopulates demo users, albums, cards and
// collections. Run with the -seed flag.
func SeedDatabase(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.UserCard{}, &models.Card{}, &models.Album{}, &models.User{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return err
			}
		}
		log.Println("🗑  Cleared existing data")

		hash := func(pw string) string {
			h, _ := bcrypt.GenerateFromPassword([]byte(pw), bcryptCost)
			return string(h)
		}

		admin := models.User{
			ID: uuid.NewString(), Username: "admin",
			Email: "admin@cardcollector.local", PasswordHash: hash("admin123"),
			Role: models.RoleAdmin,
		}
		ash := models.User{
			ID: uuid.NewString(), Username: "ash_ketchum",
			Email: "ash@cardcollector.local", PasswordHash: hash("user123"),
			Role: models.RoleCommon,
		}
		misty := models.User{
			ID: uuid.NewString(), Username: "misty_waterflower",
			Email: "misty@cardcollector.local", PasswordHash: hash("user123"),
			Role: models.RoleCommon,
		}
		brock := models.User{
			ID: uuid.NewString(), Username: "brock_harrison",
			Email: "brock@cardcollector.local", PasswordHash: hash("user123"),
			Role: models.RoleCommon,
		}
		if err := tx.Create(&[]models.User{admin, ash, misty, brock}).Error; err != nil {
			return err
		}
		log.Println("👥 Created users")

		newAlbum := func(name, description string, generation int) models.Album {
			return models.Album{
				ID: uuid.NewString(), Name: name, Slug: slug.Make(name),
				Description: ptr(description), Generation: generation,
				CreatedByID: &admin.ID,
			}
		}
		baseSet := newAlbum("Base Set", "First generation cards.", 1)
		jungle := newAlbum("Jungle", "Jungle expansion.", 1)
		neoGenesis := newAlbum("Neo Genesis", "Second generation cards.", 2)
		if err := tx.Create(&[]models.Album{baseSet, jungle, neoGenesis}).Error; err != nil {
			return err
		}

		newCard := func(album models.Album, name string, number int, rarity string) models.Card {
			return models.Card{
				ID: uuid.NewString(), Name: name, Number: number,
				Rarity: rarity, AlbumID: album.ID,
			}
		}
		cards := []models.Card{
			newCard(baseSet, "Charizard", 4, models.RarityHolo),
			newCard(baseSet, "Pikachu", 58, models.RarityCommon),
			newCard(baseSet, "Blastoise", 2, models.RarityHolo),
			newCard(jungle, "Scyther", 10, models.RarityRare),
			newCard(jungle, "Snorlax", 11, models.RarityRare),
			newCard(neoGenesis, "Lugia", 9, models.RarityLegendary),
		}
		if err := tx.Create(&cards).Error; err != nil {
			return err
		}

		// Keep the denormalized counters honest from the start.
		for _, album := range []models.Album{baseSet, jungle, neoGenesis} {
			var count int64
			if err := tx.Model(&models.Card{}).Where("album_id = ?", album.ID).Count(&count).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Album{}).Where("id = ?", album.ID).
				Update("total_cards", count).Error; err != nil {
				return err
			}
		}
		log.Println("🃏 Created albums and cards")

		ownerships := []models.UserCard{
			{ID: uuid.NewString(), UserID: ash.ID, CardID: cards[0].ID, Quantity: 1},
			{ID: uuid.NewString(), UserID: ash.ID, CardID: cards[1].ID, Quantity: 2},
			{ID: uuid.NewString(), UserID: misty.ID, CardID: cards[2].ID, Quantity: 1},
			{ID: uuid.NewString(), UserID: misty.ID, CardID: cards[3].ID, Quantity: 1},
			{ID: uuid.NewString(), UserID: misty.ID, CardID: cards[5].ID, Quantity: 3},
			{ID: uuid.NewString(), UserID: brock.ID, CardID: cards[4].ID, Quantity: 1},
		}
		if err := tx.Create(&ownerships).Error; err != nil {
			return err
		}
		log.Println("📚 Created demo collections")

		return nil
	})
}
