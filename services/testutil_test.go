package services

import (
	"fmt"
	"testing"

	"card-collection-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Album{},
		&models.Card{},
		&models.UserCard{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@test.local",
		PasswordHash: "x",
		Role:         models.RoleCommon,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createAlbum(t *testing.T, db *gorm.DB, name string, generation int) models.Album {
	t.Helper()
	album := models.Album{
		ID:         uuid.NewString(),
		Name:       name,
		Slug:       name,
		Generation: generation,
	}
	require.NoError(t, db.Create(&album).Error)
	return album
}

func createCard(t *testing.T, db *gorm.DB, album models.Album, number int) models.Card {
	t.Helper()
	card := models.Card{
		ID:      uuid.NewString(),
		Name:    fmt.Sprintf("Card #%d", number),
		Number:  number,
		Rarity:  models.RarityCommon,
		AlbumID: album.ID,
	}
	require.NoError(t, db.Create(&card).Error)
	return card
}

func createOwnership(t *testing.T, db *gorm.DB, user models.User, card models.Card, quantity int) models.UserCard {
	t.Helper()
	uc := models.UserCard{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		CardID:   card.ID,
		Quantity: quantity,
	}
	require.NoError(t, db.Create(&uc).Error)
	return uc
}

// createCards bulk-inserts n cards numbered 1..n into the album.
func createCards(t *testing.T, db *gorm.DB, album models.Album, n int) []models.Card {
	t.Helper()
	cards := make([]models.Card, n)
	for i := range cards {
		cards[i] = models.Card{
			ID:      uuid.NewString(),
			Name:    fmt.Sprintf("Card #%d", i+1),
			Number:  i + 1,
			Rarity:  models.RarityCommon,
			AlbumID: album.ID,
		}
	}
	require.NoError(t, db.CreateInBatches(&cards, 100).Error)
	return cards
}
