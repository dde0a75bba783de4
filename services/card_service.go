package services

import (
	"errors"
	"log"
	"path/filepath"
	"sort"

	"card-collection-system/models"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardService struct {
	DB *gorm.DB
}

func NewCardService(db *gorm.DB) *CardService {
	return &CardService{DB: db}
}

// CreateCardInput is the validated payload for card creation.
type CreateCardInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Number      int    `json:"number" validate:"required,min=1,max=999"`
	Rarity      string `json:"rarity" validate:"required"`
	Type        string `json:"type" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url"`
	AlbumID     string `json:"album_id" validate:"required"`
}

// UpdateCardInput carries optional card changes; zero values are ignored.
type UpdateCardInput struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=100"`
	Number      int    `json:"number" validate:"omitempty,min=1,max=999"`
	Rarity      string `json:"rarity" validate:"omitempty"`
	Type        string `json:"type" validate:"omitempty,max=50"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url"`
}

// GetCardByID returns the card with its album, or ErrCardNotFound.
func (s *CardService) GetCardByID(id string) (*models.Card, error) {
	var card models.Card
	if err := s.DB.Preload("Album").First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// CreateCard persists a new card and recounts the album's total_cards in the
// same transaction, so the counter cannot be left stale by a partial failure.
func (s *CardService) CreateCard(input CreateCardInput) (*models.Card, error) {
	if !models.ValidRarity(input.Rarity) {
		return nil, errors.New("invalid card rarity")
	}

	var album models.Album
	if err := s.DB.First(&album, "id = ?", input.AlbumID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}

	var count int64
	if err := s.DB.Model(&models.Card{}).
		Where("album_id = ? AND number = ?", input.AlbumID, input.Number).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateCardNumber
	}

	card := &models.Card{
		ID:      uuid.NewString(),
		Name:    input.Name,
		Number:  input.Number,
		Rarity:  input.Rarity,
		AlbumID: input.AlbumID,
	}
	if input.Type != "" {
		card.Type = &input.Type
	}
	if input.Description != "" {
		card.Description = &input.Description
	}
	if input.ImageURL != "" {
		card.ImageURL = &input.ImageURL
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(card).Error; err != nil {
			// Concurrent create with the same (album, number) resolves here:
			// the unique index lets exactly one writer through.
			return err
		}
		return s.recountAlbumCards(tx, input.AlbumID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateCardNumber
		}
		return nil, err
	}
	return card, nil
}

// UpdateCard applies non-zero fields, re-checking the (album, number) pair
// when the number changes.
func (s *CardService) UpdateCard(id string, input UpdateCardInput) (*models.Card, error) {
	var card models.Card
	if err := s.DB.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	if input.Number != 0 && input.Number != card.Number {
		var count int64
		if err := s.DB.Model(&models.Card{}).
			Where("album_id = ? AND number = ?", card.AlbumID, input.Number).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateCardNumber
		}
		card.Number = input.Number
	}
	if input.Name != "" {
		card.Name = input.Name
	}
	if input.Rarity != "" {
		if !models.ValidRarity(input.Rarity) {
			return nil, errors.New("invalid card rarity")
		}
		card.Rarity = input.Rarity
	}
	if input.Type != "" {
		card.Type = &input.Type
	}
	if input.Description != "" {
		card.Description = &input.Description
	}
	if input.ImageURL != "" {
		card.ImageURL = &input.ImageURL
	}

	if err := s.DB.Save(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// DeleteCard removes the card and its ownership records, then recounts the
// album's total_cards, all in one transaction.
func (s *CardService) DeleteCard(id string) error {
	var card models.Card
	if err := s.DB.First(&card, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotFound
		}
		return err
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("card_id = ?", card.ID).Delete(&models.UserCard{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&card).Error; err != nil {
			return err
		}
		return s.recountAlbumCards(tx, card.AlbumID)
	})
}

// recountAlbumCards stores the live card count as the album's total_cards.
// A full recount rather than an increment, to tolerate out-of-band changes.
func (s *CardService) recountAlbumCards(tx *gorm.DB, albumID string) error {
	var count int64
	if err := tx.Model(&models.Card{}).Where("album_id = ?", albumID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Album{}).Where("id = ?", albumID).
		Update("total_cards", count).Error
}

// ReconcileAlbumCounters recounts every album and repairs drifted counters.
// Called by the scheduler; returns the number of albums fixed.
func (s *CardService) ReconcileAlbumCounters() (int, error) {
	var albums []models.Album
	if err := s.DB.Find(&albums).Error; err != nil {
		return 0, err
	}

	fixed := 0
	for _, album := range albums {
		var count int64
		if err := s.DB.Model(&models.Card{}).Where("album_id = ?", album.ID).Count(&count).Error; err != nil {
			return fixed, err
		}
		if count == album.TotalCards {
			continue
		}
		if err := s.DB.Model(&models.Album{}).Where("id = ?", album.ID).
			Update("total_cards", count).Error; err != nil {
			return fixed, err
		}
		log.Printf("[RECOUNT] album %s total_cards %d -> %d", album.ID, album.TotalCards, count)
		fixed++
	}
	return fixed, nil
}

// GetAllCards handles GET /api/cards
func (s *CardService) GetAllCards(c *fiber.Ctx) error {
	var cards []models.Card
	if err := s.DB.Preload("Album").Find(&cards).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get cards")
	}
	sortCardsByAlbum(cards)
	return utils.Success(c, fiber.StatusOK, "Cards retrieved successfully", cards)
}

// GetCard handles GET /api/cards/:id
func (s *CardService) GetCard(c *fiber.Ctx) error {
	card, err := s.GetCardByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Card not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get card")
	}
	return utils.Success(c, fiber.StatusOK, "Card retrieved successfully", card)
}

// GetCardsByAlbum handles GET /api/cards/album/:albumId
func (s *CardService) GetCardsByAlbum(c *fiber.Ctx) error {
	albumID := c.Params("albumId")

	var count int64
	if err := s.DB.Model(&models.Album{}).Where("id = ?", albumID).Count(&count).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get cards")
	}
	if count == 0 {
		return utils.Fail(c, fiber.StatusNotFound, "Album not found")
	}

	var cards []models.Card
	if err := s.DB.Where("album_id = ?", albumID).Order("number ASC").Find(&cards).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get cards")
	}
	return utils.Success(c, fiber.StatusOK, "Cards retrieved successfully", cards)
}

// Create handles POST /api/cards (admin)
func (s *CardService) Create(c *fiber.Ctx) error {
	var req CreateCardInput
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	card, err := s.CreateCard(req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlbumNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		case errors.Is(err, ErrDuplicateCardNumber):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}
	}
	return utils.Success(c, fiber.StatusCreated, "Card created successfully", card)
}

// Update handles PUT /api/cards/:id (admin)
func (s *CardService) Update(c *fiber.Ctx) error {
	var req UpdateCardInput
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	card, err := s.UpdateCard(c.Params("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCardNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Card not found")
		case errors.Is(err, ErrDuplicateCardNumber):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}
	}
	return utils.Success(c, fiber.StatusOK, "Card updated successfully", card)
}

// Delete handles DELETE /api/cards/:id (admin)
func (s *CardService) Delete(c *fiber.Ctx) error {
	if err := s.DeleteCard(c.Params("id")); err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Card not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to delete card")
	}
	return utils.Success(c, fiber.StatusOK, "Card deleted successfully", nil)
}

// UploadCardImage handles POST /api/cards/:id/image (admin, multipart)
func (s *CardService) UploadCardImage(c *fiber.Ctx) error {
	card, err := s.GetCardByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Card not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get card")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "image file is required")
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	url, err := utils.UploadImage(fileHeader, "cards/"+uuid.NewString()+ext)
	if err != nil {
		log.Printf("[CARD] image upload failed for %s: %v", card.ID, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to upload card image")
	}

	card.ImageURL = &url
	if err := s.DB.Save(card).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update card")
	}
	return utils.Success(c, fiber.StatusOK, "Card image uploaded successfully", card)
}

// sortCardsByAlbum orders by album generation, then card number.
func sortCardsByAlbum(cards []models.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		gi, gj := 0, 0
		if cards[i].Album != nil {
			gi = cards[i].Album.Generation
		}
		if cards[j].Album != nil {
			gj = cards[j].Album.Generation
		}
		if gi != gj {
			return gi < gj
		}
		return cards[i].Number < cards[j].Number
	})
}
