package services

import (
	"errors"
	"sort"

	"card-collection-system/middleware"
	"card-collection-system/models"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CollectionService struct {
	DB *gorm.DB
}

func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{DB: db}
}

// GetUserCollection returns the user's ownership records with card and album
// preloaded, ordered by album generation then card number.
func (s *CollectionService) GetUserCollection(userID string) ([]models.UserCard, error) {
	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}

	var ownerships []models.UserCard
	if err := s.DB.Preload("Card").Preload("Card.Album").
		Where("user_id = ?", userID).Find(&ownerships).Error; err != nil {
		return nil, err
	}
	sortOwnerships(ownerships)
	return ownerships, nil
}

// AddCardToUser increments the quantity on an existing (user, card) record,
// or creates a new one. Quantity must be >= 1.
func (s *CollectionService) AddCardToUser(userID, cardID string, quantity int) (*models.UserCard, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}
	if err := s.DB.Model(&models.Card{}).Where("id = ?", cardID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrCardNotFound
	}

	var ownership models.UserCard
	err := s.DB.Where("user_id = ? AND card_id = ?", userID, cardID).First(&ownership).Error
	if err == nil {
		ownership.Quantity += quantity
		if err := s.DB.Save(&ownership).Error; err != nil {
			return nil, err
		}
		return &ownership, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ownership = models.UserCard{
		ID:       uuid.NewString(),
		UserID:   userID,
		CardID:   cardID,
		Quantity: quantity,
	}
	if err := s.DB.Create(&ownership).Error; err != nil {
		return nil, err
	}
	return &ownership, nil
}

// RemoveCardFromUser deletes the ownership record for the pair entirely
// (not a decrement).
func (s *CollectionService) RemoveCardFromUser(userID, cardID string) error {
	var ownership models.UserCard
	err := s.DB.Where("user_id = ? AND card_id = ?", userID, cardID).First(&ownership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCardNotOwned
		}
		return err
	}
	return s.DB.Delete(&ownership).Error
}

// SetUserCardQuantity replaces the quantity on an existing record.
// Use RemoveCardFromUser to drop a card; quantities below 1 are rejected.
func (s *CollectionService) SetUserCardQuantity(userCardID string, quantity int) (*models.UserCard, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	var ownership models.UserCard
	if err := s.DB.First(&ownership, "id = ?", userCardID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserCardNotFound
		}
		return nil, err
	}

	ownership.Quantity = quantity
	if err := s.DB.Save(&ownership).Error; err != nil {
		return nil, err
	}
	return &ownership, nil
}

type addToCollectionRequest struct {
	CardID   string `json:"card_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// GetMyCollection handles GET /api/cards/collection/my
func (s *CollectionService) GetMyCollection(c *fiber.Ctx) error {
	ownerships, err := s.GetUserCollection(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "User not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get user collection")
	}
	return utils.Success(c, fiber.StatusOK, "User collection retrieved successfully", ownerships)
}

// AddToCollection handles POST /api/cards/collection
func (s *CollectionService) AddToCollection(c *fiber.Ctx) error {
	var req addToCollectionRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ownership, err := s.AddCardToUser(middleware.UserID(c), req.CardID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "User not found")
		case errors.Is(err, ErrCardNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "Card not found")
		case errors.Is(err, ErrInvalidQuantity):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to add card to collection")
		}
	}
	return utils.Success(c, fiber.StatusCreated, "Card added to collection successfully", ownership)
}

// RemoveFromCollection handles DELETE /api/cards/collection/:cardId
func (s *CollectionService) RemoveFromCollection(c *fiber.Ctx) error {
	err := s.RemoveCardFromUser(middleware.UserID(c), c.Params("cardId"))
	if err != nil {
		if errors.Is(err, ErrCardNotOwned) {
			return utils.Fail(c, fiber.StatusNotFound, "Card not found in user collection")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to remove card from collection")
	}
	return utils.Success(c, fiber.StatusOK, "Card removed from collection successfully", nil)
}

// UpdateQuantity handles PUT /api/cards/collection/:userCardId/quantity
func (s *CollectionService) UpdateQuantity(c *fiber.Ctx) error {
	var req updateQuantityRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	ownership, err := s.SetUserCardQuantity(c.Params("userCardId"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserCardNotFound):
			return utils.Fail(c, fiber.StatusNotFound, "User card not found")
		case errors.Is(err, ErrInvalidQuantity):
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update card quantity")
		}
	}
	return utils.Success(c, fiber.StatusOK, "Card quantity updated successfully", ownership)
}

// sortOwnerships orders by album generation, then card number.
func sortOwnerships(ownerships []models.UserCard) {
	key := func(uc models.UserCard) (int, int) {
		if uc.Card == nil {
			return 0, 0
		}
		gen := 0
		if uc.Card.Album != nil {
			gen = uc.Card.Album.Generation
		}
		return gen, uc.Card.Number
	}
	sort.SliceStable(ownerships, func(i, j int) bool {
		gi, ni := key(ownerships[i])
		gj, nj := key(ownerships[j])
		if gi != gj {
			return gi < gj
		}
		return ni < nj
	})
}
