package services

import (
	"errors"
	"log"
	"path/filepath"

	"card-collection-system/middleware"
	"card-collection-system/models"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type AlbumService struct {
	DB *gorm.DB
}

func NewAlbumService(db *gorm.DB) *AlbumService {
	return &AlbumService{DB: db}
}

type createAlbumRequest struct {
	Name        string `json:"name" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Generation  int    `json:"generation" validate:"required,min=1,max=10"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url"`
}

type updateAlbumRequest struct {
	Name        string `json:"name" validate:"omitempty,min=3,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Generation  int    `json:"generation" validate:"omitempty,min=1,max=10"`
	ImageURL    string `json:"image_url" validate:"omitempty,http_url"`
}

// GetAlbumByID returns the album or ErrAlbumNotFound.
func (s *AlbumService) GetAlbumByID(id string) (*models.Album, error) {
	var album models.Album
	if err := s.DB.First(&album, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, err
	}
	return &album, nil
}

// GetAllAlbums handles GET /api/albums
func (s *AlbumService) GetAllAlbums(c *fiber.Ctx) error {
	var albums []models.Album
	if err := s.DB.Order("generation ASC, name ASC").Find(&albums).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get albums")
	}
	return utils.Success(c, fiber.StatusOK, "Albums retrieved successfully", albums)
}

// GetAlbum handles GET /api/albums/:id
func (s *AlbumService) GetAlbum(c *fiber.Ctx) error {
	album, err := s.GetAlbumByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get album")
	}
	return utils.Success(c, fiber.StatusOK, "Album retrieved successfully", album)
}

// GetAlbumBySlug handles GET /api/albums/slug/:slug
func (s *AlbumService) GetAlbumBySlug(c *fiber.Ctx) error {
	var album models.Album
	if err := s.DB.First(&album, "slug = ?", c.Params("slug")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get album")
	}
	return utils.Success(c, fiber.StatusOK, "Album retrieved successfully", album)
}

// GetAlbumsByGeneration handles GET /api/albums/generation/:generation
func (s *AlbumService) GetAlbumsByGeneration(c *fiber.Ctx) error {
	generation, err := c.ParamsInt("generation")
	if err != nil || generation < 1 || generation > 10 {
		return utils.Fail(c, fiber.StatusBadRequest, "Generation must be between 1 and 10")
	}

	var albums []models.Album
	if err := s.DB.Where("generation = ?", generation).Order("name ASC").Find(&albums).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get albums")
	}
	return utils.Success(c, fiber.StatusOK, "Albums retrieved successfully", albums)
}

// CreateAlbum handles POST /api/albums (admin)
func (s *AlbumService) CreateAlbum(c *fiber.Ctx) error {
	var req createAlbumRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	album := &models.Album{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Slug:       slug.Make(req.Name),
		Generation: req.Generation,
	}
	if req.Description != "" {
		album.Description = &req.Description
	}
	if req.ImageURL != "" {
		album.ImageURL = &req.ImageURL
	}
	if creatorID := middleware.UserID(c); creatorID != "" {
		album.CreatedByID = &creatorID
	}

	if err := s.DB.Create(album).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to create album")
	}
	return utils.Success(c, fiber.StatusCreated, "Album created successfully", album)
}

// UpdateAlbum handles PUT /api/albums/:id (admin)
func (s *AlbumService) UpdateAlbum(c *fiber.Ctx) error {
	album, err := s.GetAlbumByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get album")
	}

	var req updateAlbumRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	if req.Name != "" {
		album.Name = req.Name
		album.Slug = slug.Make(req.Name)
	}
	if req.Description != "" {
		album.Description = &req.Description
	}
	if req.Generation != 0 {
		album.Generation = req.Generation
	}
	if req.ImageURL != "" {
		album.ImageURL = &req.ImageURL
	}

	if err := s.DB.Save(album).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update album")
	}
	return utils.Success(c, fiber.StatusOK, "Album updated successfully", album)
}

// DeleteAlbum handles DELETE /api/albums/:id (admin). Removes the album
// together with its cards and their ownership records in one transaction.
func (s *AlbumService) DeleteAlbum(c *fiber.Ctx) error {
	album, err := s.GetAlbumByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get album")
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var cardIDs []string
		if err := tx.Model(&models.Card{}).Where("album_id = ?", album.ID).
			Pluck("id", &cardIDs).Error; err != nil {
			return err
		}
		if len(cardIDs) > 0 {
			if err := tx.Where("card_id IN ?", cardIDs).Delete(&models.UserCard{}).Error; err != nil {
				return err
			}
			if err := tx.Where("album_id = ?", album.ID).Delete(&models.Card{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(album).Error
	})
	if err != nil {
		log.Printf("[ALBUM] failed to delete album %s: %v", album.ID, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to delete album")
	}

	return utils.Success(c, fiber.StatusOK, "Album deleted successfully", nil)
}

// UploadAlbumImage handles POST /api/albums/:id/image (admin, multipart)
func (s *AlbumService) UploadAlbumImage(c *fiber.Ctx) error {
	album, err := s.GetAlbumByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrAlbumNotFound) {
			return utils.Fail(c, fiber.StatusNotFound, "Album not found")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to get album")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "image file is required")
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".png"
	}
	url, err := utils.UploadImage(fileHeader, "albums/"+uuid.NewString()+ext)
	if err != nil {
		log.Printf("[ALBUM] image upload failed for %s: %v", album.ID, err)
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to upload album image")
	}

	album.ImageURL = &url
	if err := s.DB.Save(album).Error; err != nil {
		return utils.Fail(c, fiber.StatusInternalServerError, "Failed to update album")
	}
	return utils.Success(c, fiber.StatusOK, "Album image uploaded successfully", album)
}
