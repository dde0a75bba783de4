package services

import (
	"errors"
	"math"
	"sort"

	"card-collection-system/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// GetUserByID returns the user or ErrUserNotFound.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetAllUsers returns every account. Admin-only at the route level.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfileInput carries optional profile changes; empty fields are ignored.
type UpdateProfileInput struct {
	Username string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

// UpdateProfile applies the non-empty fields, re-checking uniqueness.
func (s *UserService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != "" && input.Username != user.Username {
		if !usernameRx.MatchString(input.Username) {
			return nil, errors.New("username can only contain letters, numbers, underscores and hyphens")
		}
		var count int64
		if err := s.DB.Model(&models.User{}).
			Where("username = ? AND id <> ?", input.Username, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateUsername
		}
		user.Username = input.Username
	}

	if input.Email != "" && input.Email != user.Email {
		var count int64
		if err := s.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", input.Email, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrDuplicateEmail
		}
		user.Email = input.Email
	}

	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}

	if err := s.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserStats computes the statistics triple for one user.
func (s *UserService) GetUserStats(userID string) (*models.UserStats, error) {
	if _, err := s.GetUserByID(userID); err != nil {
		return nil, err
	}

	var ownerships []models.UserCard
	if err := s.DB.Where("user_id = ?", userID).Find(&ownerships).Error; err != nil {
		return nil, err
	}

	var totalAvailable int64
	if err := s.DB.Model(&models.Card{}).Count(&totalAvailable).Error; err != nil {
		return nil, err
	}

	totalCards := 0
	for _, uc := range ownerships {
		totalCards += uc.Quantity
	}

	return &models.UserStats{
		TotalCards:           totalCards,
		UniqueCards:          len(ownerships),
		CompletionPercentage: completionPercent(len(ownerships), totalAvailable),
	}, nil
}

// GetRanking builds the full leaderboard: every user (zero-card users
// included), sorted by completion desc then unique cards desc, positions
// assigned 1..N with no gaps.
func (s *UserService) GetRanking() ([]models.RankingEntry, error) {
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		return nil, err
	}

	var ownerships []models.UserCard
	if err := s.DB.Find(&ownerships).Error; err != nil {
		return nil, err
	}

	var totalAvailable int64
	if err := s.DB.Model(&models.Card{}).Count(&totalAvailable).Error; err != nil {
		return nil, err
	}

	type agg struct {
		total  int
		unique int
	}
	byUser := make(map[string]agg, len(users))
	for _, uc := range ownerships {
		a := byUser[uc.UserID]
		a.total += uc.Quantity
		a.unique++
		byUser[uc.UserID] = a
	}

	entries := make([]models.RankingEntry, 0, len(users))
	for _, u := range users {
		a := byUser[u.ID]
		entries = append(entries, models.RankingEntry{
			UserID:               u.ID,
			Username:             u.Username,
			TotalCards:           a.total,
			UniqueCards:          a.unique,
			CompletionPercentage: completionPercent(a.unique, totalAvailable),
		})
	}

	// Stable sort keeps equal entries in a reproducible order.
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CompletionPercentage != entries[j].CompletionPercentage {
			return entries[i].CompletionPercentage > entries[j].CompletionPercentage
		}
		return entries[i].UniqueCards > entries[j].UniqueCards
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	return entries, nil
}

// completionPercent rounds unique/totalAvailable to an integer percent,
// half-up. Zero cards in the system means 0%, never a division by zero.
func completionPercent(unique int, totalAvailable int64) int {
	if totalAvailable <= 0 {
		return 0
	}
	return int(math.Round(float64(unique) / float64(totalAvailable) * 100))
}
