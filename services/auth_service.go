package services

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"card-collection-system/middleware"
	"card-collection-system/models"
	"card-collection-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

var usernameRx = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type AuthService struct {
	DB        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{DB: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// RegisterUser creates an account and returns it with a signed token.
func (s *AuthService) RegisterUser(username, email, password string) (*models.User, string, error) {
	if !usernameRx.MatchString(username) {
		return nil, "", errors.New("username can only contain letters, numbers, underscores and hyphens")
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrDuplicateEmail
	}
	if err := s.DB.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleCommon,
	}
	if err := s.DB.Create(user).Error; err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginUser verifies credentials and returns the user with a signed token.
func (s *AuthService) LoginUser(email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GenerateToken mints an HS256 JWT carrying (userId, role).
func (s *AuthService) GenerateToken(userID, role string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "card-collection-system",
		},
	})
	return tok.SignedString([]byte(s.jwtSecret))
}

// ValidateToken decodes a token and confirms the user still exists.
func (s *AuthService) ValidateToken(tokenStr string) (*middleware.Claims, error) {
	cl, err := middleware.ParseToken(tokenStr, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.DB.Model(&models.User{}).Where("id = ?", cl.UserID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrUserNotFound
	}
	return cl, nil
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/auth/register
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, token, err := s.RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) || errors.Is(err, ErrDuplicateUsername) {
			return utils.Fail(c, fiber.StatusBadRequest, err.Error())
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race on the unique index after the pre-check passed.
			return utils.Fail(c, fiber.StatusBadRequest, "username or email already exists")
		}
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	return utils.Success(c, fiber.StatusCreated, "User registered successfully", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login handles POST /api/auth/login
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, err.Error())
	}

	user, token, err := s.LoginUser(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return utils.Fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return utils.Fail(c, fiber.StatusInternalServerError, "Authentication failed")
	}

	return utils.Success(c, fiber.StatusOK, "Login successful", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Validate handles GET /api/auth/validate
func (s *AuthService) Validate(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Fail(c, fiber.StatusUnauthorized, "Token is required")
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	cl, err := s.ValidateToken(tokenStr)
	if err != nil {
		return utils.Fail(c, fiber.StatusUnauthorized, "Invalid token")
	}

	return utils.Success(c, fiber.StatusOK, "Token is valid", fiber.Map{
		"userId": cl.UserID,
		"role":   cl.Role,
	})
}
