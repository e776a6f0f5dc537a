package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/services"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/nneonya/Travel-app/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

var errBadCredentials = apperrors.BadRequest("Invalid email or password")

func (h *Handler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Name == "" || input.Email == "" || input.Password == "" {
		fail(c, apperrors.BadRequest("Name, email and password are required"))
		return
	}
	if len(input.Password) < minPasswordLength {
		fail(c, apperrors.BadRequest("Password must be at least 6 characters"))
		return
	}

	var existing int64
	if err := h.tx(c).Model(&models.User{}).Where("email = ?", input.Email).Count(&existing).Error; err != nil {
		fail(c, err)
		return
	}
	if existing > 0 {
		fail(c, apperrors.BadRequest("User with this email already exists"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		fail(c, err)
		return
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}
	if err := h.tx(c).Create(&user).Error; err != nil {
		if services.IsUniqueViolation(err) {
			fail(c, apperrors.BadRequest("User with this email already exists"))
			return
		}
		fail(c, err)
		return
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info().Uint("user_id", user.ID).Msg("User registered")
	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: toProfile(user, nil, true)})
}

func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		fail(c, apperrors.BadRequest("Email and password are required"))
		return
	}

	var user models.User
	if err := h.tx(c).Preload("City").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, errBadCredentials)
			return
		}
		fail(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		logger.Debug().Str("email", email).Msg("Login failed: wrong password")
		fail(c, errBadCredentials)
		return
	}

	token, err := utils.GenerateToken(h.cfg.SecretKey, user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: toProfile(user, user.City, true)})
}
