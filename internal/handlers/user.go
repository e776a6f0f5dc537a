package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/services"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"gorm.io/gorm"
)

const profileTripsLimit = 2

func toProfile(u models.User, city *models.City, withEmail bool) models.Profile {
	p := models.Profile{
		ID:          u.ID,
		Name:        u.Name,
		Age:         u.Age,
		Gender:      u.Gender,
		Description: u.Description,
		Interests:   u.Interests,
		Avatar:      u.Avatar,
		CityID:      u.CityID,
	}
	if p.Interests == nil {
		p.Interests = pq.StringArray{}
	}
	if withEmail {
		p.Email = u.Email
	}
	if city != nil {
		name := city.Name
		p.CityName = &name
	}
	return p
}

func (h *Handler) loadUser(c *gin.Context, id uint) (*models.User, error) {
	var user models.User
	if err := h.tx(c).Preload("City").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

func (h *Handler) GetProfile(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.loadUser(c, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(*user, user.City, true))
}

type UpdateProfileInput struct {
	Name        *string   `json:"name"`
	Age         *int      `json:"age"`
	City        *string   `json:"city"`
	Gender      *string   `json:"gender"`
	Description *string   `json:"description"`
	Interests   *[]string `json:"interests"`
}

// UpdateProfile changes only the supplied fields.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	user, err := h.loadUser(c, userID)
	if err != nil {
		fail(c, err)
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			fail(c, apperrors.BadRequest("Name cannot be empty"))
			return
		}
		user.Name = name
	}
	if input.Age != nil {
		if *input.Age < 0 || *input.Age > 150 {
			fail(c, apperrors.BadRequest("Invalid age"))
			return
		}
		user.Age = input.Age
	}
	if input.City != nil && strings.TrimSpace(*input.City) != "" {
		cityID, err := h.cityIDByName(c, *input.City)
		if err != nil {
			fail(c, err)
			return
		}
		user.CityID = &cityID
		user.City = nil
	}
	if input.Gender != nil {
		user.Gender = input.Gender
	}
	if input.Description != nil {
		user.Description = input.Description
	}
	if input.Interests != nil {
		user.Interests = pq.StringArray(*input.Interests)
	}

	if err := h.tx(c).Omit("City").Save(user).Error; err != nil {
		fail(c, err)
		return
	}

	updated, err := h.loadUser(c, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(*updated, updated.City, true))
}

// UploadAvatar replaces the caller's avatar and removes the old file.
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	header, err := c.FormFile("avatar")
	if err != nil {
		fail(c, apperrors.BadRequest("No avatar file uploaded"))
		return
	}

	img, err := services.OpenImage(header)
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.loadUser(c, userID)
	if err != nil {
		fail(c, err)
		return
	}

	url, err := h.files.Save(c.Request.Context(), "avatars", img.Name, img.Body, img.ContentType)
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.tx(c).Model(&models.User{}).Where("id = ?", userID).Update("avatar", url).Error; err != nil {
		_ = h.files.Delete(c.Request.Context(), url)
		fail(c, err)
		return
	}

	if user.Avatar != "" {
		if err := h.files.Delete(c.Request.Context(), user.Avatar); err != nil {
			logger.Warn().Err(err).Str("avatar", user.Avatar).Msg("Failed to remove old avatar")
		}
	}

	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// GetUser is the public profile; email is not exposed.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	user, err := h.loadUser(c, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(*user, user.City, false))
}

// MyProfileTrips shows the caller's newest open trips on their profile.
func (h *Handler) MyProfileTrips(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondTrips(c, h.profileTrips(c, userID))
}

func (h *Handler) GetUserTrips(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	h.respondTrips(c, h.profileTrips(c, id))
}

func (h *Handler) profileTrips(c *gin.Context, userID uint) *gorm.DB {
	return h.tripViews(c).
		Where("trips.creator_id = ? AND trips.status = ?", userID, models.TripStatusSearching).
		Order("trips.created_at DESC").
		Order("trips.id DESC").
		Limit(profileTripsLimit)
}
