package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/models"
	"github.com/nneonya/Travel-app/internal/services"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/nneonya/Travel-app/pkg/utils"
	"gorm.io/gorm"
)

const maxReviewPhotos = 5

// Update and delete match on (id, user_id) so a missing review and a
// foreign one look the same to the caller.
var errReviewNotFound = apperrors.NotFound("Review not found or unauthorized")

const reviewViewColumns = `reviews.id, reviews.trip_id, reviews.user_id, reviews.rating,
	reviews.title, reviews.content, reviews.created_at, reviews.updated_at,
	trips.from_city_id, trips.to_city_id,
	fc.name AS trip_from_city, tc.name AS trip_to_city,
	trips.date_from AS trip_date_from, trips.date_to AS trip_date_to,
	users.name AS user_name, users.avatar AS user_avatar`

func (h *Handler) reviewViews(c *gin.Context) *gorm.DB {
	return h.tx(c).Table("reviews").
		Select(reviewViewColumns).
		Joins("JOIN trips ON trips.id = reviews.trip_id").
		Joins("JOIN cities fc ON fc.id = trips.from_city_id").
		Joins("JOIN cities tc ON tc.id = trips.to_city_id").
		Joins("JOIN users ON users.id = reviews.user_id")
}

func (h *Handler) respondReviews(c *gin.Context, q *gorm.DB) {
	reviews := []models.ReviewView{}
	if err := q.Order("reviews.created_at DESC").Order("reviews.id DESC").Scan(&reviews).Error; err != nil {
		fail(c, err)
		return
	}
	if err := h.attachPhotos(c, reviews); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) attachPhotos(c *gin.Context, reviews []models.ReviewView) error {
	if len(reviews) == 0 {
		return nil
	}
	ids := make([]uint, len(reviews))
	for i, r := range reviews {
		ids[i] = r.ID
	}

	var photos []models.ReviewPhoto
	if err := h.tx(c).Where("review_id IN ?", ids).Order("id ASC").Find(&photos).Error; err != nil {
		return err
	}
	byReview := make(map[uint][]models.ReviewPhoto, len(reviews))
	for _, p := range photos {
		byReview[p.ReviewID] = append(byReview[p.ReviewID], p)
	}
	for i := range reviews {
		reviews[i].Photos = byReview[reviews[i].ID]
		if reviews[i].Photos == nil {
			reviews[i].Photos = []models.ReviewPhoto{}
		}
	}
	return nil
}

func (h *Handler) findReviewView(c *gin.Context, id uint) (*models.ReviewView, error) {
	var reviews []models.ReviewView
	if err := h.reviewViews(c).Where("reviews.id = ?", id).Limit(1).Scan(&reviews).Error; err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, apperrors.NotFound("Review not found")
	}
	if err := h.attachPhotos(c, reviews); err != nil {
		return nil, err
	}
	return &reviews[0], nil
}

func (h *Handler) ListReviews(c *gin.Context) {
	h.respondReviews(c, h.reviewViews(c))
}

func (h *Handler) TripReviews(c *gin.Context) {
	tripID, err := paramID(c, "tripId")
	if err != nil {
		fail(c, err)
		return
	}
	h.respondReviews(c, h.reviewViews(c).Where("reviews.trip_id = ?", tripID))
}

func (h *Handler) MyReviews(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondReviews(c, h.reviewViews(c).Where("reviews.user_id = ?", userID))
}

// ReviewInput accepts content under either "content" or "comment".
type ReviewInput struct {
	TripID  uint    `json:"trip_id" form:"trip_id"`
	Rating  *int    `json:"rating" form:"rating"`
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
	Comment *string `json:"comment" form:"comment"`
}

func (in ReviewInput) text() *string {
	if in.Content != nil {
		return in.Content
	}
	return in.Comment
}

func validRating(r int) bool {
	return r >= models.MinRating && r <= models.MaxRating
}

// CreateReview takes JSON or multipart; multipart may carry up to five
// photos in the "photos" field.
func (h *Handler) CreateReview(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input ReviewInput
	if err := c.ShouldBind(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}
	if input.TripID == 0 {
		fail(c, apperrors.BadRequest("trip_id is required"))
		return
	}
	if input.Rating == nil || !validRating(*input.Rating) {
		fail(c, apperrors.BadRequest("Rating must be between 1 and 5"))
		return
	}
	if _, err := h.loadTrip(c, input.TripID); err != nil {
		fail(c, err)
		return
	}

	var images []*services.Image
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form, err := c.MultipartForm()
		if err != nil {
			fail(c, apperrors.BadRequest("Invalid multipart form"))
			return
		}
		files := form.File["photos"]
		if len(files) > maxReviewPhotos {
			fail(c, apperrors.BadRequest("At most "+strconv.Itoa(maxReviewPhotos)+" photos are allowed"))
			return
		}
		for _, fh := range files {
			img, err := services.OpenImage(fh)
			if err != nil {
				fail(c, err)
				return
			}
			images = append(images, img)
		}
	}

	review := models.Review{
		TripID: input.TripID,
		UserID: userID,
		Rating: *input.Rating,
	}
	if input.Title != nil {
		review.Title = utils.StripHTML(strings.TrimSpace(*input.Title))
	}
	if text := input.text(); text != nil {
		review.Content = utils.StripHTML(strings.TrimSpace(*text))
	}

	var saved []string
	for _, img := range images {
		url, err := h.files.Save(c.Request.Context(), "reviews", img.Name, img.Body, img.ContentType)
		if err != nil {
			h.removeFiles(c, saved)
			fail(c, err)
			return
		}
		saved = append(saved, url)
		review.Photos = append(review.Photos, models.ReviewPhoto{URL: url})
	}

	if err := h.tx(c).Create(&review).Error; err != nil {
		h.removeFiles(c, saved)
		fail(c, err)
		return
	}

	logger.Info().Uint("review_id", review.ID).Uint("trip_id", review.TripID).Msg("Review created")

	view, err := h.findReviewView(c, review.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateReview(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	var review models.Review
	if err := h.tx(c).Where("id = ? AND user_id = ?", id, userID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, errReviewNotFound)
			return
		}
		fail(c, err)
		return
	}

	if input.Rating != nil {
		if !validRating(*input.Rating) {
			fail(c, apperrors.BadRequest("Rating must be between 1 and 5"))
			return
		}
		review.Rating = *input.Rating
	}
	if input.Title != nil {
		review.Title = utils.StripHTML(strings.TrimSpace(*input.Title))
	}
	if text := input.text(); text != nil {
		review.Content = utils.StripHTML(strings.TrimSpace(*text))
	}

	res := h.tx(c).Model(&models.Review{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"rating":  review.Rating,
			"title":   review.Title,
			"content": review.Content,
		})
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		fail(c, errReviewNotFound)
		return
	}

	view, err := h.findReviewView(c, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var urls []string
	err = h.tx(c).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&models.Review{}).Select("id").Where("id = ? AND user_id = ?", id, userID)
		if err := tx.Model(&models.ReviewPhoto{}).Where("review_id IN (?)", owned).Pluck("url", &urls).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id IN (?)", owned).Delete(&models.ReviewPhoto{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Review{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errReviewNotFound
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.removeFiles(c, urls)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *Handler) removeFiles(c *gin.Context, urls []string) {
	for _, u := range urls {
		if err := h.files.Delete(c.Request.Context(), u); err != nil {
			logger.Warn().Err(err).Str("url", u).Msg("Failed to remove uploaded file")
		}
	}
}
