package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/models"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"gorm.io/gorm"
)

const tripRequestViewColumns = `tr.id, tr.trip_id, tr.user_id, tr.status, tr.created_at,
	u.name, u.age, u.avatar, uc.name AS city,
	t.creator_id, creator.name AS creator_name,
	fc.name AS from_city, tc.name AS to_city, t.date_from, t.date_to`

func (h *Handler) tripRequestViews(c *gin.Context) *gorm.DB {
	return h.tx(c).Table("trip_requests tr").
		Select(tripRequestViewColumns).
		Joins("JOIN users u ON u.id = tr.user_id").
		Joins("LEFT JOIN cities uc ON uc.id = u.city_id").
		Joins("JOIN trips t ON t.id = tr.trip_id").
		Joins("JOIN users creator ON creator.id = t.creator_id").
		Joins("JOIN cities fc ON fc.id = t.from_city_id").
		Joins("JOIN cities tc ON tc.id = t.to_city_id")
}

// RequestToJoin handles POST /trips/:id/request.
func (h *Handler) RequestToJoin(c *gin.Context) {
	tripID, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	h.createTripRequest(c, tripID)
}

type RequestJoinInput struct {
	TripID uint `json:"tripId"`
}

// RequestJoin handles POST /request-join with the trip id in the body.
func (h *Handler) RequestJoin(c *gin.Context) {
	var input RequestJoinInput
	if err := c.ShouldBindJSON(&input); err != nil || input.TripID == 0 {
		fail(c, apperrors.BadRequest("tripId is required"))
		return
	}
	h.createTripRequest(c, input.TripID)
}

func (h *Handler) createTripRequest(c *gin.Context, tripID uint) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	req, err := h.requests.Create(c.Request.Context(), tripID, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// ListTripRequests returns requests for ?trip_id=. The creator sees all of
// them, anyone else only their own.
func (h *Handler) ListTripRequests(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	tripID, err := strconv.ParseUint(c.Query("trip_id"), 10, 64)
	if err != nil || tripID == 0 {
		fail(c, apperrors.BadRequest("trip_id is required"))
		return
	}

	trip, err := h.loadTrip(c, uint(tripID))
	if err != nil {
		fail(c, err)
		return
	}

	q := h.tripRequestViews(c).Where("tr.trip_id = ?", trip.ID)
	if trip.CreatorID != userID {
		q = q.Where("tr.user_id = ?", userID)
	}

	requests := []models.TripRequestView{}
	if err := q.Order("tr.created_at DESC").Scan(&requests).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// TripRequests handles GET /trips/:id/requests for the trip's creator.
func (h *Handler) TripRequests(c *gin.Context) {
	trip, err := h.ownTrip(c)
	if err != nil {
		fail(c, err)
		return
	}

	requests := []models.TripRequestView{}
	if err := h.tripRequestViews(c).
		Where("tr.trip_id = ?", trip.ID).
		Order("tr.created_at DESC").
		Scan(&requests).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

type ResolveTripRequestInput struct {
	Status models.TripRequestStatus `json:"status"`
}

// ResolveTripRequest accepts or rejects a pending request.
func (h *Handler) ResolveTripRequest(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	requestID, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var input ResolveTripRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	res, err := h.requests.Resolve(c.Request.Context(), requestID, userID, input.Status)
	if err != nil {
		fail(c, err)
		return
	}

	if res.Request.Status == models.TripRequestAccepted {
		c.JSON(http.StatusOK, gin.H{
			"message": "Request accepted",
			"request": res.Request,
			"chat":    res.Chat,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Request rejected",
		"request": res.Request,
	})
}

func (h *Handler) loadTrip(c *gin.Context, id uint) (*models.Trip, error) {
	var trip models.Trip
	if err := h.tx(c).First(&trip, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Trip not found")
		}
		return nil, err
	}
	return &trip, nil
}
