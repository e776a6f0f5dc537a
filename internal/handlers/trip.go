package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/nneonya/Travel-app/internal/middleware"
	"github.com/nneonya/Travel-app/internal/models"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"github.com/nneonya/Travel-app/pkg/utils"
	"gorm.io/gorm"
)

const (
	defaultTripLimit = 20
	maxTripLimit     = 100
)

const tripViewColumns = `trips.id, trips.creator_id, trips.from_city_id, trips.to_city_id,
	trips.date_from, trips.date_to, trips.description, trips.companion_description,
	trips.preferred_gender, trips.preferred_age_min, trips.preferred_age_max,
	trips.interests, trips.status, trips.created_at,
	fc.name AS from_city, tc.name AS to_city,
	creator.name AS creator_name, creator.age AS creator_age,
	cc.name AS creator_city, creator.avatar AS creator_avatar,
	companion.id AS companion_id, companion.name AS companion_name,
	companion.avatar AS companion_avatar`

// tripViews selects trips with city names, creator and (at most one)
// accepted companion.
func (h *Handler) tripViews(c *gin.Context) *gorm.DB {
	return h.tx(c).Table("trips").
		Select(tripViewColumns).
		Joins("JOIN cities fc ON fc.id = trips.from_city_id").
		Joins("JOIN cities tc ON tc.id = trips.to_city_id").
		Joins("JOIN users creator ON creator.id = trips.creator_id").
		Joins("LEFT JOIN cities cc ON cc.id = creator.city_id").
		Joins("LEFT JOIN trip_requests accepted ON accepted.trip_id = trips.id AND accepted.status = ?", models.TripRequestAccepted).
		Joins("LEFT JOIN users companion ON companion.id = accepted.user_id")
}

// annotateTrips fills the per-caller fields. Anonymous callers get
// "none" and false.
func (h *Handler) annotateTrips(c *gin.Context, trips []models.TripView) error {
	for i := range trips {
		trips[i].RequestStatus = models.RequestStatusNone
		if trips[i].Interests == nil {
			trips[i].Interests = pq.StringArray{}
		}
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok || len(trips) == 0 {
		return nil
	}

	ids := make([]uint, len(trips))
	for i, t := range trips {
		ids[i] = t.ID
	}

	var requests []models.TripRequest
	if err := h.tx(c).Select("trip_id", "status").
		Where("user_id = ? AND trip_id IN ?", userID, ids).
		Find(&requests).Error; err != nil {
		return err
	}
	statusByTrip := make(map[uint]string, len(requests))
	for _, r := range requests {
		statusByTrip[r.TripID] = string(r.Status)
	}

	var reviewed []uint
	if err := h.tx(c).Model(&models.Review{}).
		Where("user_id = ? AND trip_id IN ?", userID, ids).
		Pluck("trip_id", &reviewed).Error; err != nil {
		return err
	}
	reviewedTrips := make(map[uint]bool, len(reviewed))
	for _, id := range reviewed {
		reviewedTrips[id] = true
	}

	for i := range trips {
		if s, ok := statusByTrip[trips[i].ID]; ok {
			trips[i].RequestStatus = s
		}
		trips[i].CurrentUserHasReviewed = reviewedTrips[trips[i].ID]
	}
	return nil
}

func (h *Handler) findTripView(c *gin.Context, id uint) (*models.TripView, error) {
	var trips []models.TripView
	if err := h.tripViews(c).Where("trips.id = ?", id).Limit(1).Scan(&trips).Error; err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, apperrors.NotFound("Trip not found")
	}
	if err := h.annotateTrips(c, trips); err != nil {
		return nil, err
	}
	return &trips[0], nil
}

func (h *Handler) respondTrips(c *gin.Context, q *gorm.DB) {
	trips := []models.TripView{}
	if err := q.Scan(&trips).Error; err != nil {
		fail(c, err)
		return
	}
	if err := h.annotateTrips(c, trips); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trips)
}

func (h *Handler) openTrips(c *gin.Context) *gorm.DB {
	return h.tripViews(c).
		Where("trips.status = ?", models.TripStatusSearching).
		Order("trips.created_at DESC").
		Order("trips.id DESC").
		Limit(queryInt(c, "limit", defaultTripLimit, maxTripLimit)).
		Offset(queryInt(c, "offset", 0, 0))
}

func applyDateBounds(q *gorm.DB, from, to string) (*gorm.DB, error) {
	if from != "" {
		d, err := utils.ParseDate(from)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		q = q.Where("trips.date_from >= ?", d)
	}
	if to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		q = q.Where("trips.date_to <= ?", d)
	}
	return q, nil
}

// ListTrips is the public feed of trips still looking for a companion.
func (h *Handler) ListTrips(c *gin.Context) {
	q := h.openTrips(c)

	if from := c.Query("from"); from != "" {
		id, err := strconv.ParseUint(from, 10, 64)
		if err != nil {
			fail(c, apperrors.BadRequest("Invalid from city"))
			return
		}
		q = q.Where("trips.from_city_id = ?", id)
	}
	if to := c.Query("to"); to != "" {
		id, err := strconv.ParseUint(to, 10, 64)
		if err != nil {
			fail(c, apperrors.BadRequest("Invalid to city"))
			return
		}
		q = q.Where("trips.to_city_id = ?", id)
	}

	q, err := applyDateBounds(q, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		fail(c, err)
		return
	}

	h.respondTrips(c, q)
}

// SearchTrips matches city names case-insensitively by substring.
func (h *Handler) SearchTrips(c *gin.Context) {
	q := h.openTrips(c)

	if from := strings.TrimSpace(c.Query("fromCity")); from != "" {
		q = q.Where(`LOWER(fc.name) LIKE ? ESCAPE '\'`, utils.ContainsPattern(from))
	}
	if to := strings.TrimSpace(c.Query("toCity")); to != "" {
		q = q.Where(`LOWER(tc.name) LIKE ? ESCAPE '\'`, utils.ContainsPattern(to))
	}

	q, err := applyDateBounds(q, c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		fail(c, err)
		return
	}

	h.respondTrips(c, q)
}

// MyTrips lists trips the caller created or joined as companion.
func (h *Handler) MyTrips(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	q := h.tripViews(c).
		Where("trips.creator_id = ? OR accepted.user_id = ?", userID, userID).
		Order("trips.date_from ASC").
		Order("trips.id ASC")
	h.respondTrips(c, q)
}

func (h *Handler) GetTrip(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	trip, err := h.findTripView(c, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, trip)
}

type CreateTripInput struct {
	FromCityID           uint     `json:"from_city_id"`
	ToCityID             uint     `json:"to_city_id"`
	DateFrom             string   `json:"date_from"`
	DateTo               string   `json:"date_to"`
	Description          string   `json:"description"`
	CompanionDescription string   `json:"companion_description"`
	PreferredGender      *string  `json:"preferred_gender"`
	PreferredAgeMin      *int     `json:"preferred_age_min"`
	PreferredAgeMax      *int     `json:"preferred_age_max"`
	Interests            []string `json:"interests"`
}

func (h *Handler) CreateTrip(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input CreateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	if input.FromCityID == 0 || input.ToCityID == 0 || input.DateFrom == "" || input.DateTo == "" {
		fail(c, apperrors.BadRequest("from_city_id, to_city_id, date_from and date_to are required"))
		return
	}

	dateFrom, dateTo, err := parseTripDates(input.DateFrom, input.DateTo)
	if err != nil {
		fail(c, err)
		return
	}
	if err := validateAgeRange(input.PreferredAgeMin, input.PreferredAgeMax); err != nil {
		fail(c, err)
		return
	}
	for _, id := range []uint{input.FromCityID, input.ToCityID} {
		if err := h.ensureCity(c, id); err != nil {
			fail(c, err)
			return
		}
	}

	trip := models.Trip{
		CreatorID:            userID,
		FromCityID:           input.FromCityID,
		ToCityID:             input.ToCityID,
		DateFrom:             dateFrom,
		DateTo:               dateTo,
		Description:          strings.TrimSpace(input.Description),
		CompanionDescription: strings.TrimSpace(input.CompanionDescription),
		PreferredGender:      input.PreferredGender,
		PreferredAgeMin:      input.PreferredAgeMin,
		PreferredAgeMax:      input.PreferredAgeMax,
		Interests:            pq.StringArray(input.Interests),
		Status:               models.TripStatusSearching,
	}
	if err := h.tx(c).Create(&trip).Error; err != nil {
		fail(c, err)
		return
	}

	logger.Info().Uint("trip_id", trip.ID).Uint("user_id", userID).Msg("Trip created")

	view, err := h.findTripView(c, trip.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// UpdateTripInput leaves a field untouched when it is omitted.
type UpdateTripInput struct {
	FromCity             *string   `json:"fromCity"`
	ToCity               *string   `json:"toCity"`
	DateFrom             *string   `json:"date_from"`
	DateTo               *string   `json:"date_to"`
	Description          *string   `json:"description"`
	CompanionDescription *string   `json:"companion_description"`
	PreferredGender      *string   `json:"preferred_gender"`
	PreferredAgeMin      *int      `json:"preferred_age_min"`
	PreferredAgeMax      *int      `json:"preferred_age_max"`
	Interests            *[]string `json:"interests"`
	Status               *string   `json:"status"`
}

func (h *Handler) UpdateTrip(c *gin.Context) {
	trip, err := h.ownTrip(c)
	if err != nil {
		fail(c, err)
		return
	}

	var input UpdateTripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		fail(c, apperrors.BadRequest("Invalid request body"))
		return
	}

	if input.FromCity != nil {
		id, err := h.cityIDByName(c, *input.FromCity)
		if err != nil {
			fail(c, err)
			return
		}
		trip.FromCityID = id
	}
	if input.ToCity != nil {
		id, err := h.cityIDByName(c, *input.ToCity)
		if err != nil {
			fail(c, err)
			return
		}
		trip.ToCityID = id
	}

	from, to := trip.DateFrom.Format(utils.DateLayout), trip.DateTo.Format(utils.DateLayout)
	if input.DateFrom != nil {
		from = *input.DateFrom
	}
	if input.DateTo != nil {
		to = *input.DateTo
	}
	if trip.DateFrom, trip.DateTo, err = parseTripDates(from, to); err != nil {
		fail(c, err)
		return
	}

	if input.Description != nil {
		trip.Description = strings.TrimSpace(*input.Description)
	}
	if input.CompanionDescription != nil {
		trip.CompanionDescription = strings.TrimSpace(*input.CompanionDescription)
	}
	if input.PreferredGender != nil {
		trip.PreferredGender = input.PreferredGender
	}
	if input.PreferredAgeMin != nil {
		trip.PreferredAgeMin = input.PreferredAgeMin
	}
	if input.PreferredAgeMax != nil {
		trip.PreferredAgeMax = input.PreferredAgeMax
	}
	if err := validateAgeRange(trip.PreferredAgeMin, trip.PreferredAgeMax); err != nil {
		fail(c, err)
		return
	}
	if input.Interests != nil {
		trip.Interests = pq.StringArray(*input.Interests)
	}
	cancel := false
	if input.Status != nil {
		status := models.TripStatus(*input.Status)
		switch {
		case !status.Valid():
			fail(c, apperrors.BadRequest("Invalid trip status"))
			return
		case status == models.TripStatusCancelled:
			cancel = status != trip.Status
		case status != trip.Status:
			// searching and planned belong to the request workflow,
			// completed to PUT /trips/:id/complete.
			fail(c, apperrors.Conflict("Trip status can only be changed to cancelled"))
			return
		}
	}

	err = h.tx(c).Transaction(func(tx *gorm.DB) error {
		// status is never written from the loaded row: an accept may have
		// moved the trip on since it was read.
		if err := tx.Omit("status").Save(trip).Error; err != nil {
			return err
		}
		if !cancel {
			return nil
		}
		res := tx.Model(&models.Trip{}).
			Where("id = ? AND status IN ?", trip.ID, []models.TripStatus{models.TripStatusSearching, models.TripStatusPlanned}).
			Update("status", models.TripStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflict("Only open or planned trips can be cancelled")
		}
		return nil
	})
	if err != nil {
		fail(c, err)
		return
	}

	view, err := h.findTripView(c, trip.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DeleteTrip removes the trip together with everything hanging off it.
func (h *Handler) DeleteTrip(c *gin.Context) {
	trip, err := h.ownTrip(c)
	if err != nil {
		fail(c, err)
		return
	}

	err = h.tx(c).Transaction(func(tx *gorm.DB) error {
		chats := tx.Model(&models.Chat{}).Select("id").Where("trip_id = ?", trip.ID)
		if err := tx.Where("chat_id IN (?)", chats).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		reviews := tx.Model(&models.Review{}).Select("id").Where("trip_id = ?", trip.ID)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.ReviewPhoto{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.Chat{},
			&models.Review{},
			&models.TripParticipant{},
			&models.TripRequest{},
		} {
			if err := tx.Where("trip_id = ?", trip.ID).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("related_trip_id = ?", trip.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Trip{}, trip.ID).Error
	})
	if err != nil {
		fail(c, err)
		return
	}

	logger.Info().Uint("trip_id", trip.ID).Msg("Trip deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Trip deleted"})
}

// CompleteTrip closes a planned trip. Any other state is a conflict.
func (h *Handler) CompleteTrip(c *gin.Context) {
	trip, err := h.ownTrip(c)
	if err != nil {
		fail(c, err)
		return
	}

	res := h.tx(c).Model(&models.Trip{}).
		Where("id = ? AND status = ?", trip.ID, models.TripStatusPlanned).
		Update("status", models.TripStatusCompleted)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		fail(c, apperrors.Conflict("Only planned trips can be completed"))
		return
	}

	view, err := h.findTripView(c, trip.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ownTrip loads the :id trip and checks the caller created it.
func (h *Handler) ownTrip(c *gin.Context) (*models.Trip, error) {
	userID, err := mustUser(c)
	if err != nil {
		return nil, err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, err
	}

	trip, err := h.loadTrip(c, id)
	if err != nil {
		return nil, err
	}
	if trip.CreatorID != userID {
		return nil, apperrors.Forbidden("You are not the creator of this trip")
	}
	return trip, nil
}

func (h *Handler) ensureCity(c *gin.Context, id uint) error {
	var n int64
	if err := h.tx(c).Model(&models.City{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apperrors.BadRequest("City " + strconv.FormatUint(uint64(id), 10) + " does not exist")
	}
	return nil
}

func (h *Handler) cityIDByName(c *gin.Context, name string) (uint, error) {
	var city models.City
	err := h.tx(c).Where("name = ?", strings.TrimSpace(name)).First(&city).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperrors.BadRequest("Unknown city: " + name)
	}
	return city.ID, err
}

func parseTripDates(from, to string) (time.Time, time.Time, error) {
	dateFrom, err := utils.ParseDate(from)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.BadRequest(err.Error())
	}
	dateTo, err := utils.ParseDate(to)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.BadRequest(err.Error())
	}
	if dateFrom.After(dateTo) {
		return time.Time{}, time.Time{}, apperrors.BadRequest("date_from must not be after date_to")
	}
	return dateFrom, dateTo, nil
}

func validateAgeRange(min, max *int) error {
	if min != nil && *min < 0 || max != nil && *max < 0 {
		return apperrors.BadRequest("Preferred age must not be negative")
	}
	if min != nil && max != nil && *min > *max {
		return apperrors.BadRequest("preferred_age_min must not exceed preferred_age_max")
	}
	return nil
}
