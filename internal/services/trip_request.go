package services

import (
	"context"
	"errors"
	"strings"

	"github.com/nneonya/Travel-app/internal/metrics"
	"github.com/nneonya/Travel-app/internal/models"
	apperrors "github.com/nneonya/Travel-app/pkg/errors"
	"github.com/nneonya/Travel-app/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errAlreadyRequested = apperrors.BadRequest("You have already sent a request for this trip")

// TripRequestService runs the join-request state machine:
// pending -> accepted | rejected, both terminal.
type TripRequestService struct {
	db  *gorm.DB
	hub Broadcaster
}

func NewTripRequestService(db *gorm.DB, hub Broadcaster) *TripRequestService {
	return &TripRequestService{db: db, hub: hub}
}

// Create files a pending request from userID for tripID and notifies the
// trip's creator.
func (s *TripRequestService) Create(ctx context.Context, tripID, userID uint) (*models.TripRequest, error) {
	var (
		req          models.TripRequest
		notification models.Notification
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var trip models.Trip
		if err := tx.First(&trip, tripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Trip not found")
			}
			return err
		}

		if trip.CreatorID == userID {
			return apperrors.BadRequest("You cannot request to join your own trip")
		}
		if trip.Status != models.TripStatusSearching {
			return apperrors.BadRequest("This trip is not accepting requests")
		}

		var existing int64
		if err := tx.Model(&models.TripRequest{}).
			Where("trip_id = ? AND user_id = ?", tripID, userID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return errAlreadyRequested
		}

		req = models.TripRequest{TripID: tripID, UserID: userID, Status: models.TripRequestPending}
		if err := tx.Create(&req).Error; err != nil {
			if IsUniqueViolation(err) {
				return errAlreadyRequested
			}
			return err
		}

		notification = models.Notification{
			UserID:        trip.CreatorID,
			Type:          models.NotificationJoinRequest,
			RelatedTripID: &trip.ID,
			RelatedUserID: &userID,
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Uint("trip_id", tripID).Uint("user_id", userID).Uint("request_id", req.ID).Msg("Trip request created")
	metrics.RecordTripRequest("created")
	Emit(s.hub, models.UserRoom(notification.UserID), EventNotification, notification)

	return &req, nil
}

// Resolution is the outcome of Resolve. Chat is set only on accept.
type Resolution struct {
	Request models.TripRequest
	Trip    models.Trip
	Chat    *models.Chat
}

// Resolve accepts or rejects a request on behalf of callerID, who must be
// the trip's creator. Everything happens in one transaction; the trip's
// conditional searching -> planned update makes concurrent accepts on
// the same trip race for a single row.
func (s *TripRequestService) Resolve(ctx context.Context, requestID, callerID uint, status models.TripRequestStatus) (*Resolution, error) {
	if status != models.TripRequestAccepted && status != models.TripRequestRejected {
		return nil, apperrors.BadRequest("Status must be 'accepted' or 'rejected'")
	}

	var (
		res          Resolution
		notification *models.Notification
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&res.Request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Request not found")
			}
			return err
		}

		if err := tx.First(&res.Trip, res.Request.TripID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Trip not found")
			}
			return err
		}

		if res.Trip.CreatorID != callerID {
			return apperrors.Forbidden("Only the trip creator can manage requests")
		}

		var err error
		if status == models.TripRequestAccepted {
			notification, err = s.accept(tx, &res)
		} else {
			notification, err = s.reject(tx, &res)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Uint("request_id", requestID).
		Uint("trip_id", res.Trip.ID).
		Str("status", string(status)).
		Msg("Trip request resolved")
	metrics.RecordTripRequest(string(status))

	if notification != nil {
		Emit(s.hub, models.UserRoom(notification.UserID), EventNotification, notification)
	}
	return &res, nil
}

var errTripTaken = apperrors.Conflict("Trip already has a companion or is no longer open")

// accept returns a notification only when the request actually changed
// state; a repeated accept just hands back the existing chat.
func (s *TripRequestService) accept(tx *gorm.DB, res *Resolution) (*models.Notification, error) {
	req, trip := &res.Request, &res.Trip

	var notification *models.Notification

	switch req.Status {
	case models.TripRequestRejected:
		return nil, apperrors.Conflict("Request has already been rejected")

	case models.TripRequestPending:
		var companions int64
		if err := tx.Model(&models.TripRequest{}).
			Where("trip_id = ? AND status = ?", trip.ID, models.TripRequestAccepted).
			Count(&companions).Error; err != nil {
			return nil, err
		}
		if companions > 0 {
			return nil, errTripTaken
		}

		claimed := tx.Model(&models.Trip{}).
			Where("id = ? AND status = ?", trip.ID, models.TripStatusSearching).
			Update("status", models.TripStatusPlanned)
		if claimed.Error != nil {
			return nil, claimed.Error
		}
		if claimed.RowsAffected == 0 {
			return nil, errTripTaken
		}
		trip.Status = models.TripStatusPlanned

		updated := tx.Model(&models.TripRequest{}).
			Where("id = ? AND status = ?", req.ID, models.TripRequestPending).
			Update("status", models.TripRequestAccepted)
		if updated.Error != nil {
			return nil, updated.Error
		}
		if updated.RowsAffected == 0 {
			return nil, apperrors.Conflict("Request has already been resolved")
		}
		req.Status = models.TripRequestAccepted

		notification = &models.Notification{
			UserID:        req.UserID,
			Type:          models.NotificationRequestAccepted,
			RelatedTripID: &trip.ID,
			RelatedUserID: &trip.CreatorID,
		}
		if err := tx.Create(notification).Error; err != nil {
			return nil, err
		}
	}

	participant := models.TripParticipant{TripID: trip.ID, UserID: req.UserID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant).Error; err != nil {
		return nil, err
	}

	chat := models.Chat{TripID: trip.ID, CreatorID: trip.CreatorID, CompanionID: req.UserID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&chat).Error; err != nil {
		return nil, err
	}

	var stored models.Chat
	if err := tx.Where("trip_id = ? AND creator_id = ? AND companion_id = ?", trip.ID, trip.CreatorID, req.UserID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	res.Chat = &stored

	return notification, nil
}

func (s *TripRequestService) reject(tx *gorm.DB, res *Resolution) (*models.Notification, error) {
	req, trip := &res.Request, &res.Trip

	updated := tx.Model(&models.TripRequest{}).
		Where("id = ? AND status = ?", req.ID, models.TripRequestPending).
		Update("status", models.TripRequestRejected)
	if updated.Error != nil {
		return nil, updated.Error
	}
	if updated.RowsAffected == 0 {
		return nil, apperrors.Conflict("Request has already been resolved")
	}
	req.Status = models.TripRequestRejected

	notification := &models.Notification{
		UserID:        req.UserID,
		Type:          models.NotificationRequestRejected,
		RelatedTripID: &trip.ID,
		RelatedUserID: &trip.CreatorID,
	}
	if err := tx.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}

// IsUniqueViolation reports whether err came from a unique index. Drivers
// that don't translate errors are matched by message.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
