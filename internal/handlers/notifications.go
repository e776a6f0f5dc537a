package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nneonya/Travel-app/internal/models"
)

const notificationsLimit = 50

type NotificationsResponse struct {
	Incoming      []models.TripRequestView `json:"incoming"`
	Accepted      []models.TripRequestView `json:"accepted"`
	Notifications []models.Notification    `json:"notifications"`
}

func (h *Handler) incomingRequests(c *gin.Context, userID uint) ([]models.TripRequestView, error) {
	incoming := []models.TripRequestView{}
	err := h.tripRequestViews(c).
		Where("t.creator_id = ? AND tr.status = ?", userID, models.TripRequestPending).
		Order("tr.created_at DESC").
		Scan(&incoming).Error
	return incoming, err
}

// GetNotifications bundles pending requests on the caller's trips, the
// caller's accepted requests and the stored notification feed.
func (h *Handler) GetNotifications(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	resp := NotificationsResponse{
		Accepted:      []models.TripRequestView{},
		Notifications: []models.Notification{},
	}

	if resp.Incoming, err = h.incomingRequests(c, userID); err != nil {
		fail(c, err)
		return
	}

	if err := h.tripRequestViews(c).
		Where("tr.user_id = ? AND tr.status = ?", userID, models.TripRequestAccepted).
		Order("tr.created_at DESC").
		Scan(&resp.Accepted).Error; err != nil {
		fail(c, err)
		return
	}

	if err := h.tx(c).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(notificationsLimit).
		Find(&resp.Notifications).Error; err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetIncomingRequests(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	incoming, err := h.incomingRequests(c, userID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, incoming)
}

func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	userID, err := mustUser(c)
	if err != nil {
		fail(c, err)
		return
	}

	res := h.tx(c).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": res.RowsAffected})
}
