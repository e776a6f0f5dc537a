package models

import "time"

type NotificationType string

const (
	NotificationJoinRequest     NotificationType = "join_request"
	NotificationRequestAccepted NotificationType = "request_accepted"
	NotificationRequestRejected NotificationType = "request_rejected"
)

type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        uint             `gorm:"not null;index" json:"user_id"` // recipient
	Type          NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	RelatedTripID *uint            `gorm:"index" json:"related_trip_id"`
	RelatedUserID *uint            `json:"related_user_id"`
	IsRead        bool             `gorm:"not null;default:false" json:"is_read"`
	CreatedAt     time.Time        `json:"created_at"`
}
