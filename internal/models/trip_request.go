package models

import "time"

type TripRequestStatus string

const (
	TripRequestPending  TripRequestStatus = "pending"
	TripRequestAccepted TripRequestStatus = "accepted"
	TripRequestRejected TripRequestStatus = "rejected"
)

// RequestStatusNone is reported for trips the caller has not requested.
const RequestStatusNone = "none"

// TripRequest is a user's application to join someone else's trip.
// The unique index backs the one-request-per-user check.
type TripRequest struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	TripID    uint              `gorm:"not null;uniqueIndex:idx_trip_requests_trip_user" json:"trip_id"`
	Trip      *Trip             `gorm:"foreignKey:TripID" json:"-"`
	UserID    uint              `gorm:"not null;uniqueIndex:idx_trip_requests_trip_user;index" json:"user_id"`
	User      *User             `gorm:"foreignKey:UserID" json:"-"`
	Status    TripRequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// TripParticipant links an accepted companion to a trip.
type TripParticipant struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	TripID   uint      `gorm:"not null;uniqueIndex:idx_trip_participants_trip_user" json:"trip_id"`
	Trip     *Trip     `gorm:"foreignKey:TripID" json:"-"`
	UserID   uint      `gorm:"not null;uniqueIndex:idx_trip_participants_trip_user" json:"user_id"`
	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// TripRequestView is a request joined with requester and trip details.
type TripRequestView struct {
	ID        uint              `json:"id"`
	TripID    uint              `json:"trip_id"`
	UserID    uint              `json:"user_id"`
	Status    TripRequestStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`

	Name   string  `json:"name"`
	Age    *int    `json:"age"`
	Avatar string  `json:"avatar"`
	City   *string `json:"city"`

	CreatorID   uint      `json:"creator_id"`
	CreatorName string    `json:"creator_name"`
	FromCity    string    `gorm:"column:from_city" json:"fromCity"`
	ToCity      string    `gorm:"column:to_city" json:"toCity"`
	DateFrom    time.Time `json:"date_from"`
	DateTo      time.Time `json:"date_to"`
}
