package models

import (
	"time"

	"github.com/lib/pq"
)

type TripStatus string

const (
	TripStatusSearching TripStatus = "searching"
	TripStatusPlanned   TripStatus = "planned"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

func (s TripStatus) Valid() bool {
	switch s {
	case TripStatusSearching, TripStatusPlanned, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

type Trip struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	CreatorID            uint           `gorm:"index;not null" json:"creator_id"`
	Creator              *User          `gorm:"foreignKey:CreatorID" json:"-"`
	FromCityID           uint           `gorm:"index;not null" json:"from_city_id"`
	FromCity             *City          `gorm:"foreignKey:FromCityID" json:"-"`
	ToCityID             uint           `gorm:"index;not null" json:"to_city_id"`
	ToCity               *City          `gorm:"foreignKey:ToCityID" json:"-"`
	DateFrom             time.Time      `gorm:"type:date;not null" json:"date_from"`
	DateTo               time.Time      `gorm:"type:date;not null" json:"date_to"`
	Description          string         `gorm:"type:text" json:"description"`
	CompanionDescription string         `gorm:"type:text" json:"companion_description"`
	PreferredGender      *string        `gorm:"type:varchar(20)" json:"preferred_gender"`
	PreferredAgeMin      *int           `json:"preferred_age_min"`
	PreferredAgeMax      *int           `json:"preferred_age_max"`
	Interests            pq.StringArray `gorm:"type:text[]" json:"interests"`
	Status               TripStatus     `gorm:"type:varchar(20);not null;default:'searching';index" json:"status"`
	CreatedAt            time.Time      `json:"created_at"`
}

// TripView is a trip joined with city names, creator and companion
// display data. RequestStatus and CurrentUserHasReviewed are filled in
// per caller after the query.
type TripView struct {
	ID                   uint           `json:"id"`
	CreatorID            uint           `json:"creator_id"`
	FromCityID           uint           `json:"from_city_id"`
	ToCityID             uint           `json:"to_city_id"`
	DateFrom             time.Time      `json:"date_from"`
	DateTo               time.Time      `json:"date_to"`
	Description          string         `json:"description"`
	CompanionDescription string         `json:"companion_description"`
	PreferredGender      *string        `json:"preferred_gender"`
	PreferredAgeMin      *int           `json:"preferred_age_min"`
	PreferredAgeMax      *int           `json:"preferred_age_max"`
	Interests            pq.StringArray `gorm:"type:text[]" json:"interests"`
	Status               TripStatus     `json:"status"`
	CreatedAt            time.Time      `json:"created_at"`

	FromCity      string  `gorm:"column:from_city" json:"fromCity"`
	ToCity        string  `gorm:"column:to_city" json:"toCity"`
	CreatorName   string  `json:"creator_name"`
	CreatorAge    *int    `json:"creator_age"`
	CreatorCity   *string `json:"creator_city"`
	CreatorAvatar string  `json:"creator_avatar"`

	CompanionID     *uint   `json:"companion_id"`
	CompanionName   *string `json:"companion_name"`
	CompanionAvatar *string `json:"companion_avatar"`

	RequestStatus          string `gorm:"-" json:"request_status"`
	CurrentUserHasReviewed bool   `gorm:"-" json:"currentUserHasReviewed"`
}
