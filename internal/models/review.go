package models

import "time"

type Review struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	TripID    uint          `gorm:"not null;index" json:"trip_id"`
	Trip      *Trip         `gorm:"foreignKey:TripID" json:"-"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	User      *User         `gorm:"foreignKey:UserID" json:"-"`
	Rating    int           `gorm:"not null" json:"rating"`
	Title     string        `gorm:"type:text" json:"title"`
	Content   string        `gorm:"type:text" json:"content"`
	Photos    []ReviewPhoto `gorm:"foreignKey:ReviewID" json:"photos"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type ReviewPhoto struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	ReviewID uint   `gorm:"not null;index" json:"-"`
	URL      string `gorm:"type:text;not null" json:"url"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewView is a review joined with trip and author display data.
type ReviewView struct {
	ID           uint          `json:"id"`
	TripID       uint          `json:"trip_id"`
	UserID       uint          `json:"user_id"`
	Rating       int           `json:"rating"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	FromCityID   uint          `json:"from_city_id"`
	ToCityID     uint          `json:"to_city_id"`
	TripFromCity string        `json:"trip_from_city"`
	TripToCity   string        `json:"trip_to_city"`
	TripDateFrom time.Time     `json:"trip_date_from"`
	TripDateTo   time.Time     `json:"trip_date_to"`
	UserName     string        `json:"user_name"`
	UserAvatar   string        `json:"user_avatar"`
	Photos       []ReviewPhoto `gorm:"-" json:"photos"`
}
