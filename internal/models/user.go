package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"type:text;not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Age          *int           `json:"age"`
	Gender       *string        `gorm:"type:varchar(20)" json:"gender"`
	CityID       *uint          `gorm:"index" json:"city_id"`
	City         *City          `gorm:"foreignKey:CityID" json:"-"`
	Description  *string        `gorm:"type:text" json:"description"`
	Interests    pq.StringArray `gorm:"type:text[]" json:"interests"`
	Avatar       string         `gorm:"type:text" json:"avatar"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Profile is the user as shown on the profile page, with the city name
// resolved.
type Profile struct {
	ID          uint           `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email,omitempty"`
	Age         *int           `json:"age"`
	Gender      *string        `json:"gender"`
	Description *string        `json:"description"`
	Interests   pq.StringArray `gorm:"type:text[]" json:"interests"`
	Avatar      string         `json:"avatar"`
	CityID      *uint          `json:"city_id"`
	CityName    *string        `json:"cityName"`
}
