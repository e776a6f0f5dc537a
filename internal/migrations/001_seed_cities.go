package migrations

import (
	"github.com/nneonya/Travel-app/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultCities is the reference city list the trip forms offer.
var DefaultCities = []string{
	"Minsk", "Brest", "Grodno", "Gomel", "Mogilev", "Vitebsk",
	"Baranovichi", "Bobruisk", "Pinsk", "Orsha", "Mozyr", "Lida",
	"Novopolotsk", "Polotsk", "Molodechno", "Borisov", "Soligorsk",
	"Zhlobin", "Slutsk", "Nesvizh",
}

func Migration001SeedCities() Migration {
	return Migration{
		ID:   "001_seed_cities",
		Name: "Seed reference cities",
		Up: func(db *gorm.DB) error {
			cities := make([]models.City, 0, len(DefaultCities))
			for _, name := range DefaultCities {
				cities = append(cities, models.City{Name: name})
			}
			return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&cities).Error
		},
		Down: func(db *gorm.DB) error {
			return db.Where("name IN ?", DefaultCities).Delete(&models.City{}).Error
		},
	}
}
