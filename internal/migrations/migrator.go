package migrations

import (
	"errors"
	"fmt"
	"time"

	"github.com/nneonya/Travel-app/pkg/logger"
	"gorm.io/gorm"
)

// Migration is a data or index change layered on top of AutoMigrate.
// IDs sort in the order migrations must run.
type Migration struct {
	ID        string
	Name      string
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string
}

// MigrationRecord is one row of schema_migrations.
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

var ErrUnknownMigration = errors.New("unknown migration")

type Migrator struct {
	db   *gorm.DB
	list []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return NewMigratorFor(db, GetMigrations())
}

// NewMigratorFor runs an explicit migration list instead of the
// registered one.
func NewMigratorFor(db *gorm.DB, list []Migration) *Migrator {
	return &Migrator{db: db, list: list}
}

// Run applies pending migrations in list order. A migration and its
// schema_migrations row commit together, so a failed step is retried on
// the next start.
func (m *Migrator) Run() error {
	pending, err := m.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	applied, err := m.Applied()
	if err != nil {
		return err
	}

	for _, mig := range pending {
		for _, dep := range mig.DependsOn {
			if !applied[dep] {
				return fmt.Errorf("migration %s needs %s first", mig.ID, dep)
			}
		}

		start := time.Now()
		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := mig.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{ID: mig.ID, Name: mig.Name}).Error
		})
		if err != nil {
			logger.Error().Err(err).Str("migration", mig.ID).Msg("Migration failed")
			return fmt.Errorf("migration %s: %w", mig.ID, err)
		}

		applied[mig.ID] = true
		logger.Info().
			Str("migration", mig.ID).
			Dur("took", time.Since(start)).
			Msg(mig.Name)
	}
	return nil
}

// Pending lists registered migrations without a schema_migrations row.
func (m *Migrator) Pending() ([]Migration, error) {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := m.Applied()
	if err != nil {
		return nil, err
	}

	var pending []Migration
	for _, mig := range m.list {
		if !applied[mig.ID] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) Applied() (map[string]bool, error) {
	var ids []string
	if err := m.db.Model(&MigrationRecord{}).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}
	return applied, nil
}

// Rollback reverts one applied migration and forgets it. Nothing checks
// whether later migrations still depend on it.
func (m *Migrator) Rollback(id string) error {
	var mig *Migration
	for i := range m.list {
		if m.list[i].ID == id {
			mig = &m.list[i]
			break
		}
	}
	if mig == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMigration, id)
	}

	return m.db.Transaction(func(tx *gorm.DB) error {
		if mig.Down != nil {
			if err := mig.Down(tx); err != nil {
				return err
			}
		}
		return tx.Delete(&MigrationRecord{}, "id = ?", id).Error
	})
}

func GetMigrations() []Migration {
	return []Migration{
		Migration001SeedCities(),
		Migration002AddHotPathIndexes(),
	}
}
