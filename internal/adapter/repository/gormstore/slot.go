// Package gormstore keeps the application slot in a SQL table through gorm.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	loanDomain "vehicleloan/internal/domain/loan"
)

// slotRow is one named payload.
type slotRow struct {
	Key       string    `gorm:"column:slot_key;primaryKey;size:191"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (slotRow) TableName() string { return "application_slots" }

type SlotStore struct {
	db  *gorm.DB
	key string
}

var _ loanDomain.SlotStore = (*SlotStore)(nil)

func NewSlotStore(db *gorm.DB, key string) *SlotStore { return &SlotStore{db: db, key: key} }

// Migrate creates the slot table if needed.
func (s *SlotStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&slotRow{})
}

func (s *SlotStore) Load(ctx context.Context) ([]byte, error) {
	var row slotRow
	err := s.db.WithContext(ctx).Where("slot_key = ?", s.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, loanDomain.ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(row.Payload), nil
}

// Save overwrites the slot, inserting it on first use.
func (s *SlotStore) Save(ctx context.Context, payload []byte) error {
	row := slotRow{Key: s.key, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&row).Error
}
