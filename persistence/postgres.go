package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollectionRecord is one persisted collection blob: the jsonb document for
// a (key, user) pair.
type CollectionRecord struct {
	ID     uint           `gorm:"primaryKey"`
	Key    string         `gorm:"type:varchar(32);not null;uniqueIndex:idx_key_user"`
	UserID string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_key_user;column:user_id"`
	Data   datatypes.JSON `gorm:"type:jsonb;not null"`
}

// Postgres stores collections as jsonb rows via gorm.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) ReadCollection(ctx context.Context, key, userID string) (json.RawMessage, bool, error) {
	var rec CollectionRecord
	err := p.db.WithContext(ctx).Where("key = ? AND user_id = ?", key, userID).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres read %s/%s: %w", key, userID, err)
	}
	return json.RawMessage(rec.Data), true, nil
}

func (p *Postgres) WriteCollection(ctx context.Context, key, userID string, data json.RawMessage) error {
	rec := CollectionRecord{Key: key, UserID: userID, Data: datatypes.JSON(data)}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("postgres write %s/%s: %w", key, userID, err)
	}
	return nil
}
