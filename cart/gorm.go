package cart

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/bidaya-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStorage keeps one trader's cart in the cart_entries table.
type GormStorage struct {
	db      *gorm.DB
	ownerID uint
}

func NewGormStorage(db *gorm.DB, ownerID uint) *GormStorage {
	return &GormStorage{db: db, ownerID: ownerID}
}

func (g *GormStorage) Load(ctx context.Context) ([]byte, error) {
	var entry models.CartEntry
	err := g.db.WithContext(ctx).First(&entry, "owner_id = ?", g.ownerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry.Payload, nil
}

func (g *GormStorage) Save(ctx context.Context, data []byte) error {
	entry := models.CartEntry{OwnerID: g.ownerID, Payload: data}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&entry).Error
}

func (g *GormStorage) Remove(ctx context.Context) error {
	return g.db.WithContext(ctx).Where("owner_id = ?", g.ownerID).Delete(&models.CartEntry{}).Error
}
