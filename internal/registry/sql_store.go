package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/avatar-backend/internal/domain"
)

// AvatarKey is one registered key and the selection it stands for.
type AvatarKey struct {
	Key         string `gorm:"column:avatar_key;primaryKey;size:64"`
	Head        int    `gorm:"column:head;not null"`
	Face        int    `gorm:"column:face;not null"`
	Body        int    `gorm:"column:body;not null"`
	FacialHair  int    `gorm:"column:facial_hair;not null"`
	Accessories int    `gorm:"column:accessories;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (AvatarKey) TableName() string { return "avatar_keys" }

func (k AvatarKey) Selection() domain.Selection {
	return domain.Selection{
		Head:        k.Head,
		Face:        k.Face,
		Body:        k.Body,
		FacialHair:  k.FacialHair,
		Accessories: k.Accessories,
	}
}

// SQLStore persists keys in a relational table through gorm. Entries never
// expire.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates or updates the avatar_keys table.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&AvatarKey{}); err != nil {
		return fmt.Errorf("migrate avatar_keys: %w", err)
	}
	return nil
}

func (s *SQLStore) Put(ctx context.Context, key domain.Key, sel domain.Selection) (domain.Selection, bool, error) {
	var (
		prev     domain.Selection
		replaced bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing AvatarKey
		err := tx.Where("avatar_key = ?", string(key)).Take(&existing).Error
		switch {
		case err == nil:
			prev, replaced = existing.Selection(), true
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		row := AvatarKey{
			Key:         string(key),
			Head:        sel.Head,
			Face:        sel.Face,
			Body:        sel.Body,
			FacialHair:  sel.FacialHair,
			Accessories: sel.Accessories,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "avatar_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"head", "face", "body", "facial_hair", "accessories", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return domain.Selection{}, false, fmt.Errorf("sql put %s: %w", key, err)
	}
	return prev, replaced, nil
}

func (s *SQLStore) Get(ctx context.Context, key domain.Key) (domain.Selection, error) {
	var row AvatarKey
	err := s.db.WithContext(ctx).Where("avatar_key = ?", string(key)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Selection{}, domain.ErrKeyNotFound
	}
	if err != nil {
		return domain.Selection{}, fmt.Errorf("sql get %s: %w", key, err)
	}
	return row.Selection(), nil
}

// Close is a no-op; the connection pool is owned by the caller.
func (s *SQLStore) Close() error { return nil }
