// Package metadata provides database operations for key/value metadata:
// the current translation and verse, parallel translations, sort orders,
// reading streak and user settings.
//
// # Usage
//
//	repo := metadata.NewRepository(db)
//	translation, err := repo.Get(entities.MetadataKeyCurrentTranslation, "")
package metadata

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/joshua/internal/entities"
)

// Repository handles all metadata database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new metadata repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the value stored under key, or defaultValue when the key is absent.
func (r *Repository) Get(key, defaultValue string) (string, error) {
	var entry entities.Metadata
	err := r.db.Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return defaultValue, nil
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// GetMany returns the stored values for the given keys. Missing keys are
// absent from the result.
func (r *Repository) GetMany(keys ...string) (map[string]string, error) {
	var entries []entities.Metadata
	if err := r.db.Where("key IN ?", keys).Find(&entries).Error; err != nil {
		return nil, err
	}

	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		values[entry.Key] = entry.Value
	}
	return values, nil
}

// Set creates or updates a metadata entry.
func (r *Repository) Set(key, value string) error {
	return set(r.db, key, value)
}

// SetMany writes all entries in a single transaction.
func (r *Repository) SetMany(values map[string]string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := set(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a metadata entry by key.
func (r *Repository) Delete(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Metadata{}).Error
}

func set(db *gorm.DB, key, value string) error {
	var entry entities.Metadata
	result := db.Where("key = ?", key).First(&entry)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		entry = entities.Metadata{
			Key:   key,
			Value: value,
		}
		return db.Create(&entry).Error
	} else if result.Error != nil {
		return result.Error
	}

	entry.Value = value
	return db.Save(&entry).Error
}
