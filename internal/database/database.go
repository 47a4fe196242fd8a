package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/joshua/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Option customises how the database is opened.
type Option func(*gorm.Config)

// WithLogLevel overrides the gorm log level (Info by default).
func WithLogLevel(level logger.LogLevel) Option {
	return func(cfg *gorm.Config) {
		cfg.Logger = logger.Default.LogMode(level)
	}
}

func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

// Migrate creates or updates every table used by the application.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&entities.Metadata{},
		&entities.TranslationInfo{},
		&entities.BookName{},
		&entities.VerseRow{},
		&entities.Bookmark{},
		&entities.Highlight{},
		&entities.Note{},
		&entities.ChapterReadingStatus{},
		&entities.StrongNumber{},
		&entities.StrongNumberVerse{},
		&entities.DownloadProgress{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
