package book

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// bookRecord is the gorm model behind GormRepo.
type bookRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Title       string `gorm:"not null"`
	Author      string `gorm:"not null"`
	Genre       string `gorm:"not null"`
	Pages       int    `gorm:"not null"`
	CurrentPage int    `gorm:"not null;default:0"`
	Status      int    `gorm:"not null;default:0"`
	Rating      *int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (bookRecord) TableName() string {
	return "books"
}

func toRecord(b Book) bookRecord {
	return bookRecord{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Pages:       b.Pages,
		CurrentPage: b.CurrentPage,
		Status:      int(b.Status),
		Rating:      b.Rating,
	}
}

func (rec bookRecord) toBook() Book {
	return Book{
		ID:          rec.ID,
		Title:       rec.Title,
		Author:      rec.Author,
		Genre:       rec.Genre,
		Pages:       rec.Pages,
		CurrentPage: rec.CurrentPage,
		Status:      Status(rec.Status),
		Rating:      rec.Rating,
	}
}

// GormRepo stores books through gorm. With the sqlite driver and an
// in-memory DSN it mirrors the volatile default store with SQL semantics.
type GormRepo struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) a sqlite database for GormRepo.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is a separate database
	if strings.Contains(dsn, ":memory:") {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&bookRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) List(ctx context.Context) ([]Book, error) {
	var recs []bookRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Book, len(recs))
	for i, rec := range recs {
		out[i] = rec.toBook()
	}
	return out, nil
}

func (r *GormRepo) Get(ctx context.Context, id int64) (Book, error) {
	var rec bookRecord
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return rec.toBook(), nil
}

func (r *GormRepo) Create(ctx context.Context, b *Book) error {
	rec := toRecord(*b)
	rec.ID = 0
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return err
	}
	b.ID = rec.ID
	return nil
}

func (r *GormRepo) Update(ctx context.Context, b Book) error {
	rec := toRecord(b)
	res := r.db.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":        rec.Title,
		"author":       rec.Author,
		"genre":        rec.Genre,
		"pages":        rec.Pages,
		"current_page": rec.CurrentPage,
		"status":       rec.Status,
		"rating":       rec.Rating,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&bookRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
