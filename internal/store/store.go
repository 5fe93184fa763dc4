package store

import (
	"context"
	"strings"

	"github.com/lazhrach20/auto-assistent-llm/internal/model"
	"github.com/lazhrach20/auto-assistent-llm/logger"
	"github.com/lazhrach20/auto-assistent-llm/pkg/errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultPageSize is the page size used when a search request does not
// specify a limit
const DefaultPageSize = 20

// matchLimit caps the number of listings returned for a bot filter query
const matchLimit = 5

// Open connects to Postgres and migrates the car schema
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.NewStorage("open", "failed to connect to database", err)
	}

	if err := db.AutoMigrate(&model.Car{}); err != nil {
		return nil, errors.NewStorage("open", "failed to migrate schema", err)
	}

	return db, nil
}

// CarStore persists and queries car listings
type CarStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// New creates a store on top of an open gorm connection
func New(db *gorm.DB) *CarStore {
	return &CarStore{
		db:  db,
		log: logger.ForComponent("store"),
	}
}

// UpsertBatch inserts the batch; rows whose link already exists get only
// price and color updated. The batch is one transaction: any error other
// than the expected link conflict rolls everything back.
func (s *CarStore) UpsertBatch(ctx context.Context, cars []model.Car) (int, error) {
	if len(cars) == 0 {
		return 0, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "link"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "color"}),
		}).Create(&cars).Error
	})
	if err != nil {
		return 0, errors.NewStorage("upsert", "batch upsert failed", err)
	}

	s.log.Info().Int("count", len(cars)).Msg("Upserted listings")
	return len(cars), nil
}

// SearchParams are the inputs of a paginated catalog search
type SearchParams struct {
	Cursor uint
	Limit  int
	Term   string
}

// SearchResult is one page of catalog results. NextCursor is nil at the
// end of the stream.
type SearchResult struct {
	Items      []model.Car `json:"items"`
	NextCursor *uint       `json:"next_cursor"`
	Total      int64       `json:"total"`
}

// Search returns one page of listings, newest first. Pagination is
// keyset (id < cursor), so rows inserted after the first page neither
// shift nor duplicate already-returned rows. Total counts all rows
// matching the term, ignoring the cursor, at query time.
func (s *CarStore) Search(ctx context.Context, p SearchParams) (SearchResult, error) {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}

	var total int64
	if err := s.termQuery(ctx, p.Term).Count(&total).Error; err != nil {
		return SearchResult{}, errors.NewStorage("search", "count failed", err)
	}

	q := s.termQuery(ctx, p.Term)
	if p.Cursor > 0 {
		q = q.Where("id < ?", p.Cursor)
	}

	items := make([]model.Car, 0, p.Limit)
	if err := q.Order("id DESC").Limit(p.Limit).Find(&items).Error; err != nil {
		return SearchResult{}, errors.NewStorage("search", "select failed", err)
	}

	result := SearchResult{Items: items, Total: total}
	if len(items) == p.Limit {
		last := items[len(items)-1].ID
		result.NextCursor = &last
	}
	return result, nil
}

// termQuery builds a fresh query with the case-insensitive substring
// predicate over brand, model and color
func (s *CarStore) termQuery(ctx context.Context, term string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&model.Car{})
	if term == "" {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"
	return q.Where(
		"LOWER(brand) LIKE ? OR LOWER(model) LIKE ? OR LOWER(color) LIKE ?",
		pattern, pattern, pattern,
	)
}

// Filter is the already-extracted search filter handed over by the bot
type Filter struct {
	Brand    string `json:"brand,omitempty"`
	Color    string `json:"color,omitempty"`
	MaxPrice int    `json:"max_price,omitempty"`
}

// Match returns the cheapest listings satisfying the bot filter,
// capped at 5
func (s *CarStore) Match(ctx context.Context, f Filter) ([]model.Car, error) {
	q := s.db.WithContext(ctx).Model(&model.Car{})
	if f.Brand != "" {
		q = q.Where("LOWER(brand) LIKE ?", "%"+strings.ToLower(f.Brand)+"%")
	}
	if f.Color != "" {
		q = q.Where("LOWER(color) LIKE ?", "%"+strings.ToLower(f.Color)+"%")
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}

	cars := make([]model.Car, 0, matchLimit)
	if err := q.Order("price ASC").Limit(matchLimit).Find(&cars).Error; err != nil {
		return nil, errors.NewStorage("match", "select failed", err)
	}
	return cars, nil
}
