package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"

	"course-catalog/internal/logger"
	"course-catalog/internal/mappers"
	"course-catalog/internal/store"
)

// ItemRow is the single table behind the store, keyed (pk, sk). The full
// item is kept as JSON; a few fields are lifted into columns for lookups.
type ItemRow struct {
	PK        string         `gorm:"column:pk;primaryKey;size:191"`
	SK        string         `gorm:"column:sk;primaryKey;size:191"`
	ItemID    string         `gorm:"column:item_id;size:191"`
	Type      string         `gorm:"column:type;size:16;index:idx_catalog_items_type_title"`
	Title     string         `gorm:"column:title;size:512;index:idx_catalog_items_type_title"`
	Data      datatypes.JSON `gorm:"column:data"`
	CreatedAt string         `gorm:"column:created_at;size:32"`
	UpdatedAt string         `gorm:"column:updated_at;size:32"`
}

func (ItemRow) TableName() string { return "catalog_items" }

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects with dialect "sqlite" or "postgres" and migrates the table.
func Open(dialect, dsn string, log *logger.Logger) (*Store, error) {
	var dial gorm.Dialector
	switch strings.ToLower(dialect) {
	case "sqlite":
		dial = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dial = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("gormstore: unsupported dialect %q", dialect)
	}

	db, err := gorm.Open(dial, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: connect %s: %w", dialect, err)
	}
	return New(db, log)
}

// New wraps an existing connection.
func New(db *gorm.DB, log *logger.Logger) (*Store, error) {
	if err := db.AutoMigrate(&ItemRow{}); err != nil {
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}
	return &Store{db: db, log: logger.OrNop(log).With("store", "gorm")}, nil
}

func toRow(it mappers.Item) (ItemRow, error) {
	data, err := json.Marshal(it)
	if err != nil {
		return ItemRow{}, err
	}
	return ItemRow{
		PK:        it.PartitionKey,
		SK:        it.SortKey,
		ItemID:    it.ID,
		Type:      string(it.Type),
		Title:     it.Title,
		Data:      datatypes.JSON(data),
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}, nil
}

func (r ItemRow) item() (mappers.Item, error) {
	var it mappers.Item
	if err := json.Unmarshal(r.Data, &it); err != nil {
		return mappers.Item{}, fmt.Errorf("gormstore: decode %s|%s: %w", r.PK, r.SK, err)
	}
	return it, nil
}

var upsert = clause.OnConflict{
	Columns:   []clause.Column{{Name: "pk"}, {Name: "sk"}},
	UpdateAll: true,
}

// BatchPut writes the batch in one statement. If that fails it retries item
// by item and returns the ones that still fail as unprocessed.
func (s *Store) BatchPut(ctx context.Context, items []mappers.Item) ([]mappers.Item, error) {
	if err := store.CheckBatch(items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	rows := make([]ItemRow, 0, len(items))
	for _, it := range items {
		row, err := toRow(it)
		if err != nil {
			return nil, fmt.Errorf("gormstore: encode %s: %w", it.Key(), err)
		}
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).Clauses(upsert).Create(&rows).Error
	if err == nil {
		return nil, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.log.Debug("batch insert failed, writing items one by one", "error", err, "items", len(rows))

	var unprocessed []mappers.Item
	for i := range rows {
		if err := s.db.WithContext(ctx).Clauses(upsert).Create(&rows[i]).Error; err != nil {
			s.log.Debug("item write failed", "key", items[i].Key(), "error", err)
			unprocessed = append(unprocessed, items[i])
		}
	}
	return unprocessed, nil
}

func (s *Store) FindCourse(ctx context.Context, title string) (mappers.Item, bool, error) {
	var row ItemRow
	err := s.db.WithContext(ctx).
		Where("type = ? AND title = ?", string(mappers.TypeCourse), title).
		Order("created_at ASC").Order("pk ASC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return mappers.Item{}, false, nil
	}
	if err != nil {
		return mappers.Item{}, false, fmt.Errorf("gormstore: find course %q: %w", title, err)
	}
	it, err := row.item()
	if err != nil {
		return mappers.Item{}, false, err
	}
	return it, true, nil
}

func (s *Store) Prune(ctx context.Context, pk string, keep []string) error {
	q := s.db.WithContext(ctx).Where("pk = ?", pk)
	if len(keep) > 0 {
		q = q.Where("sk NOT IN ?", keep)
	}
	if err := q.Delete(&ItemRow{}).Error; err != nil {
		return fmt.Errorf("gormstore: prune %s: %w", pk, err)
	}
	return nil
}

// Partition returns the items under pk ordered by sort key.
func (s *Store) Partition(ctx context.Context, pk string) ([]mappers.Item, error) {
	var rows []ItemRow
	if err := s.db.WithContext(ctx).Where("pk = ?", pk).Order("sk ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("gormstore: query %s: %w", pk, err)
	}
	out := make([]mappers.Item, 0, len(rows))
	for _, r := range rows {
		it, err := r.item()
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
