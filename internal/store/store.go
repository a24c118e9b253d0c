package store

import (
	"context"
	"errors"
	"fmt"

	"guild-dashboard/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrServerNotFound means a write referenced a server that was never created.
	ErrServerNotFound = errors.New("server not found")
	ErrServerExists   = errors.New("server already exists")
)

// Store wraps the pool shared by every request. It holds no other state.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// requireServer fails with ErrServerNotFound unless serverID has a row.
func requireServer(tx *gorm.DB, serverID string) error {
	var count int64
	if err := tx.Model(&model.Server{}).Where("server_id = ?", serverID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up server %s: %w", serverID, err)
	}
	if count == 0 {
		return ErrServerNotFound
	}
	return nil
}

// firstByServer loads the single config row of type T for serverID.
func firstByServer[T any](ctx context.Context, db *gorm.DB, serverID string) (*T, error) {
	var row T
	err := db.WithContext(ctx).Where("server_id = ?", serverID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %T for server %s: %w", row, serverID, err)
	}
	return &row, nil
}

// upsertByServer writes attrs onto the config row for serverID, inserting it
// when absent. The server must exist.
func upsertByServer[T any](ctx context.Context, db *gorm.DB, serverID string, where T, attrs any) error {
	var row T
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireServer(tx, serverID); err != nil {
			return err
		}
		return tx.Where(where).Assign(attrs).FirstOrCreate(&row).Error
	})
}

func deleteByServer[T any](ctx context.Context, db *gorm.DB, serverID string) error {
	var row T
	return db.WithContext(ctx).Where("server_id = ?", serverID).Delete(&row).Error
}

type tabler interface {
	TableName() string
}

// CountRows returns the row count of every table, keyed by table name.
func (s *Store) CountRows(ctx context.Context) (map[string]int64, error) {
	models := model.All()
	counts := make(map[string]int64, len(models))
	for _, m := range models {
		table := m.(tabler).TableName()
		var n int64
		if err := s.conn(ctx).Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
