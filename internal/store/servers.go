package store

import (
	"context"
	"errors"
	"fmt"

	"guild-dashboard/internal/model"

	"gorm.io/gorm"
)

func (s *Store) GetServer(ctx context.Context, serverID string) (*model.Server, error) {
	var server model.Server
	err := s.conn(ctx).Where("server_id = ?", serverID).First(&server).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch server %s: %w", serverID, err)
	}
	return &server, nil
}

// CreateServer inserts a new server row, failing with ErrServerExists when
// the ID is taken.
func (s *Store) CreateServer(ctx context.Context, serverID, name string) (*model.Server, error) {
	server := model.Server{ServerID: serverID, ServerName: name}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := requireServer(tx, serverID)
		if err == nil {
			return ErrServerExists
		}
		if !errors.Is(err, ErrServerNotFound) {
			return err
		}
		return tx.Create(&server).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrServerExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create server %s: %w", serverID, err)
	}
	return &server, nil
}

// EnsureServer returns the stored server, creating it with name if absent.
// An existing row keeps its stored name.
func (s *Store) EnsureServer(ctx context.Context, serverID, name string) (*model.Server, error) {
	var server model.Server
	err := s.conn(ctx).
		Where(model.Server{ServerID: serverID}).
		Attrs(model.Server{ServerName: name}).
		FirstOrCreate(&server).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure server %s: %w", serverID, err)
	}
	return &server, nil
}

// DeleteServer removes the server; the database cascades to every config row.
func (s *Store) DeleteServer(ctx context.Context, serverID string) error {
	result := s.conn(ctx).Where("server_id = ?", serverID).Delete(&model.Server{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete server %s: %w", serverID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
