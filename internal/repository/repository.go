package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bansos-dispatch/internal/auditlog"
	"bansos-dispatch/internal/model"
)

var _ auditlog.Finder = (*ForwardLogRepository)(nil)

// ForwardLogRepository persists the forwarding audit trail
type ForwardLogRepository struct {
	db *gorm.DB
}

// New creates a new forwarding log repository
func New(db *gorm.DB) *ForwardLogRepository {
	return &ForwardLogRepository{db: db}
}

// Append stores entry and trims the table to the newest keep rows
func (r *ForwardLogRepository) Append(ctx context.Context, entry model.ForwardingLogEntry, keep int) error {
	row := model.NewForwardLog(entry)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert forwarding log: %w", err)
		}
		if keep <= 0 {
			return nil
		}
		return trim(tx, keep)
	})
}

func trim(tx *gorm.DB, keep int) error {
	var cutoff []uint
	result := tx.Model(&model.ForwardLog{}).
		Order("id DESC").
		Offset(keep).
		Limit(1).
		Pluck("id", &cutoff)
	if result.Error != nil {
		return fmt.Errorf("failed to find trim cutoff: %w", result.Error)
	}
	if len(cutoff) == 0 {
		return nil
	}

	var stale []uint
	if err := tx.Model(&model.ForwardLog{}).Where("id <= ?", cutoff[0]).Pluck("id", &stale).Error; err != nil {
		return fmt.Errorf("failed to list stale forwarding logs: %w", err)
	}
	if err := tx.Where("forward_log_id IN ?", stale).Delete(&model.DispatchLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale dispatch logs: %w", err)
	}
	if err := tx.Where("id IN ?", stale).Delete(&model.ForwardLog{}).Error; err != nil {
		return fmt.Errorf("failed to delete stale forwarding logs: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first
func (r *ForwardLogRepository) Recent(ctx context.Context, limit int) ([]model.ForwardingLogEntry, error) {
	var rows []model.ForwardLog
	result := r.db.WithContext(ctx).
		Preload("Dispatches", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("id DESC").
		Limit(limit).
		Find(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get forwarding logs: %w", result.Error)
	}

	entries := make([]model.ForwardingLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.Entry())
	}
	return entries, nil
}

// Get fetches one entry by its audit ID
func (r *ForwardLogRepository) Get(ctx context.Context, entryID string) (*model.ForwardingLogEntry, error) {
	var row model.ForwardLog
	result := r.db.WithContext(ctx).
		Preload("Dispatches", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("entry_id = ?", entryID).
		First(&row)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("database error: %w", result.Error)
	}
	entry := row.Entry()
	return &entry, nil
}
