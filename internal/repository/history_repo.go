package repository

import (
	"context"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository is the append-only audit store. There are deliberately
// no update or delete operations.
type HistoryRepository interface {
	AppendChangeTx(ctx context.Context, tx *gorm.DB, rec *model.DistributionChange) error
	AppendTransitionTx(ctx context.Context, tx *gorm.DB, rec *model.AssignmentTransition) error
	ListChangesByTask(ctx context.Context, taskID uuid.UUID, page, limit int) ([]model.DistributionChange, int64, error)
	ListTransitionsByTask(ctx context.Context, taskID uuid.UUID, page, limit int) ([]model.AssignmentTransition, int64, error)
}

type historyRepo struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) HistoryRepository { return &historyRepo{db: db} }

func (r *historyRepo) AppendChangeTx(ctx context.Context, tx *gorm.DB, rec *model.DistributionChange) error {
	return tx.WithContext(ctx).Create(rec).Error
}

func (r *historyRepo) AppendTransitionTx(ctx context.Context, tx *gorm.DB, rec *model.AssignmentTransition) error {
	return tx.WithContext(ctx).Create(rec).Error
}

// ListChangesByTask returns paginated distribution saves for one task,
// ordered newest-first for audit-trail rendering.
func (r *historyRepo) ListChangesByTask(ctx context.Context, taskID uuid.UUID, page, limit int) ([]model.DistributionChange, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.DistributionChange{}).
		Where("task_id = ?", taskID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.DistributionChange
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *historyRepo) ListTransitionsByTask(ctx context.Context, taskID uuid.UUID, page, limit int) ([]model.AssignmentTransition, int64, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.AssignmentTransition{}).
		Where("task_id = ?", taskID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.AssignmentTransition
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}
