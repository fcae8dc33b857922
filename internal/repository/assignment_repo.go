package repository

import (
	"context"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, a *model.Assignment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	// ListActiveByTask returns every non-removed assignment of the task,
	// worker preloaded, in assignment-creation order.
	ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, a *model.Assignment) error
	SaveAllTx(ctx context.Context, tx *gorm.DB, assignments []model.Assignment) error
	DB() *gorm.DB
}

type assignmentRepo struct{ db *gorm.DB }

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository { return &assignmentRepo{db: db} }

func (r *assignmentRepo) DB() *gorm.DB { return r.db }

func (r *assignmentRepo) CreateTx(ctx context.Context, tx *gorm.DB, a *model.Assignment) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *assignmentRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	var a model.Assignment
	err := r.db.WithContext(ctx).Preload("Worker").First(&a, "id = ?", id).Error
	return &a, err
}

func (r *assignmentRepo) ListActiveByTask(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND status <> ?", taskID, model.AssignmentRemoved).
		Order("created_at ASC").
		Preload("Worker").
		Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Assignment, error) {
	var rows []model.Assignment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Preload("Worker").
		Find(&rows).Error
	return rows, err
}

func (r *assignmentRepo) UpdateTx(ctx context.Context, tx *gorm.DB, a *model.Assignment) error {
	// Rows come from FindByID with Worker preloaded; never write that back.
	return tx.WithContext(ctx).Omit("Worker").Save(a).Error
}

func (r *assignmentRepo) SaveAllTx(ctx context.Context, tx *gorm.DB, assignments []model.Assignment) error {
	for i := range assignments {
		// Save row by row — the slice carries preloaded Worker structs that
		// a batch upsert would try to write back.
		if err := tx.WithContext(ctx).Omit("Worker").Save(&assignments[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
