package repository

import (
	"context"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkerRepository interface {
	Create(ctx context.Context, w *model.Worker) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Worker, error)
	List(ctx context.Context, includeInactive bool) ([]model.Worker, error)
}

type workerRepo struct{ db *gorm.DB }

func NewWorkerRepository(db *gorm.DB) WorkerRepository { return &workerRepo{db: db} }

func (r *workerRepo) Create(ctx context.Context, w *model.Worker) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *workerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Worker, error) {
	var w model.Worker
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *workerRepo) List(ctx context.Context, includeInactive bool) ([]model.Worker, error) {
	q := r.db.WithContext(ctx).Order("full_name ASC")
	if !includeInactive {
		q = q.Where("active = true")
	}
	var rows []model.Worker
	err := q.Find(&rows).Error
	return rows, err
}
