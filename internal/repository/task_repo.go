package repository

import (
	"context"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository interface {
	Create(ctx context.Context, t *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Task) error
	// BumpVersion performs the optimistic per-task write lock: it increments
	// tasks.version only when the row still carries expectedVersion, and
	// reports whether the bump won. A false result means another write
	// committed first and the caller must fail with a conflict.
	BumpVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int) (bool, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type taskRepo struct{ db *gorm.DB }

func NewTaskRepository(db *gorm.DB) TaskRepository { return &taskRepo{db: db} }

func (r *taskRepo) DB() *gorm.DB { return r.db }

func (r *taskRepo) Create(ctx context.Context, t *model.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *taskRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var t model.Task
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	return &t, err
}

func (r *taskRepo) UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Task) error {
	// version belongs to BumpVersion's conditional UPDATE; writing the loaded
	// struct's copy here would revert the bump and let stale writers through.
	return tx.WithContext(ctx).Omit("version").Save(t).Error
}

func (r *taskRepo) BumpVersion(ctx context.Context, tx *gorm.DB, id uuid.UUID, expectedVersion int) (bool, error) {
	res := tx.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Update("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
