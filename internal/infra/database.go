package infra

import (
	"fmt"

	"github.com/nicofdz/JS-Master-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies the idempotent SQL patches GORM cannot express
// (partial indexes, defaults on existing columns).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. Integration tests call this
// directly against a disposable container.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Worker{},
		&model.Task{},
		&model.Assignment{},
		&model.DistributionChange{},
		&model.AssignmentTransition{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle
// on its own. Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// One active assignment per worker per task. Removed rows stay behind
		// for the audit trail, so a plain unique index would block re-assignment.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_assignments_active_worker') THEN
		    CREATE UNIQUE INDEX idx_assignments_active_worker
		        ON assignments (task_id, worker_id)
		        WHERE status <> 'removed';
		  END IF;
		END $$`,
		// History listings always filter by task and sort newest-first.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_distribution_changes_task') THEN
		    CREATE INDEX idx_distribution_changes_task
		        ON distribution_changes (task_id, created_at DESC);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_assignment_transitions_task') THEN
		    CREATE INDEX idx_assignment_transitions_task
		        ON assignment_transitions (task_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
