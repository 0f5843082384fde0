package tasks

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Tasks is the owned-resource store. Every read and write that targets a
// single task is scoped by (id, owner); a row that exists but belongs to
// somebody else is indistinguishable from a row that does not exist.
type Tasks interface {
	Create(ctx context.Context, record *Task) (*Task, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Task) (*Task, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]*Task, error)
	GetByID(ctx context.Context, id int64) (*Task, error)
	GetOwned(ctx context.Context, id, ownerID int64) (*Task, error)
	UpdateOwned(ctx context.Context, record *Task) (*Task, error)
	DeleteOwned(ctx context.Context, id, ownerID int64) error
}

type tasksRepo struct {
	db *bun.DB
}

var _ Tasks = (*tasksRepo)(nil)

func NewTasksRepository(db *bun.DB) Tasks {
	return &tasksRepo{db: db}
}

func (r *tasksRepo) Create(ctx context.Context, record *Task) (*Task, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *tasksRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Task) (*Task, error) {
	if record == nil {
		return nil, errors.New("task record is required", errors.CategoryValidation)
	}

	if record.Title == "" {
		return nil, errors.New("title is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	if record.UserID == 0 {
		return nil, errors.New("task owner is required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create task")
	}

	return record, nil
}

func (r *tasksRepo) FindByOwner(ctx context.Context, ownerID int64) ([]*Task, error) {
	records := []*Task{}
	err := r.db.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", ownerID).
		Order("id ASC").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*Task{}, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list tasks")
	}

	return records, nil
}

// GetByID is the unscoped lookup used by handlers that run the ownership
// gate themselves. It reports the same ErrTaskNotFound as the scoped
// variants.
func (r *tasksRepo) GetByID(ctx context.Context, id int64) (*Task, error) {
	record := &Task{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query task")
	}

	return record, nil
}

func (r *tasksRepo) GetOwned(ctx context.Context, id, ownerID int64) (*Task, error) {
	record := &Task{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ? AND ?TableAlias.user_id = ?", id, ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query task")
	}

	return record, nil
}

// UpdateOwned persists title/description/completed changes for a task the
// record's UserID owns. The owner column is never part of the SET list.
func (r *tasksRepo) UpdateOwned(ctx context.Context, record *Task) (*Task, error) {
	if record == nil {
		return nil, errors.New("task record is required", errors.CategoryValidation)
	}

	now := time.Now()
	record.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(record).
		Column("title", "description", "completed", "updated_at").
		Where("?TableAlias.id = ? AND ?TableAlias.user_id = ?", record.ID, record.UserID).
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update task")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrTaskNotFound
	}

	return record, nil
}

func (r *tasksRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ? AND ?TableAlias.user_id = ?", id, ownerID).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete task")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
