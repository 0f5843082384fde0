package tasks

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the credential store. Identity records are immutable once
// created; there is no update or delete path.
type Users interface {
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

// CreateTx inserts a new user. The existence check and the insert run
// against the same tx, and the unique index on email backs the check, so
// the loser of a same-email race still gets ErrDuplicateEmail.
func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	if err := validateNewUser(record); err != nil {
		return nil, err
	}

	exists, err := tx.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.email = ?", record.Email).
		Exists(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check email uniqueness")
	}

	if exists {
		return nil, ErrDuplicateEmail
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsDuplicateEmailError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return record, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userNotFound("email", email)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by email")
	}

	return record, nil
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userNotFound("id", id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by id")
	}

	return record, nil
}

func validateNewUser(record *User) error {
	if record == nil {
		return errors.New("user record is required", errors.CategoryValidation)
	}

	if record.Username == "" || record.Email == "" || record.PasswordHash == "" {
		return errors.New("username, email and password hash are required", errors.CategoryValidation).
			WithCode(errors.CodeBadRequest)
	}

	return nil
}

func userNotFound(field string, value any) error {
	return errors.New("user not found", errors.CategoryNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{field: value})
}
