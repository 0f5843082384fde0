package tasks

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserFinder is the slice of the users store the provider needs
type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// UserProvider resolves identities against the users store
type UserProvider struct {
	store  UserFinder
	logger Logger
}

// NewUserProvider will create a new UserProvider
func NewUserProvider(store UserFinder) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown emails and wrong passwords both come back as
// ErrInvalidCredentials so the caller cannot tell them apart.
func (u UserProvider) VerifyIdentity(ctx context.Context, email, password string) (Identity, error) {
	user, err := u.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to compare password hash")
	}

	return userIdentity{
		id:       user.ID,
		email:    user.Email,
		username: user.Username,
	}, nil
}

// FindIdentityByID resolves an already authenticated user id
func (u UserProvider) FindIdentityByID(ctx context.Context, id int64) (Identity, error) {
	user, err := u.store.GetByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return userIdentity{
		id:       user.ID,
		email:    user.Email,
		username: user.Username,
	}, nil
}

type userIdentity struct {
	id       int64
	username string
	email    string
}

func (a userIdentity) ID() int64 {
	return a.id
}

func (a userIdentity) Username() string {
	return a.username
}

func (a userIdentity) Email() string {
	return a.email
}

var _ Identity = userIdentity{}
