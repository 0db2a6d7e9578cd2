package repo

import (
	"account-service/backend/app/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// UserRepository is the credential store. Uniqueness of username and email is
// enforced by the unique indexes on models.User, not by prior reads.
type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ? OR email = ?", username, email).First(&u).Error
	return r.one(&u, err)
}

func (r *UserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ? AND email = ?", username, email).First(&u).Error
	return r.one(&u, err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	return r.one(&u, err)
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, translate("insert", err)
	}
	return u, nil
}

// Save persists every column of an existing record.
func (r *UserRepository) Save(ctx context.Context, u *models.User) (*models.User, error) {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return nil, translate("save", err)
	}
	return u, nil
}

func (r *UserRepository) one(u *models.User, err error) (*models.User, error) {
	if err != nil {
		return nil, translate("find", err)
	}
	return u, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return fmt.Errorf("%s user: %w: %v", op, ErrStoreUnavailable, err)
	}
}
