package services

import (
	"account-service/backend/app/models"
	"account-service/backend/app/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const DefaultJobRole = "unspecified"

var (
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")

	// Login keeps distinct causes for an unknown account and a bad password.
	ErrUnknownAccount = fmt.Errorf("%w: invalid username or email", ErrInvalidCredentials)
	ErrWrongPassword  = fmt.Errorf("%w: invalid password", ErrInvalidCredentials)
)

// ValidationError names the first field that failed validation and the rule it broke.
type ValidationError struct {
	Field string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s failed on %s", ErrValidation, e.Field, e.Rule)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

type UserStore interface {
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (*models.User, error)
	Save(ctx context.Context, u *models.User) (*models.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type TokenIssuer interface {
	Issue(username, email string) (string, error)
}

// IdentityEvictor drops a cached identity after its username or email changes.
type IdentityEvictor interface {
	Delete(ctx context.Context, username, email string)
}

type Credentials struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Email    string `validate:"required"`
}

type SignupInput struct {
	Credentials
	JobRole string
}

// ProfileUpdate carries the optional fields of a profile update. Nil or empty
// values leave the stored field unchanged.
type ProfileUpdate struct {
	Username *string
	Email    *string
}

type AuthResult struct {
	User  *models.User
	Token string
}

type AccountService struct {
	users    UserStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	evictor  IdentityEvictor
	validate *validator.Validate
}

func NewAccountService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, evictor IdentityEvictor) *AccountService {
	return &AccountService{users: users, hasher: hasher, tokens: tokens, evictor: evictor, validate: validator.New()}
}

func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.check(in.Credentials); err != nil {
		return nil, err
	}
	if err := s.validate.Var(in.Username, "max=50"); err != nil {
		return nil, &ValidationError{Field: "Username", Rule: "max"}
	}
	_, err := s.users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	switch {
	case err == nil:
		return nil, ErrConflict
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	jobRole := strings.TrimSpace(in.JobRole)
	if jobRole == "" {
		jobRole = DefaultJobRole
	}
	u, err := s.users.Insert(ctx, &models.User{Username: in.Username, Email: in.Email, PasswordHash: hash, JobRole: jobRole})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.authenticated(u)
}

// Login requires username and email to belong to the same account. Only
// presence is validated; any other mismatch is an invalid credential.
func (s *AccountService) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.check(in); err != nil {
		return nil, err
	}
	u, err := s.users.FindByUsernameAndEmail(ctx, in.Username, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !s.hasher.Verify(in.Password, u.PasswordHash) {
		return nil, ErrWrongPassword
	}
	return s.authenticated(u)
}

// GetProfile returns the identity resolved by the auth gate.
func (s *AccountService) GetProfile(_ context.Context, identity *models.User) (*models.User, error) {
	if identity == nil {
		return nil, ErrNotFound
	}
	return identity, nil
}

// UpdateProfile applies a partial update to the record with the given id.
// Uniqueness is left to the store; a collision is reported as ErrConflict.
func (s *AccountService) UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	oldUsername, oldEmail := u.Username, u.Email

	if upd.Username != nil {
		if name := strings.TrimSpace(*upd.Username); name != "" {
			if err := s.validate.Var(name, "max=50"); err != nil {
				return nil, &ValidationError{Field: "Username", Rule: "max"}
			}
			u.Username = name
		}
	}
	if upd.Email != nil && *upd.Email != "" {
		u.Email = *upd.Email
	}

	saved, err := s.users.Save(ctx, u)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateKey):
			return nil, ErrConflict
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("save user: %w", err)
	}
	if s.evictor != nil {
		s.evictor.Delete(ctx, oldUsername, oldEmail)
	}
	return saved, nil
}

func (s *AccountService) authenticated(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.Username, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *AccountService) check(c Credentials) error {
	err := s.validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return &ValidationError{Field: verrs[0].Field(), Rule: verrs[0].Tag()}
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}
