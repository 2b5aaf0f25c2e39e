package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"geocatch/internal/model"
	"geocatch/internal/pkg/jwtutil"
	"geocatch/internal/repository"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByLogin(ctx context.Context, username, email string) ([]model.User, error)
	GetByID(ctx context.Context, id uint) (*model.User, error)
	UpdateCredentials(ctx context.Context, id uint, email, password string) error
}

// AccountService owns user records and issues session tokens.
type AccountService struct {
	users         UserStore
	jwtSecret     string
	jwtExpiration time.Duration
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginInput struct {
	Login    string
	Password string
}

type UpdateProfileInput struct {
	ActorID  uint
	UserID   uint
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  *model.User
}

func NewAccountService(users UserStore, jwtSecret string, jwtExpiration time.Duration) *AccountService {
	return &AccountService{
		users:         users,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := normalizeEmail(input.Email)
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidInput
	}

	existingByName, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existingByName != nil {
		return nil, ErrUsernameExists
	}

	existingByEmail, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existingByEmail != nil {
		return nil, ErrEmailExists
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: input.Password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			return nil, s.conflictFor(ctx, username)
		}
		return nil, err
	}
	return user, nil
}

// VerifyCredentials accepts either the username or the email as login. A
// login can name one user by username and another by email; the user whose
// password matches wins. An unknown login and a wrong password both yield
// ErrInvalidCredential.
func (s *AccountService) VerifyCredentials(ctx context.Context, login, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredential
	}

	candidates, err := s.users.ListByLogin(ctx, login, normalizeEmail(login))
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Password == password {
			return &candidates[i], nil
		}
	}
	return nil, ErrInvalidCredential
}

func (s *AccountService) Authenticate(ctx context.Context, input LoginInput) (*AuthResult, error) {
	user, err := s.VerifyCredentials(ctx, input.Login, input.Password)
	if err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, user.ID, user.Username)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

// UpdateProfile overwrites email and password. Only the account holder may do
// so; any other caller sees ErrUserNotFound.
func (s *AccountService) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	email := normalizeEmail(input.Email)
	if input.UserID == 0 || email == "" || input.Password == "" {
		return ErrInvalidInput
	}
	if input.ActorID != input.UserID {
		return ErrUserNotFound
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if email != user.Email {
		other, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != user.ID {
			return ErrEmailExists
		}
	}

	if err := s.users.UpdateCredentials(ctx, user.ID, email, input.Password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (s *AccountService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *AccountService) conflictFor(ctx context.Context, username string) error {
	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameExists
	}
	return ErrEmailExists
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
