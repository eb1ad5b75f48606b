package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dom/tutorial-blog/internal/auth"
	"github.com/dom/tutorial-blog/internal/domain"
	"github.com/dom/tutorial-blog/internal/repository"
	"github.com/google/uuid"
)

// Messages shown next to rejected sign-up and login fields.
const (
	MsgInvalidUsername  = "That's not a valid username."
	MsgUsernameTaken    = "This user name is taken."
	MsgInvalidPassword  = "That wasn't a valid password."
	MsgPasswordMismatch = "Your passwords didn't match."
	MsgInvalidEmail     = "That's not a valid email."
	MsgInvalidLogin     = "Invalid login."
)

// AuthService is the identity store adapter: it owns lookups, registration
// and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   *auth.PasswordHasher
	log      *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, hasher *auth.PasswordHasher, log *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		log:      log.With("component", "service.auth"),
	}
}

type RegisterInput struct {
	Username string
	Password string
	Verify   string
	Email    string
}

// Validate checks the sign-up form, collecting one message per field.
func (in RegisterInput) Validate() *domain.ValidationError {
	vErr := domain.NewValidationError()

	if !domain.ValidUsername(in.Username) {
		vErr.Add(domain.FieldUsername, MsgInvalidUsername)
	}

	if !domain.ValidPassword(in.Password) {
		vErr.Add(domain.FieldPassword, MsgInvalidPassword)
	} else if in.Password != in.Verify {
		vErr.Add(domain.FieldVerify, MsgPasswordMismatch)
	}

	if !domain.ValidEmail(in.Email) {
		vErr.Add(domain.FieldEmail, MsgInvalidEmail)
	}

	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

// FindByID returns domain.ErrNotFound when the id is unknown.
func (s *AuthService) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// FindByUsername is a case-sensitive exact lookup.
func (s *AuthService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// Register validates the input, hashes the password and stores a new user.
// A taken username is reported alongside the other field errors. The unique
// username index is the authoritative check; the lookup before the insert
// only produces a friendlier error on the common path.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	vErr := input.Validate()

	if domain.ValidUsername(input.Username) {
		_, err := s.userRepo.GetByUsername(ctx, input.Username)
		switch {
		case err == nil:
			return nil, usernameTaken(vErr)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("lookup username: %w", err)
		}
	}

	if vErr != nil {
		return nil, vErr
	}

	hash, err := s.hasher.Hash(input.Username, input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Email != "" {
		email := input.Email
		user.Email = &email
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			s.log.WarnContext(ctx, "username claimed concurrently", "username", input.Username)
			return nil, usernameTaken(nil)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Authenticate returns the user only when the password verifies. Unknown
// usernames and wrong passwords both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	if !s.hasher.Verify(username, password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return user, nil
}

// usernameTaken adds the taken message to vErr and returns an error that is
// both a field error for the form and ErrUsernameTaken for callers that only
// check errors.Is.
func usernameTaken(vErr *domain.ValidationError) error {
	if vErr == nil {
		vErr = domain.NewValidationError()
	}
	vErr.Add(domain.FieldUsername, MsgUsernameTaken)
	return errors.Join(domain.ErrUsernameTaken, vErr)
}
