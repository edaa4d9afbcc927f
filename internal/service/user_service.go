package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"structiv/internal/auth"
	"structiv/internal/config"
	"structiv/internal/database"
	"structiv/internal/domain"
	"structiv/internal/models"

	"github.com/rs/zerolog"
)

const (
	msgAllFieldsRequired  = "All fields are required"
	msgUserExists         = "User already exists with this email or username"
	msgInvalidCredentials = "Invalid email or password"
	msgUserNotFound       = "User not found"
)

type UserService struct {
	repo   domain.UserRepository
	hasher *auth.PasswordHasher
	tokens *auth.TokenManager
	logger *zerolog.Logger
}

// NewUserService wires account operations. tokens may be nil, in which case
// Login returns no token.
func NewUserService(repo domain.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenManager, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

type RegisterInput struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Password      string `json:"password"`
	Role          string `json:"role"`
}

func (in *RegisterInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
}

type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

// Register creates a tenant account and returns its id.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (int64, error) {
	in.Role = models.RoleTenant
	user, err := s.create(ctx, in)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
	return user.ID, nil
}

// CreateUser is the admin path; the role defaults to "user".
func (s *UserService) CreateUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !models.IsRole(in.Role) {
		return nil, invalid(fmt.Sprintf("Invalid role: %s", in.Role))
	}
	user, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user created by admin")
	return user, nil
}

func (s *UserService) create(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.normalize()
	if in.FirstName == "" || in.LastName == "" || in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, invalid(msgAllFieldsRequired)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, invalid("Invalid email address")
	}

	exists, err := s.repo.UserExists(ctx, in.Email, in.Username, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(msgUserExists)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Username:      in.Username,
		Email:         in.Email,
		ContactNumber: in.ContactNumber,
		PasswordHash:  hash,
		Role:          in.Role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflict(msgUserExists)
		}
		return nil, err
	}
	return user, nil
}

// Login checks credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, invalid("Email and password are required")
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		s.hasher.CompareDummy(password)
		return nil, unauthorized(msgInvalidCredentials)
	}
	if err != nil {
		return nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, unauthorized(msgInvalidCredentials)
		}
		return nil, err
	}

	result := &LoginResult{User: user}
	if s.tokens != nil {
		token, err := s.tokens.Issue(auth.Principal{UserID: user.ID, Role: user.Role, Email: user.Email})
		if err != nil {
			return nil, err
		}
		result.Token = token
	}
	s.logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return result, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor Actor, userID int64, current, next string) error {
	if userID <= 0 || current == "" || next == "" {
		return invalid(msgAllFieldsRequired)
	}
	if !actor.CanAccessUser(userID) {
		return forbidden("You can only change your own password")
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		return notFound(msgUserNotFound)
	}
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return unauthorized("Current password is incorrect")
		}
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

func (s *UserService) GetUser(ctx context.Context, actor Actor, id int64) (*models.User, error) {
	if !actor.CanAccessUser(id) {
		return nil, forbidden("Access denied")
	}
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgUserNotFound)
	}
	return user, err
}

// UpdateProfile applies a partial profile edit and returns the stored user.
func (s *UserService) UpdateProfile(ctx context.Context, actor Actor, id int64, patch models.ProfilePatch) (*models.User, error) {
	if !actor.CanAccessUser(id) {
		return nil, forbidden("Access denied")
	}
	if patch.Empty() {
		return nil, invalid("No fields to update")
	}

	for _, field := range []*string{patch.FirstName, patch.LastName, patch.Username, patch.Email} {
		if field == nil {
			continue
		}
		*field = strings.TrimSpace(*field)
		if *field == "" {
			return nil, invalid("Name, username and email cannot be empty")
		}
	}
	if patch.Email != nil {
		*patch.Email = strings.ToLower(*patch.Email)
		if _, err := mail.ParseAddress(*patch.Email); err != nil {
			return nil, invalid("Invalid email address")
		}
	}

	current, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound(msgUserNotFound)
	}
	if err != nil {
		return nil, err
	}

	email, username := current.Email, current.Username
	if patch.Email != nil {
		email = *patch.Email
	}
	if patch.Username != nil {
		username = *patch.Username
	}
	exists, err := s.repo.UserExists(ctx, email, username, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflict(msgUserExists)
	}

	if err := s.repo.UpdateProfile(ctx, id, patch); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, conflict(msgUserExists)
		}
		if errors.Is(err, database.ErrNotFound) {
			return nil, notFound(msgUserNotFound)
		}
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// EnsureAdmin creates the configured admin account when its email is unused.
func (s *UserService) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" {
		return nil
	}
	_, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(cfg.Email)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}
	if cfg.Password == "" {
		return fmt.Errorf("admin %s has no password configured", cfg.Email)
	}

	in := RegisterInput{
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		Username:  cfg.Username,
		Email:     cfg.Email,
		Password:  cfg.Password,
		Role:      models.RoleAdmin,
	}
	if in.FirstName == "" {
		in.FirstName = "Admin"
	}
	if in.LastName == "" {
		in.LastName = "User"
	}
	if in.Username == "" {
		in.Username = "admin"
	}

	user, err := s.create(ctx, in)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("admin account created")
	return nil
}
