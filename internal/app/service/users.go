package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/atinyakov/vh7/internal/storage"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores the rest
	maxNameLength     = 255
	maxEmailLength    = 255
)

// Notifier sends account emails.
type Notifier interface {
	SendConfirmation(ctx context.Context, to, name, token string) error
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

// RegisterInput is a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// UpdateInput holds the profile fields to change. Nil fields are kept.
type UpdateInput struct {
	Name  *string
	Email *string
}

// UserService manages accounts and authenticates requests.
type UserService struct {
	storage  storage.Storage
	auth     *Auth
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(store storage.Storage, auth *Auth, notifier Notifier, logger *zap.Logger) *UserService {
	return &UserService{
		storage:  store,
		auth:     auth,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates an active, unconfirmed user and sends the confirmation
// email.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*storage.User, error) {
	email, emailErr := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	var problems []string
	if emailErr != nil {
		problems = append(problems, Messages(emailErr)...)
	}
	if err := validatePassword(in.Password); err != nil {
		problems = append(problems, Messages(err)...)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		problems = append(problems, "Name must not be longer than 255 characters")
	}
	if len(problems) > 0 {
		return nil, invalidInput(problems...)
	}

	hash, err := s.auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.storage.CreateUser(ctx, &storage.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Active:       true,
	})
	if errors.Is(err, storage.ErrEmailTaken) {
		return nil, invalidInput("A user with this email address already exists")
	}
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, user)

	return user, nil
}

// Login checks the credentials and returns an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.storage.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return "", unauthorized("Incorrect email or password")
	}
	if err != nil {
		return "", err
	}

	if !s.auth.CheckPassword(user.PasswordHash, password) || !user.Active {
		return "", unauthorized("Incorrect email or password")
	}

	return s.auth.BuildJWTString(user.ID)
}

// Authenticate resolves a bearer credential, either an API key or an access
// token, to an active user.
func (s *UserService) Authenticate(ctx context.Context, credential string) (*storage.User, error) {
	var (
		user *storage.User
		err  error
	)

	if IsAPIKey(credential) {
		user, err = s.storage.FindUserByAPIKey(ctx, credential)
	} else {
		claims, parseErr := s.auth.ParseRawJWT(credential)
		if parseErr != nil {
			return nil, unauthorized("Could not validate credentials")
		}
		user, err = s.storage.FindUserByID(ctx, claims.UserID)
	}

	if errors.Is(err, storage.ErrNotFound) {
		return nil, unauthorized("Could not validate credentials")
	}
	if err != nil {
		return nil, err
	}

	if !user.Active {
		return nil, unauthorized("User account is disabled")
	}

	return user, nil
}

// Update changes the profile. A new email address must be confirmed again.
func (s *UserService) Update(ctx context.Context, user *storage.User, in UpdateInput) (*storage.User, error) {
	updated := *user
	emailChanged := false

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(name) > maxNameLength {
			return nil, invalidInput("Name must not be longer than 255 characters")
		}
		if name != "" {
			updated.Name = name
		}
	}

	if in.Email != nil && strings.TrimSpace(*in.Email) != "" {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != updated.Email {
			updated.Email = email
			updated.Confirmed = false
			updated.ConfirmedAt = nil
			emailChanged = true
		}
	}

	err := s.storage.UpdateUser(ctx, &updated)
	if errors.Is(err, storage.ErrEmailTaken) {
		return nil, invalidInput("A user with this email address already exists")
	}
	if err != nil {
		return nil, err
	}

	if emailChanged {
		s.sendConfirmation(ctx, &updated)
	}

	return &updated, nil
}

// Confirm marks the email address the token was issued for as confirmed.
func (s *UserService) Confirm(ctx context.Context, token string) (*storage.User, error) {
	claims, err := s.auth.ParseEmailToken(token, PurposeConfirm)
	if err != nil {
		return nil, invalidInput("The confirmation link is invalid or has expired")
	}

	user, err := s.storage.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, invalidInput("The confirmation link is invalid or has expired")
	}
	if err != nil {
		return nil, err
	}

	if user.Email != claims.Email {
		return nil, invalidInput("The confirmation link is invalid or has expired")
	}
	if user.Confirmed {
		return user, nil
	}

	now := s.now()
	user.Confirmed = true
	user.ConfirmedAt = &now

	if err := s.storage.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPassword sends a reset email when the address is registered. It never
// reveals whether it is.
func (s *UserService) ForgotPassword(ctx context.Context, email string) {
	user, err := s.storage.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("failed to look up user for password reset", zap.Error(err))
		}
		return
	}

	token, err := s.auth.BuildEmailToken(PurposeReset, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to build reset token", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Error("failed to send password reset email", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

// ResetPassword sets a new password using a reset token.
func (s *UserService) ResetPassword(ctx context.Context, token, password string) error {
	claims, err := s.auth.ParseEmailToken(token, PurposeReset)
	if err != nil {
		return invalidInput("The password reset link is invalid or has expired")
	}

	if err := validatePassword(password); err != nil {
		return err
	}

	user, err := s.storage.FindUserByID(ctx, claims.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		return invalidInput("The password reset link is invalid or has expired")
	}
	if err != nil {
		return err
	}

	hash, err := s.auth.HashPassword(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	return s.storage.UpdateUser(ctx, user)
}

// GenerateAPIKey replaces the user's API key with a new one.
func (s *UserService) GenerateAPIKey(ctx context.Context, user *storage.User) (string, error) {
	key, err := s.auth.GenerateAPIKey()
	if err != nil {
		return "", err
	}

	updated := *user
	updated.APIKey = key

	if err := s.storage.UpdateUser(ctx, &updated); err != nil {
		return "", err
	}

	return key, nil
}

func (s *UserService) sendConfirmation(ctx context.Context, user *storage.User) {
	token, err := s.auth.BuildEmailToken(PurposeConfirm, user.ID, user.Email)
	if err != nil {
		s.logger.Error("failed to build confirmation token", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}

	if err := s.notifier.SendConfirmation(ctx, user.Email, user.Name, token); err != nil {
		s.logger.Error("failed to send confirmation email", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}

func normalizeEmail(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidInput("Email address must not be empty")
	}
	if len(raw) > maxEmailLength {
		return "", invalidInput("Email address must not be longer than 255 characters")
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Address != raw {
		return "", invalidInput("Email address is not valid")
	}

	return strings.ToLower(addr.Address), nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return invalidInput("Password must be at least 8 characters long")
	}
	if len(password) > maxPasswordLength {
		return invalidInput("Password must not be longer than 72 bytes")
	}
	return nil
}
