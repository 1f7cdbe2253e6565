package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrWrongPassword   = errors.New("wrong password")
	ErrAccountBanned   = errors.New("your account has been banned")
)

const resetTokenTTL = 10 * time.Minute

// PasswordResetMailer sends the reset link. A nil mailer disables
// outbound mail, which is the development setup.
type PasswordResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, token string) error
}

type AuthService struct {
	repo   UserRepository
	mailer PasswordResetMailer
}

func NewAuthService(repo UserRepository, mailer PasswordResetMailer) *AuthService {
	return &AuthService{
		repo:   repo,
		mailer: mailer,
	}
}

// Register creates the account. The very first account on the system
// becomes an admin, every later one starts as a regular user.
func (s *AuthService) Register(ctx context.Context, user domain.User) (domain.User, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Count -> %w", err)
	}

	user.Role = domain.RoleUser
	if total == 0 {
		user.Role = domain.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hashed)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	if user.IsBanned {
		return domain.User{}, ErrAccountBanned
	}

	return user, nil
}

// ForgotPassword stores a hashed single-use token valid for ten minutes
// and mails the raw token to the account owner. An unknown email returns
// an empty token and no error so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	token := uuid.NewString()
	expiresAt := time.Now().Add(resetTokenTTL)

	user.PasswordToken = hashResetToken(token)
	user.PasswordTokenExpiresAt = &expiresAt

	if _, err := s.repo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("s.repo.Update -> %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, token); err != nil {
			return "", fmt.Errorf("s.mailer.SendPasswordReset -> %w", err)
		}
	}

	return token, nil
}

// ResetPassword replaces the password when the token matches and has not
// expired. A bad token or unknown email is silently ignored, matching the
// constant response of ForgotPassword.
func (s *AuthService) ResetPassword(ctx context.Context, email, token, password string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if user.PasswordToken == "" ||
		user.PasswordToken != hashResetToken(token) ||
		user.PasswordTokenExpiresAt == nil ||
		!user.PasswordTokenExpiresAt.After(time.Now()) {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user.Password = string(hashed)
	user.PasswordToken = ""
	user.PasswordTokenExpiresAt = nil

	if _, err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
