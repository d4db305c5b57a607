package users

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"

	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = apperr.Conflict("User already exists")
	ErrInvalidCredentials = apperr.New(apperr.KindValidation, "Invalid credentials")
	ErrPasswordTooLong    = apperr.New(apperr.KindValidation, "Password must be at most 72 bytes")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
	cost int
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r, cost: bcrypt.DefaultCost}
}

// Register creates an account with a bcrypt-hashed password and a gravatar
// avatar derived from the email.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &models.User{
		ID:       primitive.NewObjectID().Hex(),
		Name:     name,
		Email:    email,
		Password: string(hash),
		Avatar:   GravatarURL(email),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, ErrUserExists
		}
		return nil, apperr.Store(err)
	}
	return u, nil
}

// Authenticate checks email and password and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Store(err)
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// GetByID returns the user or (nil, nil) when it does not exist.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return u, nil
}

// GravatarURL returns the protocol-relative gravatar for email (200px, pg, mystery-man default).
func GravatarURL(email string) string {
	return fmt.Sprintf("//www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", md5.Sum([]byte(normalizeEmail(email))))
}
