package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"institutebackend/internal/domain"
)

type userService struct {
	userRepo domain.UserRepository
	hasher   domain.PasswordHasher
	now      func() time.Time
}

// NewUserService creates a UserService for the authenticated user's own profile.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher) domain.UserService {
	return &userService{
		userRepo: userRepo,
		hasher:   hasher,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateProfile applies the non-nil fields. Nil fields keep their stored value.
func (s *userService) UpdateProfile(ctx context.Context, id int64, name, email *string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, domain.NewValidationError("Name cannot be empty")
		}
		user.Name = n
	}
	if email != nil {
		e := strings.TrimSpace(strings.ToLower(*email))
		if !emailRegexp.MatchString(e) {
			return nil, domain.NewValidationError("invalid email format")
		}
		user.Email = e
	}
	user.UpdatedAt = s.now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return domain.NewValidationError(fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, currentPassword); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, id, hash, salt, s.now())
}
