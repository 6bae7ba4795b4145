package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"movieclub/internal/domain"
	"movieclub/internal/security"
)

// UserService provides profile and admin user management operations.
type UserService struct {
	users    domain.UserRepository
	hash     *security.PasswordHasher
	validate *validator.Validate
	log      zerolog.Logger
}

func NewUserService(users domain.UserRepository, hash *security.PasswordHasher, validate *validator.Validate, log zerolog.Logger) *UserService {
	return &UserService{users: users, hash: hash, validate: validate, log: log}
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) ListActive(ctx context.Context, offset, limit int) ([]*domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.ListActive(ctx, offset, limit)
}

type UpdateProfileInput struct {
	Email    *string `validate:"omitempty,email"`
	Bio      *string `validate:"omitempty,max=500"`
	Password *string `validate:"omitempty,min=8,max=72"`
}

// UpdateProfile lets a user change their own email, bio or password.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, invalid(err.Error())
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if in.Email != nil {
		if *in.Email != "" {
			if existing, err := s.users.GetByEmail(ctx, *in.Email); err == nil && existing.ID != userID {
				return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("check email: %w", err)
			}
		}
		user.Email = in.Email
	}
	if in.Bio != nil {
		user.Bio = in.Bio
	}
	if in.Password != nil {
		hashed, err := s.hash.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes a user's role. Admin only; enforced at the route layer and
// double-checked here.
func (s *UserService) SetRole(ctx context.Context, requester *domain.User, userID int64, role domain.Role) error {
	if !requester.Role.AtLeast(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if !role.Valid() {
		return invalid("unknown role")
	}
	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Str("role", string(role)).Int64("admin_id", requester.ID).Msg("role changed")
	return nil
}

// SetActive activates or deactivates an account. Admin only.
func (s *UserService) SetActive(ctx context.Context, requester *domain.User, userID int64, active bool) error {
	if !requester.Role.AtLeast(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	return s.users.SetActive(ctx, userID, active)
}

// Delete removes a user and all their owned rows. Admins can delete anyone;
// users can delete their own account.
func (s *UserService) Delete(ctx context.Context, requester *domain.User, userID int64) error {
	if requester.ID != userID && !requester.Role.AtLeast(domain.RoleAdmin) {
		return domain.ErrForbidden
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", userID).Int64("requester_id", requester.ID).Msg("user deleted")
	return nil
}
