package services

import (
	"context"

	"rentguy/internal/models"
	"rentguy/internal/repositories"

	"github.com/google/uuid"
)

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, in SignupInput) (*models.User, error)
}

// UpdateProfileInput carries the self-service profile fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Password  *string
}

type userService struct {
	users repositories.UserRepository
	auth  AuthService
}

func NewUserService(users repositories.UserRepository, auth AuthService) UserService {
	return &userService{users: users, auth: auth}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != nil {
		user.FirstName = in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.Phone != nil {
		user.PhoneNumber = in.Phone
	}

	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, validationErr("password must be at least 8 characters")
		}
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.users.List(ctx, limit, offset)
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Create is the admin path; it may set any role and the superuser flag.
func (s *userService) Create(ctx context.Context, in SignupInput) (*models.User, error) {
	return s.auth.Signup(ctx, in)
}
