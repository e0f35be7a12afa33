package services

import (
	"errors"
	"fmt"

	"gorm.io/datatypes"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/identity"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user profile already exists")
)

type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Signup creates a profile for a freshly verified identity. The user
// identifier and email always come from the token claims.
func (s *UserService) Signup(claims *identity.Claims, req *dto.SignupRequest) (*models.User, error) {
	if _, err := s.users.GetUser(claims.Subject); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &models.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if user.FirstName == "" {
		user.FirstName = claims.FirstName
	}
	if user.LastName == "" {
		user.LastName = claims.LastName
	}
	if req.Address != nil {
		user.Address = datatypes.NewJSONType(*req.Address)
	}

	if err := s.users.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *UserService) Get(id string) (*models.User, error) {
	user, err := s.users.GetUser(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// PublicProfile returns the redacted view of a member shown to others.
func (s *UserService) PublicProfile(id string) (*models.PublicProfile, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// Update merges the supplied fields into the profile.
func (s *UserService) Update(id string, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Address != nil {
		user.Address = datatypes.NewJSONType(*req.Address)
	}
	if req.ProfileImageURL != nil {
		user.ProfileImageURL = *req.ProfileImageURL
	}

	if err := s.users.SaveUser(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// Deactivate flips the profile inactive. Profiles are never hard-deleted,
// so swap and message history stays intact.
func (s *UserService) Deactivate(id string) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	user.IsActive = false
	if err := s.users.SaveUser(user); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
