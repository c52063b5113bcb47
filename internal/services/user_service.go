package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/HabitFlow/internal/models"
	"github.com/Dias221467/HabitFlow/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrInvalidCredentials is returned by AuthenticateUser for an unknown email
// or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

const (
	minPasswordLength = 6
	searchLimit       = 20
	minSearchLength   = 2
)

// ProfileUpdate carries the editable profile fields; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Name      *string `json:"name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserService encapsulates the business logic for user operations.
type UserService struct {
	users    repository.UserStore
	friends  repository.FriendStore
	sessions *SessionManager
}

func NewUserService(users repository.UserStore, friends repository.FriendStore, sessions *SessionManager) *UserService {
	return &UserService{users: users, friends: friends, sessions: sessions}
}

// RegisterUser creates an account after hashing the password.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "register user"
	logrus.Info("Registering new user")

	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, invalid(op, "name, email and password are required")
	}
	if !emailRegex.MatchString(email) {
		logrus.WithField("email", email).Warn("Invalid email format during registration")
		return nil, invalid(op, "invalid email format")
	}
	if len(password) < minPasswordLength {
		return nil, invalid(op, "password must be at least %d characters", minPasswordLength)
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		logrus.WithField("email", email).Warn("Email already in use")
		return nil, invalid(op, "email already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		HashedPassword: string(hashed),
		Role:           "user",
		LastActiveAt:   now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithField("userID", user.ID).Info("User registered")
	return user, nil
}

// AuthenticateUser checks the credentials and returns the account.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser returns the account with id.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("get user", "user %s not found", id)
	}
	return user, err
}

// UpdateProfile changes name or avatar of the account with id.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.User, error) {
	const op = "update profile"

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, invalid(op, "name is required")
		}
		user.Name = name
	}
	if update.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}
	if err := s.users.UpdateProfile(ctx, id, user.Name, user.AvatarURL); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// DeleteUser removes the account and everything it owns.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	err := s.users.DeleteUser(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound("delete user", "user %s not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.sessions.Drop(id)
	logrus.WithField("userID", id).Info("User deleted")
	return nil
}

// UpdateLastActive records that the user was seen at at.
func (s *UserService) UpdateLastActive(ctx context.Context, id string, at time.Time) error {
	return s.users.UpdateLastActive(ctx, id, at)
}

// SearchUsers finds users by name or email that userID could send a friend
// request to. Queries shorter than two characters match nothing.
func (s *UserService) SearchUsers(ctx context.Context, userID, query string) ([]models.PublicUser, error) {
	query = strings.TrimSpace(query)
	results := []models.PublicUser{}
	if len(query) < minSearchLength {
		return results, nil
	}

	users, err := s.users.SearchUsers(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	for _, u := range users {
		if u.ID == userID {
			continue
		}
		req, err := s.friends.FindRequest(ctx, userID, u.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if req != nil && req.Status != models.FriendRequestRejected {
			continue
		}
		results = append(results, u.Public())
	}
	return results, nil
}
