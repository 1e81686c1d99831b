// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/Shivanand-hulikatti/activity-signup/internal/logging"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
)

// ErrInvalidCredentials is returned when the username/password pair does not match.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ErrNotLoggedIn is returned by logout and verify for a missing or unknown token.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrAdminRequired is returned when a mutation is attempted without a valid session.
var ErrAdminRequired = errors.New("admin login required")

// ErrEmailRequired is returned when signup/unregister is called without an email.
var ErrEmailRequired = errors.New("email is required")

// AuthService handles staff login, logout, and session checks.
type AuthService struct {
	teachers repository.TeacherSource
	sessions *repository.SessionRepository
}

// NewAuthService constructs an AuthService with its dependencies.
func NewAuthService(teachers repository.TeacherSource, sessions *repository.SessionRepository) *AuthService {
	return &AuthService{teachers: teachers, sessions: sessions}
}

// Login checks the credentials against a freshly loaded teacher table and
// starts a session on success.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	logger := logging.FromContext(ctx)

	teachers, err := s.teachers.LoadTeachers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}

	want, ok := teachers[req.Username]
	if !ok || subtle.ConstantTimeCompare([]byte(want), []byte(req.Password)) != 1 {
		logger.Warn("admin login rejected", "username", req.Username)
		return nil, ErrInvalidCredentials
	}

	token, sess, err := s.sessions.Create(req.Username)
	if err != nil {
		return nil, err
	}
	logger.Info("admin logged in", "username", sess.Username, "session_id", sess.ID)
	return &model.LoginResponse{Token: token, Username: sess.Username}, nil
}

// Logout ends the session for token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return ErrNotLoggedIn
	}
	s.sessions.Revoke(token)
	logging.FromContext(ctx).Info("admin logged out", "username", sess.Username, "session_id", sess.ID)
	return nil
}

// Verify returns the username the token belongs to.
func (s *AuthService) Verify(_ context.Context, token string) (*model.VerifyResponse, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return nil, ErrNotLoggedIn
	}
	return &model.VerifyResponse{Username: sess.Username}, nil
}

// RequireAdmin guards mutating operations.
func (s *AuthService) RequireAdmin(_ context.Context, token string) (model.Session, error) {
	sess, err := s.sessions.Validate(token)
	if err != nil {
		return model.Session{}, ErrAdminRequired
	}
	return sess, nil
}

// ActivityService orchestrates roster operations.
type ActivityService struct {
	activities *repository.ActivityRepository
}

// NewActivityService constructs an ActivityService.
func NewActivityService(activities *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activities: activities}
}

// ListActivities returns every activity keyed by name.
func (s *ActivityService) ListActivities(_ context.Context) map[string]model.Activity {
	return s.activities.List()
}

// Exists reports whether the named activity is on the board.
func (s *ActivityService) Exists(name string) bool {
	return s.activities.Exists(name)
}

// Signup adds email to the named activity. The caller is responsible for
// the admin check.
func (s *ActivityService) Signup(ctx context.Context, name, email string) (*model.MessageResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.activities.Signup(name, email); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("student signed up", "activity", name, "email", email)
	return &model.MessageResponse{Message: fmt.Sprintf("Signed up %s for %s", email, name)}, nil
}

// Unregister removes email from the named activity. The caller is
// responsible for the admin check.
func (s *ActivityService) Unregister(ctx context.Context, name, email string) (*model.MessageResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := s.activities.Unregister(name, email); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("student unregistered", "activity", name, "email", email)
	return &model.MessageResponse{Message: fmt.Sprintf("Unregistered %s from %s", email, name)}, nil
}
