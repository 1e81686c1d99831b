package repository

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for empty or unknown tokens.
var ErrSessionNotFound = errors.New("session not found")

// tokenBytes is the amount of randomness in a session token (192 bits).
const tokenBytes = 24

// SessionRepository maps opaque tokens to staff sessions. Sessions never
// expire; they live until Revoke or process exit.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]model.Session
}

// NewSessionRepository constructs an empty SessionRepository.
func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]model.Session)}
}

// Create starts a session for username and returns its token.
func (r *SessionRepository) Create(username string) (string, model.Session, error) {
	token, err := newToken()
	if err != nil {
		return "", model.Session{}, err
	}
	sess := model.Session{
		ID:       uuid.New().String(),
		Username: username,
	}

	r.mu.Lock()
	r.sessions[token] = sess
	r.mu.Unlock()
	return token, sess, nil
}

// Validate returns the session for token or ErrSessionNotFound.
func (r *SessionRepository) Validate(token string) (model.Session, error) {
	if token == "" {
		return model.Session{}, ErrSessionNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	sess, ok := r.sessions[token]
	if !ok {
		return model.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// Revoke deletes the session for token. Unknown tokens are ignored.
func (r *SessionRepository) Revoke(token string) {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
