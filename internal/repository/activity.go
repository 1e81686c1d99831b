// Package repository holds the in-memory activity and session registries
// and the sources teacher credentials are loaded from.
package repository

import (
	"errors"
	"slices"
	"sync"

	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
)

// ErrActivityNotFound is returned when no activity has the requested name.
var ErrActivityNotFound = errors.New("activity not found")

// ErrAlreadySignedUp is returned when the email is already on the roster.
var ErrAlreadySignedUp = errors.New("student is already signed up")

// ErrNotSignedUp is returned when unregistering an email that is not on the roster.
var ErrNotSignedUp = errors.New("student is not signed up for this activity")

// ActivityRepository is the process-wide activity registry. Activities are
// fixed at construction; only their participant lists change.
type ActivityRepository struct {
	mu         sync.RWMutex
	activities map[string]*model.Activity
}

// NewActivityRepository constructs a registry holding a private copy of seed.
func NewActivityRepository(seed map[string]model.Activity) *ActivityRepository {
	activities := make(map[string]*model.Activity, len(seed))
	for name, a := range seed {
		a := cloneActivity(a)
		activities[name] = &a
	}
	return &ActivityRepository{activities: activities}
}

// List returns a snapshot of every activity keyed by name.
func (r *ActivityRepository) List() map[string]model.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]model.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = cloneActivity(*a)
	}
	return out
}

// Exists reports whether an activity called name is registered.
func (r *ActivityRepository) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.activities[name]
	return ok
}

// Signup appends email to the activity's roster. Capacity is not checked.
func (r *ActivityRepository) Signup(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	if a.HasParticipant(email) {
		return ErrAlreadySignedUp
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// Unregister removes email from the activity's roster, keeping the order of
// the remaining participants.
func (r *ActivityRepository) Unregister(name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return ErrNotSignedUp
	}
	a.Participants = slices.Delete(a.Participants, i, i+1)
	return nil
}

func cloneActivity(a model.Activity) model.Activity {
	a.Participants = append(make([]string, 0, len(a.Participants)), a.Participants...)
	return a
}
