// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/Shivanand-hulikatti/activity-signup/internal/logging"
	"github.com/Shivanand-hulikatti/activity-signup/internal/model"
	"github.com/Shivanand-hulikatti/activity-signup/internal/repository"
	"github.com/Shivanand-hulikatti/activity-signup/internal/service"
	"github.com/go-chi/chi/v5"
)

// AdminTokenHeader carries the session token on authenticated requests.
const AdminTokenHeader = "X-Admin-Token"

// ActivityHandler holds all HTTP handlers for the sign-up board API.
type ActivityHandler struct {
	auth       *service.AuthService
	activities *service.ActivityService
}

// NewActivityHandler constructs an ActivityHandler.
func NewActivityHandler(auth *service.AuthService, activities *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{auth: auth, activities: activities}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Detail: msg})
}

// decodeJSON decodes the request body into dst. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError maps service and repository errors to status codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrCredentialsNotConfigured):
		logging.FromContext(r.Context()).Error("teacher credentials missing", "error", err)
		writeError(w, http.StatusInternalServerError, "Teacher credentials not configured")
	case errors.Is(err, repository.ErrCredentialsInvalid):
		logging.FromContext(r.Context()).Error("teacher credentials unreadable", "error", err)
		writeError(w, http.StatusInternalServerError, "Teacher credentials are invalid")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, service.ErrNotLoggedIn):
		writeError(w, http.StatusUnauthorized, "Not logged in")
	case errors.Is(err, service.ErrAdminRequired):
		writeError(w, http.StatusForbidden, "Admin login required")
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "Activity not found")
	case errors.Is(err, repository.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, repository.ErrNotSignedUp):
		writeError(w, http.StatusBadRequest, "Student is not signed up for this activity")
	case errors.Is(err, service.ErrEmailRequired):
		writeError(w, http.StatusBadRequest, "email is required")
	default:
		logging.FromContext(r.Context()).Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// activityName returns the decoded {name} path segment.
func activityName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	// chi matched against the escaped path.
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// emailParam reads the student email from the query string, falling back
// to a JSON body of the form {"email": "..."}.
func emailParam(r *http.Request) string {
	if q := r.URL.Query(); q.Has("email") {
		return q.Get("email")
	}
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	var req model.EmailRequest
	if err := decodeJSON(r, &req); err != nil {
		return ""
	}
	return req.Email
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Root handles GET /
// Redirects to the static front-end.
func Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusFound)
}

// ListActivities handles GET /activities
// Returns a JSON object keyed by activity name.
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.activities.ListActivities(r.Context()))
}

// Login handles POST /admin/login
func (h *ActivityHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Logout handles POST /admin/logout
func (h *ActivityHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), r.Header.Get(AdminTokenHeader)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logged out"})
}

// Verify handles GET /admin/verify
func (h *ActivityHandler) Verify(w http.ResponseWriter, r *http.Request) {
	resp, err := h.auth.Verify(r.Context(), r.Header.Get(AdminTokenHeader))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Signup handles POST /activities/{name}/signup
// Unknown activities are reported before the admin check.
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	if !h.activities.Exists(name) {
		writeServiceError(w, r, repository.ErrActivityNotFound)
		return
	}
	if _, err := h.auth.RequireAdmin(r.Context(), r.Header.Get(AdminTokenHeader)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.activities.Signup(r.Context(), name, emailParam(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Unregister handles DELETE /activities/{name}/unregister
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name := activityName(r)
	if !h.activities.Exists(name) {
		writeServiceError(w, r, repository.ErrActivityNotFound)
		return
	}
	if _, err := h.auth.RequireAdmin(r.Context(), r.Header.Get(AdminTokenHeader)); err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp, err := h.activities.Unregister(r.Context(), name, emailParam(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
