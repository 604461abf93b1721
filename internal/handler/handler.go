// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Shivanand-hulikatti/symposium-registration/internal/catalog"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/model"
	"github.com/Shivanand-hulikatti/symposium-registration/internal/service"
)

// RegistrationHandler holds all HTTP handlers for the registration intake.
type RegistrationHandler struct {
	svc         *service.RegistrationService
	serviceName string
	startsAt    time.Time
	now         func() time.Time
}

// NewRegistrationHandler constructs a RegistrationHandler.
func NewRegistrationHandler(svc *service.RegistrationService, serviceName string, startsAt time.Time) *RegistrationHandler {
	return &RegistrationHandler{
		svc:         svc,
		serviceName: serviceName,
		startsAt:    startsAt,
		now:         time.Now,
	}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.StatusResponse{Status: model.StatusError, Message: msg})
}

// decodeJSON ignores Content-Type: browsers posting in no-cors mode send
// text/plain bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	return json.NewDecoder(r.Body).Decode(dst)
}

func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// ─── Intake ───────────────────────────────────────────────────────────────────

// Liveness handles GET /
func (h *RegistrationHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.StatusResponse{
		Status:  model.StatusOK,
		Message: h.serviceName + " is running!",
	})
}

// Register handles POST / and POST /register
// Appends the registration to the master and category logs.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var rec model.RegistrationRecord
	if err := decodeJSON(w, r, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	entry, err := h.svc.Register(r.Context(), rec)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusBadRequest, model.StatusResponse{
				Status:  model.StatusError,
				Message: verr.Error(),
				Errors:  verr.Fields,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save registration")
		return
	}

	writeJSON(w, http.StatusCreated, model.StatusResponse{
		Status:  model.StatusSuccess,
		Message: "Registration successful!",
		ID:      entry.ID,
	})
}

// ListRegistrations handles GET /registrations
// Returns the master log.
func (h *RegistrationHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}
	// Return an empty array rather than null for better client compatibility.
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ListCategories handles GET /categories
func (h *RegistrationHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// ListCategoryRegistrations handles GET /categories/{name}/registrations
// Returns one category's log.
func (h *RegistrationHandler) ListCategoryRegistrations(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")

	entries, err := h.svc.ListCategory(r.Context(), name)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, "category not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list registrations")
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ─── Event information ────────────────────────────────────────────────────────

type eventSummary struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// ListEvents handles GET /events
func (h *RegistrationHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	all := catalog.All()
	out := make([]eventSummary, len(all))
	for i, d := range all {
		out[i] = eventSummary{Key: d.Key, Name: d.Name, Title: d.Title}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetEvent handles GET /events/{key}
// Returns the full descriptor shown in the event information modal.
func (h *RegistrationHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	d, ok := catalog.Lookup(chi.URLParam(r, "key"))
	if !ok {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// Countdown handles GET /countdown
func (h *RegistrationHandler) Countdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Countdown(h.now(), h.startsAt))
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
