package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/clinicflow/appointments/internal/domain/entities"
)

// AppointmentService defines the interface for appointment lifecycle operations
type AppointmentService interface {
	Create(ctx context.Context, actor string, doctorID, patientID int64, scheduledAt time.Time, specialty, notes string) (*entities.Appointment, error)
	Cancel(ctx context.Context, actor string, id int64) error
	ApplyEdit(ctx context.Context, actor string, id int64, newTime *time.Time, newStatus *entities.AppointmentStatus) (*entities.Appointment, error)
	Delete(ctx context.Context, actor string, id int64) error
	CheckInByToken(ctx context.Context, token string) (*entities.Appointment, error)
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)
	ListAll(ctx context.Context) ([]*entities.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error)
	ListByDoctorAndRange(ctx context.Context, doctorID int64, start, end time.Time) ([]*entities.Appointment, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{
		service: service,
	}
}

type createAppointmentRequest struct {
	DoctorID    int64  `json:"doctor_id"`
	PatientID   int64  `json:"patient_id"`
	ScheduledAt string `json:"scheduled_at"`
	Specialty   string `json:"specialty,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type editAppointmentRequest struct {
	ScheduledAt *string `json:"scheduled_at,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if req.DoctorID == 0 || req.PatientID == 0 {
		respondWithError(w, http.StatusBadRequest, "doctor_id and patient_id are required")
		return
	}

	if strings.TrimSpace(req.Notes) == "" {
		respondWithError(w, http.StatusBadRequest, "notes are required")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid scheduled_at format (use RFC3339)")
		return
	}

	appointment, err := h.service.Create(r.Context(), actorFromRequest(r), req.DoctorID, req.PatientID, scheduledAt, req.Specialty, req.Notes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, appointment)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.service.ListAll(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
	})
}

// EditAppointment handles PATCH /api/appointments/{id}
func (h *AppointmentHandler) EditAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req editAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	var newTime *time.Time
	if req.ScheduledAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid scheduled_at format (use RFC3339)")
			return
		}
		newTime = &parsed
	}

	var newStatus *entities.AppointmentStatus
	if req.Status != nil {
		status := entities.AppointmentStatus(*req.Status)
		newStatus = &status
	}

	appointment, err := h.service.ApplyEdit(r.Context(), actorFromRequest(r), id, newTime, newStatus)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// CancelAppointment handles PATCH /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Cancel(r.Context(), actorFromRequest(r), id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status": string(entities.AppointmentStatusCancelled),
	})
}

// DeleteAppointment handles DELETE /api/appointments/{id}
func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFromRequest(r), id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CheckIn handles GET /api/appointments/checkin
func (h *AppointmentHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	appointment, err := h.service.CheckInByToken(r.Context(), token)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, appointment)
}

// ListByPatient handles GET /api/appointments/patient/{id}
func (h *AppointmentHandler) ListByPatient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	appointments, err := h.service.ListByPatient(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
	})
}

// ListByDoctorAndRange handles GET /api/appointments/doctor/{id}/range
func (h *AppointmentHandler) ListByDoctorAndRange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		respondWithError(w, http.StatusBadRequest, "start and end query parameters are required")
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid start date format (use RFC3339)")
		return
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid end date format (use RFC3339)")
		return
	}

	appointments, err := h.service.ListByDoctorAndRange(r.Context(), id, start, end)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
	})
}

// pathID parses a numeric path parameter, writing a 400 on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
