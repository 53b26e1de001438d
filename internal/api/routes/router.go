package routes

import (
	"net/http"

	"github.com/clinicflow/appointments/internal/api/handlers"
	"github.com/clinicflow/appointments/internal/api/middleware"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	appointmentHandler  *handlers.AppointmentHandler
	notificationHandler *handlers.NotificationHandler
	auditHandler        *handlers.AuditHandler
}

// NewRouter creates a new router
func NewRouter(
	appointmentHandler *handlers.AppointmentHandler,
	notificationHandler *handlers.NotificationHandler,
	auditHandler *handlers.AuditHandler,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		appointmentHandler:  appointmentHandler,
		notificationHandler: notificationHandler,
		auditHandler:        auditHandler,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)

		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Appointment endpoints. The literal checkin segment takes precedence
	// over the {id} patterns.
	r.mux.HandleFunc("GET /api/appointments/checkin", r.appointmentHandler.CheckIn)

	r.mux.HandleFunc("POST /api/appointments", r.appointmentHandler.CreateAppointment)
	r.mux.HandleFunc("GET /api/appointments", r.appointmentHandler.ListAppointments)
	r.mux.HandleFunc("GET /api/appointments/{id}", r.appointmentHandler.GetAppointment)
	r.mux.HandleFunc("PATCH /api/appointments/{id}", r.appointmentHandler.EditAppointment)
	r.mux.HandleFunc("PATCH /api/appointments/{id}/cancel", r.appointmentHandler.CancelAppointment)
	r.mux.HandleFunc("DELETE /api/appointments/{id}", r.appointmentHandler.DeleteAppointment)

	r.mux.HandleFunc("GET /api/appointments/patient/{id}", r.appointmentHandler.ListByPatient)
	r.mux.HandleFunc("GET /api/appointments/doctor/{id}/range", r.appointmentHandler.ListByDoctorAndRange)

	// Notification endpoints
	r.mux.HandleFunc("GET /api/notifications/user/{id}", r.notificationHandler.ListForUser)
	r.mux.HandleFunc("GET /api/notifications/user/{id}/unread", r.notificationHandler.ListUnreadForUser)
	r.mux.HandleFunc("PATCH /api/notifications/{id}/read", r.notificationHandler.MarkRead)

	// Audit endpoints
	r.mux.HandleFunc("GET /api/admin/logs", r.auditHandler.ListRecords)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
