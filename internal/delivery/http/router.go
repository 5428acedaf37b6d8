package http

import (
	"net/http"

	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/handler"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router             *mux.Router
	authHandler        *handler.AuthHandler
	appointmentHandler *handler.AppointmentHandler
	paymentHandler     *handler.PaymentHandler
	ratingHandler      *handler.RatingHandler
	recordHandler      *handler.RecordHandler
	historyHandler     *handler.HistoryHandler
	analysisHandler    *handler.AnalysisHandler
	doctorHandler      *handler.DoctorHandler
	authMiddleware     *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	appointmentHandler *handler.AppointmentHandler,
	paymentHandler *handler.PaymentHandler,
	ratingHandler *handler.RatingHandler,
	recordHandler *handler.RecordHandler,
	historyHandler *handler.HistoryHandler,
	analysisHandler *handler.AnalysisHandler,
	doctorHandler *handler.DoctorHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		router:             mux.NewRouter(),
		authHandler:        authHandler,
		appointmentHandler: appointmentHandler,
		paymentHandler:     paymentHandler,
		ratingHandler:      ratingHandler,
		recordHandler:      recordHandler,
		historyHandler:     historyHandler,
		analysisHandler:    analysisHandler,
		doctorHandler:      doctorHandler,
		authMiddleware:     authMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Processor webhook (public, signature-verified)
	api.HandleFunc("/payments/webhook", r.paymentHandler.Webhook).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Appointments (any authenticated participant)
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("", r.appointmentHandler.List).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Get).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.UpdateStatus).Methods(http.MethodPut)

	// Appointment creation is patient-only
	appointmentCreate := api.PathPrefix("/appointments").Subrouter()
	appointmentCreate.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	appointmentCreate.HandleFunc("", r.appointmentHandler.Create).Methods(http.MethodPost)

	// Visit notes are doctor-only
	appointmentNotes := api.PathPrefix("/appointments").Subrouter()
	appointmentNotes.Use(r.authMiddleware.Authenticate, middleware.RequireDoctor)
	appointmentNotes.HandleFunc("/{id}/notes", r.appointmentHandler.AddVisitNotes).Methods(http.MethodPut)

	// Payments (patient)
	payments := api.PathPrefix("/payments").Subrouter()
	payments.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	payments.HandleFunc("/create-intent", r.paymentHandler.CreateIntent).Methods(http.MethodPost)
	payments.HandleFunc("/fake-payment", r.paymentHandler.FakePayment).Methods(http.MethodPost)

	// Rating submission is patient-only; the anonymized list is open to any
	// authenticated user.
	ratings := api.PathPrefix("/ratings").Subrouter()
	ratings.Use(r.authMiddleware.Authenticate)
	ratings.HandleFunc("/{doctorId}", r.ratingHandler.ListForDoctor).Methods(http.MethodGet)

	ratingSubmit := api.PathPrefix("/ratings").Subrouter()
	ratingSubmit.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	ratingSubmit.HandleFunc("", r.ratingHandler.Submit).Methods(http.MethodPost)

	// Medical records (patient-owned; Get also serves shared-with doctors)
	records := api.PathPrefix("/records").Subrouter()
	records.Use(r.authMiddleware.Authenticate)
	records.HandleFunc("/{id}", r.recordHandler.Get).Methods(http.MethodGet)

	recordsPatient := api.PathPrefix("/records").Subrouter()
	recordsPatient.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	recordsPatient.HandleFunc("", r.recordHandler.Upload).Methods(http.MethodPost)
	recordsPatient.HandleFunc("", r.recordHandler.List).Methods(http.MethodGet)
	recordsPatient.HandleFunc("/{id}", r.recordHandler.Delete).Methods(http.MethodDelete)
	recordsPatient.HandleFunc("/{id}/share", r.recordHandler.Share).Methods(http.MethodPost)
	recordsPatient.HandleFunc("/{id}/share", r.recordHandler.Unshare).Methods(http.MethodDelete)

	// Medical history (patient)
	histories := api.PathPrefix("/medical-history").Subrouter()
	histories.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	histories.HandleFunc("", r.historyHandler.Upload).Methods(http.MethodPost)
	histories.HandleFunc("", r.historyHandler.List).Methods(http.MethodGet)
	histories.HandleFunc("/{id}", r.historyHandler.Get).Methods(http.MethodGet)

	// AI analysis (patient)
	analysis := api.PathPrefix("/analysis").Subrouter()
	analysis.Use(r.authMiddleware.Authenticate, middleware.RequirePatient)
	analysis.HandleFunc("/report", r.analysisHandler.AnalyzeReport).Methods(http.MethodPost)
	analysis.HandleFunc("/prescription-safety", r.analysisHandler.CheckPrescriptionSafety).Methods(http.MethodPost)

	// Doctor views (doctor)
	doctor := api.PathPrefix("/doctor").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate, middleware.RequireDoctor)
	doctor.HandleFunc("/patients/{bodyId}/records", r.doctorHandler.GetPatientRecords).Methods(http.MethodGet)
	doctor.HandleFunc("/shared-records", r.doctorHandler.ListSharedRecords).Methods(http.MethodGet)

	r.router.Use(middleware.CORS)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
