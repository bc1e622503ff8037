package rest

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"surveyengine/internal/metrics"
	"surveyengine/internal/schema"
	"surveyengine/internal/service"
	"surveyengine/internal/transport/rest/handler"
	"surveyengine/internal/transport/rest/middleware"
	"surveyengine/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Schema          *schema.Schema
	AuthService     *service.AuthService
	FormService     *service.FormService
	ResponseService *service.ResponseService
	Metrics         *metrics.Collector
	SubmitLimiter   *middleware.RateLimiter // nil disables the limit
	WSHub           *ws.Hub
	Logger          *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	formHandler := handler.NewFormHandler(c.FormService, c.AuthService, c.Logger)
	responseHandler := handler.NewResponseHandler(c.ResponseService, c.Metrics)
	schemaHandler := handler.NewSchemaHandler(c.Schema)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.FormService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	if c.Metrics != nil {
		r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/schema", schemaHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/responses", responseHandler.List).Methods("GET", "OPTIONS")
	api.HandleFunc("/forms", formHandler.Create).Methods("POST", "OPTIONS")

	var submit http.Handler = http.HandlerFunc(responseHandler.Submit)
	if c.SubmitLimiter != nil {
		submit = c.SubmitLimiter.Limit(submit)
	}
	api.Handle("/submit", submit).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	api.HandleFunc("/ws/forms/{id}", wsHandler.FormWS).Methods("GET")

	// Form session routes (require the session token)
	formRoutes := api.PathPrefix("/forms/{id}").Subrouter()
	formRoutes.Use(authMW.RequireSession)

	formRoutes.HandleFunc("", formHandler.Get).Methods("GET", "OPTIONS")
	formRoutes.HandleFunc("", formHandler.Delete).Methods("DELETE", "OPTIONS")
	formRoutes.HandleFunc("/events", formHandler.Event).Methods("POST", "OPTIONS")
	formRoutes.HandleFunc("/submit", formHandler.Submit).Methods("POST", "OPTIONS")
	formRoutes.HandleFunc("/reset", formHandler.Reset).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
