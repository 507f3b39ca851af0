package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/taskmanager-be/internal/api/handlers"
	"github.com/isdelr/taskmanager-be/internal/api/respond"
	"github.com/isdelr/taskmanager-be/internal/auth"
	apperrors "github.com/isdelr/taskmanager-be/internal/errors"
	"github.com/isdelr/taskmanager-be/internal/services"
	"github.com/isdelr/taskmanager-be/internal/websocket"
)

var errRouteNotFound = apperrors.New(apperrors.CodeNotFound, "route not found")

// TokenService issues and verifies identity tokens.
type TokenService interface {
	handlers.TokenIssuer
	auth.TokenVerifier
}

// Dependencies holds everything the router wires into handlers.
type Dependencies struct {
	Users          services.UserServiceProvider
	Tasks          services.TaskServiceProvider
	Events         services.EventServiceProvider
	Tokens         TokenService
	Health         handlers.HealthReporter
	Hub            *websocket.Hub
	AllowedOrigins []string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Dependencies) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.Users, deps.Tokens)
	taskHandler := handlers.NewTaskHandler(deps.Tasks)
	eventHandler := handlers.NewEventHandler(deps.Events)
	healthHandler := handlers.NewHealthHandler(deps.Health)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub, deps.AllowedOrigins)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		respond.JSONMessage(w, http.StatusOK, nil, "Task manager API is alive")
	})

	r.Get("/health", healthHandler.Get)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, errRouteNotFound)
	})

	// Public authentication endpoints
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", userHandler.Register)
		r.Post("/login", userHandler.Login)
		r.With(auth.Middleware(deps.Tokens)).Get("/me", userHandler.GetMe)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(deps.Tokens))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.GetAll)
			r.Post("/", taskHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", taskHandler.Get)
				r.Delete("/", taskHandler.Delete)
			})
		})

		r.Get("/events", eventHandler.GetRecent)
		// Live activity feed
		r.Get("/events/ws", wsHandler.Serve)
	})

	return r
}
