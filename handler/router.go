package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"ideas-service/middleware"
	"ideas-service/service"
)

// Router wires the HTTP surface over the query and mutation services.
type Router struct {
	queries   *service.QueryService
	mutations *service.MutationService
	auth      *middleware.Authenticator
	logger    *zap.Logger
	health    func(ctx context.Context) error
}

// NewRouter creates the router. health may be nil when there is no backing
// store to check (memory mode).
func NewRouter(
	queries *service.QueryService,
	mutations *service.MutationService,
	auth *middleware.Authenticator,
	logger *zap.Logger,
	health func(ctx context.Context) error,
) *Router {
	return &Router{
		queries:   queries,
		mutations: mutations,
		auth:      auth,
		logger:    logger,
		health:    health,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", rt.healthCheck)

	ideaHandler := NewIdeaHandler(rt.queries, rt.mutations, rt.logger)
	followHandler := NewFollowHandler(rt.queries, rt.mutations, rt.logger)
	userHandler := NewUserHandler(rt.queries, rt.logger)

	router.Route("/api", func(r chi.Router) {
		r.Use(rt.auth.Middleware)

		r.Route("/ideas", func(r chi.Router) {
			r.Post("/", ideaHandler.CreateIdea)
			r.Get("/mine", ideaHandler.MyIdeas)
			r.Patch("/{ideaID}/visibility", ideaHandler.ChangeVisibility)
			r.Delete("/{ideaID}", ideaHandler.DeleteIdea)
		})

		r.Get("/timeline", ideaHandler.Timeline)

		r.Route("/follows", func(r chi.Router) {
			r.Post("/", followHandler.FollowUser)
			r.Get("/", followHandler.MyFollows)
			r.Delete("/{userID}", followHandler.UnfollowUser)
		})

		r.Route("/followers", func(r chi.Router) {
			r.Get("/", followHandler.MyFollowers)
			r.Get("/pending", followHandler.MyPendingFollowers)
			r.Post("/{followID}/decision", followHandler.ApproveFollower)
			r.Delete("/{followerID}", followHandler.RemoveFollower)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/search", userHandler.SearchUsers)
			r.Get("/{userID}/ideas", ideaHandler.UserIdeas)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	if rt.health != nil {
		if err := rt.health(r.Context()); err != nil {
			rt.logger.Error("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
