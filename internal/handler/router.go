package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/geoadvisor/backend/internal/handler/advisor"
	"github.com/geoadvisor/backend/internal/handler/auth"
	"github.com/geoadvisor/backend/internal/handler/chat"
	"github.com/geoadvisor/backend/internal/handler/stream"
	"github.com/geoadvisor/backend/internal/handler/ws"
	advisormodel "github.com/geoadvisor/backend/internal/model/advisor"
	accountservice "github.com/geoadvisor/backend/internal/service/account"
	"github.com/geoadvisor/backend/internal/service/ai"
	chatservice "github.com/geoadvisor/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services. aiSvc may be nil when the
// completion credential is missing; chat submits then fail with a
// configuration error while auth and metadata endpoints keep working.
func NewRouter(accounts accountservice.Store, chatSvc *chatservice.Service, aiSvc *ai.Service, examples advisormodel.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Session-Token"},
		AllowCredentials: false,
	}))

	authHandler := auth.New(accounts, chatSvc)
	chatHandler := chat.New(chatSvc)
	advisorHandler := advisor.New(examples)
	wsHandler := ws.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		authHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
		advisorHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)

		if aiSvc != nil {
			streamHandler := stream.New(aiSvc, chatSvc)
			streamHandler.RegisterRoutes(api)
		}
	})

	return r
}
