package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/bughunt-2025.net/internal/core/ports/primary"
	"gitlab.com/bughunt-2025.net/internal/core/services/execution"
	"gitlab.com/bughunt-2025.net/internal/core/services/match"
	"gitlab.com/bughunt-2025.net/internal/handlers"
	"gitlab.com/bughunt-2025.net/internal/handlers/executions"
	"gitlab.com/bughunt-2025.net/internal/handlers/matches"
)

type ServiceProvider struct {
	executionService execution.IExecutionService
	matchService     match.IMatchService
	jwtService       primary.JWTService
}

func NewServiceProvider(
	executionService execution.IExecutionService,
	matchService match.IMatchService,
	jwtService primary.JWTService,
) *ServiceProvider {
	return &ServiceProvider{
		executionService: executionService,
		matchService:     matchService,
		jwtService:       jwtService,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	executions.NewExecutionHandler(s.ServiceProvider.executionService, s.logger).RegisterRoutes(r)
	matches.NewMatchHandler(s.ServiceProvider.matchService, s.logger).RegisterRoutes(r)

	// Identity middleware is optional: without a configured secret the
	// service trusts the playerId fields (local development mode)
	if s.ServiceProvider.jwtService != nil {
		middleware := handlers.New(s.ServiceProvider.jwtService)
		r.Use(mux.MiddlewareFunc(middleware.JWTMiddleware))
	}

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.srv = srv

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", "error", err)
		}
	}
}
