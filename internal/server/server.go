// Package server exposes the Eureka feed API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/mfon/eureka/internal/auth"
	"github.com/mfon/eureka/internal/feed"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Store is the persistence the handlers need, declared here at the
// consumer.
type Store interface {
	ListIdeas(ctx context.Context, offset, limit int) ([]feed.Idea, error)
	CreateIdea(ctx context.Context, idea *feed.Idea) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	RegisterUser(ctx context.Context, uid, email, username, provider string) error
}

// Config holds HTTP server configuration.
type Config struct {
	Host          string
	Port          int
	SessionTTL    time.Duration
	SecureCookies bool
}

// Server provides the Eureka HTTP endpoints.
type Server struct {
	echo     *echo.Echo
	store    Store
	verifier auth.Verifier
	logger   *zap.Logger
	config   *Config
}

func NewServer(store Store, verifier auth.Verifier, logger *zap.Logger, cfg *Config) (*Server, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:       "localhost",
			Port:       8080,
			SessionTTL: time.Hour,
		}
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		store:    store,
		verifier: verifier,
		logger:   logger,
		config:   cfg,
	}

	// Register routes
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	// Health check
	s.echo.GET("/health", s.handleHealth)

	api := s.echo.Group("/api")
	api.GET("/ideas", s.handleListIdeas)
	api.POST("/ideas", s.handleCreateIdea)
	api.POST("/set-token", s.handleSetToken)
	api.DELETE("/set-token", s.handleClearToken)
	api.POST("/register-username", s.handleRegisterUsername)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// parseCursor reads the offset cursor: invalid or absent means start
// from the beginning.
func parseCursor(value string) int {
	if value == "" {
		return 0
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0
	}
	return parsed
}

// parseLimit clamps the page size to [1, maxLimit], defaulting when
// absent or non-numeric.
func parseLimit(value string) int {
	if value == "" {
		return defaultLimit
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultLimit
	}
	if parsed < 1 {
		return 1
	}
	if parsed > maxLimit {
		return maxLimit
	}
	return parsed
}

// requireSession verifies the session cookie and returns the identity.
func (s *Server) requireSession(c echo.Context) (*auth.Identity, error) {
	cookie, err := c.Cookie(auth.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, auth.ErrInvalidToken
	}
	return s.verifier.Verify(c.Request().Context(), cookie.Value)
}

func (s *Server) handleListIdeas(c echo.Context) error {
	if _, err := s.requireSession(c); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
		}
		s.logger.Error("session verification failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to load ideas"})
	}

	cursor := parseCursor(c.QueryParam("cursor"))
	limit := parseLimit(c.QueryParam("limit"))

	items, err := s.store.ListIdeas(c.Request().Context(), cursor, limit)
	if err != nil {
		s.logger.Error("failed to list ideas", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to load ideas"})
	}

	var nextCursor *string
	if len(items) == limit {
		next := strconv.Itoa(cursor + len(items))
		nextCursor = &next
	}

	return c.JSON(http.StatusOK, feed.Page{Items: items, NextCursor: nextCursor})
}

func (s *Server) handleCreateIdea(c echo.Context) error {
	identity, err := s.requireSession(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
	}

	var idea feed.Idea
	if err := c.Bind(&idea); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request"})
	}
	if strings.TrimSpace(idea.ProjectName) == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "projectName is required"})
	}
	if idea.CreatedBy == "" {
		idea.CreatedBy = identity.Name
	}
	idea.ID = 0

	if err := s.store.CreateIdea(c.Request().Context(), &idea); err != nil {
		s.logger.Error("failed to create idea", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to create idea"})
	}

	return c.JSON(http.StatusOK, map[string]int{"id": idea.ID})
}

type setTokenRequest struct {
	IDToken string `json:"idToken"`
}

func (s *Server) handleSetToken(c echo.Context) error {
	var req setTokenRequest
	if err := c.Bind(&req); err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	if _, err := s.verifier.Verify(c.Request().Context(), req.IDToken); err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookie,
		Value:    req.IDToken,
		Path:     "/",
		MaxAge:   int(s.config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleClearToken(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return c.NoContent(http.StatusNoContent)
}

type registerUsernameRequest struct {
	IDToken  string `json:"idToken"`
	Username string `json:"username"`
}

func (s *Server) handleRegisterUsername(c echo.Context) error {
	var req registerUsernameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request"})
	}

	username := strings.TrimSpace(req.Username)
	if req.IDToken == "" || username == "" {
		return c.JSON(http.StatusBadRequest, messageResponse{Message: "Invalid request"})
	}

	identity, err := s.verifier.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return c.JSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
		}
		s.logger.Error("token verification failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to register username"})
	}

	ctx := c.Request().Context()
	taken, err := s.store.UsernameExists(ctx, username)
	if err != nil {
		s.logger.Error("failed to check username", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to register username"})
	}
	if taken {
		return c.JSON(http.StatusConflict, messageResponse{Message: "Username already exists"})
	}

	provider := identity.Provider
	if provider == "" {
		provider = "password"
	}
	if err := s.store.RegisterUser(ctx, identity.UID, identity.Email, username, provider); err != nil {
		s.logger.Error("failed to register user", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, messageResponse{Message: "Failed to register username"})
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

// Start begins serving on the configured address, blocking until
// shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
