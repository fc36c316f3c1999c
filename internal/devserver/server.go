// Package devserver is a development-only mock of the transit backend. It
// exists so the client can be exercised end to end without the real API and
// must be launched explicitly (`transitctl devserver`); the client itself
// never falls back to it.
//
// It deliberately mirrors the real backend's quirks, including its
// inconsistent response envelopes: login and register wrap the payload,
// GET /users/me returns it bare.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/mediride/transit-client/internal/core/domain"
	"github.com/mediride/transit-client/internal/pkg/config"
)

type Server struct {
	e     *echo.Echo
	store *memoryStore
	cfg   config.DevServerConfig
	log   zerolog.Logger
}

func New(cfg config.DevServerConfig, log zerolog.Logger) *Server {
	s := &Server{
		e:     echo.New(),
		store: newMemoryStore(),
		cfg:   cfg,
		log:   log.With().Str("component", "devserver").Logger(),
	}

	s.e.HideBanner = true
	s.e.HTTPErrorHandler = newHTTPErrorHandler(s.log)
	s.e.Validator = newValidator()

	s.e.Use(echomiddleware.Recover())
	s.e.Use(echomiddleware.RequestID())
	s.e.Use(echoprometheus.NewMiddleware("mediride_dev"))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.e.GET("/metrics", echoprometheus.NewHandler())

	s.e.POST("/users/register", s.register)
	s.e.POST("/users/login", s.login)

	authed := s.e.Group("", auth(s.cfg.JWTSecret))
	authed.POST("/users/logout", s.logout)
	authed.GET("/users/me", s.me)
	authed.PUT("/users/:id", s.updateUser)
	authed.POST("/users/:id/avatar", s.uploadAvatar)
	authed.GET("/history", s.listHistory)

	rides := authed.Group("/rides")
	rides.GET("", s.listRides)
	rides.GET("/:id", s.getRide)
	rides.POST("", s.requestRide, requireRole(domain.RoleUser, domain.RoleAdmin))
	rides.POST("/:id/cancel", s.cancelRide)
}

// Start blocks serving HTTP until Shutdown.
func (s *Server) Start() error {
	s.log.Info().Str("port", s.cfg.Port).Msg("dev server listening")
	err := s.e.Start(":" + s.cfg.Port)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler exposes the router for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.e
}

// newHTTPErrorHandler maps domain errors to deterministic status codes and
// renders the {"error": "…"} envelope the client's pipeline expects.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, map[string]string{"error": msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrRideNotFound):
		return http.StatusNotFound, "ride not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrRoleNotPermitted):
		return http.StatusBadRequest, err.Error()
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// echoValidator wraps go-playground/validator so echo can call
// c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

func newValidator() *echoValidator {
	return &echoValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return echo.NewHTTPError(http.StatusBadRequest, strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
