// Package server is a reference implementation of the RBAC backend the
// console talks to. It exists for local development and tests.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/rbacconsole/internal/db"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the RBAC backend
type Server struct {
	cfg    Config
	db     *db.DB
	echo   *echo.Echo
	secret []byte
}

// New opens the database, seeds the admin account and builds the router
func New(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	var (
		database *db.DB
		err      error
	)
	if cfg.DBPath == "" {
		database, err = db.OpenDefault()
	} else {
		database, err = db.Open(cfg.DBPath)
	}
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		db:     database,
		secret: []byte(cfg.JWTSecret),
	}

	if err := s.seedAdmin(context.Background()); err != nil {
		database.Close()
		return nil, err
	}

	s.setupEcho()

	return s, nil
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = !s.cfg.Verbose
	e.Validator = requestValidator{}

	// Custom logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			logger.Info("HTTP Request",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("request_id", req.Header.Get(echo.HeaderXRequestID)),
				logger.F("remote", req.RemoteAddr))

			err := next(c)

			res := c.Response()
			duration := time.Since(start)

			logger.Info("HTTP Response",
				logger.F("method", req.Method),
				logger.F("uri", req.RequestURI),
				logger.F("status", res.Status),
				logger.F("size", res.Size),
				logger.F("duration", duration.String()))

			if s.cfg.Verbose {
				fmt.Printf("REQUEST: %s %s  status=%d  size=%d  duration=%s\n",
					req.Method, req.RequestURI, res.Status, res.Size, duration)
			}

			return err
		}
	})

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	e.GET("/health", s.handleHealth)

	// Public
	e.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := e.Group("")
	protected.Use(s.authMiddleware)

	protected.GET("/api/users", s.handleListUsers, s.require(tableUsers, actionView))
	protected.POST("/admin/create-user", s.handleCreateUser, s.require(tableUsers, actionCreate))

	protected.GET("/projects", s.handleListProjects, s.require(tableProjects, actionView))
	protected.POST("/projects/create", s.handleCreateProject, s.require(tableProjects, actionCreate))

	protected.GET("/tasks", s.handleListTasks, s.require(tableTasks, actionView))
	protected.POST("/tasks/create", s.handleCreateTask, s.require(tableTasks, actionCreate))
	protected.POST("/tasks/update", s.handleUpdateTask, s.require(tableTasks, actionEdit))

	s.echo = e
}

// Close closes the database connection
func (s *Server) Close() error {
	return s.db.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}
