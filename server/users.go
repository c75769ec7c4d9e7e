package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/rbacconsole/internal/db"
	"github.com/existflow/rbacconsole/internal/forms"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestValidator lets handlers call c.Validate with the console's
// English messages.
type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	return forms.Check(i)
}

type createUserRequest struct {
	Name     string `json:"name" label:"Name" validate:"required"`
	Email    string `json:"email" label:"Email" validate:"required,email"`
	Password string `json:"password" label:"Password" validate:"required"`
	Role     string `json:"role" label:"Role" validate:"omitempty,oneof=ADMIN MANAGER EDITOR VIEWER"`
}

func (s *Server) handleListUsers(c echo.Context) error {
	users, err := s.db.ListUsers(c.Request().Context())
	if err != nil {
		logger.Error("List users failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to fetch users")
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users})
}

func (s *Server) handleCreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if req.Role == "" {
		req.Role = model.RoleViewer
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return errorJSON(c, http.StatusInternalServerError, "password error")
	}

	user := db.UserRecord{
		User: model.User{
			ID:        uuid.NewString(),
			Name:      req.Name,
			Email:     req.Email,
			Role:      req.Role,
			IsActive:  true,
			CreatedAt: time.Now(),
		},
		PasswordHash: hash,
	}
	if err := s.db.CreateUser(c.Request().Context(), user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return errorJSON(c, http.StatusConflict, "email already exists")
		}
		logger.Error("Create user failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "create failed")
	}

	logger.Info("User created",
		logger.F("user_id", user.ID),
		logger.F("role", user.Role),
		logger.F("by", c.Get(ctxUserID)))

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "user created",
		"user":    user.User,
	})
}
