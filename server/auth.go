package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/existflow/rbacconsole/internal/db"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// handleLogin exchanges email and password for a signed token
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	user, err := s.db.GetActiveUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			logger.Error("Login lookup failed", logger.F("error", err))
		}
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := s.issueToken(user.ID, user.Role)
	if err != nil {
		logger.Error("Token signing failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "internal error")
	}

	logger.Info("User logged in", logger.F("user_id", user.ID), logger.F("role", user.Role))

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

// issueToken signs an HS256 token carrying the user's id and role
func (s *Server) issueToken(userID, role string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parseToken verifies the signature and expiry of token
func (s *Server) parseToken(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// seedAdmin creates the configured admin account when its email is free
func (s *Server) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" {
		return nil
	}

	hash, err := hashPassword(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	added, err := s.db.SeedUser(ctx, db.UserRecord{
		User: model.User{
			ID:    uuid.NewString(),
			Name:  s.cfg.AdminName,
			Email: s.cfg.AdminEmail,
			Role:  model.RoleAdmin,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("failed to seed admin: %w", err)
	}
	if added {
		logger.Info("Admin user seeded", logger.F("email", s.cfg.AdminEmail))
	}
	return nil
}
