package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Keys set on the echo context by authMiddleware
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// authMiddleware checks for a valid signed bearer token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errorJSON(c, http.StatusUnauthorized, "missing authorization header")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		claims, err := s.parseToken(token)
		if err != nil {
			return errorJSON(c, http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		return next(c)
	}
}
