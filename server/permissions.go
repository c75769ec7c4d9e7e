package server

import (
	"net/http"

	"github.com/existflow/rbacconsole/internal/model"
	"github.com/labstack/echo/v4"
)

const (
	tableUsers    = "users"
	tableProjects = "projects"
	tableTasks    = "tasks"
)

const (
	actionView   = "view"
	actionCreate = "create"
	actionEdit   = "edit"
)

type grants map[string][]string

// ADMIN is allowed everything and is not listed.
var rolePermissions = map[string]grants{
	model.RoleManager: {
		tableProjects: {actionView, actionCreate},
		tableTasks:    {actionView, actionCreate, actionEdit},
	},
	model.RoleEditor: {
		tableProjects: {actionView},
		tableTasks:    {actionView, actionCreate, actionEdit},
	},
	model.RoleViewer: {
		tableProjects: {actionView},
		tableTasks:    {actionView},
	},
}

// allowed reports whether role may perform action on table
func allowed(role, table, action string) bool {
	if role == model.RoleAdmin {
		return true
	}
	for _, a := range rolePermissions[role][table] {
		if a == action {
			return true
		}
	}
	return false
}

// require rejects callers whose token role lacks the permission
func (s *Server) require(table, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ctxRole).(string)
			if !allowed(role, table, action) {
				return errorJSON(c, http.StatusForbidden, "forbidden: "+role+" cannot "+action+" "+table)
			}
			return next(c)
		}
	}
}
