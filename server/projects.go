package server

import (
	"net/http"
	"strings"

	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createProjectRequest struct {
	Name              string   `json:"name" label:"Project name" validate:"required"`
	Description       string   `json:"description"`
	AssignedEmployees []string `json:"assigned_employees" label:"Employees" validate:"dive,required"`
}

func (s *Server) handleListProjects(c echo.Context) error {
	projects, err := s.db.ListProjects(c.Request().Context())
	if err != nil {
		logger.Error("List projects failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to fetch projects")
	}

	role, _ := c.Get(ctxRole).(string)
	userID, _ := c.Get(ctxUserID).(string)

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if projectVisibleTo(p, role, userID) {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// projectVisibleTo reports whether a caller may see p: ADMIN sees every
// project, everyone else only those they are assigned to.
func projectVisibleTo(p model.Project, role, userID string) bool {
	return role == model.RoleAdmin || p.HasEmployee(userID)
}

func (s *Server) handleCreateProject(c echo.Context) error {
	var req createProjectRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	userID, _ := c.Get(ctxUserID).(string)
	p := model.Project{
		ID:                uuid.NewString(),
		Name:              req.Name,
		Description:       req.Description,
		CreatedBy:         userID,
		AssignedEmployees: req.AssignedEmployees,
	}
	if err := s.db.CreateProject(c.Request().Context(), p); err != nil {
		logger.Error("Create project failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create project")
	}

	logger.Info("Project created", logger.F("project_id", p.ID), logger.F("by", userID))

	return c.JSON(http.StatusCreated, p)
}
