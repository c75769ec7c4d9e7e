package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/existflow/rbacconsole/internal/db"
	"github.com/existflow/rbacconsole/internal/logger"
	"github.com/existflow/rbacconsole/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type createTaskRequest struct {
	ProjectID   string   `json:"project_id" label:"Project ID" validate:"required"`
	Title       string   `json:"title" label:"Title" validate:"required"`
	Description string   `json:"description"`
	Status      string   `json:"status" label:"Status" validate:"omitempty,oneof=TODO IN_PROGRESS REVIEW DONE"`
	Assignees   []string `json:"assignees" label:"Assignees" validate:"dive,required"`
}

type updateTaskRequest struct {
	ID     string `json:"id" label:"Task ID" validate:"required"`
	Status string `json:"status" label:"Status" validate:"required,oneof=TODO IN_PROGRESS REVIEW DONE"`
}

// visibleTo reports whether a VIEWER may see t: only tasks they created or
// are assigned to.
func visibleTo(t model.Task, role, userID string) bool {
	if role != model.RoleViewer {
		return true
	}
	return t.CreatedBy == userID || t.HasAssignee(userID)
}

func (s *Server) handleListTasks(c echo.Context) error {
	projectID := c.QueryParam("project_id")
	if projectID == "" {
		return errorJSON(c, http.StatusBadRequest, "project_id query required")
	}

	tasks, err := s.db.ListTasksByProject(c.Request().Context(), projectID)
	if err != nil {
		logger.Error("List tasks failed", logger.F("project_id", projectID), logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to fetch tasks")
	}

	role, _ := c.Get(ctxRole).(string)
	userID, _ := c.Get(ctxUserID).(string)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if visibleTo(t, role, userID) {
			out = append(out, t)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	req.ProjectID = strings.TrimSpace(req.ProjectID)
	req.Title = strings.TrimSpace(req.Title)
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	exists, err := s.db.ProjectExists(ctx, req.ProjectID)
	if err != nil {
		logger.Error("Project lookup failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create task")
	}
	if !exists {
		return errorJSON(c, http.StatusNotFound, "project not found")
	}

	userID, _ := c.Get(ctxUserID).(string)
	t := &model.Task{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Status:      model.StatusTodo,
		Assignees:   req.Assignees,
		CreatedBy:   userID,
	}
	if req.Status != "" {
		t.Status = model.Status(req.Status)
	}

	if err := s.db.CreateTask(ctx, t); err != nil {
		logger.Error("Create task failed", logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to create task")
	}

	logger.Info("Task created", logger.F("task_id", t.ID), logger.F("project_id", t.ProjectID))

	return c.JSON(http.StatusCreated, t)
}

func (s *Server) handleUpdateTask(c echo.Context) error {
	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}

	t, err := s.db.UpdateTaskStatus(c.Request().Context(), req.ID, model.Status(req.Status))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return errorJSON(c, http.StatusNotFound, "task not found")
		}
		logger.Error("Update task failed", logger.F("task_id", req.ID), logger.F("error", err))
		return errorJSON(c, http.StatusInternalServerError, "failed to update task")
	}

	logger.Info("Task moved", logger.F("task_id", t.ID), logger.F("status", t.Status))

	return c.JSON(http.StatusOK, t)
}
