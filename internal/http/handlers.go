package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fyrsmithlabs/taskwave/internal/task"
	"github.com/fyrsmithlabs/taskwave/internal/tracker"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// otherMethods are answered with 405 on /tasks.
var otherMethods = []string{
	http.MethodHead,
	http.MethodPatch,
	http.MethodOptions,
	http.MethodTrace,
	http.MethodConnect,
	echo.PROPFIND,
	echo.REPORT,
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tracker.Status(c.Request().Context()))
}

// handleListTasks serves GET /tasks?type=active|completed. Any other type
// lists every task.
func (s *Server) handleListTasks(c echo.Context) error {
	filter := task.ParseFilter(c.QueryParam("type"))
	return c.JSON(http.StatusOK, s.tracker.List(c.Request().Context(), filter))
}

func (s *Server) handleGetTask(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return badRequest(c, errInvalidTaskIDArg)
	}
	t, err := s.tracker.Get(c.Request().Context(), id)
	if errors.Is(err, tracker.ErrNotFound) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: errTaskNotFound})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) handleCreateTask(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid create request", zap.Error(err))
		return badRequest(c, errInvalidBody)
	}
	if !req.complete() {
		return badRequest(c, errMissingFields)
	}

	s.tracker.Create(ctx, tracker.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		Persona:     req.Persona,
		Group:       *req.Group,
		Section:     *req.Section,
	})
	return c.JSON(http.StatusCreated, MessageResponse{Message: msgCreated})
}

// handleUpdateTask serves PUT /tasks. An unknown id is a silent no-op.
func (s *Server) handleUpdateTask(c echo.Context) error {
	ctx := c.Request().Context()

	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid update request", zap.Error(err))
		return badRequest(c, errInvalidBody)
	}
	if req.ID == 0 {
		return badRequest(c, errIDRequired)
	}

	s.tracker.Update(ctx, req.ID, req.Patch)
	return c.JSON(http.StatusOK, MessageResponse{Message: msgUpdated})
}

// handleDeleteTask serves DELETE /tasks. An unknown id is a silent no-op.
func (s *Server) handleDeleteTask(c echo.Context) error {
	ctx := c.Request().Context()

	var req DeleteTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid delete request", zap.Error(err))
		return badRequest(c, errInvalidBody)
	}
	if req.ID == 0 {
		return badRequest(c, errIDRequired)
	}

	s.tracker.Delete(ctx, req.ID)
	return c.JSON(http.StatusOK, MessageResponse{Message: msgDeleted})
}

func (s *Server) handleCompleteTask(c echo.Context) error {
	ctx := c.Request().Context()

	var req CompleteTaskRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn(ctx, "invalid complete request", zap.Error(err))
		return badRequest(c, errInvalidBody)
	}

	var res task.CompletionResult
	switch {
	case req.ID != 0:
		res = s.tracker.CompleteByID(ctx, req.ID)
	case req.Title != "":
		res = s.tracker.Complete(ctx, req.Title)
	default:
		return badRequest(c, errTitleOrID)
	}

	return c.JSON(http.StatusOK, CompleteTaskResponse{
		Message:  msgCompleted,
		Task:     res.Task,
		Unlocked: res.Unlocked,
	})
}

func (s *Server) handleMethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, allowedMethods)
	return c.String(http.StatusMethodNotAllowed, fmt.Sprintf("Method %s Not Allowed", c.Request().Method))
}
