package http

import "github.com/fyrsmithlabs/taskwave/internal/task"

// Response messages and errors of the /tasks contract.
const (
	msgCreated   = "Task created successfully"
	msgUpdated   = "Task updated successfully"
	msgDeleted   = "Task deleted successfully"
	msgCompleted = "Task completed successfully"

	errMissingFields    = "Missing required fields"
	errIDRequired       = "Task ID is required"
	errTitleOrID        = "Task title or ID is required"
	errInvalidBody      = "Invalid request body"
	errRateLimited      = "Rate limit exceeded"
	errTaskNotFound     = "Task not found"
	errInvalidTaskIDArg = "Invalid task ID"
)

// allowedMethods is the Allow header sent with 405 responses on /tasks.
const allowedMethods = "GET, POST, PUT, DELETE"

// MessageResponse is the body of successful mutations.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateTaskRequest is the body of POST /tasks. Every field is required.
// Empty strings count as missing; group and section only need to be present.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Persona     string `json:"persona"`
	Group       *int   `json:"group"`
	Section     *int   `json:"section"`
}

func (r CreateTaskRequest) complete() bool {
	return r.Title != "" && r.Description != "" && r.Persona != "" && r.Group != nil && r.Section != nil
}

// UpdateTaskRequest is the body of PUT /tasks: an id plus any fields to change.
type UpdateTaskRequest struct {
	ID int `json:"id"`
	task.Patch
}

// DeleteTaskRequest is the body of DELETE /tasks.
type DeleteTaskRequest struct {
	ID int `json:"id"`
}

// CompleteTaskRequest is the body of POST /tasks/complete. ID wins over Title.
type CompleteTaskRequest struct {
	Title string `json:"title,omitempty"`
	ID    int    `json:"id,omitempty"`
}

// CompleteTaskResponse reports a completion and the task it unlocked, if any.
type CompleteTaskResponse struct {
	Message  string     `json:"message"`
	Task     *task.Task `json:"task,omitempty"`
	Unlocked *task.Task `json:"unlocked"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
