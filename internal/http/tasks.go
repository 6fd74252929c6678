package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/contacts/internal/runner"
)

// TasksController reports the state of submitted imports for polling clients.
type TasksController struct {
	executor runner.Executor
}

// NewTasksController creates a new TasksController.
func NewTasksController(executor runner.Executor) *TasksController {
	return &TasksController{executor: executor}
}

// TaskStatusResponse is the JSON body of GET /contacts/import/tasks/:id
type TaskStatusResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Ready    bool   `json:"ready"`
	Imported int    `json:"imported"`
	Total    int    `json:"total"`
	Error    string `json:"error,omitempty"`
}

// GetTaskStatus handles GET /contacts/import/tasks/:id
// Runs of other users are reported as not found.
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	handle, err := tc.executor.Lookup(ctx, taskID)
	if err != nil && !errors.Is(err, runner.ErrRunNotFound) {
		respondInternalError(c, err, "lookup import task")
		return
	}
	if err != nil || handle.OwnerID != GetUserID(c) {
		respondNotFound(c, "task")
		return
	}

	resp := TaskStatusResponse{
		ID:       handle.TaskID,
		Status:   string(handle.State),
		Ready:    handle.Ready(),
		Imported: handle.Result.Imported,
		Total:    handle.Result.Total,
	}
	if handle.Ready() && !handle.Succeeded() {
		resp.Error = msgImportFailed
	}

	c.JSON(http.StatusOK, resp)
}
