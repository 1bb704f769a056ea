package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/docket-app/docket/internal/authz"
	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/domain/task"
	"github.com/docket-app/docket/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type TaskStore interface {
	Create(ctx context.Context, t task.Task) (task.Task, error)
	GetByID(ctx context.Context, id int64) (task.Task, error)
	MarkComplete(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	ListOpen(ctx context.Context) ([]task.Task, error)
	ListClosed(ctx context.Context) ([]task.Task, error)
}

type TasksHandler struct {
	repo TaskStore
}

func NewTasksHandler(repo TaskStore) *TasksHandler {
	return &TasksHandler{repo: repo}
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	identity, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	t, err := task.NewFromCreateRequest(req, identity.UserID)

	if err != nil {
		// binding tags catch this first on the HTTP path; kept for callers
		// that bypass binding
		RespondBadRequest(ctx, "invalid_task", err.Error())
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	created, err := h.repo.Create(cctx, t)

	if err != nil {
		RespondInternal(ctx, "Could not create task")
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// ListOpen returns every user's open tasks, not just the caller's. The
// shared list is deliberate: only mutation is ownership-gated.
func (h *TasksHandler) ListOpen(ctx *gin.Context) {
	h.list(ctx, h.repo.ListOpen)
}

func (h *TasksHandler) ListClosed(ctx *gin.Context) {
	h.list(ctx, h.repo.ListClosed)
}

func (h *TasksHandler) list(ctx *gin.Context, fetch func(context.Context) ([]task.Task, error)) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	tasks, err := fetch(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list tasks")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": tasks,
		"count": len(tasks),
	})
}

func (h *TasksHandler) CompleteTask(ctx *gin.Context) {
	h.mutate(ctx, func(cctx context.Context, t task.Task) error {
		return h.repo.MarkComplete(cctx, t.ID)
	}, func(ctx *gin.Context, t task.Task) {
		t.Status = task.StatusClosed
		ctx.JSON(http.StatusOK, t)
	})
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	h.mutate(ctx, func(cctx context.Context, t task.Task) error {
		return h.repo.Delete(cctx, t.ID)
	}, func(ctx *gin.Context, _ task.Task) {
		ctx.Status(http.StatusNoContent)
	})
}

// mutate runs the shared gate in front of both mutating operations:
// resolve the task (404 before any ownership question), then apply the
// owner-or-admin rule, then perform the mutation.
func (h *TasksHandler) mutate(ctx *gin.Context, apply func(context.Context, task.Task) error, respond func(*gin.Context, task.Task)) {
	id, ok := taskIDParam(ctx)

	if !ok {
		return
	}

	identity, found := middlewares.IdentityFromContext(ctx)

	if !found {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	t, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx, "Could not load task")
		return
	}

	if !authz.CanMutate(identity, t) {
		RespondForbidden(ctx, "not_permitted", "You can only change tasks that you created.")
		return
	}

	err = apply(cctx, t)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			// deleted underneath us between the load and the mutation
			RespondNotFound(ctx, "Task not found")
			return
		}

		RespondInternal(ctx, "Could not update task")
		return
	}

	respond(ctx, t)
}

func taskIDParam(ctx *gin.Context) (int64, bool) {
	raw := ctx.Param("id")

	id, err := strconv.ParseInt(raw, 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "invalid_id", "task id must be a positive integer")
		return 0, false
	}

	return id, true
}
