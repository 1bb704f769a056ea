package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/docket-app/docket/internal/config"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type UsersHandler struct {
	repo UserLister
}

func NewUsersHandler(repo UserLister) *UsersHandler {
	return &UsersHandler{repo: repo}
}

// ListUsers is admin-only; the router mounts it behind RequireRole.
// Password hashes never serialize (json:"-" on the domain type).
func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	users, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": users,
		"count": len(users),
	})
}
