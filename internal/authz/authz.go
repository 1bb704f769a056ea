// Package authz decides whether a session may mutate a task.
package authz

import (
	"github.com/docket-app/docket/internal/domain/task"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/session"
)

// CanMutate reports whether identity may complete or delete t: admins may
// touch any task, everyone else only their own. Existence of the task is
// the caller's problem and must be checked first.
func CanMutate(identity session.Identity, t task.Task) bool {
	if identity.Role == user.RoleAdmin {
		return true
	}

	return identity.UserID == t.OwnerID
}
