package authz_test

import (
	"testing"

	"github.com/docket-app/docket/internal/authz"
	"github.com/docket-app/docket/internal/domain/task"
	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/session"
)

func TestCanMutate(t *testing.T) {
	owned := task.Task{ID: 1, Name: "Pay rent", OwnerID: 7}

	tests := []struct {
		name     string
		identity session.Identity
		task     task.Task
		want     bool
	}{
		{
			name:     "owner_may_mutate",
			identity: session.Identity{UserID: 7, Role: user.RoleUser, Name: "alice"},
			task:     owned,
			want:     true,
		},
		{
			name:     "other_user_may_not",
			identity: session.Identity{UserID: 8, Role: user.RoleUser, Name: "bob"},
			task:     owned,
			want:     false,
		},
		{
			name:     "admin_overrides_ownership",
			identity: session.Identity{UserID: 99, Role: user.RoleAdmin, Name: "root"},
			task:     owned,
			want:     true,
		},
		{
			name:     "anonymous_zero_identity_denied",
			identity: session.Identity{},
			task:     owned,
			want:     false,
		},
		{
			name:     "owner_id_zero_does_not_match_anonymous",
			identity: session.Identity{UserID: 0, Role: user.RoleUser},
			task:     task.Task{ID: 2, OwnerID: 3},
			want:     false,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := authz.CanMutate(tt.identity, tt.task)

			if got != tt.want {
				t.Fatalf("CanMutate(%+v, owner=%d) = %v, want %v", tt.identity, tt.task.OwnerID, got, tt.want)
			}
		})
	}
}
