package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/docket-app/docket/internal/domain/user"
	"github.com/docket-app/docket/internal/http/handlers"
	"github.com/docket-app/docket/internal/http/middlewares"
	"github.com/docket-app/docket/internal/session"
	"github.com/gin-gonic/gin"
)

type fakeUserLister struct {
	listFn func(ctx context.Context) ([]user.User, error)
}

func (f *fakeUserLister) List(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return []user.User{}, nil
}

func setupUsersRouter(repo *fakeUserLister, sessions *fakeSessions) *gin.Engine {
	r := gin.New()

	h := handlers.NewUsersHandler(repo)
	guard := middlewares.NewSessionMiddleware(sessions)

	// mounted exactly as the router does: session first, then role
	r.GET("/users", guard.RequireSession(), guard.RequireRole(user.RoleAdmin), h.ListUsers)

	return r
}

func TestListUsers(t *testing.T) {
	repo := &fakeUserLister{
		listFn: func(ctx context.Context) ([]user.User, error) {
			return []user.User{
				{ID: 1, Name: "root", Email: "root@example.com", PasswordHash: "$2a$10$secret", Role: user.RoleAdmin, CreatedAt: time.Now()},
				{ID: 2, Name: "alice", Email: "alice@example.com", PasswordHash: "$2a$10$secret", Role: user.RoleUser, CreatedAt: time.Now()},
			}, nil
		},
	}

	tests := []struct {
		name           string
		sessions       *fakeSessions
		withCookie     bool
		wantStatusCode int
	}{
		{
			name: "admin_gets_the_list",
			sessions: &fakeSessions{
				identity: session.Identity{UserID: 1, Role: user.RoleAdmin, Name: "root"},
				ok:       true,
			},
			withCookie:     true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "plain_user_is_refused",
			sessions:       aliceSession(),
			withCookie:     true,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "anonymous_is_refused",
			sessions:       aliceSession(),
			withCookie:     false,
			wantStatusCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := setupUsersRouter(repo, tt.sessions)

			w := doTaskRequest(r, http.MethodGet, "/users", "", tt.withCookie)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				body := w.Body.String()

				if !strings.Contains(body, `"count":2`) || !strings.Contains(body, `"alice"`) {
					t.Fatalf("unexpected list body: %s", body)
				}

				// hashes never serialize
				if strings.Contains(body, "passwordHash") || strings.Contains(body, "$2a$") {
					t.Fatalf("password hash leaked into the response: %s", body)
				}
			}
		})
	}
}
