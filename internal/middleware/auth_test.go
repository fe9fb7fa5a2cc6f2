package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leximind.com/api/internal/entity"
	userRepo "leximind.com/api/internal/modules/user/repository"
	"leximind.com/api/pkg/auth"
)

type fakeUsers struct {
	userRepo.UserRepository
	users map[uuid.UUID]*entity.User
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func setup(t *testing.T) (*gin.Engine, *auth.TokenManager, map[string]*entity.User) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	people := map[string]*entity.User{
		entity.RoleStudent: {ID: uuid.New(), Username: "budi", Role: entity.Role{Name: entity.RoleStudent}},
		entity.RoleTeacher: {ID: uuid.New(), Username: "bu_ani", Role: entity.Role{Name: entity.RoleTeacher}},
		entity.RoleAdmin:   {ID: uuid.New(), Username: "admin", Role: entity.Role{Name: entity.RoleAdmin}},
	}
	repo := &fakeUsers{users: map[uuid.UUID]*entity.User{}}
	for _, u := range people {
		repo.users[u.ID] = u
	}

	tokens := auth.NewTokenManager("mw-secret", time.Hour)
	mw := NewAuthMiddleware(repo, tokens)

	r := gin.New()
	api := r.Group("/api", mw.RequireAuth())
	api.GET("/me", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("user_id")) })
	api.GET("/staff", mw.RequireRole(entity.RoleTeacher, entity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	api.GET("/admin", mw.RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	return r, tokens, people
}

func call(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// TestRequireAuth verifies missing and invalid tokens are rejected with 401.
func TestRequireAuth(t *testing.T) {
	r, tokens, people := setup(t)

	assert.Equal(t, http.StatusUnauthorized, call(r, "/api/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(r, "/api/me", "garbage").Code)

	student := people[entity.RoleStudent]
	tok, err := tokens.Issue(student.ID.String(), student.Username, entity.RoleStudent)
	require.NoError(t, err)

	w := call(r, "/api/me", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, student.ID.String(), w.Body.String())

	w = call(r, "/api/me?token="+tok, "")
	assert.Equal(t, http.StatusOK, w.Code, "query token is accepted")
}

// TestRequireRole verifies role gates answer 403 for the wrong role.
func TestRequireRole(t *testing.T) {
	r, tokens, people := setup(t)
	issue := func(role string) string {
		u := people[role]
		tok, err := tokens.Issue(u.ID.String(), u.Username, role)
		require.NoError(t, err)
		return tok
	}

	assert.Equal(t, http.StatusForbidden, call(r, "/api/staff", issue(entity.RoleStudent)).Code)
	assert.Equal(t, http.StatusOK, call(r, "/api/staff", issue(entity.RoleTeacher)).Code)
	assert.Equal(t, http.StatusOK, call(r, "/api/staff", issue(entity.RoleAdmin)).Code)
	assert.Equal(t, http.StatusForbidden, call(r, "/api/admin", issue(entity.RoleTeacher)).Code)
	assert.Equal(t, http.StatusOK, call(r, "/api/admin", issue(entity.RoleAdmin)).Code)
}

// TestRequireRoleUnknownUser verifies a valid token for a deleted account is 401.
func TestRequireRoleUnknownUser(t *testing.T) {
	r, tokens, _ := setup(t)
	tok, err := tokens.Issue(uuid.New().String(), "ghost", entity.RoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(r, "/api/admin", tok).Code)
}
