package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kopichat/globals"
	"kopichat/models"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUsers struct {
	users map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[string]models.User)}
}

func (m *memUsers) List(_ context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, displayName, password, role string) (models.User, error) {
	if displayName == "" || password == "" {
		return models.User{}, fmt.Errorf("display name and password are required: %w", models.ErrValidation)
	}
	for _, u := range m.users {
		if u.DisplayName == displayName {
			return models.User{}, fmt.Errorf("display name %q already taken: %w", displayName, models.ErrValidation)
		}
	}
	u := models.User{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Role:        role,
		CreatedAt:   time.Now(),
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) Update(_ context.Context, id, displayName, password, role string) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	for otherID, other := range m.users {
		if otherID != id && other.DisplayName == displayName {
			return models.User{}, fmt.Errorf("display name %q already taken: %w", displayName, models.ErrValidation)
		}
	}
	u.DisplayName = displayName
	u.Role = role
	m.users[id] = u
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	delete(m.users, id)
	return nil
}

func adminRouter() *httprouter.Router {
	router := httprouter.New()
	router.POST("/api/admin/users", CreateUser)
	router.PUT("/api/admin/users/:userId", UpdateUser)
	router.DELETE("/api/admin/users/:userId", DeleteUser)
	return router
}

func doJSON(t *testing.T, router *httprouter.Router, method, path, body, asUserID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if asUserID != "" {
		ctx := context.WithValue(req.Context(), globals.UserIDKey, asUserID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func swapStore(t *testing.T) *memUsers {
	t.Helper()
	mem := newMemUsers()
	prev := Users
	Users = mem
	t.Cleanup(func() { Users = prev })
	return mem
}

func TestCreateUserRejectsDuplicateName(t *testing.T) {
	mem := swapStore(t)
	router := adminRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/admin/users",
		`{"displayName":"kim","password":"secret","role":"user"}`, "admin-1")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, mem.users, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/admin/users",
		`{"displayName":"kim","password":"other","role":"user"}`, "admin-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, mem.users, 1)
}

func TestUpdateUserDuplicateNameExcludesSelf(t *testing.T) {
	mem := swapStore(t)
	router := adminRouter()

	a, err := mem.Create(context.Background(), "kim", "pw", models.RoleUser)
	require.NoError(t, err)
	_, err = mem.Create(context.Background(), "lee", "pw", models.RoleUser)
	require.NoError(t, err)

	// Renaming to your own current name is fine.
	rec := doJSON(t, router, http.MethodPut, "/api/admin/users/"+a.ID,
		`{"displayName":"kim","role":"admin"}`, "admin-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.RoleAdmin, mem.users[a.ID].Role)

	// Renaming onto someone else's name is not.
	rec = doJSON(t, router, http.MethodPut, "/api/admin/users/"+a.ID,
		`{"displayName":"lee","role":"user"}`, "admin-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	mem := swapStore(t)
	router := adminRouter()

	u, err := mem.Create(context.Background(), "kim", "pw", models.RoleUser)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/admin/users/"+u.ID, "", "admin-1")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, mem.users)

	rec = doJSON(t, router, http.MethodDelete, "/api/admin/users/"+u.ID, "", "admin-1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUserSelfBlocked(t *testing.T) {
	mem := swapStore(t)
	router := adminRouter()

	u, err := mem.Create(context.Background(), "kim", "pw", models.RoleAdmin)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodDelete, "/api/admin/users/"+u.ID, "", u.ID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, mem.users, 1)
}
