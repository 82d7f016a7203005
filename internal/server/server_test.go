package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/fittrack-dev/fittrack/internal/auth"
	"github.com/fittrack-dev/fittrack/internal/config"
	"github.com/fittrack-dev/fittrack/internal/models"
)

// newTestServer spins up a server backed by a throwaway SQLite file
func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0"},
		Database: config.DatabaseConfig{URL: filepath.Join(t.TempDir(), "test.sqlite")},
		Redis:    config.RedisConfig{Address: "localhost:6379"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret"},
	}

	srv, err := New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	return srv
}

// createTestUser inserts a user directly and returns it with a valid token
func createTestUser(t *testing.T, srv *Server, email, role string) (*models.User, string) {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		Role:         role,
	}
	require.NoError(t, srv.db.Create(user).Error)

	token, err := auth.GenerateToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)

	return user, token
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "online", body["status"])
}

func TestLogin_Success(t *testing.T) {
	srv := newTestServer(t)
	user, _ := createTestUser(t, srv, "test@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, user.ID, resp.User.ID)
	require.Equal(t, "test@example.com", resp.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "test@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLogin_UnknownEmail(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	// Same message as a wrong password so the response doesn't reveal
	// which emails exist
	require.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestSignup_Success(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp SignupResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "new@example.com", resp.User.Email)
	require.Equal(t, models.RoleUser, resp.User.Role)

	// No session is created by signup; the login still has to happen
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotContains(t, body, "token")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	createTestUser(t, srv, "taken@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     "Another User",
		"email":    "taken@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Email already registered")
}

func TestSignup_ShortPassword(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCurrentUser(t *testing.T) {
	srv := newTestServer(t)
	user, token := createTestUser(t, srv, "test@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp UserDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, user.Email, resp.Email)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/auth/me", "not-a-real-token", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_DeletedUser(t *testing.T) {
	srv := newTestServer(t)
	user, token := createTestUser(t, srv, "test@example.com", models.RoleUser)

	require.NoError(t, srv.db.Delete(&models.User{}, "id = ?", user.ID).Error)

	w := doJSON(t, srv, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatistics_RequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	_, token := createTestUser(t, srv, "user@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodGet, "/admin/statistics", token, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Admin access required")
}

func TestStatistics_RequiresAuth(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/admin/statistics", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatistics_AggregatesPerUser(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := createTestUser(t, srv, "admin@example.com", models.RoleAdmin)
	user, userToken := createTestUser(t, srv, "user@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/goals", userToken, map[string]any{
		"goal_type":    "weight_loss",
		"target_value": 75.5,
		"progress":     70,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/workouts", userToken, map[string]any{
		"activity": "running",
		"duration": 45,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/admin/statistics", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []UserStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 2)

	// Users come back in creation order: admin first, then the user
	require.Equal(t, "admin@example.com", stats[0].User.Email)
	require.Empty(t, stats[0].Goals)
	require.Empty(t, stats[0].Workouts)

	require.Equal(t, user.ID, stats[1].User.ID)
	require.Len(t, stats[1].Goals, 1)
	require.Equal(t, "weight_loss", stats[1].Goals[0].GoalType)
	require.Equal(t, 75.5, stats[1].Goals[0].TargetValue)
	require.Len(t, stats[1].Workouts, 1)
	require.Equal(t, "running", stats[1].Workouts[0].Activity)
	require.Equal(t, 45, stats[1].Workouts[0].Duration)
}

func TestStatistics_ChildRecordsInCreationOrder(t *testing.T) {
	srv := newTestServer(t)
	admin, adminToken := createTestUser(t, srv, "admin@example.com", models.RoleAdmin)

	// Insert the later-created goal first so insertion order and creation
	// order disagree
	now := time.Now().UTC()
	later := &models.Goal{
		BaseModel:   models.BaseModel{CreatedAt: now},
		UserID:      admin.ID,
		GoalType:    "strength",
		TargetValue: 120,
	}
	require.NoError(t, srv.db.Create(later).Error)
	earlier := &models.Goal{
		BaseModel:   models.BaseModel{CreatedAt: now.Add(-time.Hour)},
		UserID:      admin.ID,
		GoalType:    "distance",
		TargetValue: 100,
	}
	require.NoError(t, srv.db.Create(earlier).Error)

	w := doJSON(t, srv, http.MethodGet, "/admin/statistics", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats []UserStatistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	require.Len(t, stats[0].Goals, 2)
	require.Equal(t, "distance", stats[0].Goals[0].GoalType)
	require.Equal(t, "strength", stats[0].Goals[1].GoalType)
}

func TestStatistics_WireFormat(t *testing.T) {
	srv := newTestServer(t)
	_, adminToken := createTestUser(t, srv, "admin@example.com", models.RoleAdmin)

	w := doJSON(t, srv, http.MethodPost, "/goals", adminToken, map[string]any{
		"goal_type":    "distance",
		"target_value": 100,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/admin/statistics", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The dashboard contract uses _id and camelCase goal fields, and empty
	// lists serialize as [] rather than disappearing
	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)

	var user map[string]any
	require.NoError(t, json.Unmarshal(raw[0]["user"], &user))
	require.Contains(t, user, "_id")

	var goals []map[string]any
	require.NoError(t, json.Unmarshal(raw[0]["goals"], &goals))
	require.Len(t, goals, 1)
	require.Contains(t, goals[0], "_id")
	require.Contains(t, goals[0], "goalType")
	require.Contains(t, goals[0], "targetValue")

	require.Equal(t, "[]", string(raw[0]["workouts"]))
}

func TestGoals_ScopedToUser(t *testing.T) {
	srv := newTestServer(t)
	_, tokenA := createTestUser(t, srv, "a@example.com", models.RoleUser)
	_, tokenB := createTestUser(t, srv, "b@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/goals", tokenA, map[string]any{
		"goal_type":    "strength",
		"target_value": 120,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/goals", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var goals []models.Goal
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goals))
	require.Empty(t, goals)
}

func TestCreateGoal_UnknownType(t *testing.T) {
	srv := newTestServer(t)
	_, token := createTestUser(t, srv, "test@example.com", models.RoleUser)

	w := doJSON(t, srv, http.MethodPost, "/goals", token, map[string]any{
		"goal_type":    "levitation",
		"target_value": 10,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Unknown goal type")
}

func TestLogWorkout_Validation(t *testing.T) {
	srv := newTestServer(t)
	_, token := createTestUser(t, srv, "test@example.com", models.RoleUser)

	for _, body := range []map[string]any{
		{"activity": "", "duration": 30},
		{"activity": "running", "duration": 0},
		{"activity": "running", "duration": -5},
	} {
		w := doJSON(t, srv, http.MethodPost, "/workouts", token, body)
		require.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("body: %v", body))
	}
}

func TestWorkouts_ListInCreationOrder(t *testing.T) {
	srv := newTestServer(t)
	_, token := createTestUser(t, srv, "test@example.com", models.RoleUser)

	for _, activity := range []string{"running", "cycling", "swimming"} {
		w := doJSON(t, srv, http.MethodPost, "/workouts", token, map[string]any{
			"activity": activity,
			"duration": 30,
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, srv, http.MethodGet, "/workouts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var workouts []models.Workout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &workouts))
	require.Len(t, workouts, 3)
	require.Equal(t, "running", workouts[0].Activity)
	require.Equal(t, "swimming", workouts[2].Activity)
}
