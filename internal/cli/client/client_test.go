package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// staticTokens is a TokenSource returning a fixed token
type staticTokens struct {
	token string
	ok    bool
}

func (s *staticTokens) Token() (string, bool) {
	return s.token, s.ok
}

func newTestClient(serverURL string) *Client {
	c := New("ignored")
	c.SetBaseURL(serverURL)
	c.SetHTTPClient(http.DefaultClient)
	return c
}

func TestClient_NoSessionOmitsAuthorizationHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Goal{})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.BindSessions(&staticTokens{ok: false}, nil)

	if _, err := c.ListGoals(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "" {
		t.Errorf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_ActiveSessionAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Goal{})
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	c.BindSessions(&staticTokens{token: "tok-123", ok: true}, nil)

	if _, err := c.ListGoals(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected 'Bearer tok-123', got %q", gotAuth)
	}
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid email or password"}`))
	}))
	defer server.Close()

	invalidated := false
	c := newTestClient(server.URL)
	c.BindSessions(&staticTokens{ok: false}, func() { invalidated = true })

	_, err := c.Login("test@example.com", "wrongpw")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !IsKind(err, KindInvalidCredentials) {
		t.Errorf("expected invalid credentials kind, got: %v", err)
	}

	// A rejected login must not tear down whatever session exists
	if invalidated {
		t.Error("login rejection must not trigger session invalidation")
	}
}

func TestClient_Login_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		json.NewEncoder(w).Encode(LoginResponse{
			Token: "test-token-abc",
			User: User{
				ID:    "user-123",
				Email: req.Email,
				Name:  "Test User",
				Role:  "user",
			},
		})
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	resp, err := c.Login("test@example.com", "correctpw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Token != "test-token-abc" {
		t.Errorf("expected token 'test-token-abc', got %q", resp.Token)
	}
	if resp.User.Email != "test@example.com" {
		t.Errorf("expected user email to echo the submitted email, got %q", resp.User.Email)
	}
}

func TestClient_Signup_DuplicateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "Email already registered"}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	_, err := c.Signup("Alice", "alice@x.com", "pw123")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !IsKind(err, KindValidation) {
		t.Errorf("expected validation kind, got: %v", err)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Email already registered" {
		t.Errorf("expected server message to be preserved, got: %v", err)
	}
}

func TestClient_UnauthorizedTriggersInvalidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": "Invalid or expired token"}`))
	}))
	defer server.Close()

	invalidated := false
	c := newTestClient(server.URL)
	c.BindSessions(&staticTokens{token: "stale", ok: true}, func() { invalidated = true })

	_, err := c.FetchAllUserStatistics()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !IsKind(err, KindUnauthorized) {
		t.Errorf("expected unauthorized kind, got: %v", err)
	}
	if !invalidated {
		t.Error("expected the invalidation hook to fire on 401")
	}
}

func TestClient_StatusNormalization(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusForbidden, KindForbidden},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindValidation},
		{http.StatusInternalServerError, KindServer},
		{http.StatusBadGateway, KindServer},
	}

	for _, tc := range cases {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error": "nope"}`))
		}))

		c := newTestClient(server.URL)
		_, err := c.ListWorkouts()
		server.Close()

		if err == nil {
			t.Fatalf("status %d: expected error, got nil", tc.status)
		}
		if !IsKind(err, tc.kind) {
			t.Errorf("status %d: expected kind %s, got: %v", tc.status, tc.kind, err)
		}
	}
}

func TestClient_NetworkError(t *testing.T) {
	// Point at a server that was already shut down
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	c := newTestClient(serverURL)

	_, err := c.ListGoals()
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if !IsKind(err, KindNetwork) {
		t.Errorf("expected network kind, got: %v", err)
	}
}

func TestClient_FetchAllUserStatistics_ParsesWireFormat(t *testing.T) {
	payload := `[
		{
			"user": {"_id": "u1", "name": "Alice", "email": "alice@x.com"},
			"goals": [{"_id": "g1", "goalType": "distance", "targetValue": 100, "progress": 42.5}],
			"workouts": [{"_id": "w1", "activity": "running", "duration": 30}]
		},
		{
			"user": {"_id": "u2", "name": "Bob", "email": "bob@x.com"},
			"goals": [],
			"workouts": []
		}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/statistics" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer server.Close()

	c := newTestClient(server.URL)

	stats, err := c.FetchAllUserStatistics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(stats))
	}

	first := stats[0]
	if first.User.ID != "u1" || first.User.Name != "Alice" {
		t.Errorf("unexpected first user: %+v", first.User)
	}
	if len(first.Goals) != 1 || first.Goals[0].GoalType != "distance" || first.Goals[0].Progress != 42.5 {
		t.Errorf("unexpected goals: %+v", first.Goals)
	}
	if len(first.Workouts) != 1 || first.Workouts[0].Duration != 30 {
		t.Errorf("unexpected workouts: %+v", first.Workouts)
	}

	// Order must be exactly as the server returned it
	if stats[1].User.ID != "u2" {
		t.Errorf("expected server order preserved, got %+v", stats[1].User)
	}
	if len(stats[1].Goals) != 0 || len(stats[1].Workouts) != 0 {
		t.Errorf("expected empty slices for user without records, got %+v", stats[1])
	}
}
