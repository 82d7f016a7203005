package commands

import (
	"strings"
	"testing"

	"github.com/fittrack-dev/fittrack/internal/cli/client"
	"github.com/fittrack-dev/fittrack/internal/cli/config"
	"github.com/fittrack-dev/fittrack/internal/cli/session"
)

type mockLoginStore struct {
	loginErr error
	role     string
	email    string
	password string
	calls    int
	session  *session.Session
}

func (m *mockLoginStore) Login(email, password string) error {
	m.calls++
	m.email = email
	m.password = password
	if m.loginErr != nil {
		return m.loginErr
	}
	role := m.role
	if role == "" {
		role = "user"
	}
	m.session = &session.Session{
		Token: "tok-1",
		User:  client.User{ID: "u1", Email: email, Name: "Test User", Role: role},
	}
	return nil
}

func (m *mockLoginStore) Current() (session.Session, bool) {
	if m.session == nil {
		return session.Session{}, false
	}
	return *m.session, true
}

func testServer() *config.Server {
	return &config.Server{Host: "fittrack.example.com", Alias: "production"}
}

func TestNewLoginCmd(t *testing.T) {
	cmd := NewLoginCmd()

	if cmd.Use != "login" {
		t.Errorf("expected Use 'login', got %q", cmd.Use)
	}
	for _, flag := range []string{"email", "password", "server"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag", flag)
		}
	}
}

func TestRunLogin_Success(t *testing.T) {
	store := &mockLoginStore{}
	var out strings.Builder

	err := runLogin("test@example.com", "secret", "",
		WithLoginServer(testServer()),
		WithLoginStore(store),
		WithLoginOutput(&out),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.calls != 1 || store.email != "test@example.com" || store.password != "secret" {
		t.Errorf("unexpected store interaction: %+v", store)
	}
	if !strings.Contains(out.String(), "Login successful") {
		t.Errorf("expected success message, got: %s", out.String())
	}
	if !strings.Contains(out.String(), "test@example.com") {
		t.Errorf("expected user email in output, got: %s", out.String())
	}
}

func TestRunLogin_MissingEmail(t *testing.T) {
	t.Setenv("FITTRACK_EMAIL", "")

	err := runLogin("", "secret", "",
		WithLoginServer(testServer()),
		WithLoginStore(&mockLoginStore{}),
		WithLoginOutput(&strings.Builder{}),
	)
	if err == nil {
		t.Fatal("expected error for missing email")
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunLogin_EnvironmentVariables(t *testing.T) {
	t.Setenv("FITTRACK_EMAIL", "env@example.com")
	t.Setenv("FITTRACK_PASSWORD", "env-secret")

	store := &mockLoginStore{}
	err := runLogin("", "", "",
		WithLoginServer(testServer()),
		WithLoginStore(store),
		WithLoginOutput(&strings.Builder{}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.email != "env@example.com" || store.password != "env-secret" {
		t.Errorf("expected credentials from environment, got %q / %q", store.email, store.password)
	}
}

func TestRunLogin_InvalidCredentials(t *testing.T) {
	store := &mockLoginStore{
		loginErr: &client.Error{Kind: client.KindInvalidCredentials, Status: 401, Message: "Invalid email or password"},
	}
	var out strings.Builder

	err := runLogin("test@example.com", "wrong", "",
		WithLoginServer(testServer()),
		WithLoginStore(store),
		WithLoginOutput(&out),
	)
	if err == nil {
		t.Fatal("expected error for invalid credentials")
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunLogin_NetworkError(t *testing.T) {
	store := &mockLoginStore{
		loginErr: &client.Error{Kind: client.KindNetwork, Message: "connection refused", Status: 0},
	}

	err := runLogin("test@example.com", "secret", "",
		WithLoginServer(testServer()),
		WithLoginStore(store),
		WithLoginOutput(&strings.Builder{}),
	)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "fittrack.example.com") {
		t.Errorf("expected the host in the error, got: %v", err)
	}
}

func TestRunLogin_AdminRoleShown(t *testing.T) {
	store := &mockLoginStore{role: "admin"}
	var out strings.Builder

	err := runLogin("admin@example.com", "secret", "",
		WithLoginServer(testServer()),
		WithLoginStore(store),
		WithLoginOutput(&out),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "Role: Admin") {
		t.Errorf("expected admin role line, got: %s", out.String())
	}
}
