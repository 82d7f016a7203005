package client

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource provides the current session token, if any. The client reads it
// lazily on every request so a logout between two calls is always respected.
type TokenSource interface {
	Token() (string, bool)
}

// Client represents an HTTP client for the FitTrack API
type Client struct {
	baseURL    string
	httpClient *http.Client

	tokens         TokenSource
	onUnauthorized func()
}

// New creates a new API client
func New(host string) *Client {
	// Assume HTTPS by default (Caddy serves on 443)
	baseURL := fmt.Sprintf("https://%s", host)

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Skip TLS verification for self-signed certificates
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: true,
				},
			},
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// SetBaseURL overrides the derived base URL (used with plain-HTTP test servers)
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// BindSessions attaches the credential source and the hook invoked when any
// request comes back Unauthorized. The hook runs before the error is returned
// so the session state is already reset when the caller sees the failure.
func (c *Client) BindSessions(tokens TokenSource, onUnauthorized func()) {
	c.tokens = tokens
	c.onUnauthorized = onUnauthorized
}

// request describes one API call passed through the do() chokepoint
type request struct {
	method string
	path   string
	body   any
	out    any

	// credentialOp marks login-style calls: 401 means bad credentials,
	// not a dead session, and must not invalidate anything
	credentialOp bool

	created bool // expect 201 instead of 200
}

// do is the single path for every outbound request: it attaches the current
// session token, executes the call and normalizes any failure into *Error.
func (c *Client) do(r request) error {
	var body io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(r.method, c.baseURL+r.path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Attach the bearer token whenever a session exists; requests with no
	// active session go out without one
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	wantStatus := http.StatusOK
	if r.created {
		wantStatus = http.StatusCreated
	}

	if resp.StatusCode != wantStatus {
		message := readErrorMessage(resp.Body)
		apiErr := normalizeStatus(resp.StatusCode, message, r.credentialOp)
		if apiErr.Kind == KindUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return apiErr
	}

	if r.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
			return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "failed to decode response", cause: err}
		}
	}

	return nil
}

// readErrorMessage extracts the {"error": "..."} body the API uses for failures
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return ""
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Error == "" {
		return string(bytes.TrimSpace(data))
	}
	return payload.Error
}

// User represents an account as returned by the API
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates the user and returns a session token
func (c *Client) Login(email, password string) (*LoginResponse, error) {
	var loginResp LoginResponse
	err := c.do(request{
		method:       "POST",
		path:         "/auth/login",
		body:         LoginRequest{Email: email, Password: password},
		out:          &loginResp,
		credentialOp: true,
	})
	if err != nil {
		return nil, err
	}
	return &loginResp, nil
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupResponse represents the signup response
type SignupResponse struct {
	User User `json:"user"`
}

// Signup creates a new account. It does not create a session; callers log in
// separately afterwards.
func (c *Client) Signup(name, email, password string) (*SignupResponse, error) {
	var signupResp SignupResponse
	err := c.do(request{
		method:       "POST",
		path:         "/auth/signup",
		body:         SignupRequest{Name: name, Email: email, Password: password},
		out:          &signupResp,
		credentialOp: true,
		created:      true,
	})
	if err != nil {
		return nil, err
	}
	return &signupResp, nil
}

// CurrentUser fetches the authenticated user's profile
func (c *Client) CurrentUser() (*User, error) {
	var user User
	if err := c.do(request{method: "GET", path: "/auth/me", out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}

// StatsUser is the user portion of a statistics entry
type StatsUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatsGoal is one goal inside a statistics entry
type StatsGoal struct {
	ID          string  `json:"_id"`
	GoalType    string  `json:"goalType"`
	TargetValue float64 `json:"targetValue"`
	Progress    float64 `json:"progress"`
}

// StatsWorkout is one workout inside a statistics entry
type StatsWorkout struct {
	ID       string `json:"_id"`
	Activity string `json:"activity"`
	Duration int    `json:"duration"` // minutes
}

// UserStatistics aggregates one user's goals and workouts
type UserStatistics struct {
	User     StatsUser      `json:"user"`
	Goals    []StatsGoal    `json:"goals"`
	Workouts []StatsWorkout `json:"workouts"`
}

// FetchAllUserStatistics returns the per-user aggregation for every account.
// The order is whatever the server returned.
func (c *Client) FetchAllUserStatistics() ([]UserStatistics, error) {
	var stats []UserStatistics
	if err := c.do(request{method: "GET", path: "/admin/statistics", out: &stats}); err != nil {
		return nil, err
	}
	return stats, nil
}

// Goal represents a fitness goal record
type Goal struct {
	ID          string  `json:"id"`
	GoalType    string  `json:"goal_type"`
	TargetValue float64 `json:"target_value"`
	Progress    float64 `json:"progress"`
	CreatedAt   string  `json:"created_at"`
}

// CreateGoalRequest represents the goal creation request
type CreateGoalRequest struct {
	GoalType    string  `json:"goal_type"`
	TargetValue float64 `json:"target_value"`
	Progress    float64 `json:"progress"`
}

// ListGoals returns the authenticated user's goals
func (c *Client) ListGoals() ([]Goal, error) {
	var goals []Goal
	if err := c.do(request{method: "GET", path: "/goals", out: &goals}); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates a new fitness goal
func (c *Client) CreateGoal(goalType string, targetValue, progress float64) (*Goal, error) {
	var goal Goal
	err := c.do(request{
		method:  "POST",
		path:    "/goals",
		body:    CreateGoalRequest{GoalType: goalType, TargetValue: targetValue, Progress: progress},
		out:     &goal,
		created: true,
	})
	if err != nil {
		return nil, err
	}
	return &goal, nil
}

// Workout represents a logged workout record
type Workout struct {
	ID        string `json:"id"`
	Activity  string `json:"activity"`
	Duration  int    `json:"duration"`
	CreatedAt string `json:"created_at"`
}

// LogWorkoutRequest represents the workout logging request
type LogWorkoutRequest struct {
	Activity string `json:"activity"`
	Duration int    `json:"duration"`
}

// ListWorkouts returns the authenticated user's workouts
func (c *Client) ListWorkouts() ([]Workout, error) {
	var workouts []Workout
	if err := c.do(request{method: "GET", path: "/workouts", out: &workouts}); err != nil {
		return nil, err
	}
	return workouts, nil
}

// LogWorkout records a completed workout
func (c *Client) LogWorkout(activity string, duration int) (*Workout, error) {
	var workout Workout
	err := c.do(request{
		method:  "POST",
		path:    "/workouts",
		body:    LogWorkoutRequest{Activity: activity, Duration: duration},
		out:     &workout,
		created: true,
	})
	if err != nil {
		return nil, err
	}
	return &workout, nil
}
