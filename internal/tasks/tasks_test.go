package tasks

import (
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestWelcomeEmailTaskRoundTrip(t *testing.T) {
	task, err := NewWelcomeEmailTask("u1", "test@example.com", "Test User")
	require.NoError(t, err)
	require.Equal(t, TypeWelcomeEmail, task.Type())

	payload, err := ParseWelcomeEmailPayload(task)
	require.NoError(t, err)
	require.Equal(t, "u1", payload.UserID)
	require.Equal(t, "test@example.com", payload.Email)
	require.Equal(t, "Test User", payload.Name)
}

func TestParseWelcomeEmailPayload_Invalid(t *testing.T) {
	task := asynq.NewTask(TypeWelcomeEmail, []byte("{broken"))

	_, err := ParseWelcomeEmailPayload(task)
	require.Error(t, err)
}
