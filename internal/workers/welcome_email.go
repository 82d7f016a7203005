package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/fittrack-dev/fittrack/internal/models"
	"github.com/fittrack-dev/fittrack/internal/tasks"
)

// HandleWelcomeEmail processes a welcome email task enqueued at signup.
// Delivery is a logged stub until an outbound mail provider is configured.
func HandleWelcomeEmail(ctx context.Context, t *asynq.Task, db *gorm.DB, log zerolog.Logger) error {
	payload, err := tasks.ParseWelcomeEmailPayload(t)
	if err != nil {
		return err
	}

	// The account may have been deleted between enqueue and processing
	var user models.User
	if err := models.FindByID(db, payload.UserID, &user); err != nil {
		if err == gorm.ErrRecordNotFound {
			log.Warn().Str("user_id", payload.UserID).Msg("Skipping welcome email for deleted user")
			return nil
		}
		return fmt.Errorf("failed to load user %s: %w", payload.UserID, err)
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("Welcome email sent")

	return nil
}
