package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fittrack-dev/fittrack/internal/models"
)

// StatsUser is the user portion of a statistics entry.
// Field names follow the dashboard API contract.
type StatsUser struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// StatsGoal is a goal as rendered in the admin dashboard
type StatsGoal struct {
	ID          string  `json:"_id"`
	GoalType    string  `json:"goalType"`
	TargetValue float64 `json:"targetValue"`
	Progress    float64 `json:"progress"`
}

// StatsWorkout is a workout as rendered in the admin dashboard
type StatsWorkout struct {
	ID       string `json:"_id"`
	Activity string `json:"activity"`
	Duration int    `json:"duration"`
}

// UserStatistics aggregates one user's goals and workouts
type UserStatistics struct {
	User     StatsUser      `json:"user"`
	Goals    []StatsGoal    `json:"goals"`
	Workouts []StatsWorkout `json:"workouts"`
}

// @Summary Per-user statistics
// @Description Aggregated goals and workouts for every user (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserStatistics
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/statistics [get]
func (s *Server) getUserStatistics(c *gin.Context) {
	// Users and their records both come back in creation order
	var users []models.User
	if err := s.db.
		Preload("Goals", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Workouts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to load user statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	// One entry per user; empty goal/workout lists stay present as []
	stats := make([]UserStatistics, len(users))
	for i, user := range users {
		goals := make([]StatsGoal, len(user.Goals))
		for j, goal := range user.Goals {
			goals[j] = StatsGoal{
				ID:          goal.ID,
				GoalType:    goal.GoalType,
				TargetValue: goal.TargetValue,
				Progress:    goal.Progress,
			}
		}

		workouts := make([]StatsWorkout, len(user.Workouts))
		for j, workout := range user.Workouts {
			workouts[j] = StatsWorkout{
				ID:       workout.ID,
				Activity: workout.Activity,
				Duration: workout.Duration,
			}
		}

		stats[i] = UserStatistics{
			User: StatsUser{
				ID:    user.ID,
				Name:  user.Name,
				Email: user.Email,
			},
			Goals:    goals,
			Workouts: workouts,
		}
	}

	c.JSON(http.StatusOK, stats)
}
