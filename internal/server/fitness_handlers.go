package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fittrack-dev/fittrack/internal/models"
)

// CreateGoalRequest represents a request to create a fitness goal
type CreateGoalRequest struct {
	GoalType    string  `json:"goal_type" binding:"required"`
	TargetValue float64 `json:"target_value" binding:"required,gt=0"`
	Progress    float64 `json:"progress" binding:"gte=0"`
}

// LogWorkoutRequest represents a request to log a workout
type LogWorkoutRequest struct {
	Activity string `json:"activity" binding:"required"`
	Duration int    `json:"duration" binding:"required,gt=0"`
}

// @Summary List goals
// @Description List the authenticated user's goals
// @Tags fitness
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Goal
// @Failure 401 {object} map[string]interface{}
// @Router /goals [get]
func (s *Server) listGoals(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var goals []models.Goal
	if err := s.db.
		Where("user_id = ?", sessionData.UserID).
		Order("created_at ASC").
		Find(&goals).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list goals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, goals)
}

// @Summary Create goal
// @Description Create a new fitness goal for the authenticated user
// @Tags fitness
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGoalRequest true "Create goal request"
// @Success 201 {object} models.Goal
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /goals [post]
func (s *Server) createGoal(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.validator.Var(req.GoalType, "goaltype"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown goal type"})
		return
	}

	goal := &models.Goal{
		UserID:      sessionData.UserID,
		GoalType:    req.GoalType,
		TargetValue: req.TargetValue,
		Progress:    req.Progress,
	}

	if err := s.db.Create(goal).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create goal")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	s.logger.Info().
		Str("user_id", sessionData.UserID).
		Str("goal_id", goal.ID).
		Str("goal_type", goal.GoalType).
		Msg("Goal created")

	c.JSON(http.StatusCreated, goal)
}

// @Summary List workouts
// @Description List the authenticated user's workouts
// @Tags fitness
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Workout
// @Failure 401 {object} map[string]interface{}
// @Router /workouts [get]
func (s *Server) listWorkouts(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var workouts []models.Workout
	if err := s.db.
		Where("user_id = ?", sessionData.UserID).
		Order("created_at ASC").
		Find(&workouts).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list workouts")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, workouts)
}

// @Summary Log workout
// @Description Log a completed workout for the authenticated user
// @Tags fitness
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body LogWorkoutRequest true "Log workout request"
// @Success 201 {object} models.Workout
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /workouts [post]
func (s *Server) logWorkout(c *gin.Context) {
	sessionData, _ := GetSessionData(c)

	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	workout := &models.Workout{
		UserID:   sessionData.UserID,
		Activity: req.Activity,
		Duration: req.Duration,
	}

	if err := s.db.Create(workout).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to log workout")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log workout"})
		return
	}

	s.logger.Info().
		Str("user_id", sessionData.UserID).
		Str("workout_id", workout.ID).
		Str("activity", workout.Activity).
		Msg("Workout logged")

	c.JSON(http.StatusCreated, workout)
}
