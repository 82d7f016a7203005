package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fittrack-dev/fittrack/internal/auth"
	"github.com/fittrack-dev/fittrack/internal/models"
)

// SeedFile is the YAML layout for demo/dev datasets
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser describes one user and their fitness records
type SeedUser struct {
	Name     string        `yaml:"name"`
	Email    string        `yaml:"email"`
	Password string        `yaml:"password"`
	Role     string        `yaml:"role"`
	Goals    []SeedGoal    `yaml:"goals"`
	Workouts []SeedWorkout `yaml:"workouts"`
}

// SeedGoal describes one goal in a seed file
type SeedGoal struct {
	GoalType    string  `yaml:"goal_type"`
	TargetValue float64 `yaml:"target_value"`
	Progress    float64 `yaml:"progress"`
}

// SeedWorkout describes one workout in a seed file
type SeedWorkout struct {
	Activity string `yaml:"activity"`
	Duration int    `yaml:"duration"`
}

// Seed loads a YAML dataset into the database. Existing users (matched by
// email) are left untouched so re-running with the same file is safe.
func (s *Server) Seed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	created := 0
	for _, su := range seed.Users {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ?", su.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check for existing user %s: %w", su.Email, err)
		}
		if count > 0 {
			continue
		}

		passwordHash, err := auth.HashPassword(su.Password)
		if err != nil {
			return err
		}

		role := su.Role
		if role == "" {
			role = models.RoleUser
		}

		user := &models.User{
			Email:        su.Email,
			PasswordHash: passwordHash,
			Name:         su.Name,
			Role:         role,
		}
		if err := s.db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", su.Email, err)
		}

		for _, sg := range su.Goals {
			goal := &models.Goal{
				UserID:      user.ID,
				GoalType:    sg.GoalType,
				TargetValue: sg.TargetValue,
				Progress:    sg.Progress,
			}
			if err := s.db.Create(goal).Error; err != nil {
				return fmt.Errorf("failed to create goal for %s: %w", su.Email, err)
			}
		}

		for _, sw := range su.Workouts {
			workout := &models.Workout{
				UserID:   user.ID,
				Activity: sw.Activity,
				Duration: sw.Duration,
			}
			if err := s.db.Create(workout).Error; err != nil {
				return fmt.Errorf("failed to create workout for %s: %w", su.Email, err)
			}
		}

		created++
	}

	s.logger.Info().Int("users", created).Str("file", path).Msg("Seed completed")

	return nil
}
