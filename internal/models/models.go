package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role values for User.Role
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// User represents an account holder
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Goals    []Goal    `json:"goals,omitempty" gorm:"foreignKey:UserID"`
	Workouts []Workout `json:"workouts,omitempty" gorm:"foreignKey:UserID"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Goal represents a fitness goal a user is working toward
type Goal struct {
	BaseModel
	UserID      string  `json:"user_id" gorm:"not null;index"`
	GoalType    string  `json:"goal_type" gorm:"not null"` // e.g. "weight_loss", "distance", "strength"
	TargetValue float64 `json:"target_value" gorm:"not null"`
	Progress    float64 `json:"progress" gorm:"not null;default:0"`

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// Workout represents a single logged training session
type Workout struct {
	BaseModel
	UserID   string `json:"user_id" gorm:"not null;index"`
	Activity string `json:"activity" gorm:"not null"`
	Duration int    `json:"duration" gorm:"not null"` // minutes

	User *User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Goal{}, &Workout{})
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}
