package database

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
}

type Program struct {
	gorm.Model
	UserID   uint `gorm:"index;not null"`
	User     User
	Name     string
	Workouts []Workout `gorm:"constraint:OnDelete:CASCADE"`
}

type Workout struct {
	gorm.Model
	ProgramID uint `gorm:"index;not null"`
	Name      string
	Exercises []Exercise `gorm:"constraint:OnDelete:CASCADE"`
}

// Reps and Weight are deliberately text: the generated source data may supply
// a range ("8-12") or a qualitative label instead of a number.
type Exercise struct {
	gorm.Model
	WorkoutID uint `gorm:"index;not null"`
	Name      string
	Sets      int
	Reps      string
	Weight    string
}

type MealPlan struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`
	User   User
	Name   string
	Meals  []Meal `gorm:"constraint:OnDelete:CASCADE"`
}

// TotalCalories is a maintained denormalization; it must equal the sum of the
// meal's food calories after every committed mutation. All writes to it go
// through MealPlanService.
type Meal struct {
	gorm.Model
	MealPlanID    uint `gorm:"index;not null"`
	Type          string
	TotalCalories float64
	Foods         []Food `gorm:"constraint:OnDelete:CASCADE"`
}

type Food struct {
	gorm.Model
	MealID        uint `gorm:"index;not null"`
	Name          string
	Calories      float64
	Proteins      float64
	Carbohydrates float64
	Fats          float64
}

type WorkoutSession struct {
	gorm.Model
	UserID    uint `gorm:"index;not null"`
	WorkoutID uint `gorm:"index;not null"`
	Date      time.Time
	Notes     string
	Logs      []ExerciseLog `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

type ExerciseLog struct {
	gorm.Model
	SessionID  uint `gorm:"index;not null"`
	ExerciseID uint `gorm:"index;not null"`
	Sets       int
	Reps       string
	Weight     string
	Completed  bool
}
