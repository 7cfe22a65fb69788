package database

import (
	"fmt"
	"log"

	"github.com/fitplanhq/fitplan-backend/internal/config"
	"github.com/fitplanhq/fitplan-backend/internal/database/migrations"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database connection established and migrations completed")
	return db, nil
}

// Migrate brings the schema up to date and runs registered data migrations.
// Split out of NewPostgresDB so tests can apply it to an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Program{},
		&Workout{},
		&Exercise{},
		&MealPlan{},
		&Meal{},
		&Food{},
		&WorkoutSession{},
		&ExerciseLog{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
