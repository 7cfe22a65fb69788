package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
	"github.com/fitplanhq/fitplan-backend/internal/logger"
	"github.com/fitplanhq/fitplan-backend/internal/planparse"
)

// WorkoutPlanService owns the program → workout → exercise hierarchy: the
// transactional ingestion of generated programs and the incremental CRUD on
// top of it. Every read and write is filtered by the owning user.
type WorkoutPlanService struct {
	db *gorm.DB
}

func NewWorkoutPlanService(db *gorm.DB) *WorkoutPlanService {
	return &WorkoutPlanService{db: db}
}

// GeneratedPlanResult is what the caller gets back after a committed
// ingestion: the top-level id and display fields. Row-level detail is
// re-fetched through the read endpoints.
type GeneratedPlanResult struct {
	ID          uint
	Title       string
	Description string
}

// SaveGeneratedProgram fans a parsed plan out across program, workout, and
// exercise rows in one transaction. Parents are inserted before children so
// generated keys are available for the foreign keys; any failure rolls the
// whole plan back.
func (s *WorkoutPlanService) SaveGeneratedProgram(ctx context.Context, userID uint, plan *planparse.WorkoutPlan) (*GeneratedPlanResult, error) {
	program := database.Program{
		UserID: userID,
		Name:   plan.Title,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&program).Error; err != nil {
			return err
		}
		for _, day := range plan.Workouts {
			workout := database.Workout{
				ProgramID: program.ID,
				Name:      day.Name,
			}
			if err := tx.Create(&workout).Error; err != nil {
				return err
			}
			for _, item := range day.Exercises {
				exercise := database.Exercise{
					WorkoutID: workout.ID,
					Name:      item.Name,
					Sets:      item.Sets,
					Reps:      item.Reps,
					Weight:    item.Weight,
				}
				if err := tx.Create(&exercise).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to save generated program", "user_id", userID, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}

	return &GeneratedPlanResult{
		ID:          program.ID,
		Title:       plan.Title,
		Description: plan.Description,
	}, nil
}

func (s *WorkoutPlanService) CreateProgram(ctx context.Context, userID uint, name string) (*database.Program, error) {
	program := database.Program{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&program).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &program, nil
}

func (s *WorkoutPlanService) ListPrograms(ctx context.Context, userID uint) ([]database.Program, error) {
	var programs []database.Program
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&programs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return programs, nil
}

func (s *WorkoutPlanService) GetProgram(ctx context.Context, userID, programID uint) (*database.Program, []database.Workout, error) {
	program, err := s.ownedProgram(s.db.WithContext(ctx), userID, programID)
	if err != nil {
		return nil, nil, err
	}

	var workouts []database.Workout
	if err := s.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Find(&workouts).Error; err != nil {
		return nil, nil, apperrors.NewDatabaseError(err)
	}
	return program, workouts, nil
}

// DeleteProgram removes a program with all its workouts and exercises in one
// transaction. Soft deletes don't trigger FK cascades, so the children are
// removed explicitly, leaves first.
func (s *WorkoutPlanService) DeleteProgram(ctx context.Context, userID, programID uint) error {
	if _, err := s.ownedProgram(s.db.WithContext(ctx), userID, programID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id IN (?)",
			tx.Model(&database.Workout{}).Select("id").Where("program_id = ?", programID),
		).Delete(&database.Exercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", programID).Delete(&database.Workout{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Program{}, programID).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *WorkoutPlanService) AddWorkout(ctx context.Context, userID, programID uint, name string) (*database.Workout, error) {
	if _, err := s.ownedProgram(s.db.WithContext(ctx), userID, programID); err != nil {
		return nil, err
	}

	workout := database.Workout{ProgramID: programID, Name: name}
	if err := s.db.WithContext(ctx).Create(&workout).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &workout, nil
}

func (s *WorkoutPlanService) ListWorkouts(ctx context.Context, userID, programID uint) ([]database.Workout, error) {
	if _, err := s.ownedProgram(s.db.WithContext(ctx), userID, programID); err != nil {
		return nil, err
	}

	var workouts []database.Workout
	if err := s.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Find(&workouts).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return workouts, nil
}

func (s *WorkoutPlanService) GetWorkout(ctx context.Context, userID, programID, workoutID uint) (*database.Workout, []database.Exercise, error) {
	workout, err := s.ownedWorkout(s.db.WithContext(ctx), userID, programID, workoutID)
	if err != nil {
		return nil, nil, err
	}

	var exercises []database.Exercise
	if err := s.db.WithContext(ctx).
		Where("workout_id = ?", workoutID).
		Find(&exercises).Error; err != nil {
		return nil, nil, apperrors.NewDatabaseError(err)
	}
	return workout, exercises, nil
}

func (s *WorkoutPlanService) DeleteWorkout(ctx context.Context, userID, programID, workoutID uint) error {
	if _, err := s.ownedWorkout(s.db.WithContext(ctx), userID, programID, workoutID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).Delete(&database.Exercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Workout{}, workoutID).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *WorkoutPlanService) AddExercise(ctx context.Context, userID, programID, workoutID uint, name string, sets int, reps, weight string) (*database.Exercise, error) {
	if _, err := s.ownedWorkout(s.db.WithContext(ctx), userID, programID, workoutID); err != nil {
		return nil, err
	}

	exercise := database.Exercise{
		WorkoutID: workoutID,
		Name:      name,
		Sets:      sets,
		Reps:      reps,
		Weight:    weight,
	}
	if err := s.db.WithContext(ctx).Create(&exercise).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &exercise, nil
}

func (s *WorkoutPlanService) GetExercise(ctx context.Context, userID, programID, workoutID, exerciseID uint) (*database.Exercise, error) {
	return s.ownedExercise(s.db.WithContext(ctx), userID, programID, workoutID, exerciseID)
}

// UpdateExerciseInput carries the optional fields of an exercise update; nil
// means "leave unchanged".
type UpdateExerciseInput struct {
	Sets   *int
	Reps   *string
	Weight *string
}

func (s *WorkoutPlanService) UpdateExercise(ctx context.Context, userID, programID, workoutID, exerciseID uint, input UpdateExerciseInput) (*database.Exercise, error) {
	exercise, err := s.ownedExercise(s.db.WithContext(ctx), userID, programID, workoutID, exerciseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Sets != nil {
		updates["sets"] = *input.Sets
	}
	if input.Reps != nil {
		updates["reps"] = *input.Reps
	}
	if input.Weight != nil {
		updates["weight"] = *input.Weight
	}
	if len(updates) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(exercise).Updates(updates).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return exercise, nil
}

func (s *WorkoutPlanService) DeleteExercise(ctx context.Context, userID, programID, workoutID, exerciseID uint) error {
	if _, err := s.ownedExercise(s.db.WithContext(ctx), userID, programID, workoutID, exerciseID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(&database.Exercise{}, exerciseID).Error; err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// Ownership checks walk the foreign-key chain up to the user. A resource that
// exists but belongs to someone else is reported exactly like one that does
// not exist.

func (s *WorkoutPlanService) ownedProgram(db *gorm.DB, userID, programID uint) (*database.Program, error) {
	var program database.Program
	err := db.Where("id = ? AND user_id = ?", programID, userID).First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("program")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &program, nil
}

func (s *WorkoutPlanService) ownedWorkout(db *gorm.DB, userID, programID, workoutID uint) (*database.Workout, error) {
	var workout database.Workout
	err := db.
		Joins("JOIN programs ON programs.id = workouts.program_id AND programs.deleted_at IS NULL").
		Where("workouts.id = ? AND programs.id = ? AND programs.user_id = ?", workoutID, programID, userID).
		First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("workout")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &workout, nil
}

func (s *WorkoutPlanService) ownedExercise(db *gorm.DB, userID, programID, workoutID, exerciseID uint) (*database.Exercise, error) {
	var exercise database.Exercise
	err := db.
		Joins("JOIN workouts ON workouts.id = exercises.workout_id AND workouts.deleted_at IS NULL").
		Joins("JOIN programs ON programs.id = workouts.program_id AND programs.deleted_at IS NULL").
		Where("exercises.id = ? AND workouts.id = ? AND programs.id = ? AND programs.user_id = ?",
			exerciseID, workoutID, programID, userID).
		First(&exercise).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("exercise")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &exercise, nil
}
