package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
)

// SessionService logs performed workouts: starting a session snapshots the
// workout template into exercise logs that the user then fills in.
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

type SessionLogDetail struct {
	LogID        uint   `json:"log_id"`
	ExerciseID   uint   `json:"exercise_id"`
	ExerciseName string `json:"exercise_name"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps"`
	Weight       string `json:"weight"`
	Completed    bool   `json:"completed"`
}

type SessionDetail struct {
	SessionID   uint               `json:"session_id"`
	Date        time.Time          `json:"date"`
	Notes       string             `json:"notes"`
	WorkoutID   uint               `json:"workout_id"`
	WorkoutName string             `json:"workout_name"`
	ProgramID   uint               `json:"program_id"`
	ProgramName string             `json:"program_name"`
	Exercises   []SessionLogDetail `json:"exercises"`
}

// StartSession creates a session for the given workout template and copies
// each template exercise into an uncompleted log row, all in one transaction.
func (s *SessionService) StartSession(ctx context.Context, userID, programID, workoutID uint, date time.Time, notes string) (*SessionDetail, error) {
	var program database.Program
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", programID, userID).
		First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("program")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var workout database.Workout
	err = s.db.WithContext(ctx).
		Where("id = ? AND program_id = ?", workoutID, programID).
		First(&workout).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("workout")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	if date.IsZero() {
		date = time.Now()
	}

	session := database.WorkoutSession{
		UserID:    userID,
		WorkoutID: workoutID,
		Date:      date,
		Notes:     notes,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}

		var exercises []database.Exercise
		if err := tx.Where("workout_id = ?", workoutID).Find(&exercises).Error; err != nil {
			return err
		}

		for _, exercise := range exercises {
			log := database.ExerciseLog{
				SessionID:  session.ID,
				ExerciseID: exercise.ID,
				Sets:       exercise.Sets,
				Reps:       exercise.Reps,
				Weight:     exercise.Weight,
				Completed:  false,
			}
			if err := tx.Create(&log).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return s.GetSession(ctx, userID, session.ID)
}

// UpdateLogInput carries the optional fields of an exercise-log update.
type UpdateLogInput struct {
	Sets      *int
	Reps      *string
	Weight    *string
	Completed *bool
}

func (s *SessionService) UpdateLog(ctx context.Context, userID, logID uint, input UpdateLogInput) (*database.ExerciseLog, error) {
	var log database.ExerciseLog
	err := s.db.WithContext(ctx).
		Joins("JOIN workout_sessions ON workout_sessions.id = exercise_logs.session_id AND workout_sessions.deleted_at IS NULL").
		Where("exercise_logs.id = ? AND workout_sessions.user_id = ?", logID, userID).
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("exercise log")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
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
	if input.Completed != nil {
		updates["completed"] = *input.Completed
	}
	if len(updates) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&log).Updates(updates).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &log, nil
}

// History returns the user's sessions, newest first, optionally bounded by
// date.
func (s *SessionService) History(ctx context.Context, userID uint, start, end *time.Time) ([]SessionDetail, error) {
	query := s.db.WithContext(ctx).
		Model(&database.WorkoutSession{}).
		Where("workout_sessions.user_id = ?", userID)
	if start != nil {
		query = query.Where("workout_sessions.date >= ?", *start)
	}
	if end != nil {
		query = query.Where("workout_sessions.date <= ?", *end)
	}

	var sessions []database.WorkoutSession
	if err := query.Order("workout_sessions.date DESC").Find(&sessions).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	details := make([]SessionDetail, 0, len(sessions))
	for _, session := range sessions {
		detail, err := s.sessionDetail(ctx, &session)
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

func (s *SessionService) GetSession(ctx context.Context, userID, sessionID uint) (*SessionDetail, error) {
	var session database.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("workout session")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return s.sessionDetail(ctx, &session)
}

func (s *SessionService) sessionDetail(ctx context.Context, session *database.WorkoutSession) (*SessionDetail, error) {
	var workout database.Workout
	if err := s.db.WithContext(ctx).First(&workout, session.WorkoutID).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	var program database.Program
	if err := s.db.WithContext(ctx).First(&program, workout.ProgramID).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var logs []SessionLogDetail
	if err := s.db.WithContext(ctx).
		Model(&database.ExerciseLog{}).
		Select("exercise_logs.id AS log_id, exercise_logs.exercise_id, exercises.name AS exercise_name, exercise_logs.sets, exercise_logs.reps, exercise_logs.weight, exercise_logs.completed").
		Joins("JOIN exercises ON exercises.id = exercise_logs.exercise_id").
		Where("exercise_logs.session_id = ?", session.ID).
		Order("exercise_logs.id").
		Scan(&logs).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	return &SessionDetail{
		SessionID:   session.ID,
		Date:        session.Date,
		Notes:       session.Notes,
		WorkoutID:   workout.ID,
		WorkoutName: workout.Name,
		ProgramID:   program.ID,
		ProgramName: program.Name,
		Exercises:   logs,
	}, nil
}
