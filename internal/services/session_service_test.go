package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
)

// seedWorkout creates a program with one workout and two template exercises.
func seedWorkout(t *testing.T, db *gorm.DB, userID uint) (programID, workoutID uint) {
	t.Helper()
	svc := NewWorkoutPlanService(db)
	ctx := context.Background()

	program, err := svc.CreateProgram(ctx, userID, "Program")
	require.NoError(t, err)
	workout, err := svc.AddWorkout(ctx, userID, program.ID, "Push Day")
	require.NoError(t, err)
	_, err = svc.AddExercise(ctx, userID, program.ID, workout.ID, "Bench Press", 4, "8-10", "60kg")
	require.NoError(t, err)
	_, err = svc.AddExercise(ctx, userID, program.ID, workout.ID, "Dips", 3, "12", "bodyweight")
	require.NoError(t, err)
	return program.ID, workout.ID
}

func TestStartSessionCopiesTemplate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	programID, workoutID := seedWorkout(t, db, user.ID)
	svc := NewSessionService(db)

	session, err := svc.StartSession(context.Background(), user.ID, programID, workoutID, time.Time{}, "felt strong")
	require.NoError(t, err)

	assert.NotZero(t, session.SessionID)
	assert.Equal(t, "Push Day", session.WorkoutName)
	assert.Equal(t, "Program", session.ProgramName)
	assert.Equal(t, "felt strong", session.Notes)
	assert.False(t, session.Date.IsZero())

	require.Len(t, session.Exercises, 2)
	bench := session.Exercises[0]
	assert.Equal(t, "Bench Press", bench.ExerciseName)
	assert.Equal(t, 4, bench.Sets)
	assert.Equal(t, "8-10", bench.Reps)
	assert.Equal(t, "60kg", bench.Weight)
	assert.False(t, bench.Completed)
	assert.False(t, session.Exercises[1].Completed)
}

func TestStartSessionOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	programID, workoutID := seedWorkout(t, db, owner.ID)
	svc := NewSessionService(db)

	_, err := svc.StartSession(context.Background(), other.ID, programID, workoutID, time.Time{}, "")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestUpdateLog(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	programID, workoutID := seedWorkout(t, db, user.ID)
	svc := NewSessionService(db)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, user.ID, programID, workoutID, time.Time{}, "")
	require.NoError(t, err)
	logID := session.Exercises[0].LogID

	completed := true
	weight := "65kg"
	log, err := svc.UpdateLog(ctx, user.ID, logID, UpdateLogInput{Completed: &completed, Weight: &weight})
	require.NoError(t, err)
	assert.True(t, log.Completed)
	assert.Equal(t, "65kg", log.Weight)

	// The template exercise must be untouched.
	detail, err := svc.GetSession(ctx, user.ID, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "65kg", detail.Exercises[0].Weight)

	wsvc := NewWorkoutPlanService(db)
	exercise, err := wsvc.GetExercise(ctx, user.ID, programID, workoutID, detail.Exercises[0].ExerciseID)
	require.NoError(t, err)
	assert.Equal(t, "60kg", exercise.Weight)
}

func TestUpdateLogOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	programID, workoutID := seedWorkout(t, db, owner.ID)
	svc := NewSessionService(db)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, owner.ID, programID, workoutID, time.Time{}, "")
	require.NoError(t, err)

	completed := true
	_, err = svc.UpdateLog(ctx, other.ID, session.Exercises[0].LogID, UpdateLogInput{Completed: &completed})
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestSessionHistory(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	programID, workoutID := seedWorkout(t, db, user.ID)
	svc := NewSessionService(db)
	ctx := context.Background()

	older := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	_, err := svc.StartSession(ctx, user.ID, programID, workoutID, older, "first")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, user.ID, programID, workoutID, newer, "second")
	require.NoError(t, err)

	history, err := svc.History(ctx, user.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "second", history[0].Notes)
	assert.Equal(t, "first", history[1].Notes)

	// Date bounds narrow the result.
	cutoff := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	history, err = svc.History(ctx, user.ID, &cutoff, nil)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "second", history[0].Notes)
}

func TestGetSessionNotFoundForOtherUser(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	programID, workoutID := seedWorkout(t, db, owner.ID)
	svc := NewSessionService(db)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, owner.ID, programID, workoutID, time.Time{}, "")
	require.NoError(t, err)

	_, err = svc.GetSession(ctx, other.ID, session.SessionID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}
