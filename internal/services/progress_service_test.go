package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLeadingFloat(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"25", 25},
		{"25kg", 25},
		{"12.5kg", 12.5},
		{"8-12", 8},
		{" 10 ", 10},
		{"bodyweight", 0},
		{"", 0},
		{"kg25", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, leadingFloat(tt.input), "input %q", tt.input)
	}
}

// seedProgress starts sessions on the given dates and completes every log
// with the given weight values, one per session.
func seedProgress(t *testing.T, db *gorm.DB, userID uint, dates []time.Time, weights []string) (programID uint) {
	t.Helper()
	sessions := NewSessionService(db)
	ctx := context.Background()

	programID, workoutID := seedWorkout(t, db, userID)
	completed := true
	for i, date := range dates {
		session, err := sessions.StartSession(ctx, userID, programID, workoutID, date, "")
		require.NoError(t, err)
		for _, log := range session.Exercises {
			_, err := sessions.UpdateLog(ctx, userID, log.LogID, UpdateLogInput{
				Completed: &completed,
				Weight:    &weights[i],
			})
			require.NoError(t, err)
		}
	}
	return programID
}

func TestProgressHistoryVolume(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	seedProgress(t, db, user.ID, []time.Time{date}, []string{"60kg"})
	svc := NewProgressService(db)

	history, err := svc.History(context.Background(), user.ID, HistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)

	session := history[0]
	assert.Equal(t, "Push Day", session.WorkoutName)
	require.Len(t, session.Exercises, 2)

	// Bench Press: 4 sets x 8 (leading number of "8-10") x 60.
	bench := session.Exercises[0]
	assert.Equal(t, "Bench Press", bench.ExerciseName)
	assert.Equal(t, 4.0*8*60, bench.Volume)
}

func TestProgressHistoryProgramFilter(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	programID := seedProgress(t, db, user.ID, []time.Time{date}, []string{"60kg"})
	svc := NewProgressService(db)
	ctx := context.Background()

	history, err := svc.History(ctx, user.ID, HistoryFilter{ProgramID: &programID})
	require.NoError(t, err)
	assert.Len(t, history, 1)

	missing := programID + 100
	history, err = svc.History(ctx, user.ID, HistoryFilter{ProgramID: &missing})
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestProgression(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	dates := []time.Time{
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
	}
	seedProgress(t, db, user.ID, dates, []string{"60kg", "65kg"})
	svc := NewProgressService(db)
	ctx := context.Background()

	points, err := svc.Progression(ctx, user.ID, "Bench Press")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "60kg", points[0].Weight)
	assert.Equal(t, "65kg", points[1].Weight)
	assert.True(t, points[0].Date.Before(points[1].Date))

	points, err = svc.Progression(ctx, user.ID, "Nonexistent")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestProgressionExcludesUncompleted(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	sessions := NewSessionService(db)
	ctx := context.Background()

	programID, workoutID := seedWorkout(t, db, user.ID)
	_, err := sessions.StartSession(ctx, user.ID, programID, workoutID, time.Now(), "")
	require.NoError(t, err)

	svc := NewProgressService(db)
	points, err := svc.Progression(ctx, user.ID, "Bench Press")
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestPersonalRecords(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	dates := []time.Time{
		time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
	}
	seedProgress(t, db, user.ID, dates, []string{"60kg", "65kg"})
	svc := NewProgressService(db)

	records, err := svc.PersonalRecords(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, records.MaxWeight, 2)
	byName := map[string]float64{}
	for _, r := range records.MaxWeight {
		byName[r.ExerciseName] = r.Value
	}
	assert.Equal(t, 65.0, byName["Bench Press"])
	assert.Equal(t, 65.0, byName["Dips"])

	// Descending by value.
	for i := 1; i < len(records.MaxVolume); i++ {
		assert.GreaterOrEqual(t, records.MaxVolume[i-1].Value, records.MaxVolume[i].Value)
	}
}

func TestFrequencyStats(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	dates := []time.Time{
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC), // same day, counts once
		time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
	}
	seedProgress(t, db, user.ID, dates, []string{"60kg", "60kg", "62kg", "65kg"})
	svc := NewProgressService(db)

	stats, err := svc.FrequencyStats(context.Background(), user.ID)
	require.NoError(t, err)

	require.Len(t, stats.MonthlyFrequency, 2)
	assert.Equal(t, "2026-03", stats.MonthlyFrequency[0].Month)
	assert.Equal(t, int64(2), stats.MonthlyFrequency[0].WorkoutDays)
	assert.Equal(t, "2026-04", stats.MonthlyFrequency[1].Month)
	assert.Equal(t, int64(1), stats.MonthlyFrequency[1].WorkoutDays)

	require.Len(t, stats.FrequentExercises, 2)
	assert.Equal(t, int64(4), stats.FrequentExercises[0].Frequency)
}
