package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
)

// ProgressService answers analytics queries over logged sessions: history
// with per-log volume, per-exercise progression, personal records, and
// frequency statistics.
type ProgressService struct {
	db *gorm.DB
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{db: db}
}

type HistoryFilter struct {
	Start     *time.Time
	End       *time.Time
	ProgramID *uint
}

type HistoryExercise struct {
	LogID        uint    `json:"log_id"`
	ExerciseID   uint    `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name"`
	Sets         int     `json:"sets"`
	Reps         string  `json:"reps"`
	Weight       string  `json:"weight"`
	Completed    bool    `json:"completed"`
	Volume       float64 `json:"volume"`
}

type HistorySession struct {
	SessionID   uint              `json:"session_id"`
	Date        time.Time         `json:"date"`
	ProgramID   uint              `json:"program_id"`
	ProgramName string            `json:"program_name"`
	WorkoutID   uint              `json:"workout_id"`
	WorkoutName string            `json:"workout_name"`
	Exercises   []HistoryExercise `json:"exercises"`
}

type historyRow struct {
	SessionID    uint
	Date         time.Time
	WorkoutID    uint
	WorkoutName  string
	ProgramID    uint
	ProgramName  string
	LogID        uint
	Sets         int
	Reps         string
	Weight       string
	Completed    bool
	ExerciseID   uint
	ExerciseName string
}

// History returns logged sessions with their exercise logs grouped per
// session and a computed volume (sets × reps × weight) per log.
func (s *ProgressService) History(ctx context.Context, userID uint, filter HistoryFilter) ([]HistorySession, error) {
	query := s.db.WithContext(ctx).
		Model(&database.WorkoutSession{}).
		Select(`workout_sessions.id AS session_id, workout_sessions.date,
			workouts.id AS workout_id, workouts.name AS workout_name,
			programs.id AS program_id, programs.name AS program_name,
			exercise_logs.id AS log_id, exercise_logs.sets, exercise_logs.reps,
			exercise_logs.weight, exercise_logs.completed,
			exercises.id AS exercise_id, exercises.name AS exercise_name`).
		Joins("JOIN workouts ON workouts.id = workout_sessions.workout_id").
		Joins("JOIN programs ON programs.id = workouts.program_id").
		Joins("JOIN exercise_logs ON exercise_logs.session_id = workout_sessions.id").
		Joins("JOIN exercises ON exercises.id = exercise_logs.exercise_id").
		Where("workout_sessions.user_id = ?", userID)

	if filter.Start != nil {
		query = query.Where("workout_sessions.date >= ?", *filter.Start)
	}
	if filter.End != nil {
		query = query.Where("workout_sessions.date <= ?", *filter.End)
	}
	if filter.ProgramID != nil {
		query = query.Where("programs.id = ?", *filter.ProgramID)
	}

	var rows []historyRow
	if err := query.
		Order("workout_sessions.date DESC, workout_sessions.id, exercise_logs.id").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	var sessions []HistorySession
	index := map[uint]int{}
	for _, row := range rows {
		i, ok := index[row.SessionID]
		if !ok {
			sessions = append(sessions, HistorySession{
				SessionID:   row.SessionID,
				Date:        row.Date,
				ProgramID:   row.ProgramID,
				ProgramName: row.ProgramName,
				WorkoutID:   row.WorkoutID,
				WorkoutName: row.WorkoutName,
			})
			i = len(sessions) - 1
			index[row.SessionID] = i
		}
		sessions[i].Exercises = append(sessions[i].Exercises, HistoryExercise{
			LogID:        row.LogID,
			ExerciseID:   row.ExerciseID,
			ExerciseName: row.ExerciseName,
			Sets:         row.Sets,
			Reps:         row.Reps,
			Weight:       row.Weight,
			Completed:    row.Completed,
			Volume:       float64(row.Sets) * leadingFloat(row.Reps) * leadingFloat(row.Weight),
		})
	}
	return sessions, nil
}

type ProgressionPoint struct {
	Date   time.Time `json:"date"`
	LogID  uint      `json:"log_id"`
	Sets   int       `json:"sets"`
	Reps   string    `json:"reps"`
	Weight string    `json:"weight"`
	Volume float64   `json:"volume"`
}

// Progression returns completed logs for one exercise name over time.
func (s *ProgressService) Progression(ctx context.Context, userID uint, exerciseName string) ([]ProgressionPoint, error) {
	var rows []struct {
		Date   time.Time
		LogID  uint
		Sets   int
		Reps   string
		Weight string
	}
	err := s.db.WithContext(ctx).
		Model(&database.ExerciseLog{}).
		Select("workout_sessions.date, exercise_logs.id AS log_id, exercise_logs.sets, exercise_logs.reps, exercise_logs.weight").
		Joins("JOIN exercises ON exercises.id = exercise_logs.exercise_id").
		Joins("JOIN workout_sessions ON workout_sessions.id = exercise_logs.session_id").
		Where("workout_sessions.user_id = ? AND exercises.name = ? AND exercise_logs.completed = ?", userID, exerciseName, true).
		Order("workout_sessions.date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	points := make([]ProgressionPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, ProgressionPoint{
			Date:   row.Date,
			LogID:  row.LogID,
			Sets:   row.Sets,
			Reps:   row.Reps,
			Weight: row.Weight,
			Volume: float64(row.Sets) * leadingFloat(row.Reps) * leadingFloat(row.Weight),
		})
	}
	return points, nil
}

type Record struct {
	ExerciseName string    `json:"exercise_name"`
	Value        float64   `json:"value"`
	RecordDate   time.Time `json:"record_date"`
}

type PersonalRecords struct {
	MaxWeight []Record `json:"maxWeight"`
	MaxVolume []Record `json:"maxVolume"`
}

// PersonalRecords returns, per exercise, the best completed weight and the
// best completed volume. Weight is text in the schema, so the ranking happens
// in Go after a single scan of completed logs.
func (s *ProgressService) PersonalRecords(ctx context.Context, userID uint) (*PersonalRecords, error) {
	var rows []struct {
		ExerciseName string
		Sets         int
		Reps         string
		Weight       string
		Date         time.Time
	}
	err := s.db.WithContext(ctx).
		Model(&database.ExerciseLog{}).
		Select("exercises.name AS exercise_name, exercise_logs.sets, exercise_logs.reps, exercise_logs.weight, workout_sessions.date").
		Joins("JOIN exercises ON exercises.id = exercise_logs.exercise_id").
		Joins("JOIN workout_sessions ON workout_sessions.id = exercise_logs.session_id").
		Where("workout_sessions.user_id = ? AND exercise_logs.completed = ?", userID, true).
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	maxWeight := map[string]Record{}
	maxVolume := map[string]Record{}
	for _, row := range rows {
		weight := leadingFloat(row.Weight)
		volume := float64(row.Sets) * leadingFloat(row.Reps) * weight

		if best, ok := maxWeight[row.ExerciseName]; !ok || weight > best.Value {
			maxWeight[row.ExerciseName] = Record{ExerciseName: row.ExerciseName, Value: weight, RecordDate: row.Date}
		}
		if best, ok := maxVolume[row.ExerciseName]; !ok || volume > best.Value {
			maxVolume[row.ExerciseName] = Record{ExerciseName: row.ExerciseName, Value: volume, RecordDate: row.Date}
		}
	}

	records := &PersonalRecords{}
	for _, r := range maxWeight {
		records.MaxWeight = append(records.MaxWeight, r)
	}
	for _, r := range maxVolume {
		records.MaxVolume = append(records.MaxVolume, r)
	}
	sortRecordsDesc(records.MaxWeight)
	sortRecordsDesc(records.MaxVolume)
	return records, nil
}

func sortRecordsDesc(records []Record) {
	sort.Slice(records, func(i, j int) bool { return records[i].Value > records[j].Value })
}

type MonthlyFrequency struct {
	Month       string `json:"month"`
	WorkoutDays int64  `json:"workout_days"`
}

type ExerciseFrequency struct {
	ExerciseName string `json:"exercise_name"`
	Frequency    int64  `json:"frequency"`
}

type FrequencyStats struct {
	MonthlyFrequency  []MonthlyFrequency  `json:"monthlyFrequency"`
	FrequentExercises []ExerciseFrequency `json:"frequentExercises"`
}

// FrequencyStats returns workout days per month and the ten most frequent
// completed exercises.
func (s *ProgressService) FrequencyStats(ctx context.Context, userID uint) (*FrequencyStats, error) {
	var sessions []database.WorkoutSession
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&sessions).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}

	days := map[string]map[string]bool{}
	for _, session := range sessions {
		month := session.Date.Format("2006-01")
		if days[month] == nil {
			days[month] = map[string]bool{}
		}
		days[month][session.Date.Format("2006-01-02")] = true
	}
	var months []string
	for month := range days {
		months = append(months, month)
	}
	sort.Strings(months)

	stats := &FrequencyStats{}
	for _, month := range months {
		stats.MonthlyFrequency = append(stats.MonthlyFrequency, MonthlyFrequency{
			Month:       month,
			WorkoutDays: int64(len(days[month])),
		})
	}

	var frequent []ExerciseFrequency
	err := s.db.WithContext(ctx).
		Model(&database.ExerciseLog{}).
		Select("exercises.name AS exercise_name, COUNT(*) AS frequency").
		Joins("JOIN exercises ON exercises.id = exercise_logs.exercise_id").
		Joins("JOIN workout_sessions ON workout_sessions.id = exercise_logs.session_id").
		Where("workout_sessions.user_id = ? AND exercise_logs.completed = ?", userID, true).
		Group("exercises.name").
		Order("frequency DESC").
		Limit(10).
		Scan(&frequent).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	stats.FrequentExercises = frequent
	return stats, nil
}

// leadingFloat parses the numeric prefix of a free-form value: "25kg" -> 25,
// "8-12" -> 8, "bodyweight" -> 0. Reps and weight are text columns and this
// is how ranges and labels fold into volume math.
func leadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return n
}
