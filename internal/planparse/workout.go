package planparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// FormatError reports that model output could not be shaped into a plan. It
// carries the original raw text, not the failed intermediate JSON, so the
// caller can still surface the generated content to the user.
type FormatError struct {
	Raw string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("plan format rejected: %v", e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// WorkoutPlan is the persistable shape of a generated workout program.
type WorkoutPlan struct {
	Title       string
	Description string
	Workouts    []WorkoutDay
}

type WorkoutDay struct {
	Name      string
	Exercises []ExerciseItem
}

type ExerciseItem struct {
	Name   string
	Sets   int
	Reps   string
	Weight string
}

type rawWorkoutPlan struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Workouts    []rawWorkout `json:"workouts"`
}

type rawWorkout struct {
	Name      string        `json:"name"`
	Day       FlexValue     `json:"day"`
	Exercises []rawExercise `json:"exercises"`
}

type rawExercise struct {
	Name   string    `json:"name"`
	Sets   FlexValue `json:"sets"`
	Reps   FlexValue `json:"reps"`
	Weight FlexValue `json:"weight"`
	Notes  string    `json:"notes"`
}

const defaultSets = 3

// The model sometimes tucks the recommended weight into free-text notes
// instead of the weight field.
var recommendedWeightRe = regexp.MustCompile(`(?i)recommendedWeight:\s*([^\n]+)`)

// ParseWorkoutPlan normalizes, repairs, and strictly parses model output into
// a WorkoutPlan. A *FormatError carrying the untouched raw text is returned
// when the output cannot be parsed; missing optional fields degrade to
// defaults silently.
func ParseWorkoutPlan(raw string) (*WorkoutPlan, error) {
	var doc rawWorkoutPlan
	if err := json.Unmarshal([]byte(Normalize(raw)), &doc); err != nil {
		return nil, &FormatError{Raw: raw, Err: err}
	}

	plan := &WorkoutPlan{
		Title:       doc.Title,
		Description: doc.Description,
	}
	if plan.Title == "" {
		plan.Title = "Custom Workout Program"
	}

	for _, w := range doc.Workouts {
		day := WorkoutDay{Name: w.Name}
		if day.Name == "" {
			day.Name = strings.TrimSpace("Workout " + w.Day.String())
		}
		for _, e := range w.Exercises {
			item := ExerciseItem{
				Name:   e.Name,
				Sets:   e.Sets.Int(defaultSets),
				Reps:   e.Reps.String(),
				Weight: resolveWeight(e),
			}
			if item.Name == "" {
				item.Name = "Unnamed Exercise"
			}
			day.Exercises = append(day.Exercises, item)
		}
		plan.Workouts = append(plan.Workouts, day)
	}

	return plan, nil
}

// resolveWeight applies the three-tier fallback: an explicit weight string,
// then a recommendedWeight token inside the notes, then the stringified
// remainder of whatever the weight field held.
func resolveWeight(e rawExercise) string {
	if e.Weight.IsText() {
		return e.Weight.Text
	}
	if m := recommendedWeightRe.FindStringSubmatch(e.Notes); m != nil {
		return strings.TrimSpace(m[1])
	}
	return e.Weight.String()
}
