package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/services"
)

func (s *Server) handleCreateProgram(c *gin.Context) {
	var req struct {
		ProgramName string `json:"program_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProgramName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Program name is required"})
		return
	}

	program, err := s.workouts.CreateProgram(c.Request.Context(), userID(c), req.ProgramName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (s *Server) handleListPrograms(c *gin.Context) {
	programs, err := s.workouts.ListPrograms(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, programs)
}

func (s *Server) handleGetProgram(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	program, workouts, err := s.workouts.GetProgram(c.Request.Context(), userID(c), programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"program": program, "workouts": workouts})
}

func (s *Server) handleDeleteProgram(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	if err := s.workouts.DeleteProgram(c.Request.Context(), userID(c), programID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Program and all its workouts and exercises deleted successfully"})
}

func (s *Server) handleAddWorkout(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	var req struct {
		WorkoutName string `json:"workout_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.WorkoutName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workout name is required"})
		return
	}

	workout, err := s.workouts.AddWorkout(c.Request.Context(), userID(c), programID, req.WorkoutName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

func (s *Server) handleListWorkouts(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}

	workouts, err := s.workouts.ListWorkouts(c.Request.Context(), userID(c), programID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	workout, exercises, err := s.workouts.GetWorkout(c.Request.Context(), userID(c), programID, workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": workout, "exercises": exercises})
}

func (s *Server) handleDeleteWorkout(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	if err := s.workouts.DeleteWorkout(c.Request.Context(), userID(c), programID, workoutID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout and all its exercises deleted successfully"})
}

func (s *Server) handleAddExercise(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}

	var req struct {
		ExerciseName string `json:"exercise_name"`
		Sets         int    `json:"sets"`
		Reps         string `json:"reps"`
		Weight       string `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ExerciseName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Exercise name is required"})
		return
	}

	exercise, err := s.workouts.AddExercise(c.Request.Context(), userID(c), programID, workoutID,
		req.ExerciseName, req.Sets, req.Reps, req.Weight)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

func (s *Server) handleGetExercise(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}

	exercise, err := s.workouts.GetExercise(c.Request.Context(), userID(c), programID, workoutID, exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (s *Server) handleUpdateExercise(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}

	var req struct {
		Sets   *int    `json:"sets"`
		Reps   *string `json:"reps"`
		Weight *string `json:"weight"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	exercise, err := s.workouts.UpdateExercise(c.Request.Context(), userID(c), programID, workoutID, exerciseID,
		services.UpdateExerciseInput{Sets: req.Sets, Reps: req.Reps, Weight: req.Weight})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

func (s *Server) handleDeleteExercise(c *gin.Context) {
	programID, ok := pathID(c, "programId")
	if !ok {
		return
	}
	workoutID, ok := pathID(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return
	}

	if err := s.workouts.DeleteExercise(c.Request.Context(), userID(c), programID, workoutID, exerciseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exercise deleted successfully"})
}
