package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/logger"
	"github.com/fitplanhq/fitplan-backend/internal/planparse"
	"github.com/fitplanhq/fitplan-backend/internal/services"
)

// handleGenerateWorkoutPlan runs the full ingestion pipeline: validate the
// request, generate raw text, normalize/repair/parse it, and persist the plan
// atomically. A plan that generated but cannot be parsed is not a request
// failure — the raw text goes back to the caller with a 200.
func (s *Server) handleGenerateWorkoutPlan(c *gin.Context) {
	var req services.WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}
	if req.Height == 0 || req.Weight == 0 || req.Age == 0 || req.Gender == "" ||
		req.FitnessLevel == "" || len(req.FitnessGoals) == 0 || req.WorkoutFrequency == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	raw, err := s.ai.GenerateWorkoutPlan(c.Request.Context(), req)
	if err != nil {
		logger.Error("workout plan generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error while generating workout plan",
			"details": err.Error(),
		})
		return
	}

	plan, err := planparse.ParseWorkoutPlan(raw)
	if err != nil {
		var formatErr *planparse.FormatError
		if errors.As(err, &formatErr) {
			logger.Warn("generated workout plan rejected by parser", "error", formatErr.Err)
			c.JSON(http.StatusOK, gin.H{
				"message":     "Workout plan generated but not saved (invalid format)",
				"rawResponse": formatErr.Raw,
			})
			return
		}
		respondError(c, err)
		return
	}

	result, err := s.workouts.SaveGeneratedProgram(c.Request.Context(), userID(c), plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error while generating workout plan",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Workout plan generated and saved successfully",
		"program_id":   result.ID,
		"program_name": result.Title,
		"description":  result.Description,
	})
}

func (s *Server) handleGenerateMealPlan(c *gin.Context) {
	var req services.MealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}
	if req.Height == 0 || req.Weight == 0 || req.Age == 0 || req.Gender == "" ||
		len(req.FitnessGoals) == 0 || req.MealsPerDay == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required parameters"})
		return
	}

	raw, err := s.ai.GenerateMealPlan(c.Request.Context(), req)
	if err != nil {
		logger.Error("meal plan generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error while generating meal plan",
			"details": err.Error(),
		})
		return
	}

	plan, err := planparse.ParseMealPlan(raw)
	if err != nil {
		var formatErr *planparse.FormatError
		if errors.As(err, &formatErr) {
			logger.Warn("generated meal plan rejected by parser", "error", formatErr.Err)
			c.JSON(http.StatusOK, gin.H{
				"message":     "Meal plan generated but not saved (invalid format)",
				"rawResponse": formatErr.Raw,
			})
			return
		}
		respondError(c, err)
		return
	}

	result, err := s.meals.SaveGeneratedMealPlan(c.Request.Context(), userID(c), plan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Server error while generating meal plan",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Meal plan generated and saved successfully",
		"meal_plan_id":   result.ID,
		"meal_plan_name": result.Title,
		"description":    result.Description,
	})
}
