// Package server wires the HTTP surface: gin router, JWT auth, and handlers
// that translate between requests and the services layer.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/config"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
	"github.com/fitplanhq/fitplan-backend/internal/logger"
	"github.com/fitplanhq/fitplan-backend/internal/services"
)

// PlanGenerator is the slice of the AI service the handlers need.
type PlanGenerator interface {
	GenerateWorkoutPlan(ctx context.Context, req services.WorkoutPlanRequest) (string, error)
	GenerateMealPlan(ctx context.Context, req services.MealPlanRequest) (string, error)
}

type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	users    *services.UserService
	ai       PlanGenerator
	workouts *services.WorkoutPlanService
	meals    *services.MealPlanService
	sessions *services.SessionService
	progress *services.ProgressService
}

func New(
	cfg *config.Config,
	users *services.UserService,
	ai PlanGenerator,
	workouts *services.WorkoutPlanService,
	meals *services.MealPlanService,
	sessions *services.SessionService,
	progress *services.ProgressService,
) *Server {
	s := &Server{
		cfg:      cfg,
		users:    users,
		ai:       ai,
		workouts: workouts,
		meals:    meals,
		sessions: sessions,
		progress: progress,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	auth := router.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
	}

	api := router.Group("/api", AuthMiddleware(s.cfg.JWTSecret))

	ai := api.Group("/ai")
	{
		ai.POST("/workout-plan", s.handleGenerateWorkoutPlan)
		ai.POST("/meal-plan", s.handleGenerateMealPlan)
	}

	gym := api.Group("/gym")
	{
		gym.POST("/programs", s.handleCreateProgram)
		gym.GET("/programs", s.handleListPrograms)
		gym.GET("/programs/:programId", s.handleGetProgram)
		gym.DELETE("/programs/:programId", s.handleDeleteProgram)
		gym.POST("/programs/:programId/workouts", s.handleAddWorkout)
		gym.GET("/programs/:programId/workouts", s.handleListWorkouts)
		gym.GET("/programs/:programId/workouts/:workoutId", s.handleGetWorkout)
		gym.DELETE("/programs/:programId/workouts/:workoutId", s.handleDeleteWorkout)
		gym.POST("/programs/:programId/workouts/:workoutId/exercises", s.handleAddExercise)
		gym.GET("/programs/:programId/workouts/:workoutId/exercises/:exerciseId", s.handleGetExercise)
		gym.PUT("/programs/:programId/workouts/:workoutId/exercises/:exerciseId", s.handleUpdateExercise)
		gym.DELETE("/programs/:programId/workouts/:workoutId/exercises/:exerciseId", s.handleDeleteExercise)
	}

	food := api.Group("/food")
	{
		food.POST("/mealplans", s.handleCreateMealPlan)
		food.GET("/mealplans", s.handleListMealPlans)
		food.GET("/mealplans/:planId", s.handleGetMealPlan)
		food.DELETE("/mealplans/:planId", s.handleDeleteMealPlan)
		food.POST("/mealplans/:planId/meals", s.handleAddMeal)
		food.GET("/mealplans/:planId/meals", s.handleListMeals)
		food.GET("/mealplans/:planId/meals/:mealId", s.handleGetMeal)
		food.DELETE("/mealplans/:planId/meals/:mealId", s.handleDeleteMeal)
		food.POST("/mealplans/:planId/meals/:mealId/foods", s.handleAddFood)
		food.GET("/mealplans/:planId/meals/:mealId/foods", s.handleListFoods)
		food.GET("/mealplans/:planId/meals/:mealId/foods/:foodId", s.handleGetFood)
		food.PUT("/mealplans/:planId/meals/:mealId/foods/:foodId", s.handleUpdateFood)
		food.DELETE("/mealplans/:planId/meals/:mealId/foods/:foodId", s.handleDeleteFood)
	}

	sessions := api.Group("/sessions")
	{
		sessions.POST("/start/:programId/:workoutId", s.handleStartSession)
		sessions.PUT("/log/:logId", s.handleUpdateLog)
		sessions.GET("/history", s.handleSessionHistory)
		sessions.GET("/:sessionId", s.handleGetSession)
	}

	progress := api.Group("/progress")
	{
		progress.GET("/history", s.handleProgressHistory)
		progress.GET("/progression/:exerciseName", s.handleProgression)
		progress.GET("/personal-records", s.handlePersonalRecords)
		progress.GET("/frequency-stats", s.handleFrequencyStats)
	}

	return router
}

// respondError maps the error taxonomy onto status codes. Not-found covers
// both absence and foreign ownership; persistence and internal failures are
// an opaque 500.
func respondError(c *gin.Context, err error) {
	appType := apperrors.TypeOf(err)
	switch appType {
	case apperrors.ErrorTypeValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": errorMessage(err)})
	case apperrors.ErrorTypeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": errorMessage(err)})
	case apperrors.ErrorTypePermission:
		c.JSON(http.StatusUnauthorized, gin.H{"error": errorMessage(err)})
	default:
		logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// pathID parses a numeric path parameter. A malformed id cannot name an
// existing resource, so it folds into the uniform not-found outcome.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, apperrors.NewNotFoundError("resource"))
		return 0, false
	}
	return uint(id), true
}
