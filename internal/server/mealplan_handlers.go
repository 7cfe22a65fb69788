package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitplanhq/fitplan-backend/internal/services"
)

func (s *Server) handleCreateMealPlan(c *gin.Context) {
	var req struct {
		MealPlanName string `json:"meal_plan_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MealPlanName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal plan name is required"})
		return
	}

	plan, err := s.meals.CreateMealPlan(c.Request.Context(), userID(c), req.MealPlanName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) handleListMealPlans(c *gin.Context) {
	plans, err := s.meals.ListMealPlans(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (s *Server) handleGetMealPlan(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}

	plan, meals, err := s.meals.GetMealPlan(c.Request.Context(), userID(c), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal_plan": plan, "meals": meals})
}

func (s *Server) handleDeleteMealPlan(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}

	if err := s.meals.DeleteMealPlan(c.Request.Context(), userID(c), planID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal plan and all its meals and foods deleted successfully"})
}

func (s *Server) handleAddMeal(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}

	var req struct {
		MealType      string  `json:"meal_type"`
		TotalCalories float64 `json:"total_calories"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.MealType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal type is required"})
		return
	}

	meal, err := s.meals.AddMeal(c.Request.Context(), userID(c), planID, req.MealType, req.TotalCalories)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (s *Server) handleListMeals(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}

	meals, err := s.meals.ListMeals(c.Request.Context(), userID(c), planID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (s *Server) handleGetMeal(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	meal, foods, err := s.meals.GetMeal(c.Request.Context(), userID(c), planID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meal": meal, "foods": foods})
}

func (s *Server) handleDeleteMeal(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	if err := s.meals.DeleteMeal(c.Request.Context(), userID(c), planID, mealID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Meal and all its foods deleted successfully"})
}

func (s *Server) handleAddFood(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	var req struct {
		FoodName      string  `json:"food_name"`
		Calories      float64 `json:"calories"`
		Proteins      float64 `json:"proteins"`
		Carbohydrates float64 `json:"carbohydrates"`
		Fats          float64 `json:"fats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FoodName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Food name is required"})
		return
	}

	food, err := s.meals.AddFood(c.Request.Context(), userID(c), planID, mealID, services.FoodInput{
		Name:          req.FoodName,
		Calories:      req.Calories,
		Proteins:      req.Proteins,
		Carbohydrates: req.Carbohydrates,
		Fats:          req.Fats,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, food)
}

func (s *Server) handleListFoods(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}

	foods, err := s.meals.ListFoods(c.Request.Context(), userID(c), planID, mealID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, foods)
}

func (s *Server) handleGetFood(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	foodID, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	food, err := s.meals.GetFood(c.Request.Context(), userID(c), planID, mealID, foodID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (s *Server) handleUpdateFood(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	foodID, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	var req struct {
		FoodName      *string  `json:"food_name"`
		Calories      *float64 `json:"calories"`
		Proteins      *float64 `json:"proteins"`
		Carbohydrates *float64 `json:"carbohydrates"`
		Fats          *float64 `json:"fats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	food, err := s.meals.UpdateFood(c.Request.Context(), userID(c), planID, mealID, foodID, services.UpdateFoodInput{
		Name:          req.FoodName,
		Calories:      req.Calories,
		Proteins:      req.Proteins,
		Carbohydrates: req.Carbohydrates,
		Fats:          req.Fats,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, food)
}

func (s *Server) handleDeleteFood(c *gin.Context) {
	planID, ok := pathID(c, "planId")
	if !ok {
		return
	}
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return
	}
	foodID, ok := pathID(c, "foodId")
	if !ok {
		return
	}

	if err := s.meals.DeleteFood(c.Request.Context(), userID(c), planID, mealID, foodID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food deleted successfully"})
}
