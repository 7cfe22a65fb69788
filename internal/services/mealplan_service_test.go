package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
	"github.com/fitplanhq/fitplan-backend/internal/planparse"
)

func testMealPlan() *planparse.MealPlan {
	return &planparse.MealPlan{
		Title:       "Cutting Plan",
		Description: "High protein",
		Days: []planparse.MealDay{
			{
				Day: "1",
				Meals: []planparse.MealItem{
					{
						Type:     "breakfast",
						Calories: 450,
						Ingredients: []planparse.IngredientItem{
							{Name: "Oats", Calories: 300, Proteins: 10, Carbohydrates: 50, Fats: 5},
							{Name: "Whey", Calories: 150, Proteins: 20, Carbohydrates: 3, Fats: 2},
						},
					},
					{
						Type:     "dinner",
						Calories: 700,
						Ingredients: []planparse.IngredientItem{
							{Name: "Chicken", Calories: 400, Proteins: 45},
						},
					},
				},
			},
		},
	}
}

// mealTotal reads the maintained aggregate column.
func mealTotal(t *testing.T, db *gorm.DB, mealID uint) float64 {
	t.Helper()
	var meal database.Meal
	require.NoError(t, db.First(&meal, mealID).Error)
	return meal.TotalCalories
}

// liveFoodSum recomputes the aggregate from the food rows, independently of
// the maintained column.
func liveFoodSum(t *testing.T, db *gorm.DB, mealID uint) float64 {
	t.Helper()
	var sum float64
	require.NoError(t, db.Model(&database.Food{}).
		Where("meal_id = ? AND deleted_at IS NULL", mealID).
		Select("COALESCE(SUM(calories), 0)").
		Scan(&sum).Error)
	return sum
}

func TestSaveGeneratedMealPlan(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)

	result, err := svc.SaveGeneratedMealPlan(context.Background(), user.ID, testMealPlan())
	require.NoError(t, err)
	assert.NotZero(t, result.ID)
	assert.Equal(t, "Cutting Plan", result.Title)

	var meals []database.Meal
	require.NoError(t, db.Where("meal_plan_id = ?", result.ID).Order("id").Find(&meals).Error)
	require.Len(t, meals, 2)
	assert.Equal(t, "breakfast", meals[0].Type)
	assert.Equal(t, 450.0, meals[0].TotalCalories)
	assert.Equal(t, "dinner", meals[1].Type)
	assert.Equal(t, 700.0, meals[1].TotalCalories)

	var foods []database.Food
	require.NoError(t, db.Where("meal_id = ?", meals[0].ID).Order("id").Find(&foods).Error)
	require.Len(t, foods, 2)
	assert.Equal(t, "Oats", foods[0].Name)
	assert.Equal(t, 300.0, foods[0].Calories)
}

func TestSaveGeneratedMealPlanRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_on_poison", func(tx *gorm.DB) {
		if food, ok := tx.Statement.Dest.(*database.Food); ok && food.Name == "Chicken" {
			tx.AddError(errors.New("injected insert failure"))
		}
	}))

	_, err := svc.SaveGeneratedMealPlan(context.Background(), user.ID, testMealPlan())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabase, apperrors.TypeOf(err))

	var planCount, mealCount, foodCount int64
	require.NoError(t, db.Model(&database.MealPlan{}).Count(&planCount).Error)
	require.NoError(t, db.Model(&database.Meal{}).Count(&mealCount).Error)
	require.NoError(t, db.Model(&database.Food{}).Count(&foodCount).Error)
	assert.Zero(t, planCount)
	assert.Zero(t, mealCount)
	assert.Zero(t, foodCount)
}

func TestAddFoodIncrementsMealTotal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID, "Plan")
	require.NoError(t, err)
	meal, err := svc.AddMeal(ctx, user.ID, plan.ID, "lunch", 0)
	require.NoError(t, err)

	_, err = svc.AddFood(ctx, user.ID, plan.ID, meal.ID, FoodInput{Name: "Rice", Calories: 200})
	require.NoError(t, err)
	_, err = svc.AddFood(ctx, user.ID, plan.ID, meal.ID, FoodInput{Name: "Beans", Calories: 150})
	require.NoError(t, err)

	assert.Equal(t, 350.0, mealTotal(t, db, meal.ID))
	assert.Equal(t, liveFoodSum(t, db, meal.ID), mealTotal(t, db, meal.ID))
}

func TestUpdateFoodAdjustsMealTotal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID, "Plan")
	require.NoError(t, err)
	meal, err := svc.AddMeal(ctx, user.ID, plan.ID, "lunch", 0)
	require.NoError(t, err)
	food, err := svc.AddFood(ctx, user.ID, plan.ID, meal.ID, FoodInput{Name: "Rice", Calories: 200})
	require.NoError(t, err)

	newCalories := 250.0
	updated, err := svc.UpdateFood(ctx, user.ID, plan.ID, meal.ID, food.ID, UpdateFoodInput{Calories: &newCalories})
	require.NoError(t, err)
	assert.Equal(t, 250.0, updated.Calories)
	assert.Equal(t, 250.0, mealTotal(t, db, meal.ID))

	// A rename must not move the aggregate.
	newName := "Brown Rice"
	_, err = svc.UpdateFood(ctx, user.ID, plan.ID, meal.ID, food.ID, UpdateFoodInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, 250.0, mealTotal(t, db, meal.ID))

	_, err = svc.UpdateFood(ctx, user.ID, plan.ID, meal.ID, food.ID, UpdateFoodInput{})
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
}

func TestDeleteFoodDecrementsMealTotal(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, user.ID, "Plan")
	require.NoError(t, err)
	meal, err := svc.AddMeal(ctx, user.ID, plan.ID, "lunch", 0)
	require.NoError(t, err)
	food, err := svc.AddFood(ctx, user.ID, plan.ID, meal.ID, FoodInput{Name: "Rice", Calories: 200})
	require.NoError(t, err)
	_, err = svc.AddFood(ctx, user.ID, plan.ID, meal.ID, FoodInput{Name: "Beans", Calories: 150})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFood(ctx, user.ID, plan.ID, meal.ID, food.ID))

	assert.Equal(t, 150.0, mealTotal(t, db, meal.ID))
	assert.Equal(t, liveFoodSum(t, db, meal.ID), mealTotal(t, db, meal.ID))

	_, err = svc.GetFood(ctx, user.ID, plan.ID, meal.ID, food.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestMealPlanOwnership(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	svc := NewMealPlanService(db)
	ctx := context.Background()

	plan, err := svc.CreateMealPlan(ctx, owner.ID, "Mine")
	require.NoError(t, err)
	meal, err := svc.AddMeal(ctx, owner.ID, plan.ID, "lunch", 0)
	require.NoError(t, err)
	food, err := svc.AddFood(ctx, owner.ID, plan.ID, meal.ID, FoodInput{Name: "Rice", Calories: 200})
	require.NoError(t, err)

	_, _, err = svc.GetMealPlan(ctx, other.ID, plan.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	_, err = svc.GetFood(ctx, other.ID, plan.ID, meal.ID, food.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	err = svc.DeleteFood(ctx, other.ID, plan.ID, meal.ID, food.ID)
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))

	// The foreign attempt must not have touched the aggregate.
	assert.Equal(t, 200.0, mealTotal(t, db, meal.ID))
}

func TestDeleteMealPlanCascades(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "a@example.com")
	svc := NewMealPlanService(db)
	ctx := context.Background()

	result, err := svc.SaveGeneratedMealPlan(ctx, user.ID, testMealPlan())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteMealPlan(ctx, user.ID, result.ID))

	var planCount, mealCount, foodCount int64
	require.NoError(t, db.Model(&database.MealPlan{}).Count(&planCount).Error)
	require.NoError(t, db.Model(&database.Meal{}).Count(&mealCount).Error)
	require.NoError(t, db.Model(&database.Food{}).Count(&foodCount).Error)
	assert.Zero(t, planCount)
	assert.Zero(t, mealCount)
	assert.Zero(t, foodCount)
}
