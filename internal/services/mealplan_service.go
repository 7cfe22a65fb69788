package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fitplanhq/fitplan-backend/internal/database"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
	"github.com/fitplanhq/fitplan-backend/internal/logger"
	"github.com/fitplanhq/fitplan-backend/internal/planparse"
)

// MealPlanService owns the meal-plan → meal → food hierarchy and is the only
// writer of Meal.TotalCalories. Every food mutation pairs the row change with
// a relative update of the meal aggregate inside one transaction; nothing
// else is allowed to touch the column.
type MealPlanService struct {
	db *gorm.DB
}

func NewMealPlanService(db *gorm.DB) *MealPlanService {
	return &MealPlanService{db: db}
}

// SaveGeneratedMealPlan fans a parsed plan out across meal-plan, meal, and
// food rows in one transaction, parents before children. The meal rows carry
// the meal-level calorie figure from the parsed plan; any failure rolls the
// whole plan back.
func (s *MealPlanService) SaveGeneratedMealPlan(ctx context.Context, userID uint, plan *planparse.MealPlan) (*GeneratedPlanResult, error) {
	mealPlan := database.MealPlan{
		UserID: userID,
		Name:   plan.Title,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&mealPlan).Error; err != nil {
			return err
		}
		for _, day := range plan.Days {
			for _, item := range day.Meals {
				meal := database.Meal{
					MealPlanID:    mealPlan.ID,
					Type:          item.Type,
					TotalCalories: item.Calories,
				}
				if err := tx.Create(&meal).Error; err != nil {
					return err
				}
				for _, ing := range item.Ingredients {
					food := database.Food{
						MealID:        meal.ID,
						Name:          ing.Name,
						Calories:      ing.Calories,
						Proteins:      ing.Proteins,
						Carbohydrates: ing.Carbohydrates,
						Fats:          ing.Fats,
					}
					if err := tx.Create(&food).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to save generated meal plan", "user_id", userID, "error", err)
		return nil, apperrors.NewDatabaseError(err)
	}

	return &GeneratedPlanResult{
		ID:          mealPlan.ID,
		Title:       plan.Title,
		Description: plan.Description,
	}, nil
}

func (s *MealPlanService) CreateMealPlan(ctx context.Context, userID uint, name string) (*database.MealPlan, error) {
	mealPlan := database.MealPlan{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&mealPlan).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &mealPlan, nil
}

func (s *MealPlanService) ListMealPlans(ctx context.Context, userID uint) ([]database.MealPlan, error) {
	var plans []database.MealPlan
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&plans).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return plans, nil
}

func (s *MealPlanService) GetMealPlan(ctx context.Context, userID, planID uint) (*database.MealPlan, []database.Meal, error) {
	plan, err := s.ownedMealPlan(s.db.WithContext(ctx), userID, planID)
	if err != nil {
		return nil, nil, err
	}

	var meals []database.Meal
	if err := s.db.WithContext(ctx).
		Where("meal_plan_id = ?", planID).
		Find(&meals).Error; err != nil {
		return nil, nil, apperrors.NewDatabaseError(err)
	}
	return plan, meals, nil
}

func (s *MealPlanService) DeleteMealPlan(ctx context.Context, userID, planID uint) error {
	if _, err := s.ownedMealPlan(s.db.WithContext(ctx), userID, planID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id IN (?)",
			tx.Model(&database.Meal{}).Select("id").Where("meal_plan_id = ?", planID),
		).Delete(&database.Food{}).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_plan_id = ?", planID).Delete(&database.Meal{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.MealPlan{}, planID).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *MealPlanService) AddMeal(ctx context.Context, userID, planID uint, mealType string, totalCalories float64) (*database.Meal, error) {
	if _, err := s.ownedMealPlan(s.db.WithContext(ctx), userID, planID); err != nil {
		return nil, err
	}

	meal := database.Meal{
		MealPlanID:    planID,
		Type:          mealType,
		TotalCalories: totalCalories,
	}
	if err := s.db.WithContext(ctx).Create(&meal).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &meal, nil
}

func (s *MealPlanService) ListMeals(ctx context.Context, userID, planID uint) ([]database.Meal, error) {
	if _, err := s.ownedMealPlan(s.db.WithContext(ctx), userID, planID); err != nil {
		return nil, err
	}

	var meals []database.Meal
	if err := s.db.WithContext(ctx).
		Where("meal_plan_id = ?", planID).
		Find(&meals).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return meals, nil
}

func (s *MealPlanService) GetMeal(ctx context.Context, userID, planID, mealID uint) (*database.Meal, []database.Food, error) {
	meal, err := s.ownedMeal(s.db.WithContext(ctx), userID, planID, mealID)
	if err != nil {
		return nil, nil, err
	}

	var foods []database.Food
	if err := s.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Find(&foods).Error; err != nil {
		return nil, nil, apperrors.NewDatabaseError(err)
	}
	return meal, foods, nil
}

// DeleteMeal removes the meal and its foods; the aggregate dies with the row,
// so no reconciliation is needed.
func (s *MealPlanService) DeleteMeal(ctx context.Context, userID, planID, mealID uint) error {
	if _, err := s.ownedMeal(s.db.WithContext(ctx), userID, planID, mealID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", mealID).Delete(&database.Food{}).Error; err != nil {
			return err
		}
		return tx.Delete(&database.Meal{}, mealID).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

// FoodInput is the payload for creating a food row. Unspecified nutrition
// values default to zero.
type FoodInput struct {
	Name          string
	Calories      float64
	Proteins      float64
	Carbohydrates float64
	Fats          float64
}

// AddFood inserts the food and increments the meal's maintained calorie total
// in the same transaction. The increment is a relative SQL expression so two
// concurrent inserts against one meal cannot lose an update.
func (s *MealPlanService) AddFood(ctx context.Context, userID, planID, mealID uint, input FoodInput) (*database.Food, error) {
	if _, err := s.ownedMeal(s.db.WithContext(ctx), userID, planID, mealID); err != nil {
		return nil, err
	}

	food := database.Food{
		MealID:        mealID,
		Name:          input.Name,
		Calories:      input.Calories,
		Proteins:      input.Proteins,
		Carbohydrates: input.Carbohydrates,
		Fats:          input.Fats,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&food).Error; err != nil {
			return err
		}
		return tx.Model(&database.Meal{}).
			Where("id = ?", mealID).
			Update("total_calories", gorm.Expr("total_calories + ?", input.Calories)).Error
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &food, nil
}

func (s *MealPlanService) ListFoods(ctx context.Context, userID, planID, mealID uint) ([]database.Food, error) {
	if _, err := s.ownedMeal(s.db.WithContext(ctx), userID, planID, mealID); err != nil {
		return nil, err
	}

	var foods []database.Food
	if err := s.db.WithContext(ctx).
		Where("meal_id = ?", mealID).
		Find(&foods).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return foods, nil
}

func (s *MealPlanService) GetFood(ctx context.Context, userID, planID, mealID, foodID uint) (*database.Food, error) {
	return s.ownedFood(s.db.WithContext(ctx), userID, planID, mealID, foodID)
}

// UpdateFoodInput carries the optional fields of a food update; nil means
// "leave unchanged".
type UpdateFoodInput struct {
	Name          *string
	Calories      *float64
	Proteins      *float64
	Carbohydrates *float64
	Fats          *float64
}

// UpdateFood applies a partial update. When calories change, the previous
// value is captured by re-reading the row inside the transaction (single row
// by primary key, under the transaction's lock) and the meal total moves by
// the difference — old out, new in, atomically with the row update.
func (s *MealPlanService) UpdateFood(ctx context.Context, userID, planID, mealID, foodID uint, input UpdateFoodInput) (*database.Food, error) {
	if _, err := s.ownedFood(s.db.WithContext(ctx), userID, planID, mealID, foodID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Calories != nil {
		updates["calories"] = *input.Calories
	}
	if input.Proteins != nil {
		updates["proteins"] = *input.Proteins
	}
	if input.Carbohydrates != nil {
		updates["carbohydrates"] = *input.Carbohydrates
	}
	if input.Fats != nil {
		updates["fats"] = *input.Fats
	}
	if len(updates) == 0 {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	var food database.Food
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&food, foodID).Error; err != nil {
			return err
		}
		oldCalories := food.Calories

		if err := tx.Model(&food).Updates(updates).Error; err != nil {
			return err
		}

		if input.Calories != nil {
			return tx.Model(&database.Meal{}).
				Where("id = ?", mealID).
				Update("total_calories", gorm.Expr("total_calories - ? + ?", oldCalories, *input.Calories)).Error
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &food, nil
}

// DeleteFood removes the row and decrements the meal total in the same
// transaction.
func (s *MealPlanService) DeleteFood(ctx context.Context, userID, planID, mealID, foodID uint) error {
	if _, err := s.ownedFood(s.db.WithContext(ctx), userID, planID, mealID, foodID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var food database.Food
		if err := tx.First(&food, foodID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&food).Error; err != nil {
			return err
		}
		return tx.Model(&database.Meal{}).
			Where("id = ?", mealID).
			Update("total_calories", gorm.Expr("total_calories - ?", food.Calories)).Error
	})
	if err != nil {
		return apperrors.NewDatabaseError(err)
	}
	return nil
}

func (s *MealPlanService) ownedMealPlan(db *gorm.DB, userID, planID uint) (*database.MealPlan, error) {
	var plan database.MealPlan
	err := db.Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("meal plan")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &plan, nil
}

func (s *MealPlanService) ownedMeal(db *gorm.DB, userID, planID, mealID uint) (*database.Meal, error) {
	var meal database.Meal
	err := db.
		Joins("JOIN meal_plans ON meal_plans.id = meals.meal_plan_id AND meal_plans.deleted_at IS NULL").
		Where("meals.id = ? AND meal_plans.id = ? AND meal_plans.user_id = ?", mealID, planID, userID).
		First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("meal")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &meal, nil
}

func (s *MealPlanService) ownedFood(db *gorm.DB, userID, planID, mealID, foodID uint) (*database.Food, error) {
	var food database.Food
	err := db.
		Joins("JOIN meals ON meals.id = foods.meal_id AND meals.deleted_at IS NULL").
		Joins("JOIN meal_plans ON meal_plans.id = meals.meal_plan_id AND meal_plans.deleted_at IS NULL").
		Where("foods.id = ? AND meals.id = ? AND meal_plans.id = ? AND meal_plans.user_id = ?",
			foodID, mealID, planID, userID).
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFoundError("food")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError(err)
	}
	return &food, nil
}
