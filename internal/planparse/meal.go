package planparse

import "encoding/json"

// MealPlan is the persistable shape of a generated meal plan.
type MealPlan struct {
	Title       string
	Description string
	Days        []MealDay
}

type MealDay struct {
	Day   string
	Meals []MealItem
}

type MealItem struct {
	Type string
	// Calories is the meal-level figure read from nutritionalInfo; it seeds
	// the maintained total_calories column.
	Calories    float64
	Ingredients []IngredientItem
}

type IngredientItem struct {
	Name          string
	Calories      float64
	Proteins      float64
	Carbohydrates float64
	Fats          float64
}

type rawMealPlan struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Days        []rawMealDay `json:"days"`
}

type rawMealDay struct {
	Day   FlexValue `json:"day"`
	Meals []rawMeal `json:"meals"`
}

type rawMeal struct {
	Type            string          `json:"type"`
	NutritionalInfo rawNutrition    `json:"nutritionalInfo"`
	Ingredients     []rawIngredient `json:"ingredients"`
}

type rawIngredient struct {
	Name      string       `json:"name"`
	Nutrition rawNutrition `json:"nutrition"`
}

type rawNutrition struct {
	Calories FlexValue `json:"calories"`
	Protein  FlexValue `json:"protein"`
	Carbs    FlexValue `json:"carbs"`
	Fats     FlexValue `json:"fats"`
}

// ParseMealPlan normalizes, repairs, and strictly parses model output into a
// MealPlan, with the same failure contract as ParseWorkoutPlan.
func ParseMealPlan(raw string) (*MealPlan, error) {
	var doc rawMealPlan
	if err := json.Unmarshal([]byte(Normalize(raw)), &doc); err != nil {
		return nil, &FormatError{Raw: raw, Err: err}
	}

	plan := &MealPlan{
		Title:       doc.Title,
		Description: doc.Description,
	}
	if plan.Title == "" {
		plan.Title = "Custom Meal Plan"
	}

	for _, d := range doc.Days {
		day := MealDay{Day: d.Day.String()}
		for _, m := range d.Meals {
			meal := MealItem{
				Type:     m.Type,
				Calories: m.NutritionalInfo.Calories.Float(),
			}
			if meal.Type == "" {
				meal.Type = "meal"
			}
			for _, ing := range m.Ingredients {
				item := IngredientItem{
					Name:          ing.Name,
					Calories:      ing.Nutrition.Calories.Float(),
					Proteins:      ing.Nutrition.Protein.Float(),
					Carbohydrates: ing.Nutrition.Carbs.Float(),
					Fats:          ing.Nutrition.Fats.Float(),
				}
				if item.Name == "" {
					item.Name = "Unnamed Ingredient"
				}
				meal.Ingredients = append(meal.Ingredients, item)
			}
			day.Meals = append(day.Meals, meal)
		}
		plan.Days = append(plan.Days, day)
	}

	return plan, nil
}
