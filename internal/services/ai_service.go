package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	"github.com/fitplanhq/fitplan-backend/internal/config"
	apperrors "github.com/fitplanhq/fitplan-backend/internal/errors"
)

const (
	openaiPlanModel = "gpt-4.1-2025-04-14"
	geminiPlanModel = "gemini-1.5-flash"
)

// AIService generates plan text from user biometrics. It returns the model's
// raw text response only; parsing and persistence are someone else's problem.
type AIService struct {
	provider     string
	openaiClient *openai.Client
	geminiClient *genai.Client
}

type WorkoutPlanRequest struct {
	Height             float64  `json:"height"`
	Weight             float64  `json:"weight"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	FitnessLevel       string   `json:"fitnessLevel"`
	FitnessGoals       []string `json:"fitnessGoals"`
	WorkoutFrequency   int      `json:"workoutFrequency"`
	PreferredExercises []string `json:"preferredExercises"`
	HealthConditions   []string `json:"healthConditions"`
	Equipment          []string `json:"equipment"`
}

type MealPlanRequest struct {
	Height             float64  `json:"height"`
	Weight             float64  `json:"weight"`
	Age                int      `json:"age"`
	Gender             string   `json:"gender"`
	FitnessGoals       []string `json:"fitnessGoals"`
	DietaryPreferences []string `json:"dietaryPreferences"`
	Allergies          []string `json:"allergies"`
	MealsPerDay        int      `json:"mealsPerDay"`
	CalorieTarget      float64  `json:"calorieTarget"`
}

func NewAIService(ctx context.Context, cfg config.AIConfig) (*AIService, error) {
	s := &AIService{provider: cfg.Provider}

	switch cfg.Provider {
	case "gemini":
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	default:
		s.openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	}

	return s, nil
}

func (s *AIService) GenerateWorkoutPlan(ctx context.Context, req WorkoutPlanRequest) (string, error) {
	prompt := buildWorkoutPrompt(req)
	system := "You are a certified personal trainer specialized in creating personalized workout plans."
	return s.generate(ctx, system, prompt)
}

func (s *AIService) GenerateMealPlan(ctx context.Context, req MealPlanRequest) (string, error) {
	prompt := buildMealPrompt(req)
	system := "You are a certified nutritionist specialized in creating personalized meal plans. " +
		"ALWAYS include nutrition information for EACH ingredient. Return only valid JSON without markdown formatting."
	return s.generate(ctx, system, prompt)
}

func (s *AIService) generate(ctx context.Context, system, prompt string) (string, error) {
	if s.provider == "gemini" {
		return s.generateWithGemini(ctx, system, prompt)
	}
	return s.generateWithOpenAI(ctx, system, prompt)
}

func (s *AIService) generateWithOpenAI(ctx context.Context, system, prompt string) (string, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openaiPlanModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: 0.7,
			MaxTokens:   20000,
		},
	)
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "OpenAI")
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewExternalAPIError(fmt.Errorf("empty completion"), "OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *AIService) generateWithGemini(ctx context.Context, system, prompt string) (string, error) {
	model := s.geminiClient.GenerativeModel(geminiPlanModel)
	resp, err := model.GenerateContent(ctx, genai.Text(system+"\n\n"+prompt))
	if err != nil {
		return "", apperrors.NewExternalAPIError(err, "Gemini")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", apperrors.NewExternalAPIError(fmt.Errorf("empty candidates"), "Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func buildWorkoutPrompt(req WorkoutPlanRequest) string {
	var sb strings.Builder
	sb.WriteString("Create a personalized workout program based on the following information:\n\n")
	sb.WriteString("User Information:\n")
	fmt.Fprintf(&sb, "- Height: %.0f cm\n", req.Height)
	fmt.Fprintf(&sb, "- Weight: %.0f kg\n", req.Weight)
	fmt.Fprintf(&sb, "- Age: %d\n", req.Age)
	fmt.Fprintf(&sb, "- Gender: %s\n", req.Gender)
	fmt.Fprintf(&sb, "- Fitness Level: %s\n", req.FitnessLevel)
	fmt.Fprintf(&sb, "- Fitness Goals: %s\n", strings.Join(req.FitnessGoals, ", "))
	fmt.Fprintf(&sb, "- Workout Frequency: %d days per week\n", req.WorkoutFrequency)
	if len(req.PreferredExercises) > 0 {
		fmt.Fprintf(&sb, "- Preferred Exercises: %s\n", strings.Join(req.PreferredExercises, ", "))
	}
	if len(req.HealthConditions) > 0 {
		fmt.Fprintf(&sb, "- Health Conditions: %s\n", strings.Join(req.HealthConditions, ", "))
	}
	if len(req.Equipment) > 0 {
		fmt.Fprintf(&sb, "- Available Equipment: %s\n", strings.Join(req.Equipment, ", "))
	}

	sb.WriteString(`
Create a detailed workout program that includes:
1. A weekly schedule
2. For each workout (day), include:
   - Specific exercises
   - Number of sets and repetitions
   - Include a "recommendedWeight" number field for each exercise.

IMPORTANT OUTPUT RULES
- Return only valid JSON
- Do not include markdown (e.g., ` + "```json or ```" + `)
- Do not include comments (like // this is ...)
- Do not include explanations outside of the JSON
- The JSON must exactly match this structure:
{
  "title": "Program title",
  "description": "Brief program description",
  "workoutFrequency": number,
  "workouts": [
    {
      "name": "Workout name",
      "day": "Day of week",
      "exercises": [
        {
          "name": "Exercise name",
          "sets": number,
          "reps": number or "rep range (e.g., 8-12)",
          "weight": "recommended weight"
        }
      ]
    }
  ]
}
`)
	return sb.String()
}

func buildMealPrompt(req MealPlanRequest) string {
	var sb strings.Builder
	sb.WriteString("Create a personalized meal plan based on the following information:\n\n")
	sb.WriteString("User Information:\n")
	fmt.Fprintf(&sb, "- Height: %.0f cm\n", req.Height)
	fmt.Fprintf(&sb, "- Weight: %.0f kg\n", req.Weight)
	fmt.Fprintf(&sb, "- Age: %d\n", req.Age)
	fmt.Fprintf(&sb, "- Gender: %s\n", req.Gender)
	fmt.Fprintf(&sb, "- Fitness Goals: %s\n", strings.Join(req.FitnessGoals, ", "))
	fmt.Fprintf(&sb, "- Meals Per Day: %d\n", req.MealsPerDay)
	if len(req.DietaryPreferences) > 0 {
		fmt.Fprintf(&sb, "- Dietary Preferences: %s\n", strings.Join(req.DietaryPreferences, ", "))
	}
	if len(req.Allergies) > 0 {
		fmt.Fprintf(&sb, "- Allergies: %s\n", strings.Join(req.Allergies, ", "))
	}
	if req.CalorieTarget > 0 {
		fmt.Fprintf(&sb, "- Daily Calorie Target: %.0f\n", req.CalorieTarget)
	}

	fmt.Fprintf(&sb, `
Create a detailed 3-day meal plan that includes:
1. For each day, provide all meals (%d per day)
2. For each meal, include:
   - Name of the meal
   - Type (breakfast/lunch/dinner/snack)
   - Ingredients with quantities
   - Total meal macronutrient breakdown (protein, carbs, fats)
   - Total meal calorie count

VERY IMPORTANT: For EACH ingredient, you MUST include its individual nutritional information in a "nutrition" object with these properties: calories, protein, carbs, fats.

IMPORTANT OUTPUT RULES
- Return only valid JSON
- Do not include markdown (e.g., `+"```json or ```"+`)
- Do not include comments (like // this is ...)
- Do not include explanations outside of the JSON

Format the response in JSON with the structure:
{
  "title": "Meal plan title",
  "description": "Brief meal plan description",
  "dailyCalories": number,
  "days": [
    {
      "day": "Day of week",
      "meals": [
        {
          "name": "Meal name",
          "type": "breakfast/lunch/dinner/snack",
          "nutritionalInfo": {
            "calories": number,
            "protein": number,
            "carbs": number,
            "fats": number
          },
          "ingredients": [
            {
              "name": "Ingredient name",
              "quantity": "amount with unit",
              "nutrition": {
                "calories": number,
                "protein": number,
                "carbs": number,
                "fats": number
              }
            }
          ]
        }
      ]
    }
  ]
}
`, req.MealsPerDay)
	return sb.String()
}
