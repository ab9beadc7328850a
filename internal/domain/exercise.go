// internal/domain/exercise.go
package domain

import (
	"time"
)

// MuscleGroup values used by the exercise library.
const (
	MuscleChest     = "chest"
	MuscleBack      = "back"
	MuscleLegs      = "legs"
	MuscleShoulders = "shoulders"
	MuscleArms      = "arms"
	MuscleCore      = "core"
	MuscleCardio    = "cardio"
	MuscleFullBody  = "full-body"
)

// Exercise represents a single exercise definition in the library.
type Exercise struct {
	ID          string   `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string   `bson:"muscleGroup" json:"muscleGroup"` // e.g., "chest", "legs", "full-body"
	Difficulty  string   `bson:"difficulty" json:"difficulty"`   // "beginner", "intermediate", "advanced"
	Equipment   []string `bson:"equipment,omitempty" json:"equipment,omitempty"`
	VideoURL    string   `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	ImageURL    string   `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`

	Instructions []string `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Sets         int      `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps         string   `bson:"reps,omitempty" json:"reps,omitempty"`
	Duration     int      `bson:"duration,omitempty" json:"duration,omitempty"` // seconds, for cardio
	Calories     int      `bson:"calories,omitempty" json:"calories,omitempty"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`

	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Ingredient is one line of a recipe or a shopping list.
type Ingredient struct {
	ID       string  `bson:"id" json:"id"`
	Name     string  `bson:"name" json:"name"`
	Amount   float64 `bson:"amount" json:"amount"`
	Unit     string  `bson:"unit" json:"unit"`
	Category string  `bson:"category,omitempty" json:"category,omitempty"` // protein, carbs, vegetables, dairy, spices, other
}

// Recipe is a library recipe that meal tasks may point to.
type Recipe struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Description  string       `bson:"description" json:"description"`
	Category     string       `bson:"category" json:"category"` // breakfast, lunch, dinner, snack
	PrepTime     int          `bson:"prepTime" json:"prepTime"` // minutes
	CookTime     int          `bson:"cookTime" json:"cookTime"`
	Servings     int          `bson:"servings" json:"servings"`
	Difficulty   string       `bson:"difficulty" json:"difficulty"`
	Calories     int          `bson:"calories" json:"calories"`
	Protein      float64      `bson:"protein" json:"protein"`
	Carbs        float64      `bson:"carbs" json:"carbs"`
	Fats         float64      `bson:"fats" json:"fats"`
	ImageURL     string       `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	VideoURL     string       `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	Ingredients  []Ingredient `bson:"ingredients" json:"ingredients"`
	Instructions []string     `bson:"instructions" json:"instructions"`
	Tags         []string     `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedBy    string       `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time    `bson:"createdAt" json:"createdAt"`
}

// Clone returns a copy of the exercise with its own slices.
func (e Exercise) Clone() Exercise {
	c := e
	c.Equipment = cloneStrings(e.Equipment)
	c.Instructions = cloneStrings(e.Instructions)
	c.Tags = cloneStrings(e.Tags)
	return c
}

// Clone returns a copy of the recipe with its own slices.
func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	c.Instructions = cloneStrings(r.Instructions)
	c.Tags = cloneStrings(r.Tags)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
