// Package fixtures holds the demo data seeded into an empty deployment.
package fixtures

import (
	"alcyxob/coach-platform/internal/domain"
	"alcyxob/coach-platform/internal/repository"
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type taskFixture struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	Meta         string   `yaml:"meta"`
	Time         string   `yaml:"time"`
	VideoURL     string   `yaml:"videoUrl"`
	ImageURL     string   `yaml:"imageUrl"`
	Instructions []string `yaml:"instructions"`
}

// dayPattern is repeated for every day of a template.
type dayPattern struct {
	MotivationalMessage string        `yaml:"motivationalMessage"`
	VideoURL            string        `yaml:"videoUrl"`
	Meals               []taskFixture `yaml:"meals"`
	Exercises           []taskFixture `yaml:"exercises"`
}

type templateFixture struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Day         dayPattern `yaml:"day"`
}

type userFixture struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Username      string  `yaml:"username"`
	Password      string  `yaml:"password"`
	Phone         string  `yaml:"phone"`
	TemplateID    string  `yaml:"templateId"`
	StartDate     string  `yaml:"startDate"`
	Weight        float64 `yaml:"weight"`
	Height        float64 `yaml:"height"`
	GoalWeight    float64 `yaml:"goalWeight"`
	Age           int     `yaml:"age"`
	WeightHistory []struct {
		Date   string  `yaml:"date"`
		Weight float64 `yaml:"weight"`
	} `yaml:"weightHistory"`
}

type ingredientFixture struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Amount   float64 `yaml:"amount"`
	Unit     string  `yaml:"unit"`
	Category string  `yaml:"category"`
}

type recipeFixture struct {
	ID           string              `yaml:"id"`
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description"`
	Category     string              `yaml:"category"`
	PrepTime     int                 `yaml:"prepTime"`
	CookTime     int                 `yaml:"cookTime"`
	Servings     int                 `yaml:"servings"`
	Difficulty   string              `yaml:"difficulty"`
	Calories     int                 `yaml:"calories"`
	Protein      float64             `yaml:"protein"`
	Carbs        float64             `yaml:"carbs"`
	Fats         float64             `yaml:"fats"`
	ImageURL     string              `yaml:"imageUrl"`
	VideoURL     string              `yaml:"videoUrl"`
	Ingredients  []ingredientFixture `yaml:"ingredients"`
	Instructions []string            `yaml:"instructions"`
	Tags         []string            `yaml:"tags"`
}

type exerciseFixture struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	MuscleGroup  string   `yaml:"muscleGroup"`
	Difficulty   string   `yaml:"difficulty"`
	Equipment    []string `yaml:"equipment"`
	Instructions []string `yaml:"instructions"`
	Sets         int      `yaml:"sets"`
	Reps         string   `yaml:"reps"`
	Duration     int      `yaml:"duration"`
	Calories     int      `yaml:"calories"`
	VideoURL     string   `yaml:"videoUrl"`
	ImageURL     string   `yaml:"imageUrl"`
	Tags         []string `yaml:"tags"`
}

type productFixture struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Type        string   `yaml:"type"`
	Price       float64  `yaml:"price"`
	Currency    string   `yaml:"currency"`
	ImageURL    string   `yaml:"imageUrl"`
	Features    []string `yaml:"features"`
	DownloadURL string   `yaml:"downloadUrl"`
	Rating      float64  `yaml:"rating"`
	Reviews     int      `yaml:"reviews"`
}

// Data is the decoded fixture set, converted to domain values.
type Data struct {
	Templates []domain.PlanTemplate
	Users     []SeedUser
	Recipes   []domain.Recipe
	Exercises []domain.Exercise
	Products  []domain.Product
}

// SeedUser is a roster entry plus its clear-text password and template.
type SeedUser struct {
	User       domain.User
	Password   string
	TemplateID string
}

type file struct {
	Templates []templateFixture `yaml:"templates"`
	Users     []userFixture     `yaml:"users"`
	Recipes   []recipeFixture   `yaml:"recipes"`
	Exercises []exerciseFixture `yaml:"exercises"`
	Products  []productFixture  `yaml:"products"`
}

// Load decodes the embedded fixtures.
func Load() (*Data, error) {
	return Parse(seedYAML)
}

// Parse decodes a fixture document.
func Parse(raw []byte) (*Data, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	data := &Data{}
	for _, t := range f.Templates {
		data.Templates = append(data.Templates, t.build())
	}
	for _, u := range f.Users {
		data.Users = append(data.Users, u.build())
	}
	for _, r := range f.Recipes {
		data.Recipes = append(data.Recipes, r.build())
	}
	for _, e := range f.Exercises {
		data.Exercises = append(data.Exercises, e.build())
	}
	for _, p := range f.Products {
		data.Products = append(data.Products, p.build())
	}
	return data, nil
}

func (t taskFixture) build(id string, typ domain.TaskType) domain.Task {
	return domain.Task{
		ID:           id,
		Title:        t.Title,
		Description:  t.Description,
		Type:         typ,
		Meta:         t.Meta,
		Time:         t.Time,
		VideoURL:     t.VideoURL,
		ImageURL:     t.ImageURL,
		Instructions: t.Instructions,
	}
}

// build expands the day pattern into PlanLength days. Task ids are
// "m-<day>-<n>" and "e-<day>-<n>", both 1-based.
func (t templateFixture) build() domain.PlanTemplate {
	tpl := domain.NewPlanTemplate(t.ID, t.Name, t.Description)
	for i := range tpl.Days {
		d := &tpl.Days[i]
		d.VideoURL = t.Day.VideoURL
		if t.Day.MotivationalMessage != "" {
			d.MotivationalMessage = t.Day.MotivationalMessage
		}
		for n, m := range t.Day.Meals {
			d.Meals = append(d.Meals, m.build(fmt.Sprintf("m-%d-%d", d.Day, n+1), domain.TaskTypeMeal).Clone())
		}
		for n, e := range t.Day.Exercises {
			d.Exercises = append(d.Exercises, e.build(fmt.Sprintf("e-%d-%d", d.Day, n+1), domain.TaskTypeExercise).Clone())
		}
	}
	return tpl
}

func (u userFixture) build() SeedUser {
	history := make([]domain.WeightEntry, 0, len(u.WeightHistory))
	for _, w := range u.WeightHistory {
		history = append(history, domain.WeightEntry{Date: w.Date, Weight: w.Weight})
	}
	return SeedUser{
		User: domain.User{
			ID:            u.ID,
			Name:          u.Name,
			Username:      u.Username,
			Phone:         u.Phone,
			Role:          domain.RoleUser,
			StartDate:     u.StartDate,
			CurrentDay:    1,
			Weight:        u.Weight,
			Height:        u.Height,
			GoalWeight:    u.GoalWeight,
			Age:           u.Age,
			WeightHistory: history,
			Messages:      []domain.Message{},
		},
		Password:   u.Password,
		TemplateID: u.TemplateID,
	}
}

func (r recipeFixture) build() domain.Recipe {
	ingredients := make([]domain.Ingredient, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		ingredients = append(ingredients, domain.Ingredient(i))
	}
	return domain.Recipe{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Difficulty:   r.Difficulty,
		Calories:     r.Calories,
		Protein:      r.Protein,
		Carbs:        r.Carbs,
		Fats:         r.Fats,
		ImageURL:     r.ImageURL,
		VideoURL:     r.VideoURL,
		Ingredients:  ingredients,
		Instructions: r.Instructions,
		Tags:         r.Tags,
		CreatedBy:    string(domain.RoleAdmin),
	}
}

func (e exerciseFixture) build() domain.Exercise {
	return domain.Exercise{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		MuscleGroup:  e.MuscleGroup,
		Difficulty:   e.Difficulty,
		Equipment:    e.Equipment,
		VideoURL:     e.VideoURL,
		ImageURL:     e.ImageURL,
		Instructions: e.Instructions,
		Sets:         e.Sets,
		Reps:         e.Reps,
		Duration:     e.Duration,
		Calories:     e.Calories,
		Tags:         e.Tags,
		CreatedBy:    string(domain.RoleAdmin),
	}
}

func (p productFixture) build() domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        domain.ProductType(p.Type),
		Price:       p.Price,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		Features:    p.Features,
		DownloadURL: p.DownloadURL,
		Rating:      p.Rating,
		Reviews:     p.Reviews,
	}
}

// Seed writes the embedded fixtures into repos. Records that already exist
// are left alone, so seeding a populated database is a no-op.
func Seed(ctx context.Context, repos repository.Repositories, logger *zap.Logger) error {
	data, err := Load()
	if err != nil {
		return err
	}
	return SeedData(ctx, data, repos, logger)
}

// SeedData writes data into repos.
func SeedData(ctx context.Context, data *Data, repos repository.Repositories, logger *zap.Logger) error {
	created := 0
	insert := func(kind, id string, err error) error {
		switch {
		case err == nil:
			created++
			return nil
		case errors.Is(err, repository.ErrConflict):
			logger.Debug("fixture already present", zap.String("kind", kind), zap.String("id", id))
			return nil
		default:
			return fmt.Errorf("failed to seed %s %s: %w", kind, id, err)
		}
	}

	templates := make(map[string]domain.PlanTemplate, len(data.Templates))
	for i := range data.Templates {
		tpl := data.Templates[i]
		templates[tpl.ID] = tpl
		if err := insert("template", tpl.ID, repos.Templates.Create(ctx, &tpl)); err != nil {
			return err
		}
	}

	for _, su := range data.Users {
		user := su.User.Clone()
		tpl, ok := templates[su.TemplateID]
		if !ok {
			return fmt.Errorf("fixture user %s references unknown template %q", user.ID, su.TemplateID)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash fixture password: %w", err)
		}
		user.PasswordHash = string(hash)
		user.Category = tpl.Name
		user.Plan = domain.CloneDays(tpl.Days)
		if err := insert("user", user.ID, repos.Users.Create(ctx, &user)); err != nil {
			return err
		}
	}

	for i := range data.Recipes {
		r := data.Recipes[i].Clone()
		if err := insert("recipe", r.ID, repos.Recipes.Create(ctx, &r)); err != nil {
			return err
		}
	}
	for i := range data.Exercises {
		e := data.Exercises[i].Clone()
		if err := insert("exercise", e.ID, repos.Exercises.Create(ctx, &e)); err != nil {
			return err
		}
	}
	for i := range data.Products {
		p := data.Products[i].Clone()
		if err := insert("product", p.ID, repos.Products.Create(ctx, &p)); err != nil {
			return err
		}
	}

	logger.Info("fixtures seeded", zap.Int("created", created))
	return nil
}
