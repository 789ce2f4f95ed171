package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/Amaytushin/Ratatouille-tusul/config"
	"github.com/Amaytushin/Ratatouille-tusul/internal/database"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/types"
)

const (
	chefEmail    = "chef@example.com"
	chefUsername = "chef"
	chefPassword = "testpassword123"
)

type RecipeData struct {
	Name         string
	Description  string
	Category     string
	Cuisine      string
	TimeRequired string
	Servings     uint
	Ingredients  []string
	Steps        []string
	Nutrition    types.NutritionFields
}

var categories = []types.CategoryWrite{
	{Name: "Breakfast", Description: "Morning dishes"},
	{Name: "Soup", Description: "Hot and cold soups"},
	{Name: "Dessert", Description: "Cakes, pies and sweets"},
	{Name: "Main", Description: "Main courses"},
}

var recipes = []RecipeData{
	{
		Name:         "Buuz",
		Description:  "Steamed dumplings filled with minced mutton",
		Category:     "Main",
		Cuisine:      "Mongolian",
		TimeRequired: "1h 30min",
		Servings:     4,
		Ingredients:  []string{"Mutton", "Onion", "Flour", "Salt"},
		Steps: []string{
			"Knead a stiff dough from flour, water and salt",
			"Mix the minced mutton with chopped onion",
			"Shape the dumplings and steam for 20 minutes",
		},
		Nutrition: types.NutritionFields{Calories: "420 kcal", Protein: "24 g", Fat: "21 g", Carbs: "33 g"},
	},
	{
		Name:         "Tomato soup",
		Description:  "Smooth soup of roasted tomatoes",
		Category:     "Soup",
		Cuisine:      "Italian",
		TimeRequired: "40 min",
		Servings:     4,
		Ingredients:  []string{"Tomato", "Onion", "Garlic", "Salt"},
		Steps: []string{
			"Roast the tomatoes with onion and garlic",
			"Blend with hot stock and season",
		},
	},
	{
		Name:         "Pancakes",
		Description:  "Fluffy breakfast pancakes",
		Category:     "Breakfast",
		Cuisine:      "American",
		TimeRequired: "25 min",
		Servings:     2,
		Ingredients:  []string{"Flour", "Egg", "Milk", "Sugar"},
		Steps: []string{
			"Whisk the batter",
			"Fry on a hot buttered pan until golden",
		},
	},
	{
		Name:         "Apple pie",
		Description:  "Classic pie with cinnamon apples",
		Category:     "Dessert",
		Cuisine:      "American",
		TimeRequired: "1h 15min",
		Servings:     8,
		Ingredients:  []string{"Apple", "Flour", "Sugar", "Butter"},
		Steps: []string{
			"Make the shortcrust and chill it",
			"Fill with sliced apples, sugar and cinnamon",
			"Bake for 45 minutes",
		},
	},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	db, err := database.New(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		logrus.WithError(err).Fatal("Failed to run migrations")
	}

	repos := repository.New(db)
	ctx := context.Background()

	chef, err := ensureChef(ctx, repos)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to prepare seed user")
	}
	caller := chef

	catalog := service.NewCatalogService(repos, nil)
	categoryIDs, err := ensureCategories(ctx, catalog, caller)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to seed categories")
	}
	ingredientIDs, err := ensureIngredients(ctx, catalog, caller)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to seed ingredients")
	}

	recipeService := service.NewRecipeService(repos, nil)
	existing, err := recipeService.List(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to list recipes")
	}
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.Recipe.Name] = true
	}

	created := 0
	for _, data := range recipes {
		if seen[data.Name] {
			fmt.Printf("Recipe already exists: %s\n", data.Name)
			continue
		}
		w := toWrite(data, categoryIDs, ingredientIDs)
		if _, err := recipeService.Create(ctx, caller, w, nil); err != nil {
			logrus.WithError(err).WithField("recipe", data.Name).Fatal("Failed to create recipe")
		}
		created++
		fmt.Printf("Created recipe: %s\n", data.Name)
	}

	fmt.Printf("Seeded %d recipes.\n", created)
}

// ensureChef returns the seed author, registering it on first run.
func ensureChef(ctx context.Context, repos *repository.Repositories) (*service.Caller, error) {
	user, err := repos.Users.GetByEmail(ctx, chefEmail)
	if err == nil {
		return &service.Caller{UserID: user.ID, IsStaff: user.IsStaff}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	users := service.NewUserService(repos.Users, nil)
	user, err = users.Register(ctx, &types.RegisterRequest{
		Email:    chefEmail,
		Username: chefUsername,
		Password: chefPassword,
	}, nil)
	if err != nil {
		return nil, err
	}
	return &service.Caller{UserID: user.ID, IsStaff: user.IsStaff}, nil
}

func ensureCategories(ctx context.Context, catalog *service.CatalogService, caller *service.Caller) (map[string]uint, error) {
	existing, err := catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(categories))
	for _, c := range existing {
		ids[c.Name] = c.ID
	}
	for i := range categories {
		if _, ok := ids[categories[i].Name]; ok {
			continue
		}
		category, err := catalog.CreateCategory(ctx, caller, &categories[i], nil)
		if err != nil {
			return nil, err
		}
		ids[category.Name] = category.ID
	}
	return ids, nil
}

func ensureIngredients(ctx context.Context, catalog *service.CatalogService, caller *service.Caller) (map[string]uint, error) {
	existing, err := catalog.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint)
	for _, i := range existing {
		ids[i.Name] = i.ID
	}
	for _, r := range recipes {
		for _, name := range r.Ingredients {
			if _, ok := ids[name]; ok {
				continue
			}
			ingredient, err := catalog.CreateIngredient(ctx, caller, &types.IngredientWrite{Name: name})
			if err != nil {
				return nil, err
			}
			ids[name] = ingredient.ID
		}
	}
	return ids, nil
}

func toWrite(data RecipeData, categoryIDs, ingredientIDs map[string]uint) *types.RecipeWrite {
	w := &types.RecipeWrite{
		Name:         data.Name,
		Description:  data.Description,
		Image:        "seed/" + strings.ReplaceAll(strings.ToLower(data.Name), " ", "-") + ".jpg",
		TimeRequired: data.TimeRequired,
		Servings:     data.Servings,
		Cuisine:      data.Cuisine,
	}
	if id, ok := categoryIDs[data.Category]; ok {
		w.Category = &id
	}
	for _, name := range data.Ingredients {
		w.Ingredients = append(w.Ingredients, ingredientIDs[name])
	}
	for i, step := range data.Steps {
		w.Steps = append(w.Steps, types.CookingStepWrite{StepNumber: uint(i + 1), Description: step})
	}
	if data.Nutrition != (types.NutritionFields{}) {
		nutrition := data.Nutrition
		w.Nutrition = &nutrition
	}
	return w
}
