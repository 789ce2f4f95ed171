package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func recipeNames(recipes []models.Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}

func countRows(t *testing.T, db *gorm.DB, table, where string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where(where, args...).Count(&n).Error)
	return n
}

func TestRatingUpsertOverwrites(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "rater")
	recipe := testhelpers.CreateTestRecipe(t, db, "Cake")

	first, err := repos.Ratings.Upsert(ctx, user.ID, recipe.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, first.Rating)

	second, err := repos.Ratings.Upsert(ctx, user.ID, recipe.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Rating)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.User)
	assert.Equal(t, "rater", second.User.Username)

	assert.Equal(t, int64(1), countRows(t, db, "recipe_ratings", "recipe_id = ?", recipe.ID))

	stats, err := repos.Ratings.Stats(ctx, []uint{recipe.ID})
	require.NoError(t, err)
	assert.Equal(t, 2.0, stats[recipe.ID].Average())
}

func TestRatingStats(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	u1 := testhelpers.CreateTestUser(t, db, "u1")
	u2 := testhelpers.CreateTestUser(t, db, "u2")
	u3 := testhelpers.CreateTestUser(t, db, "u3")
	rated := testhelpers.CreateTestRecipe(t, db, "Rated")
	unrated := testhelpers.CreateTestRecipe(t, db, "Unrated")

	testhelpers.RateTestRecipe(t, db, u1, rated, 5)
	testhelpers.RateTestRecipe(t, db, u2, rated, 3)
	testhelpers.RateTestRecipe(t, db, u3, rated, 3)

	stats, err := repos.Ratings.Stats(ctx, []uint{rated.ID, unrated.ID})
	require.NoError(t, err)

	assert.Equal(t, int64(11), stats[rated.ID].Total)
	assert.Equal(t, int64(3), stats[rated.ID].Count)
	assert.Equal(t, 3.7, stats[rated.ID].Average())

	_, ok := stats[unrated.ID]
	assert.False(t, ok)
	assert.Equal(t, 0.0, stats[unrated.ID].Average())

	empty, err := repos.Ratings.Stats(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRatingListByRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	u1 := testhelpers.CreateTestUser(t, db, "u1")
	u2 := testhelpers.CreateTestUser(t, db, "u2")
	recipe := testhelpers.CreateTestRecipe(t, db, "Soup")
	other := testhelpers.CreateTestRecipe(t, db, "Salad")
	testhelpers.RateTestRecipe(t, db, u1, recipe, 5)
	testhelpers.RateTestRecipe(t, db, u2, recipe, 1)
	testhelpers.RateTestRecipe(t, db, u1, other, 3)

	ratings, err := repos.Ratings.ListByRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	for _, r := range ratings {
		assert.Equal(t, recipe.ID, r.RecipeID)
		assert.NotNil(t, r.User)
	}
}

func TestRatingRejectsOutOfRange(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	user := testhelpers.CreateTestUser(t, db, "rater")
	recipe := testhelpers.CreateTestRecipe(t, db, "Cake")

	_, err := repos.Ratings.Upsert(context.Background(), user.ID, recipe.ID, 6)
	assert.Error(t, err)
}

func TestWishlistAddIfAbsentIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "saver")
	recipe := testhelpers.CreateTestRecipe(t, db, "Pie", testhelpers.WithDetails())

	first, created, err := repos.Wishlists.AddIfAbsent(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.Recipe)
	assert.Equal(t, "Pie", first.Recipe.Name)
	assert.Len(t, first.Recipe.Steps, 2)

	second, created, err := repos.Wishlists.AddIfAbsent(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, int64(1), countRows(t, db, "wishlists", "user_id = ? AND recipe_id = ?", user.ID, recipe.ID))
}

func TestWishlistAddUnknownRecipe(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	user := testhelpers.CreateTestUser(t, db, "saver")

	_, _, err := repos.Wishlists.AddIfAbsent(context.Background(), user.ID, 999)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestWishlistListAndDelete(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	owner := testhelpers.CreateTestUser(t, db, "owner")
	other := testhelpers.CreateTestUser(t, db, "other")
	r1 := testhelpers.CreateTestRecipe(t, db, "One")
	r2 := testhelpers.CreateTestRecipe(t, db, "Two")

	e1, _, err := repos.Wishlists.AddIfAbsent(ctx, owner.ID, r1.ID)
	require.NoError(t, err)
	_, _, err = repos.Wishlists.AddIfAbsent(ctx, owner.ID, r2.ID)
	require.NoError(t, err)
	_, _, err = repos.Wishlists.AddIfAbsent(ctx, other.ID, r1.ID)
	require.NoError(t, err)

	entries, err := repos.Wishlists.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, owner.ID, e.UserID)
	}

	got, err := repos.Wishlists.GetByID(ctx, e1.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.UserID)

	require.NoError(t, repos.Wishlists.Delete(ctx, e1.ID))
	assert.ErrorIs(t, repos.Wishlists.Delete(ctx, e1.ID), ErrNotFound)
	_, err = repos.Wishlists.GetByID(ctx, e1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeListByIngredientsUsesOr(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	egg := testhelpers.CreateTestIngredient(t, db, "egg")
	milk := testhelpers.CreateTestIngredient(t, db, "milk")
	flour := testhelpers.CreateTestIngredient(t, db, "flour")

	testhelpers.CreateTestRecipe(t, db, "Omelette", testhelpers.WithIngredients(egg))
	testhelpers.CreateTestRecipe(t, db, "Latte", testhelpers.WithIngredients(milk))
	testhelpers.CreateTestRecipe(t, db, "Pancakes", testhelpers.WithIngredients(egg, milk, flour))
	testhelpers.CreateTestRecipe(t, db, "Bread", testhelpers.WithIngredients(flour))

	recipes, err := repos.Recipes.List(context.Background(), RecipeFilter{IngredientNames: []string{"egg", "milk"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Omelette", "Latte", "Pancakes"}, recipeNames(recipes))

	recipes, err = repos.Recipes.List(context.Background(), RecipeFilter{IngredientNames: []string{"saffron"}})
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestRecipeListByCategory(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	dessert := testhelpers.CreateTestCategory(t, db, "Dessert")
	main := testhelpers.CreateTestCategory(t, db, "Main")
	testhelpers.CreateTestRecipe(t, db, "Cake", testhelpers.WithCategory(dessert))
	testhelpers.CreateTestRecipe(t, db, "Tart", testhelpers.WithCategory(dessert))
	testhelpers.CreateTestRecipe(t, db, "Steak", testhelpers.WithCategory(main))
	testhelpers.CreateTestRecipe(t, db, "Loose")

	recipes, err := repos.Recipes.List(ctx, RecipeFilter{CategoryName: "Dessert"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Cake", "Tart"}, recipeNames(recipes))
	for _, r := range recipes {
		require.NotNil(t, r.Category)
		assert.Equal(t, "Dessert", r.Category.Name)
	}

	recipes, err = repos.Recipes.List(ctx, RecipeFilter{CategoryName: "dessert"})
	require.NoError(t, err)
	assert.Empty(t, recipes)

	recipes, err = repos.Recipes.List(ctx, RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, recipes, 4)
}

func TestRecipeListByCreator(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")
	testhelpers.CreateTestRecipe(t, db, "Alice's", testhelpers.WithCreator(alice))
	testhelpers.CreateTestRecipe(t, db, "Bob's", testhelpers.WithCreator(bob))

	recipes, err := repos.Recipes.List(context.Background(), RecipeFilter{CreatedByID: &alice.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice's"}, recipeNames(recipes))
	require.NotNil(t, recipes[0].CreatedBy)
	assert.Equal(t, "alice", recipes[0].CreatedBy.Username)
}

func TestRecipeListOrdersByRatingThenRecency(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	u1 := testhelpers.CreateTestUser(t, db, "u1")
	u2 := testhelpers.CreateTestUser(t, db, "u2")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	oldUnrated := testhelpers.CreateTestRecipe(t, db, "old-unrated", testhelpers.WithCreatedAt(base))
	olderTop := testhelpers.CreateTestRecipe(t, db, "older-top", testhelpers.WithCreatedAt(base.Add(time.Hour)))
	newerTop := testhelpers.CreateTestRecipe(t, db, "newer-top", testhelpers.WithCreatedAt(base.Add(2*time.Hour)))
	low := testhelpers.CreateTestRecipe(t, db, "low", testhelpers.WithCreatedAt(base.Add(3*time.Hour)))
	newUnrated := testhelpers.CreateTestRecipe(t, db, "new-unrated", testhelpers.WithCreatedAt(base.Add(4*time.Hour)))
	_ = oldUnrated
	_ = newUnrated

	// 4.5 each, so recency decides between them.
	testhelpers.RateTestRecipe(t, db, u1, olderTop, 5)
	testhelpers.RateTestRecipe(t, db, u2, olderTop, 4)
	testhelpers.RateTestRecipe(t, db, u1, newerTop, 4)
	testhelpers.RateTestRecipe(t, db, u2, newerTop, 5)
	testhelpers.RateTestRecipe(t, db, u1, low, 1)

	recipes, err := repos.Recipes.List(context.Background(), RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"newer-top", "older-top", "low", "new-unrated", "old-unrated"}, recipeNames(recipes))
}

func TestRecipeGetByIDLoadsDetails(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "chef")
	category := testhelpers.CreateTestCategory(t, db, "Dessert")
	sugar := testhelpers.CreateTestIngredient(t, db, "sugar")
	recipe := testhelpers.CreateTestRecipe(t, db, "Cake",
		testhelpers.WithCreator(user),
		testhelpers.WithCategory(category),
		testhelpers.WithIngredients(sugar),
		testhelpers.WithDetails(),
	)

	got, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	require.NotNil(t, got.CreatedBy)
	require.NotNil(t, got.Nutrition)
	assert.Equal(t, "350 kcal", got.Nutrition.Calories)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "sugar", got.Ingredients[0].Name)
	require.Len(t, got.Steps, 2)
	assert.Equal(t, uint(1), got.Steps[0].StepNumber)
	assert.Equal(t, "Mix", got.Steps[0].Description)
	assert.Equal(t, uint(2), got.Steps[1].StepNumber)

	exists, err := repos.Recipes.Exists(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repos.Recipes.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
	exists, err = repos.Recipes.Exists(ctx, 999)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRecipeCreateWithUnknownCategory(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)

	missing := uint(42)
	recipe := &models.Recipe{
		Name:         "Ghost",
		Image:        "recipes/ghost.jpg",
		TimeRequired: "1h",
		Servings:     1,
		CategoryID:   &missing,
	}
	err := repos.Recipes.Create(context.Background(), recipe)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestRecipeUpdateReplacesCollections(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	egg := testhelpers.CreateTestIngredient(t, db, "egg")
	milk := testhelpers.CreateTestIngredient(t, db, "milk")
	recipe := testhelpers.CreateTestRecipe(t, db, "Crepes",
		testhelpers.WithIngredients(egg),
		testhelpers.WithDetails(),
	)

	loaded, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)

	loaded.Name = "Better crepes"
	loaded.Servings = 2
	loaded.Ingredients = []models.Ingredient{*milk}
	loaded.Nutrition = &models.Nutrition{Calories: "200 kcal"}
	loaded.Steps = []models.CookingStep{{StepNumber: 1, Description: "Whisk"}}
	require.NoError(t, repos.Recipes.Update(ctx, loaded, true))

	got, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Better crepes", got.Name)
	assert.Equal(t, uint(2), got.Servings)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "milk", got.Ingredients[0].Name)
	require.NotNil(t, got.Nutrition)
	assert.Equal(t, "200 kcal", got.Nutrition.Calories)
	require.Len(t, got.Steps, 1)
	assert.Equal(t, "Whisk", got.Steps[0].Description)

	assert.Equal(t, int64(1), countRows(t, db, "nutritions", "recipe_id = ?", recipe.ID))

	// Steps survive when not replaced.
	got.Name = "Crepes again"
	got.Nutrition = nil
	require.NoError(t, repos.Recipes.Update(ctx, got, false))
	again, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Len(t, again.Steps, 1)
	assert.NotNil(t, again.Nutrition)

	missing := &models.Recipe{ID: 999, Name: "x", Image: "x", TimeRequired: "x"}
	assert.ErrorIs(t, repos.Recipes.Update(ctx, missing, false), ErrNotFound)
}

func TestRecipeDeleteCascadesToDependents(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "chef")
	category := testhelpers.CreateTestCategory(t, db, "Dessert")
	sugar := testhelpers.CreateTestIngredient(t, db, "sugar")
	recipe := testhelpers.CreateTestRecipe(t, db, "Cake",
		testhelpers.WithCreator(user),
		testhelpers.WithCategory(category),
		testhelpers.WithIngredients(sugar),
		testhelpers.WithDetails(),
	)
	testhelpers.RateTestRecipe(t, db, user, recipe, 5)
	_, _, err := repos.Wishlists.AddIfAbsent(ctx, user.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, repos.Recipes.Delete(ctx, recipe.ID))

	for _, table := range []string{"cooking_steps", "nutritions", "recipe_ratings", "wishlists", "recipe_ingredients"} {
		assert.Zero(t, countRows(t, db, table, "recipe_id = ?", recipe.ID), table)
	}
	assert.Zero(t, countRows(t, db, "recipes", "id = ?", recipe.ID))

	_, err = repos.Ingredients.GetByID(ctx, sugar.ID)
	assert.NoError(t, err)
	_, err = repos.Categories.GetByID(ctx, category.ID)
	assert.NoError(t, err)
	_, err = repos.Users.GetByID(ctx, user.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, repos.Recipes.Delete(ctx, recipe.ID), ErrNotFound)
}

func TestCategoryDeleteClearsReferences(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	category := testhelpers.CreateTestCategory(t, db, "Dessert")
	ingredient := &models.Ingredient{Name: "cocoa", CategoryID: &category.ID}
	require.NoError(t, repos.Ingredients.Create(ctx, ingredient))
	recipe := testhelpers.CreateTestRecipe(t, db, "Brownies", testhelpers.WithCategory(category))

	require.NoError(t, repos.Categories.Delete(ctx, category.ID))

	got, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)

	gotIngredient, err := repos.Ingredients.GetByID(ctx, ingredient.ID)
	require.NoError(t, err)
	assert.Nil(t, gotIngredient.CategoryID)

	assert.ErrorIs(t, repos.Categories.Delete(ctx, category.ID), ErrNotFound)
}

func TestIngredientDeleteKeepsRecipes(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	egg := testhelpers.CreateTestIngredient(t, db, "egg")
	milk := testhelpers.CreateTestIngredient(t, db, "milk")
	recipe := testhelpers.CreateTestRecipe(t, db, "Custard", testhelpers.WithIngredients(egg, milk))

	require.NoError(t, repos.Ingredients.Delete(ctx, egg.ID))

	got, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, "milk", got.Ingredients[0].Name)
}

func TestUserDeleteClearsAuthorship(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	chef := testhelpers.CreateTestUser(t, db, "chef")
	fan := testhelpers.CreateTestUser(t, db, "fan")
	recipe := testhelpers.CreateTestRecipe(t, db, "Cake", testhelpers.WithCreator(chef))
	testhelpers.RateTestRecipe(t, db, chef, recipe, 5)
	testhelpers.RateTestRecipe(t, db, fan, recipe, 3)
	_, _, err := repos.Wishlists.AddIfAbsent(ctx, chef.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, repos.Users.Delete(ctx, chef.ID))

	got, err := repos.Recipes.GetByID(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CreatedByID)
	assert.Zero(t, countRows(t, db, "recipe_ratings", "user_id = ?", chef.ID))
	assert.Zero(t, countRows(t, db, "wishlists", "user_id = ?", chef.ID))
	assert.Equal(t, int64(1), countRows(t, db, "recipe_ratings", "user_id = ?", fan.ID))

	_, err = repos.Users.GetByID(ctx, chef.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repos.Users.Delete(ctx, chef.ID), ErrNotFound)
}

func TestUniqueConstraints(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	require.NoError(t, repos.Categories.Create(ctx, &models.Category{Name: "Soup"}))
	err := repos.Categories.Create(ctx, &models.Category{Name: "Soup"})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	require.NoError(t, repos.Ingredients.Create(ctx, &models.Ingredient{Name: "salt"}))
	err = repos.Ingredients.Create(ctx, &models.Ingredient{Name: "salt"})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	testhelpers.CreateTestUser(t, db, "taken")
	err = repos.Users.Create(ctx, &models.User{Email: "taken@example.com", Username: "other", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicateEntry)

	recipe := testhelpers.CreateTestRecipe(t, db, "Broth")
	require.NoError(t, repos.Nutritions.Create(ctx, &models.Nutrition{RecipeID: recipe.ID}))
	err = repos.Nutritions.Create(ctx, &models.Nutrition{RecipeID: recipe.ID})
	assert.ErrorIs(t, err, ErrDuplicateEntry)
}

func TestCatalogCRUD(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	ctx := context.Background()

	category := &models.Category{Name: "Breakfast", Description: "Morning"}
	require.NoError(t, repos.Categories.Create(ctx, category))
	category.Description = "Early"
	require.NoError(t, repos.Categories.Update(ctx, category))
	got, err := repos.Categories.GetByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, "Early", got.Description)

	require.NoError(t, repos.Categories.Create(ctx, &models.Category{Name: "Appetizer"}))
	categories, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Appetizer", categories[0].Name)

	ingredients, err := repos.Ingredients.GetByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ingredients)

	oats := testhelpers.CreateTestIngredient(t, db, "oats")
	ingredients, err = repos.Ingredients.GetByIDs(ctx, []uint{oats.ID, 999})
	require.NoError(t, err)
	assert.Len(t, ingredients, 1)

	recipe := testhelpers.CreateTestRecipe(t, db, "Porridge")
	nutrition := &models.Nutrition{RecipeID: recipe.ID, Calories: "150"}
	require.NoError(t, repos.Nutritions.Create(ctx, nutrition))
	nutrition.Calories = "180"
	require.NoError(t, repos.Nutritions.Update(ctx, nutrition))
	gotNutrition, err := repos.Nutritions.GetByID(ctx, nutrition.ID)
	require.NoError(t, err)
	assert.Equal(t, "180", gotNutrition.Calories)
	require.NoError(t, repos.Nutritions.Delete(ctx, nutrition.ID))
	assert.ErrorIs(t, repos.Nutritions.Delete(ctx, nutrition.ID), ErrNotFound)

	assert.ErrorIs(t, repos.Categories.Update(ctx, &models.Category{ID: 999, Name: "x"}), ErrNotFound)
	assert.ErrorIs(t, repos.Ingredients.Update(ctx, &models.Ingredient{ID: 999, Name: "x"}), ErrNotFound)
}

func TestNewPanicsWithoutDB(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestRecipeListOrdersByDisplayedAverage(t *testing.T) {
	db := testhelpers.SetupTestDatabase(t)
	repos := New(db)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	users := make([]*models.User, 5)
	for i := range users {
		users[i] = testhelpers.CreateTestUser(t, db, fmt.Sprintf("rater%d", i))
	}
	// 9/4 is an exact tie that shows as 2.2, the same as 11/5.
	older := testhelpers.CreateTestRecipe(t, db, "older", testhelpers.WithCreatedAt(base))
	newer := testhelpers.CreateTestRecipe(t, db, "newer", testhelpers.WithCreatedAt(base.Add(time.Hour)))
	for i, rating := range []int{3, 2, 2, 2} {
		testhelpers.RateTestRecipe(t, db, users[i], older, rating)
	}
	for i, rating := range []int{3, 2, 2, 2, 2} {
		testhelpers.RateTestRecipe(t, db, users[i], newer, rating)
	}

	recipes, err := repos.Recipes.List(context.Background(), RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"newer", "older"}, recipeNames(recipes))
}
