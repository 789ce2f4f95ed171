package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Amaytushin/Ratatouille-tusul/internal/api"
	"github.com/Amaytushin/Ratatouille-tusul/internal/middleware"
	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
	"github.com/Amaytushin/Ratatouille-tusul/internal/service"
	"github.com/Amaytushin/Ratatouille-tusul/internal/storage"
	"github.com/Amaytushin/Ratatouille-tusul/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	media  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.SetupTestDatabase(t)
	repos := repository.New(db)

	media := t.TempDir()
	images, err := storage.NewLocalStore(media, "/media/")
	require.NoError(t, err)

	auth := service.NewAuthService(repos.Users, "test-secret", time.Hour)
	guards := []gin.HandlerFunc{
		middleware.AuthMiddleware(auth),
		middleware.RequireActiveUser(repos.Users),
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	api.NewAuthHandler(auth, images).RegisterRoutes(v1)
	api.NewUserHandler(service.NewUserService(repos.Users, images), images).RegisterRoutes(v1, guards)
	api.NewRecipeHandler(service.NewRecipeService(repos, images), service.NewRatingService(repos), images).RegisterRoutes(v1, guards)
	api.NewCatalogHandler(service.NewCatalogService(repos, images), images).RegisterRoutes(v1, guards)
	api.NewWishlistHandler(service.NewWishlistService(repos), images).RegisterRoutes(v1, guards)

	return &testAPI{t: t, db: db, router: router, media: media}
}

func (a *testAPI) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.serve(req, token)
}

// signUp registers a user through the API and returns a bearer token.
func (a *testAPI) signUp(username string) string {
	a.t.Helper()
	email := username + "@example.com"
	w := a.do(http.MethodPost, "/users", "", map[string]interface{}{
		"email": email, "username": username, "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/auth/login", "", map[string]interface{}{
		"email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decodeObject(a.t, w)["token"].(string)
}

func (a *testAPI) createRecipe(token, name string, extra map[string]interface{}) uint {
	a.t.Helper()
	body := map[string]interface{}{
		"name":          name,
		"time_required": "45 min",
		"servings":      4,
		"image":         "seed/" + name + ".jpg",
	}
	for k, v := range extra {
		body[k] = v
	}
	w := a.do(http.MethodPost, "/recipes", token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return uint(decodeObject(a.t, w)["id"].(float64))
}

func decodeObject(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRecipeRatingScenario(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("u1")

	w := a.do(http.MethodPost, "/categories", token, map[string]interface{}{"name": "Dessert"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	categoryID := decodeObject(t, w)["id"].(float64)

	recipeID := a.createRecipe(token, "Cake", map[string]interface{}{
		"category": categoryID,
		"steps": []map[string]interface{}{
			{"step_number": 2, "description": "Bake"},
			{"step_number": 1, "description": "Mix"},
		},
	})

	for _, rating := range []int{4, 2} {
		w = a.do(http.MethodPost, "/recipes/rate", token, map[string]interface{}{
			"recipe_id": recipeID, "rating": rating,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, float64(rating), decodeObject(t, w)["rating"])
	}

	w = a.do(http.MethodGet, fmt.Sprintf("/recipes/%d", recipeID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipe := decodeObject(t, w)
	assert.Equal(t, "Cake", recipe["name"])
	assert.Equal(t, 2.0, recipe["average_rating"])
	assert.Equal(t, "http://example.com/media/seed/Cake.jpg", recipe["image"])
	assert.Equal(t, "Dessert", recipe["category"].(map[string]interface{})["name"])
	assert.Equal(t, "u1", recipe["created_by"].(map[string]interface{})["username"])
	steps := recipe["steps"].([]interface{})
	require.Len(t, steps, 2)
	assert.Equal(t, "Mix", steps[0].(map[string]interface{})["description"])

	w = a.do(http.MethodGet, fmt.Sprintf("/recipes/%d/ratings", recipeID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ratings := decodeList(t, w)
	require.Len(t, ratings, 1)
	assert.Equal(t, 2.0, ratings[0]["rating"])

	var count int64
	require.NoError(t, a.db.Model(&models.RecipeRating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMutationsRequireAuthentication(t *testing.T) {
	a := newTestAPI(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/recipes"},
		{http.MethodPut, "/recipes/1"},
		{http.MethodPatch, "/recipes/1"},
		{http.MethodDelete, "/recipes/1"},
		{http.MethodPost, "/recipes/rate"},
		{http.MethodPost, "/categories"},
		{http.MethodPost, "/ingredients"},
		{http.MethodPost, "/nutritions"},
		{http.MethodGet, "/wishlist/my"},
		{http.MethodPost, "/wishlist/add"},
		{http.MethodDelete, "/wishlist/remove/1"},
		{http.MethodGet, "/users/me"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := a.do(tt.method, tt.path, "", map[string]interface{}{})
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "unauthorized", decodeObject(t, w)["code"])
		})
	}

	w := a.do(http.MethodGet, "/recipes", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestRecipeOwnership(t *testing.T) {
	a := newTestAPI(t)
	owner := a.signUp("owner")
	other := a.signUp("other")
	recipeID := a.createRecipe(owner, "Soup", nil)
	path := fmt.Sprintf("/recipes/%d", recipeID)

	w := a.do(http.MethodPatch, path, other, map[string]interface{}{"name": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPatch, path, owner, map[string]interface{}{"description": "Hot"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decodeObject(t, w)
	assert.Equal(t, "Soup", patched["name"])
	assert.Equal(t, "Hot", patched["description"])

	w = a.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeObject(t, w)["code"])
}

func TestWishlistFlow(t *testing.T) {
	a := newTestAPI(t)
	alice := a.signUp("alice")
	bob := a.signUp("bob")
	recipeID := a.createRecipe(alice, "Pie", nil)

	w := a.do(http.MethodPost, "/wishlist/add", alice, map[string]interface{}{"recipe_id": recipeID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	entryID := decodeObject(t, w)["id"].(float64)

	w = a.do(http.MethodPost, "/wishlist/add", alice, map[string]interface{}{"recipe_id": recipeID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entryID, decodeObject(t, w)["id"])

	w = a.do(http.MethodPost, "/wishlist/add", alice, map[string]interface{}{"recipe_id": 9999})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, "/wishlist/my", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decodeList(t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, "Pie", entries[0]["recipe"].(map[string]interface{})["name"])

	w = a.do(http.MethodGet, "/wishlist/my", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	removePath := fmt.Sprintf("/wishlist/remove/%d", int(entryID))
	w = a.do(http.MethodDelete, removePath, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodDelete, removePath, alice, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodDelete, removePath, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchRecipes(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("cook")

	var ids []float64
	for _, name := range []string{"Egg", "Flour", "Rice"} {
		w := a.do(http.MethodPost, "/ingredients", token, map[string]interface{}{"name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		ids = append(ids, decodeObject(t, w)["id"].(float64))
	}
	a.createRecipe(token, "Omelette", map[string]interface{}{"ingredients": []float64{ids[0]}})
	a.createRecipe(token, "Bread", map[string]interface{}{"ingredients": []float64{ids[1]}})
	a.createRecipe(token, "Risotto", map[string]interface{}{"ingredients": []float64{ids[2]}})

	w := a.do(http.MethodPost, "/search_recipes", "", map[string]interface{}{"ingredients": []string{"Egg", "Flour"}})
	require.Equal(t, http.StatusOK, w.Code)
	found := decodeList(t, w)
	names := make([]string, 0, len(found))
	for _, r := range found {
		names = append(names, r["name"].(string))
	}
	assert.ElementsMatch(t, []string{"Omelette", "Bread"}, names)

	w = a.do(http.MethodPost, "/search_recipes", "", map[string]interface{}{"ingredients": []string{}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = a.do(http.MethodPost, "/search_recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestValidationErrors(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("strict")

	w := a.do(http.MethodPost, "/recipes", token, map[string]interface{}{
		"name":  "No time",
		"steps": []map[string]interface{}{{"step_number": 1}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeObject(t, w)
	assert.Equal(t, "validation", body["code"])
	fields := body["fields"].(map[string]interface{})
	assert.Equal(t, "is required", fields["time_required"])
	assert.Equal(t, "is required", fields["servings"])
	assert.Contains(t, fields, "steps[0].description")

	recipeID := a.createRecipe(token, "Tart", nil)
	w = a.do(http.MethodPost, "/recipes/rate", token, map[string]interface{}{"recipe_id": recipeID, "rating": 6})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be at most 5", decodeObject(t, w)["fields"].(map[string]interface{})["rating"])

	w = a.do(http.MethodGet, "/recipes/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodPost, "/users", "", map[string]interface{}{
		"email": "strict@example.com", "username": "dup", "password": "x",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// sendRecipeForm sends fields plus a PNG file named filename as multipart.
func (a *testAPI) sendRecipeForm(method, path, token string, fields map[string]string, filename string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name="image"; filename=%q`, filename)}
	header["Content-Type"] = []string{"image/png"}
	part, err := mw.CreatePart(header)
	require.NoError(a.t, err)
	_, err = part.Write([]byte("\x89PNG fake"))
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(method, "/api/v1"+path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-Forwarded-Proto", "https")
	return a.serve(req, token)
}

func (a *testAPI) storedImage(recipeID uint) string {
	a.t.Helper()
	var stored models.Recipe
	require.NoError(a.t, a.db.First(&stored, recipeID).Error)
	return stored.Image
}

func (a *testAPI) mediaExists(objectPath string) bool {
	_, err := os.Stat(filepath.Join(a.media, filepath.FromSlash(objectPath)))
	return err == nil
}

func TestCreateRecipeWithUploadedImage(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("baker")

	w := a.sendRecipeForm(http.MethodPost, "/recipes", token, map[string]string{
		"name":          "Bun",
		"time_required": "2h",
		"servings":      "6",
		"steps":         `[{"step_number":1,"description":"Knead"}]`,
	}, "bun.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	recipe := decodeObject(t, w)
	image := recipe["image"].(string)
	assert.Regexp(t, `^https://example\.com/media/recipes/.+\.png$`, image)
	assert.Len(t, recipe["steps"].([]interface{}), 1)
	assert.True(t, a.mediaExists(a.storedImage(uint(recipe["id"].(float64)))))
}

func TestStoredImagesStayWithTheirRecipe(t *testing.T) {
	a := newTestAPI(t)
	bob := a.signUp("bob")
	mallory := a.signUp("mallory")
	form := map[string]string{"name": "Stew", "time_required": "1h", "servings": "2"}

	w := a.sendRecipeForm(http.MethodPost, "/recipes", bob, form, "stew.png")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobsID := uint(decodeObject(t, w)["id"].(float64))
	bobsImage := a.storedImage(bobsID)
	require.True(t, a.mediaExists(bobsImage))

	w = a.do(http.MethodPost, "/recipes", mallory, map[string]interface{}{
		"name": "Copy", "time_required": "1h", "servings": 2, "image": bobsImage,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	mallorysID := a.createRecipe(mallory, "Decoy", nil)
	path := fmt.Sprintf("/recipes/%d", mallorysID)
	w = a.do(http.MethodPatch, path, mallory, map[string]interface{}{"image": bobsImage})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	w = a.do(http.MethodPut, path, mallory, map[string]interface{}{
		"name": "Decoy", "time_required": "1h", "servings": 2, "image": bobsImage,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = a.sendRecipeForm(http.MethodPut, path, mallory, form, "new.png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEqual(t, bobsImage, a.storedImage(mallorysID))
	assert.True(t, a.mediaExists(bobsImage), "another user's upload must survive")

	// Replacing an upload removes the old file; deleting the recipe removes the new one.
	w = a.sendRecipeForm(http.MethodPut, fmt.Sprintf("/recipes/%d", bobsID), bob, form, "better.png")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	replaced := a.storedImage(bobsID)
	assert.False(t, a.mediaExists(bobsImage))
	assert.True(t, a.mediaExists(replaced))

	w = a.do(http.MethodDelete, fmt.Sprintf("/recipes/%d", bobsID), bob, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, a.mediaExists(replaced))
}

func TestUpdateMe(t *testing.T) {
	a := newTestAPI(t)
	token := a.signUp("carol")

	w := a.do(http.MethodGet, "/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decodeObject(t, w)
	assert.Equal(t, "carol", me["username"])
	assert.Nil(t, me["avatar"])
	assert.NotContains(t, me, "password")

	w = a.do(http.MethodPatch, "/users/me", token, map[string]interface{}{"username": "caroline"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "caroline", decodeObject(t, w)["username"])

	w = a.do(http.MethodDelete, "/users/me", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(http.MethodGet, "/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
