package types

import (
	"net/http"
	"strings"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
)

// ImageURLer resolves a stored object path to a URL.
type ImageURLer interface {
	URL(objectPath string) string
}

// RequestContext is what the presenter needs from the incoming request to
// build absolute URLs.
type RequestContext struct {
	Scheme string
	Host   string
}

// NewRequestContext reads scheme and host from r, honoring the proxy headers.
func NewRequestContext(r *http.Request) *RequestContext {
	if r == nil {
		return nil
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return &RequestContext{Scheme: scheme, Host: host}
}

// Presenter maps models to read views.
type Presenter struct {
	images  ImageURLer
	request *RequestContext
}

// NewPresenter builds a presenter. request may be nil, in which case image
// URLs stay as the store reports them and avatars are omitted.
func NewPresenter(images ImageURLer, request *RequestContext) *Presenter {
	return &Presenter{images: images, request: request}
}

func (p *Presenter) absolute(u string) string {
	if u == "" || p.request == nil || p.request.Host == "" {
		return u
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return p.request.Scheme + "://" + p.request.Host + u
}

func (p *Presenter) imageURL(objectPath string) string {
	if objectPath == "" {
		return ""
	}
	if p.images == nil {
		return p.absolute(objectPath)
	}
	return p.absolute(p.images.URL(objectPath))
}

func (p *Presenter) optionalImage(objectPath string) *string {
	if objectPath == "" {
		return nil
	}
	u := p.imageURL(objectPath)
	return &u
}

// User renders u. The avatar is an absolute URL when one is stored and the
// presenter has a request; otherwise it is null.
func (p *Presenter) User(u *models.User) *UserView {
	if u == nil {
		return nil
	}
	view := &UserView{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
	if u.HasAvatar() && p.request != nil {
		view.Avatar = p.optionalImage(u.Avatar)
	}
	return view
}

func (p *Presenter) Category(c *models.Category) *CategoryView {
	if c == nil {
		return nil
	}
	return &CategoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       p.optionalImage(c.Image),
	}
}

func (p *Presenter) Categories(categories []models.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, *p.Category(&categories[i]))
	}
	return views
}

func (p *Presenter) Ingredient(i *models.Ingredient) IngredientView {
	return IngredientView{
		ID:       i.ID,
		Name:     i.Name,
		Quantity: i.Quantity,
		Category: i.CategoryID,
	}
}

func (p *Presenter) Ingredients(ingredients []models.Ingredient) []IngredientView {
	views := make([]IngredientView, 0, len(ingredients))
	for i := range ingredients {
		views = append(views, p.Ingredient(&ingredients[i]))
	}
	return views
}

func (p *Presenter) Nutrition(n *models.Nutrition) *NutritionView {
	if n == nil {
		return nil
	}
	return &NutritionView{
		ID:       n.ID,
		Recipe:   n.RecipeID,
		Calories: n.Calories,
		Protein:  n.Protein,
		Fat:      n.Fat,
		Carbs:    n.Carbs,
	}
}

func (p *Presenter) Nutritions(nutritions []models.Nutrition) []NutritionView {
	views := make([]NutritionView, 0, len(nutritions))
	for i := range nutritions {
		views = append(views, *p.Nutrition(&nutritions[i]))
	}
	return views
}

// Recipe renders r with its computed average rating.
func (p *Presenter) Recipe(r *models.Recipe, averageRating float64) *RecipeView {
	if r == nil {
		return nil
	}
	steps := make([]CookingStepView, 0, len(r.Steps))
	for _, s := range r.Steps {
		steps = append(steps, CookingStepView{ID: s.ID, StepNumber: s.StepNumber, Description: s.Description})
	}
	return &RecipeView{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Image:         p.imageURL(r.Image),
		TimeRequired:  r.TimeRequired,
		Servings:      r.Servings,
		Cuisine:       r.Cuisine,
		Category:      p.Category(r.Category),
		Ingredients:   p.Ingredients(r.Ingredients),
		Nutrition:     p.Nutrition(r.Nutrition),
		Steps:         steps,
		CreatedBy:     p.User(r.CreatedBy),
		CreatedAt:     r.CreatedAt,
		AverageRating: averageRating,
	}
}

func (p *Presenter) Wishlist(w *models.Wishlist, averageRating float64) *WishlistView {
	return &WishlistView{
		ID:        w.ID,
		User:      w.UserID,
		Recipe:    p.Recipe(w.Recipe, averageRating),
		CreatedAt: w.CreatedAt,
	}
}

func (p *Presenter) Rating(r *models.RecipeRating) *RatingView {
	return &RatingView{
		ID:     r.ID,
		User:   p.User(r.User),
		Recipe: r.RecipeID,
		Rating: r.Rating,
	}
}

func (p *Presenter) Ratings(ratings []models.RecipeRating) []RatingView {
	views := make([]RatingView, 0, len(ratings))
	for i := range ratings {
		views = append(views, *p.Rating(&ratings[i]))
	}
	return views
}
