package service

import (
	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
)

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID  uint
	IsStaff bool
}

// Operation names a mutating action checked by Authorize.
type Operation string

const (
	OpUserRead       Operation = "user.read"
	OpUserUpdate     Operation = "user.update"
	OpUserDelete     Operation = "user.delete"
	OpRecipeCreate   Operation = "recipe.create"
	OpRecipeUpdate   Operation = "recipe.update"
	OpRecipeDelete   Operation = "recipe.delete"
	OpRecipeRate     Operation = "recipe.rate"
	OpCatalogWrite   Operation = "catalog.write"
	OpWishlistRead   Operation = "wishlist.read"
	OpWishlistAdd    Operation = "wishlist.add"
	OpWishlistRemove Operation = "wishlist.remove"
)

// Authorize decides whether caller may perform op on target. A nil caller is
// never allowed. Recipes may be changed by their creator or by staff;
// wishlist entries only by their owner.
func Authorize(caller *Caller, op Operation, target interface{}) error {
	if caller == nil || caller.UserID == 0 {
		return newError(ErrUnauthorized, "authentication required")
	}

	switch op {
	case OpRecipeUpdate, OpRecipeDelete:
		recipe, ok := target.(*models.Recipe)
		if !ok || recipe == nil {
			return newError(ErrForbidden, "recipe not accessible")
		}
		if caller.IsStaff || recipe.IsCreatedBy(caller.UserID) {
			return nil
		}
		return newError(ErrForbidden, "only the author can change this recipe")
	case OpWishlistRemove:
		entry, ok := target.(*models.Wishlist)
		if !ok || entry == nil || entry.UserID != caller.UserID {
			return newError(ErrForbidden, "wishlist entry belongs to another user")
		}
		return nil
	default:
		return nil
	}
}
