package service

import (
	"testing"

	"github.com/Amaytushin/Ratatouille-tusul/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	author := uint(1)
	recipe := &models.Recipe{ID: 10, CreatedByID: &author}
	orphan := &models.Recipe{ID: 11}
	entry := &models.Wishlist{ID: 5, UserID: 1, RecipeID: 10}

	tests := []struct {
		name    string
		caller  *Caller
		op      Operation
		target  interface{}
		wantErr error
	}{
		{"anonymous create", nil, OpRecipeCreate, nil, ErrUnauthorized},
		{"anonymous rate", nil, OpRecipeRate, nil, ErrUnauthorized},
		{"zero id", &Caller{}, OpWishlistAdd, nil, ErrUnauthorized},
		{"any user creates", &Caller{UserID: 2}, OpRecipeCreate, nil, nil},
		{"any user writes catalog", &Caller{UserID: 2}, OpCatalogWrite, nil, nil},
		{"author updates", &Caller{UserID: 1}, OpRecipeUpdate, recipe, nil},
		{"other user updates", &Caller{UserID: 2}, OpRecipeUpdate, recipe, ErrForbidden},
		{"other user deletes", &Caller{UserID: 2}, OpRecipeDelete, recipe, ErrForbidden},
		{"staff deletes", &Caller{UserID: 3, IsStaff: true}, OpRecipeDelete, recipe, nil},
		{"orphan by user", &Caller{UserID: 1}, OpRecipeUpdate, orphan, ErrForbidden},
		{"orphan by staff", &Caller{UserID: 3, IsStaff: true}, OpRecipeUpdate, orphan, nil},
		{"owner removes entry", &Caller{UserID: 1}, OpWishlistRemove, entry, nil},
		{"other removes entry", &Caller{UserID: 2}, OpWishlistRemove, entry, ErrForbidden},
		{"staff removes foreign entry", &Caller{UserID: 3, IsStaff: true}, OpWishlistRemove, entry, ErrForbidden},
		{"wrong target type", &Caller{UserID: 1}, OpRecipeUpdate, entry, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.caller, tt.op, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
