package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Amaytushin/Ratatouille-tusul/internal/repository"
)

// RequireActiveUser rejects tokens of deleted or deactivated accounts and
// refreshes the staff flag from the stored account. Must run after
// AuthMiddleware.
func RequireActiveUser(users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			abortUnauthorized(c, "unauthorized")
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				abortUnauthorized(c, "account no longer exists")
				return
			}
			logrus.WithError(err).WithField("user_id", userID).Error("failed to verify user status")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "failed to verify user status",
				"code":  "internal",
			})
			return
		}

		if !user.IsActive {
			abortUnauthorized(c, "account is disabled")
			return
		}

		c.Set(ContextIsStaff, user.IsStaff)
		c.Next()
	}
}
