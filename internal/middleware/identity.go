package middleware

import (
	"contracts-service/internal/domain"
	"contracts-service/internal/errors"

	"github.com/gin-gonic/gin"
)

const userContextKey = "user_context"

// Identity resolves the identity asserted by the upstream gateway. The
// gateway authenticates the caller and forwards it via headers; requests
// arriving without them never reach the handlers.
type Identity struct{}

func (m *Identity) IdentityMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := ctx.GetHeader("X-User-Id")
		userEmail := ctx.GetHeader("X-User-Email")

		if userID == "" || userEmail == "" {
			ctx.Error(errors.Unauthorized("Missing user credentials!", nil))
			ctx.Abort()
			return
		}

		ctx.Set(userContextKey, domain.UserContext{
			UserID:    userID,
			UserEmail: userEmail,
			UserRole:  ctx.GetHeader("X-User-Role"),
		})
		ctx.Next()
	}
}

// CurrentUser returns the identity stored by IdentityMiddleware.
func CurrentUser(ctx *gin.Context) domain.UserContext {
	value, _ := ctx.Get(userContextKey)
	user, _ := value.(domain.UserContext)
	return user
}
