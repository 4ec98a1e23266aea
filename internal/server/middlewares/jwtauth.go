package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harborline/harborline/internal/server/auth"
	"github.com/harborline/harborline/internal/server/handlers/api"
)

const (
	bearerPrefix   = "Bearer "
	authHeader     = "Authorization"
	userContextKey = "user"
)

// JWTAuth gates the admin surface behind a bearer token. With auth disabled
// in config the gate is a passthrough, which is the local-dev mode.
func JWTAuth(authService *auth.AuthService) gin.HandlerFunc {
	if !authService.IsEnabled() {
		slog.Warn("admin auth disabled, all admin routes are open")
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}

	return func(ctx *gin.Context) {
		headerValue := ctx.GetHeader(authHeader)
		if headerValue == "" {
			abortUnauthorized(ctx, fmt.Errorf("authorization header is missing"))
			return
		}
		if !strings.HasPrefix(headerValue, bearerPrefix) {
			abortUnauthorized(ctx, fmt.Errorf("authorization header format must be Bearer {token}"))
			return
		}

		tokenString := strings.TrimPrefix(headerValue, bearerPrefix)
		claims, err := authService.ValidateAccessToken(ctx.Request.Context(), tokenString)
		if err != nil {
			abortUnauthorized(ctx, err)
			return
		}

		ctx.Set(userContextKey, claims.Subject)
		ctx.Next()
	}
}

func abortUnauthorized(ctx *gin.Context, err error) {
	api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeAccessDenied, err)
}
