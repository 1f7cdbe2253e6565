package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
)

var (
	errRouteForbidden       = errors.New("unauthorized to access this route")
	errBannedEventsOnly     = errors.New("your account is restricted, you can only view events")
	errBannedContactSupport = errors.New("your account is restricted, please contact support")
)

// RequireRoles rejects callers whose role is not in the allow list.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := AuthUserFromContext(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errAuthenticationInvalid))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(errRouteForbidden))
	}
}

// bannedReadablePrefixes are the only routes a banned account may still
// reach, and only with GET.
var bannedReadablePrefixes = []string{
	"/api/v1/events",
	"/api/v1/users/showMe",
	"/api/v1/users/dashboard",
	"/api/v1/notifications",
}

// GuardBanned restricts banned accounts to read-only access on a small
// set of routes. Unbanned accounts pass through untouched.
func GuardBanned() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, ok := AuthUserFromContext(ctx)
		if !ok || !user.IsBanned {
			ctx.Next()
			return
		}

		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/events") && ctx.Request.Method != http.MethodGet {
			response.RenderErr(ctx, response.ErrPermissionDenied(errBannedEventsOnly))
			return
		}

		for _, prefix := range bannedReadablePrefixes {
			if strings.HasPrefix(path, prefix) && ctx.Request.Method == http.MethodGet {
				ctx.Next()
				return
			}
		}

		response.RenderErr(ctx, response.ErrPermissionDenied(errBannedContactSupport))
	}
}
