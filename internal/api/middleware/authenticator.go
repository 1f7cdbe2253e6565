package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/pkg/jwthelper"
)

// ContextKeyAuthUser is where the authenticator stores the caller's
// identity for downstream middleware and handlers.
const ContextKeyAuthUser = "authUser"

var errAuthenticationInvalid = errors.New("authentication invalid")

type UserFinder interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type Authenticator struct {
	signingKey []byte
	users      UserFinder
}

func NewAuthenticator(signingKey string, users UserFinder) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
		users:      users,
	}
}

// VerifyJWT validates the bearer token and re-reads the account so the
// ban flag reflects the database, not the token claim.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.RenderErr(ctx, response.ErrUnauthorized(errAuthenticationInvalid))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, strings.TrimPrefix(header, "Bearer "), ctx.Request.UserAgent())
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errAuthenticationInvalid))
			return
		}

		user, err := a.users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(errAuthenticationInvalid))
			return
		}

		ctx.Set(ContextKeyAuthUser, domain.AuthUser{
			ID:       user.ID,
			Name:     user.Name,
			Email:    user.Email,
			Role:     user.Role,
			IsBanned: user.IsBanned,
		})

		ctx.Next()
	}
}

// AuthUserFromContext returns the identity stored by VerifyJWT.
func AuthUserFromContext(ctx *gin.Context) (domain.AuthUser, bool) {
	value, exists := ctx.Get(ContextKeyAuthUser)
	if !exists {
		return domain.AuthUser{}, false
	}

	user, ok := value.(domain.AuthUser)

	return user, ok
}
