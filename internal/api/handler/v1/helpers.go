package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/api/middleware"
	"github.com/eventease/eventease-api/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

var errMissingAuthUser = errors.New("authentication required")

func getAuthUser(ctx *gin.Context) (domain.AuthUser, *response.Err) {
	user, ok := middleware.AuthUserFromContext(ctx)
	if !ok {
		return domain.AuthUser{}, response.ErrUnauthorized(errMissingAuthUser)
	}

	return user, nil
}

func parseUintParam(ctx *gin.Context, name string) (uint, *response.Err) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v: %w", name, err))
	}

	return uint(value), nil
}

// parsePagination reads page/limit query params with sane defaults and
// returns the derived offset for repository queries.
func parsePagination(ctx *gin.Context) (page, limit, offset int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err = strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return page, limit, (page - 1) * limit
}
