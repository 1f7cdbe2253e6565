package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/request"
	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/service"
)

type UserService interface {
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
	List(ctx context.Context, search, role string, offset, limit int) ([]domain.User, int64, error)
	UpdateProfile(ctx context.Context, userID uint, update service.ProfileUpdate) (domain.User, error)
	UpdatePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	Ban(ctx context.Context, actor domain.AuthUser, userID uint) error
	Unban(ctx context.Context, actor domain.AuthUser, userID uint) error
	ChangeRole(ctx context.Context, actor domain.AuthUser, userID uint, role string, eventIDs []uint) (domain.User, []domain.Event, error)
	GetDashboard(ctx context.Context, userID uint) (service.Dashboard, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleListUsers godoc
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Param        search   query     string false "match against name or email"
// @Param        role     query     string false "filter by role"
// @Param        page     query     int    false "page number"
// @Param        limit    query     int    false "page size"
// @Success      200      {object}  response.ListUsersResponse
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	page, limit, offset := parsePagination(ctx)

	users, total, err := h.svc.List(ctx.Request.Context(), ctx.Query("search"), ctx.Query("role"), offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListUsers -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListUsersResponse{
		Users:      users,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleShowMe godoc
// @Summary      Get the current user's profile
// @Tags         users
// @Produce      json
// @Success      200      {object}  response.UserResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/showMe [get]
// @Security     BearerAuth
func (h *UserHandler) HandleShowMe(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, err := h.svc.GetUserByID(ctx.Request.Context(), authUser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleShowMe -> h.svc.GetUserByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.UserResponse{User: user})
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path      int true "User ID"
// @Success      200      {object}  response.UserResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	user, err := h.svc.GetUserByID(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUserByID -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.UserResponse{User: user})
}

// HandleUpdateProfile godoc
// @Summary      Update the current user's profile
// @Tags         users
// @Produce      json
// @Param        request  body      request.UpdateProfileRequest true "request body"
// @Success      200      {object}  response.UserResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/updateUser [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleUpdateProfile(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdateProfileRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateProfile(ctx.Request.Context(), authUser.ID, service.ProfileUpdate{
		Email:        req.Email,
		Name:         req.Name,
		Age:          req.Age,
		Gender:       req.Gender,
		Phone:        req.Phone,
		Department:   req.Department,
		Year:         req.Year,
		Interests:    req.Interests,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrUserEmailExists))

			return
		}

		err = fmt.Errorf("v1.HandleUpdateProfile -> h.svc.UpdateProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.UserResponse{User: user})
}

// HandleUpdatePassword godoc
// @Summary      Update the current user's password
// @Tags         users
// @Produce      json
// @Param        request  body      request.UpdatePasswordRequest true "request body"
// @Success      200      {object}  response.Msg
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/updateUserPassword [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleUpdatePassword(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdatePasswordRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	err := h.svc.UpdatePassword(ctx.Request.Context(), authUser.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, service.ErrWrongPassword) {
			response.RenderErr(ctx, response.ErrUnauthorized(service.ErrWrongPassword))

			return
		}

		err = fmt.Errorf("v1.HandleUpdatePassword -> h.svc.UpdatePassword -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Success! Password Updated."})
}

// HandleBanUser godoc
// @Summary      Ban a user
// @Tags         users
// @Produce      json
// @Param        userID   path      int true "User ID"
// @Success      200      {object}  response.Msg
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/ban [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleBanUser(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Ban(ctx.Request.Context(), authUser, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrCannotBanAdmin):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrCannotBanAdmin))
		default:
			err = fmt.Errorf("v1.HandleBanUser -> h.svc.Ban -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "User banned successfully"})
}

// HandleUnbanUser godoc
// @Summary      Lift a user's ban
// @Tags         users
// @Produce      json
// @Param        userID   path      int true "User ID"
// @Success      200      {object}  response.Msg
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/unban [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleUnbanUser(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Unban(ctx.Request.Context(), authUser, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))

			return
		}

		err = fmt.Errorf("v1.HandleUnbanUser -> h.svc.Unban -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "User unbanned successfully"})
}

// HandleChangeRole godoc
// @Summary      Change a user's role, optionally assigning organiser events
// @Tags         users
// @Produce      json
// @Param        userID   path      int true "User ID"
// @Param        request  body      request.ChangeRoleRequest true "request body"
// @Success      200      {object}  response.ChangeRoleResponse
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/change-role [patch]
// @Security     BearerAuth
func (h *UserHandler) HandleChangeRole(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	userID, respErr := parseUintParam(ctx, "userID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.ChangeRoleRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, assigned, err := h.svc.ChangeRole(ctx.Request.Context(), authUser, userID, req.Role, req.EventIDs)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
		case errors.Is(err, service.ErrLastAdmin),
			errors.Is(err, service.ErrNoAssignableEvents):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleChangeRole -> h.svc.ChangeRole -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	msg := fmt.Sprintf("User role updated to %v", user.Role)
	if len(assigned) > 0 {
		msg = fmt.Sprintf("%v and assigned to %v event(s)", msg, len(assigned))
	}

	ctx.JSON(http.StatusOK, response.ChangeRoleResponse{
		Msg:            msg,
		User:           user,
		AssignedEvents: assigned,
	})
}

// HandleGetDashboard godoc
// @Summary      Get the current user's role-specific dashboard
// @Tags         users
// @Produce      json
// @Success      200      {object}  response.DashboardResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/dashboard [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetDashboard(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	dashboard, err := h.svc.GetDashboard(ctx.Request.Context(), authUser.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetDashboard -> h.svc.GetDashboard -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.NewDashboardResponse(dashboard))
}
