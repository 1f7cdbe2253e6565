package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventease/eventease-api/internal/api/handler/v1/request"
	"github.com/eventease/eventease-api/internal/api/handler/v1/response"
	"github.com/eventease/eventease-api/internal/domain"
	"github.com/eventease/eventease-api/internal/service"
)

type FeedbackService interface {
	Submit(ctx context.Context, userID, eventID uint, rating int, comment string, isAnonymous bool) (domain.Feedback, error)
	ListByEvent(ctx context.Context, actor domain.AuthUser, eventID uint, rating, offset, limit int) (service.FeedbackPage, error)
	ListPublicByEvent(ctx context.Context, eventID uint, rating, offset, limit int) (service.FeedbackPage, error)
	ListMine(ctx context.Context, userID uint, offset, limit int) ([]domain.Feedback, int64, error)
	Update(ctx context.Context, userID, feedbackID uint, update service.FeedbackUpdate) (domain.Feedback, error)
	Delete(ctx context.Context, userID, feedbackID uint) error
}

type FeedbackHandler struct {
	svc FeedbackService
}

func NewFeedbackHandler(svc FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		svc: svc,
	}
}

func parseRatingFilter(ctx *gin.Context) int {
	rating, err := strconv.Atoi(ctx.Query("rating"))
	if err != nil || rating < 1 || rating > 5 {
		return 0
	}

	return rating
}

// HandleSubmitFeedback godoc
// @Summary      Submit feedback for an attended event
// @Tags         feedback
// @Produce      json
// @Param        eventID  path      int true "Event ID"
// @Param        request  body      request.SubmitFeedbackRequest true "request body"
// @Success      201      {object}  response.FeedbackResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback/submit/{eventID} [post]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleSubmitFeedback(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.SubmitFeedbackRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	feedback, err := h.svc.Submit(ctx.Request.Context(), authUser.ID, eventID, req.Rating, req.Comment, req.IsAnonymous)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotRegisteredForFeedback):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotRegisteredForFeedback))
		case errors.Is(err, service.ErrFeedbackExists):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrFeedbackExists))
		default:
			err = fmt.Errorf("v1.HandleSubmitFeedback -> h.svc.Submit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusCreated, response.FeedbackResponse{
		Msg:      "Feedback submitted successfully",
		Feedback: feedback,
	})
}

// HandleListEventFeedback godoc
// @Summary      List an event's feedback with aggregate stats
// @Tags         feedback
// @Produce      json
// @Param        eventID  path      int true  "Event ID"
// @Param        rating   query     int false "filter by rating"
// @Param        page     query     int false "page number"
// @Param        limit    query     int false "page size"
// @Success      200      {object}  response.ListFeedbackResponse
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback/event/{eventID} [get]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleListEventFeedback(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	result, err := h.svc.ListByEvent(ctx.Request.Context(), authUser, eventID, parseRatingFilter(ctx), offset, limit)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotFeedbackOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotFeedbackOwner))
		default:
			err = fmt.Errorf("v1.HandleListEventFeedback -> h.svc.ListByEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.ListFeedbackResponse{
		Feedback:   result.Feedback,
		Stats:      result.Stats,
		Pagination: response.NewPagination(page, limit, result.Total),
	})
}

// HandleListPublicEventFeedback godoc
// @Summary      List an event's feedback with anonymous entries masked
// @Tags         feedback
// @Produce      json
// @Param        eventID  path      int true  "Event ID"
// @Param        rating   query     int false "filter by rating"
// @Param        page     query     int false "page number"
// @Param        limit    query     int false "page size"
// @Success      200      {object}  response.ListFeedbackResponse
// @Failure      400      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback/public/{eventID} [get]
func (h *FeedbackHandler) HandleListPublicEventFeedback(ctx *gin.Context) {
	eventID, respErr := parseUintParam(ctx, "eventID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	result, err := h.svc.ListPublicByEvent(ctx.Request.Context(), eventID, parseRatingFilter(ctx), offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPublicEventFeedback -> h.svc.ListPublicByEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.ListFeedbackResponse{
		Feedback:   result.Feedback,
		Stats:      result.Stats,
		Pagination: response.NewPagination(page, limit, result.Total),
	})
}

// HandleListMyFeedback godoc
// @Summary      List the current user's feedback
// @Tags         feedback
// @Produce      json
// @Param        page     query     int false "page number"
// @Param        limit    query     int false "page size"
// @Success      200      {object}  response.MyFeedbackResponse
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /feedback/my-feedback [get]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleListMyFeedback(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	page, limit, offset := parsePagination(ctx)

	feedback, total, err := h.svc.ListMine(ctx.Request.Context(), authUser.ID, offset, limit)
	if err != nil {
		err = fmt.Errorf("v1.HandleListMyFeedback -> h.svc.ListMine -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))

		return
	}

	ctx.JSON(http.StatusOK, response.MyFeedbackResponse{
		Feedback:   feedback,
		Pagination: response.NewPagination(page, limit, total),
	})
}

// HandleUpdateFeedback godoc
// @Summary      Update the current user's feedback
// @Tags         feedback
// @Produce      json
// @Param        feedbackID  path      int true "Feedback ID"
// @Param        request     body      request.UpdateFeedbackRequest true "request body"
// @Success      200         {object}  response.FeedbackResponse
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /feedback/{feedbackID} [patch]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleUpdateFeedback(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	feedbackID, respErr := parseUintParam(ctx, "feedbackID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	req := request.UpdateFeedbackRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	feedback, err := h.svc.Update(ctx.Request.Context(), authUser.ID, feedbackID, service.FeedbackUpdate{
		Rating:      req.Rating,
		Comment:     req.Comment,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackNotFound):
			response.RenderErr(ctx, response.ErrNotFound("feedback", "ID", feedbackID))
		case errors.Is(err, service.ErrNotFeedbackOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotFeedbackOwner))
		default:
			err = fmt.Errorf("v1.HandleUpdateFeedback -> h.svc.Update -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.FeedbackResponse{
		Msg:      "Feedback updated successfully",
		Feedback: feedback,
	})
}

// HandleDeleteFeedback godoc
// @Summary      Delete the current user's feedback
// @Tags         feedback
// @Produce      json
// @Param        feedbackID  path      int true "Feedback ID"
// @Success      200         {object}  response.Msg
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /feedback/{feedbackID} [delete]
// @Security     BearerAuth
func (h *FeedbackHandler) HandleDeleteFeedback(ctx *gin.Context) {
	authUser, respErr := getAuthUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	feedbackID, respErr := parseUintParam(ctx, "feedbackID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	err := h.svc.Delete(ctx.Request.Context(), authUser.ID, feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFeedbackNotFound):
			response.RenderErr(ctx, response.ErrNotFound("feedback", "ID", feedbackID))
		case errors.Is(err, service.ErrNotFeedbackOwner):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotFeedbackOwner))
		default:
			err = fmt.Errorf("v1.HandleDeleteFeedback -> h.svc.Delete -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}

		return
	}

	ctx.JSON(http.StatusOK, response.Msg{Msg: "Feedback deleted successfully"})
}
